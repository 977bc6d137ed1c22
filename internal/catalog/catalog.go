// Package catalog resolves the client's diagnostic messages. The locale is
// selected once during startup, before any other component runs, and the
// active table is read-only afterwards.
package catalog

import (
	"fmt"

	"golang.org/x/text/language"
)

// ID names a single diagnostic message.
type ID int

const (
	MissingKeepAlive ID = iota
	KeepAliveIsNotAnInteger
	KeepAliveIsTooSmall
	KeepAliveIsOutOfRange
	GetCurrentDirectoryFailed
	GetOwnIdentityFailed
	GetExpectedServerPathFailed
	ConnectToServerPipeFailed
	ServerIsLost
	ServerCrashed
	UnknownFailure
)

var en = map[ID]string{
	MissingKeepAlive:            "missing argument for '/keepalive' option",
	KeepAliveIsNotAnInteger:     "argument to '/keepalive' option is not a valid integer",
	KeepAliveIsTooSmall:         "arguments to '/keepalive' option below -1 are invalid",
	KeepAliveIsOutOfRange:       "argument to '/keepalive' option is out of range",
	GetCurrentDirectoryFailed:   "could not determine the current directory: %v",
	GetOwnIdentityFailed:        "could not determine the current user identity: %v",
	GetExpectedServerPathFailed: "could not determine the compiler server location: %v",
	ConnectToServerPipeFailed:   "could not connect to the compiler server pipe",
	ServerIsLost:                "the compiler server process is no longer running",
	ServerCrashed:               "the compiler server terminated unexpectedly (code=0x%X)",
	UnknownFailure:              "unexpected failure communicating with the compiler server: %v",
}

var tables = []map[ID]string{en}

var supported = []language.Tag{language.AmericanEnglish}

var matcher = language.NewMatcher(supported)

var active = en

// SetPreferred selects the message table closest to the given locale
// identifier. Unparseable or unsupported locales keep the current table.
// Called at most once, before any message is resolved.
func SetPreferred(locale string) {
	tag, err := language.Parse(locale)
	if err != nil {
		return
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return
	}
	active = tables[i]
}

// Text returns the message for id in the active locale.
func Text(id ID) string {
	return active[id]
}

// Textf returns the message for id formatted with args.
func Textf(id ID, args ...any) string {
	return fmt.Sprintf(active[id], args...)
}

// FatalError is a client-fatal condition carrying a resolved message. The
// top level prints it to stderr and exits with the client-error code.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return e.Message
}

// Fatalf builds a FatalError from a catalog message.
func Fatalf(id ID, args ...any) *FatalError {
	return &FatalError{Message: Textf(id, args...)}
}
