package client

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/tern-lang/ternc/internal/protocol"
)

// Test hooks.
var (
	stdout = os.Stdout
	stderr = os.Stderr
)

// EmitResponse mirrors the server's payloads onto the client's streams.
// Payloads already carry the server's line endings and are never rewritten.
// Encoding: a non-console stream receiving UTF-8-flagged output gets the
// raw bytes; everything else goes through the active console codepage.
func EmitResponse(resp *protocol.Response) {
	writePayload(stdout, resp.Output, resp.Utf8Output)
	writePayload(stderr, resp.ErrorOutput, resp.Utf8Output)
}

func writePayload(f *os.File, payload []byte, utf8Output bool) {
	if len(payload) == 0 {
		return
	}
	if !isConsole(f) && utf8Output {
		f.Write(payload)
		return
	}
	f.Write(consoleEncode(payload))
}

func isConsole(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// EmitFatal writes a fatal diagnostic to standard error in UTF-8,
// regardless of console state.
func EmitFatal(msg string) {
	stderr.WriteString(msg)
	stderr.WriteString("\n")
}
