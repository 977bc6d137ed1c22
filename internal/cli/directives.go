package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tern-lang/ternc/internal/catalog"
)

// Directives are the client-only switches extracted from the raw argument
// vector. Client directives are NOT supported in response files: the
// residual must reach the server exactly as given, so the raw vector is
// the only place they may appear.
type Directives struct {
	// KeepAlive is the validated integer string, or empty when the switch
	// was absent. Forwarded to the server as a directive, not an argument.
	KeepAlive string

	// PreferredUILang is the dequoted locale from the last
	// /preferreduilang switch, or empty. The switch itself stays in the
	// residual; the server is entitled to see it.
	PreferredUILang string
}

const (
	keepAlivePrefix  = "/keepalive"
	uiLangOptionName = "preferreduilang:"
)

// ExtractDirectives scans args once, removing /keepalive tokens and
// recording the preferred UI language. All other tokens pass through
// unchanged and in original order. Pure: depends only on args, and
// applying it to its own residual is the identity.
func ExtractDirectives(args []string) ([]string, Directives, error) {
	var d Directives
	residual := make([]string, 0, len(args))

	for _, arg := range args {
		if strings.HasPrefix(arg, keepAlivePrefix) {
			value, err := parseKeepAlive(arg)
			if err != nil {
				return nil, Directives{}, err
			}
			d.KeepAlive = value
			continue
		}
		if lang, ok := preferredUILangOf(arg); ok && lang != "" {
			d.PreferredUILang = lang
		}
		residual = append(residual, arg)
	}
	return residual, d, nil
}

// ScanPreferredUILang returns the locale of the last /preferreduilang
// switch without validating anything else. Runs before full extraction so
// even the directive-parsing fatals come out localized.
func ScanPreferredUILang(args []string) string {
	var lang string
	for _, arg := range args {
		if l, ok := preferredUILangOf(arg); ok && l != "" {
			lang = l
		}
	}
	return lang
}

// parseKeepAlive validates a token whose prefix is /keepalive. The prefix
// must be immediately followed by ':' or '=' and a decimal integer no
// smaller than -1.
func parseKeepAlive(arg string) (string, error) {
	if len(arg) < len(keepAlivePrefix)+2 ||
		(arg[len(keepAlivePrefix)] != ':' && arg[len(keepAlivePrefix)] != '=') {
		return "", catalog.Fatalf(catalog.MissingKeepAlive)
	}

	value := arg[len(keepAlivePrefix)+1:]
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return "", catalog.Fatalf(catalog.KeepAliveIsOutOfRange)
		}
		return "", catalog.Fatalf(catalog.KeepAliveIsNotAnInteger)
	}
	if n < -1 {
		return "", catalog.Fatalf(catalog.KeepAliveIsTooSmall)
	}
	return value, nil
}

// preferredUILangOf recognizes /preferreduilang: and -preferreduilang:
// (option name case-insensitive) and returns the dequoted locale value.
func preferredUILangOf(arg string) (string, bool) {
	if len(arg) == 0 || (arg[0] != '/' && arg[0] != '-') {
		return "", false
	}
	rest := arg[1:]
	if len(rest) < len(uiLangOptionName) ||
		!strings.EqualFold(rest[:len(uiLangOptionName)], uiLangOptionName) {
		return "", false
	}
	return Dequote(rest[len(uiLangOptionName):]), true
}
