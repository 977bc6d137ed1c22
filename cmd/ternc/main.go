// ternc is the fast-starting client for the persistent Tern compiler
// server. It forwards one compilation to a hot server process and mirrors
// the server's output and exit code.
package main

import (
	"os"

	"github.com/tern-lang/ternc/internal/cli"
	"github.com/tern-lang/ternc/internal/protocol"
)

func main() {
	os.Exit(cli.Run(protocol.LanguageTern, os.Args[1:]))
}
