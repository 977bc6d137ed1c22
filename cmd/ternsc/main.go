// ternsc is the script-dialect sibling of ternc: same connection logic,
// same server, different language tag in the request.
package main

import (
	"os"

	"github.com/tern-lang/ternc/internal/cli"
	"github.com/tern-lang/ternc/internal/protocol"
)

func main() {
	os.Exit(cli.Run(protocol.LanguageTernScript, os.Args[1:]))
}
