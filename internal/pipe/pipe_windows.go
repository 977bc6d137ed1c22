//go:build windows

package pipe

import (
	"net"
	"strconv"
	"time"

	"github.com/Microsoft/go-winio"
)

// Machine-local named pipes live under \\.\pipe\. The server appends its
// process id to the fixed base name.
const pipeBase = `\\.\pipe\TernCompileServer`

// ChannelName returns the named-pipe path for the server with the given pid.
func ChannelName(pid int) string {
	return pipeBase + strconv.Itoa(pid)
}

func dial(name string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(name, &timeout)
}
