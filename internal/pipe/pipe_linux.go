//go:build linux

package pipe

import (
	"fmt"
	"net"
	"path/filepath"
	"time"

	"github.com/tern-lang/ternc/internal/paths"
)

// ChannelName returns the socket path for the server with the given pid.
func ChannelName(pid int) string {
	return filepath.Join(paths.RuntimeDir(), fmt.Sprintf("ternserver.%d.sock", pid))
}

func dial(name string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", name, timeout)
}
