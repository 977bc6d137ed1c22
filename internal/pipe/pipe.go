// Package pipe connects to the duplex byte-channel a running compiler
// server exposes. The channel is addressed by the server's process id.
package pipe

import (
	"net"
	"time"
)

// Every logical connect action makes at least this many dial attempts, even
// past its deadline. Under heavy load a single attempt can eat the whole
// timeout waiting on the listener backlog.
const minDialAttempts = 3

const (
	retryDelay     = 50 * time.Millisecond
	minDialTimeout = 100 * time.Millisecond
)

// Test hooks.
var (
	dialFn  = dial
	sleepFn = time.Sleep
	nowFn   = time.Now
)

// Connect dials the channel of the server with the given pid, waiting up to
// timeout overall. Returns the connected endpoint or the last dial error.
func Connect(pid int, timeout time.Duration) (net.Conn, error) {
	name := ChannelName(pid)
	deadline := nowFn().Add(timeout)

	var lastErr error
	for attempt := 1; ; attempt++ {
		remaining := deadline.Sub(nowFn())
		if remaining < minDialTimeout {
			remaining = minDialTimeout
		}

		conn, err := dialFn(name, remaining)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		if attempt >= minDialAttempts && !nowFn().Before(deadline) {
			return nil, lastErr
		}
		sleepFn(retryDelay)
	}
}
