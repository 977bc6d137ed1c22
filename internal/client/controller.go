// Package client drives one compilation through a compiler server: find or
// spawn a trusted server, exchange one request/response pair, and turn
// every partial failure into either a retry or a precise diagnostic.
package client

import (
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tern-lang/ternc/internal/catalog"
	"github.com/tern-lang/ternc/internal/hostlock"
	"github.com/tern-lang/ternc/internal/pipe"
	"github.com/tern-lang/ternc/internal/procscan"
	"github.com/tern-lang/ternc/internal/protocol"
	"github.com/tern-lang/ternc/internal/spawn"
)

const (
	lockTimeout = 60 * time.Second
	retrySleep  = 500 * time.Millisecond
)

// serverLock is what the controller needs from the host-wide lock.
type serverLock interface {
	Held() bool
	Release()
}

// Test hooks, following the daemon-spawn pattern: package-level function
// variables replaced by tests.
var (
	selfIdentityFn = procscan.Self
	pidsFn         = procscan.Pids
	identityOfFn   = procscan.IdentityOf
	imagePathOfFn  = procscan.ImagePathOf
	probeExitFn    = procscan.ProbeExit
	connectFn      = pipe.Connect
	spawnFn        = spawn.Spawn
	acquireLockFn  = func(name string, timeout time.Duration) (serverLock, error) {
		return hostlock.Acquire(name, timeout)
	}
	exchangeFn = protocol.Exchange
	sleepFn    = time.Sleep
)

// Controller sequences discovery, spawning, connection and exchange for a
// single invocation.
type Controller struct {
	Language  protocol.Language
	ImagePath string // expected server image path, computed once
	WorkDir   string
	Args      []string // residual command line, forwarded verbatim
	LibEnv    *string  // LIB environment value, when set
	KeepAlive string   // empty means no keep-alive directive

	ExistingConnectTimeout time.Duration
	SpawnConnectTimeout    time.Duration

	Log *zap.Logger
}

// Run executes the connection state machine and returns the server's
// response, or a *catalog.FatalError describing why no exchange happened.
// Exactly one of the two outcomes occurs; there is no silent exit.
func (c *Controller) Run() (*protocol.Response, error) {
	self, err := selfIdentityFn()
	if err != nil {
		return nil, catalog.Fatalf(catalog.GetOwnIdentityFailed, err)
	}

	c.Log.Info("acquiring spawn lock", zap.String("image", c.ImagePath))
	lock, err := acquireLockFn(hostlock.NameFor(c.ImagePath), lockTimeout)
	if err != nil {
		c.Log.Warn("spawn lock unavailable", zap.Error(err))
	}
	// Safety net: the lock is also released eagerly on every path below.
	defer func() {
		if lock != nil {
			lock.Release()
		}
	}()

	// Whether any channel was ever connected, and the pid of the last
	// server we spawned. Both feed failure attribution at the end.
	everConnected := false
	spawnedPid := 0

	if lock != nil && lock.Held() {
		// Check for already running servers in case someone came in
		// before us.
		c.Log.Info("trying existing servers")
		conn, pid := c.tryExisting(self)
		if conn != nil {
			everConnected = true
			c.Log.Info("connected to existing server", zap.Int("pid", pid))
			lock.Release()
			if resp := c.exchange(conn); resp != nil {
				return resp, nil
			}
			c.Log.Warn("existing server failed, retrying")
		} else {
			c.Log.Info("spawning server under lock")
			pid, err := spawnFn(c.ImagePath)
			if err != nil {
				c.Log.Warn("spawn failed", zap.Error(err))
			} else {
				spawnedPid = pid
				c.Log.Info("connecting to new server", zap.Int("pid", pid))
				conn, dialErr := connectFn(pid, c.SpawnConnectTimeout)
				if dialErr != nil {
					c.Log.Warn("connect to new server failed", zap.Error(dialErr))
				} else {
					everConnected = true
					// Let everyone else access our server.
					lock.Release()
					if resp := c.exchange(conn); resp != nil {
						return resp, nil
					}
				}
			}
			c.Log.Warn("spawned server failed, retrying")
		}

		lock.Release()

		// Sleep shortly before retrying in case the failure was due to
		// resource contention.
		sleepFn(retrySleep)
	}

	// One attempt without the lock. The lock is advisory; extra servers
	// spawned here are the accepted cost of guaranteed progress.
	c.Log.Info("trying without lock")
	pid, err := spawnFn(c.ImagePath)
	if err != nil {
		c.Log.Warn("fallback spawn failed", zap.Error(err))
	} else {
		spawnedPid = pid
		c.Log.Info("connecting to fallback server", zap.Int("pid", pid))
		conn, dialErr := connectFn(pid, c.SpawnConnectTimeout)
		if dialErr != nil {
			c.Log.Warn("connect to fallback server failed", zap.Error(dialErr))
		} else {
			everConnected = true
			if resp := c.exchange(conn); resp != nil {
				return resp, nil
			}
		}
	}

	return nil, c.diagnose(everConnected, spawnedPid, err)
}

// tryExisting walks the process snapshot and connects to the first process
// that passes BOTH the image-path check and the identity-and-elevation
// check. A failed snapshot yields no candidates, never an error: the
// caller just proceeds to spawn.
func (c *Controller) tryExisting(self procscan.Identity) (net.Conn, int) {
	pids, err := pidsFn()
	if err != nil {
		c.Log.Warn("process enumeration failed", zap.Error(err))
		return nil, 0
	}
	c.Log.Info("enumerated processes", zap.Int("count", len(pids)))

	for _, pid := range pids {
		if !c.matches(self, pid) {
			continue
		}
		c.Log.Info("found candidate server", zap.Int("pid", pid))
		conn, err := connectFn(pid, c.ExistingConnectTimeout)
		if err != nil {
			c.Log.Warn("connect to candidate failed", zap.Int("pid", pid), zap.Error(err))
			continue
		}
		return conn, pid
	}
	return nil, 0
}

// matches requires case-insensitive full-path equality with the expected
// image AND an identical user identity and elevation state. Any probe
// failure disqualifies the candidate.
func (c *Controller) matches(self procscan.Identity, pid int) bool {
	path, ok := imagePathOfFn(pid)
	if !ok || !strings.EqualFold(path, c.ImagePath) {
		return false
	}
	id, ok := identityOfFn(pid)
	return ok && id == self
}

// exchange sends the request and reads the response over conn, which it
// always closes. A nil return means the write failed or the response was
// malformed; the caller decides whether a retry is left.
func (c *Controller) exchange(conn net.Conn) *protocol.Response {
	defer conn.Close()

	req := &protocol.Request{
		Language:  c.Language,
		Dir:       c.WorkDir,
		Args:      c.Args,
		LibEnv:    c.LibEnv,
		KeepAlive: c.KeepAlive,
	}
	c.Log.Info("sending compilation request", zap.Int("args", len(c.Args)))
	resp, err := exchangeFn(conn, req)
	if err != nil {
		c.Log.Warn("exchange failed", zap.Error(err))
		return nil
	}
	c.Log.Info("received response", zap.Int("exit_code", resp.ExitCode))
	return resp
}

// diagnose converts the terminal failure into the most specific diagnostic
// available: never connected, server lost, server crashed with a known
// code, or an unattributed OS error.
func (c *Controller) diagnose(everConnected bool, spawnedPid int, lastErr error) error {
	if !everConnected {
		return catalog.Fatalf(catalog.ConnectToServerPipeFailed)
	}
	if lastErr == nil {
		lastErr = errors.New("response exchange failed")
	}
	if spawnedPid != 0 {
		switch state, code := probeExitFn(spawnedPid); state {
		case procscan.ExitStateLost:
			return catalog.Fatalf(catalog.ServerIsLost)
		case procscan.ExitStateExited:
			return catalog.Fatalf(catalog.ServerCrashed, code)
		}
	}
	return catalog.Fatalf(catalog.UnknownFailure, lastErr)
}
