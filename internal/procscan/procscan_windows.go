//go:build windows

package procscan

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Pids returns a point-in-time snapshot of the process identifiers on the
// host. The buffer is doubled until the system reports fewer identifiers
// than it can hold, which signals a complete snapshot.
func Pids() ([]int, error) {
	buf := make([]uint32, 64)
	for {
		var bytesReturned uint32
		if err := windows.EnumProcesses(buf, &bytesReturned); err != nil {
			return nil, fmt.Errorf("enumerating processes: %w", err)
		}
		n := int(bytesReturned) / 4
		if n < len(buf) {
			pids := make([]int, 0, n)
			for _, pid := range buf[:n] {
				if pid != 0 {
					pids = append(pids, int(pid))
				}
			}
			return pids, nil
		}
		buf = make([]uint32, len(buf)*2)
	}
}

// Self returns the identity of the current process. Failure here is fatal
// to the caller: without knowing who we are, no candidate can be trusted.
func Self() (Identity, error) {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return Identity{}, fmt.Errorf("opening own process token: %w", err)
	}
	defer token.Close()

	id, err := tokenIdentity(token)
	if err != nil {
		return Identity{}, fmt.Errorf("querying own token: %w", err)
	}
	return id, nil
}

// IdentityOf reads the identity of another process. Failure yields
// ok=false and is never fatal.
func IdentityOf(pid int) (Identity, bool) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return Identity{}, false
	}
	defer windows.CloseHandle(h)

	var token windows.Token
	if err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token); err != nil {
		return Identity{}, false
	}
	defer token.Close()

	id, err := tokenIdentity(token)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

func tokenIdentity(token windows.Token) (Identity, error) {
	user, err := token.GetTokenUser()
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		User:     user.User.Sid.String(),
		Elevated: token.IsElevated(),
	}, nil
}

// ImagePathOf reads the executable image path of another process in Win32
// format. Failure yields ok=false.
func ImagePathOf(pid int) (string, bool) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return "", false
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", false
	}
	return windows.UTF16ToString(buf[:size]), true
}

// ProbeExit checks what became of a server process we spawned. The reaped
// exit status recorded by the spawner wins; after the reap the pid is no
// longer openable and the fallback below would report the server as lost.
func ProbeExit(pid int) (ExitState, uint32) {
	if code, ok := recordedExit(pid); ok {
		return ExitStateExited, code
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return ExitStateLost, 0
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return ExitStateUnknown, 0
	}
	return ExitStateExited, code
}
