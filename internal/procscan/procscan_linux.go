//go:build linux

package procscan

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Pids returns a point-in-time snapshot of the process identifiers visible
// to the caller, in directory order.
func Pids() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("reading /proc: %w", err)
	}

	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// Self returns the identity of the current process.
func Self() (Identity, error) {
	return Identity{
		User:     strconv.Itoa(os.Getuid()),
		Elevated: os.Geteuid() == 0,
	}, nil
}

// IdentityOf reads the identity of another process. Failure yields
// ok=false and is never fatal.
func IdentityOf(pid int) (Identity, bool) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/status", pid))
	if err != nil {
		return Identity{}, false
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		// Uid: real effective saved fs
		fields := strings.Fields(line[len("Uid:"):])
		if len(fields) < 2 {
			return Identity{}, false
		}
		return Identity{User: fields[0], Elevated: fields[1] == "0"}, true
	}
	return Identity{}, false
}

// ImagePathOf reads the executable image path of another process. Failure
// (typically EACCES for foreign processes) yields ok=false.
func ImagePathOf(pid int) (string, bool) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return "", false
	}
	return path, true
}

// ProbeExit checks what became of a server process we spawned. The reaped
// exit status recorded by the spawner wins; only then do the live-process
// probes run.
func ProbeExit(pid int) (ExitState, uint32) {
	if code, ok := recordedExit(pid); ok {
		return ExitStateExited, code
	}
	err := unix.Kill(pid, 0)
	if errors.Is(err, unix.ESRCH) {
		return ExitStateLost, 0
	}
	if _, statErr := os.Stat(fmt.Sprintf("/proc/%d", pid)); statErr != nil {
		return ExitStateLost, 0
	}
	return ExitStateUnknown, 0
}
