//go:build linux

package procscan

import (
	"os"
	"testing"
)

func TestPidsIncludesSelf(t *testing.T) {
	pids, err := Pids()
	if err != nil {
		t.Fatalf("Pids() error = %v", err)
	}

	self := os.Getpid()
	for _, pid := range pids {
		if pid == self {
			return
		}
	}
	t.Errorf("snapshot of %d pids does not contain self (%d)", len(pids), self)
}

func TestIdentityOfSelfMatchesSelf(t *testing.T) {
	self, err := Self()
	if err != nil {
		t.Fatalf("Self() error = %v", err)
	}

	id, ok := IdentityOf(os.Getpid())
	if !ok {
		t.Fatal("IdentityOf(self) not readable")
	}
	if id != self {
		t.Errorf("IdentityOf(self) = %+v, want %+v", id, self)
	}
}

func TestIdentityOfMissingProcess(t *testing.T) {
	// Beyond any default pid_max.
	if _, ok := IdentityOf(1 << 26); ok {
		t.Error("IdentityOf(missing) = ok, want absent")
	}
}

func TestImagePathOfSelf(t *testing.T) {
	path, ok := ImagePathOf(os.Getpid())
	if !ok {
		t.Fatal("ImagePathOf(self) not readable")
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error = %v", err)
	}
	if path != exe {
		t.Errorf("ImagePathOf(self) = %q, want %q", path, exe)
	}
}

func TestProbeExitMissingProcessIsLost(t *testing.T) {
	state, _ := ProbeExit(1 << 26)
	if state != ExitStateLost {
		t.Errorf("ProbeExit(missing) = %v, want ExitStateLost", state)
	}
}

func TestProbeExitPrefersRecordedStatus(t *testing.T) {
	// A reaped child is invisible to the kill(2) probe; the recorded
	// status must still attribute the crash.
	pid := (1 << 26) + 1
	RecordExit(pid, 0xC0000005)

	state, code := ProbeExit(pid)
	if state != ExitStateExited {
		t.Fatalf("ProbeExit(reaped) = %v, want ExitStateExited", state)
	}
	if code != 0xC0000005 {
		t.Errorf("ProbeExit(reaped) code = %#x, want 0xC0000005", code)
	}
}

func TestProbeExitLiveProcessIsNotLost(t *testing.T) {
	state, _ := ProbeExit(os.Getpid())
	if state == ExitStateLost {
		t.Error("ProbeExit(self) = ExitStateLost for a live process")
	}
}
