// Package spawn launches a new compiler server process, fully detached from
// the client's standard streams. Only the process id is retained; the
// server outlives the client.
package spawn

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tern-lang/ternc/internal/procscan"
)

const serverBasename = "ternserver"

// Deployment overrides: inside a TERN_TOOL_ROOT deployment the server must
// run against the bundled runtime, selected through its environment.
const (
	toolRootVar       = "TERN_TOOL_ROOT"
	runtimeRootVar    = "TERN_RUNTIME_ROOT"
	runtimeVersionVar = "TERN_RUNTIME_VERSION"
	runtimeVersion    = "v2"
)

// Test hook.
var execCommandFn = exec.Command

// ServerPath derives the expected server image path from the directory of
// the client's own image. Computed exactly once per invocation by the
// caller; only servers at this exact path are trusted.
func ServerPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("finding own executable: %w", err)
	}
	name := serverBasename
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(exe), name), nil
}

// Spawn launches the server at imagePath and returns its process id. The
// server gets no standard streams, no console window, the client's
// environment (with deployment overrides applied), and the image directory
// as its working directory. Returns an error on launch failure.
func Spawn(imagePath string) (int, error) {
	applyDeploymentEnv()

	cmd, cleanup, err := newServerCommand(imagePath)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("spawning server: %w", err)
	}

	pid := cmd.Process.Pid

	// Detach: reap in the background, keeping the exit status so a crash
	// can still be attributed after the kernel forgets the process.
	go func() {
		_ = cmd.Wait()
		if state := cmd.ProcessState; state != nil {
			procscan.RecordExit(pid, exitCodeOf(state))
		}
	}()
	return pid, nil
}

func exitCodeOf(state *os.ProcessState) uint32 {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		// Shell convention for signal deaths.
		return uint32(128 + int(ws.Signal()))
	}
	return uint32(state.ExitCode())
}

func newServerCommand(imagePath string) (*exec.Cmd, func(), error) {
	cmd := execCommandFn(imagePath)
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", os.DevNull, err)
	}

	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.Dir = filepath.Dir(imagePath)
	cmd.SysProcAttr = sysProcAttr()
	return cmd, func() {
		_ = devNull.Close()
	}, nil
}

// applyDeploymentEnv sets the runtime-selection variables the spawned
// server inherits. Only applies when the deployment root is present.
func applyDeploymentEnv() {
	root, ok := os.LookupEnv(toolRootVar)
	if !ok {
		return
	}
	os.Setenv(runtimeRootVar, filepath.Join(root, "runtime", "managed"))
	os.Setenv(runtimeVersionVar, runtimeVersion)
}
