//go:build linux

package spawn

import "syscall"

// The server leads its own session so terminal signals sent to the client
// never reach it.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
