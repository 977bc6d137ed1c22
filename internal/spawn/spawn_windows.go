//go:build windows

package spawn

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// The server gets no console window, normal priority, and a Unicode
// environment block. Its process group is its own so console signals sent
// to the client never reach it.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow: true,
		CreationFlags: windows.CREATE_NO_WINDOW |
			windows.CREATE_UNICODE_ENVIRONMENT |
			windows.NORMAL_PRIORITY_CLASS |
			windows.CREATE_NEW_PROCESS_GROUP,
	}
}
