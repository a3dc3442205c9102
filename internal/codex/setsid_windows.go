//go:build windows

package codex

import (
	"os/exec"
	"syscall"
)

// sessionAttr returns an empty SysProcAttr on Windows where Setsid is not
// available.
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}

// terminate kills the direct subprocess; Windows has no process groups to
// sweep, so WaitDelay covers any lingering descendants.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
