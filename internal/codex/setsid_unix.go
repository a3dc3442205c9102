//go:build !windows

package codex

import (
	"os/exec"
	"syscall"
)

// sessionAttr returns SysProcAttr that places the subprocess in its own
// session, preventing it from accessing the parent's controlling terminal.
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// terminate kills the subprocess's entire process group. With Setsid the
// child leads its own group, so the negative pid reaches every descendant.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
