//go:build !windows

package core

import (
	"os/exec"
	"syscall"
)

// configureCommand puts the process in its own group so cancellation can kill
// the whole tree.
func configureCommand(cmd *exec.Cmd, _ []string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessTree(cmd *exec.Cmd) {
	if cmd.Process != nil {
		// Negative PID targets the process group.
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
