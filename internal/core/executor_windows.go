//go:build windows

package core

import (
	"os/exec"
	"strings"
	"syscall"
)

// configureCommand passes argv as the raw command line. The arguments were
// already quoted for cmd.exe, and letting os/exec escape them again would
// double the quoting.
func configureCommand(cmd *exec.Cmd, argv []string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: strings.Join(argv, " ")}
}

func killProcessTree(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
