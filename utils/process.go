package utils

import (
	"os/exec"
	"syscall"
)

// DetachedCommand builds a command that runs in its own process group with
// no stdio attached, so a helper restart or a Ctrl-C in the terminal does
// not reach it.
func DetachedCommand(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}
