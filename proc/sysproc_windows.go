//go:build windows

package proc

import (
	"os/exec"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	// Windows manages process groups differently. Returning nil is safe.
	return nil
}

func interruptGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// Windows has no job-wide suspend signal, so pause is a no-op there.
func suspendGroup(*exec.Cmd) error { return nil }

func resumeGroup(*exec.Cmd) error { return nil }

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
