//go:build !windows

// Package process terminates browser process trees left behind by the launcher.
package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid.
// pid <= 0 is ignored: -0 would target our own group.
func KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	return syscall.Kill(-pid, syscall.SIGKILL)
}
