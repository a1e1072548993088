//go:build windows

// Package process terminates browser process trees left behind by the launcher.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its children with taskkill.
func KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
