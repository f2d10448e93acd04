//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillGroup force-kills pid and its child processes with taskkill /T.
func KillGroup(pid int) {
	// Errors ignored: launcher.Kill runs afterwards and covers the leader.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
