//go:build !windows

package process

import "syscall"

// KillGroup sends SIGKILL to the process group led by pid, taking the
// browser's renderer and GPU helpers down with it.
func KillGroup(pid int) {
	// Errors ignored: launcher.Kill runs afterwards and covers the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
