//go:build !windows

package chrome

import "syscall"

// killProcessGroup sends SIGKILL to the browser's process group so renderer
// and GPU children die with it.
func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
