//go:build windows

package chrome

import (
	"os/exec"
	"strconv"
)

// killProcessGroup terminates the browser process tree with taskkill.
func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
