//go:build darwin

package capacity

import (
	"os/exec"
	"strconv"
	"strings"
)

// readMemoryGB queries hw.memsize via sysctl. Returns 0 if unreadable.
func readMemoryGB() float64 {
	out, err := exec.Command("sysctl", "-n", "hw.memsize").Output()
	if err != nil {
		return 0
	}
	bytes, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return bytes / (1024 * 1024 * 1024)
}
