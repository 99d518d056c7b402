package capacity

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// detectGPU looks for an NVIDIA GPU via nvidia-smi, and treats Apple silicon
// as GPU-present (unified memory, no separate VRAM figure). Any probe failure
// reads as no GPU.
func detectGPU() (present bool, memoryGB float64) {
	out, err := exec.Command("nvidia-smi", "--query-gpu=memory.total", "--format=csv,noheader,nounits").Output()
	if err == nil {
		first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
		mib, err := strconv.ParseFloat(strings.TrimSpace(first), 64)
		if err == nil && mib > 0 {
			return true, mib / 1024
		}
	}

	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return true, 0
	}
	return false, 0
}
