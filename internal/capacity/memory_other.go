//go:build !linux && !darwin

package capacity

// readMemoryGB has no portable implementation on this platform; the detector
// degrades to the smallest bucket.
func readMemoryGB() float64 {
	return 0
}
