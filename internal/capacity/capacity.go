// Package capacity inspects host memory, CPU, and GPU to classify which
// local model sizes the machine can serve. Detection is best-effort: a
// sub-signal that cannot be read counts as absent and never fails the caller.
package capacity

import (
	"runtime"
	"sync"
)

// ModelClass is a model parameter-count class a host can be matched against.
type ModelClass int

const (
	// Class1to3B covers 1-3B parameter models.
	Class1to3B ModelClass = iota
	// Class7B covers ~7-8B parameter models.
	Class7B
	// Class14B covers ~13-14B parameter models.
	Class14B
	// Class70B covers 70B-class models.
	Class70B
)

// String returns the human-readable class label.
func (c ModelClass) String() string {
	switch c {
	case Class1to3B:
		return "1-3B"
	case Class7B:
		return "7B"
	case Class14B:
		return "14B"
	case Class70B:
		return "70B"
	default:
		return "unknown"
	}
}

// MemoryBucket is the fixed system-memory bucket a host falls into.
type MemoryBucket int

const (
	// BucketUnder8 is < 8 GB.
	BucketUnder8 MemoryBucket = iota
	// Bucket8to16 is 8-16 GB.
	Bucket8to16
	// Bucket16to32 is 16-32 GB.
	Bucket16to32
	// BucketOver32 is >= 32 GB.
	BucketOver32
)

// String returns the bucket's documented range.
func (b MemoryBucket) String() string {
	switch b {
	case BucketUnder8:
		return "<8GB"
	case Bucket8to16:
		return "8-16GB"
	case Bucket16to32:
		return "16-32GB"
	case BucketOver32:
		return ">=32GB"
	default:
		return "unknown"
	}
}

// Profile describes the host's capacity for running local models.
type Profile struct {
	MemoryGB         float64
	Bucket           MemoryBucket
	CPUCores         int
	GPUPresent       bool
	GPUMemoryGB      float64
	RecommendedClass ModelClass
}

var (
	once    sync.Once
	profile Profile
)

// Detect returns the host capacity profile. The result is computed once per
// process lifetime and reused; it never returns an error.
func Detect() Profile {
	once.Do(func() {
		profile = detect()
	})
	return profile
}

func detect() Profile {
	memGB := readMemoryGB()
	gpuPresent, gpuMemGB := detectGPU()
	return buildProfile(memGB, runtime.NumCPU(), gpuPresent, gpuMemGB)
}

func buildProfile(memGB float64, cores int, gpuPresent bool, gpuMemGB float64) Profile {
	bucket := bucketFor(memGB)
	return Profile{
		MemoryGB:         memGB,
		Bucket:           bucket,
		CPUCores:         cores,
		GPUPresent:       gpuPresent,
		GPUMemoryGB:      gpuMemGB,
		RecommendedClass: recommendClass(bucket, gpuPresent, gpuMemGB),
	}
}

func bucketFor(memGB float64) MemoryBucket {
	switch {
	case memGB >= 32:
		return BucketOver32
	case memGB >= 16:
		return Bucket16to32
	case memGB >= 8:
		return Bucket8to16
	default:
		return BucketUnder8
	}
}

// recommendClass is a fixed lookup: the memory bucket decides the class, and
// dedicated GPU memory can only raise it (>=24 GB VRAM serves 70B-class,
// >=8 GB serves 14B-class).
func recommendClass(bucket MemoryBucket, gpuPresent bool, gpuMemGB float64) ModelClass {
	class := Class1to3B
	switch bucket {
	case Bucket8to16:
		class = Class7B
	case Bucket16to32:
		class = Class14B
	case BucketOver32:
		class = Class70B
	}

	if gpuPresent {
		if gpuMemGB >= 24 && class < Class70B {
			class = Class70B
		} else if gpuMemGB >= 8 && class < Class14B {
			class = Class14B
		}
	}
	return class
}
