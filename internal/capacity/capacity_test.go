package capacity

import "testing"

func TestBucketFor(t *testing.T) {
	cases := []struct {
		memGB float64
		want  MemoryBucket
	}{
		{0, BucketUnder8},
		{7.9, BucketUnder8},
		{8, Bucket8to16},
		{15.9, Bucket8to16},
		{16, Bucket16to32},
		{31.9, Bucket16to32},
		{32, BucketOver32},
		{128, BucketOver32},
	}
	for _, tc := range cases {
		if got := bucketFor(tc.memGB); got != tc.want {
			t.Fatalf("bucketFor(%v) = %v, want %v", tc.memGB, got, tc.want)
		}
	}
}

func TestRecommendClass_MemoryBuckets(t *testing.T) {
	cases := []struct {
		bucket MemoryBucket
		want   ModelClass
	}{
		{BucketUnder8, Class1to3B},
		{Bucket8to16, Class7B},
		{Bucket16to32, Class14B},
		{BucketOver32, Class70B},
	}
	for _, tc := range cases {
		if got := recommendClass(tc.bucket, false, 0); got != tc.want {
			t.Fatalf("recommendClass(%v) = %v, want %v", tc.bucket, got, tc.want)
		}
	}
}

func TestRecommendClass_GPURaisesClass(t *testing.T) {
	if got := recommendClass(BucketUnder8, true, 24); got != Class70B {
		t.Fatalf("expected 24GB VRAM to serve 70B class, got %v", got)
	}
	if got := recommendClass(Bucket8to16, true, 8); got != Class14B {
		t.Fatalf("expected 8GB VRAM to serve 14B class, got %v", got)
	}
	// Small GPUs never lower the memory-derived class.
	if got := recommendClass(BucketOver32, true, 4); got != Class70B {
		t.Fatalf("expected memory class kept with small GPU, got %v", got)
	}
}

func TestBuildProfile_DegradedSignalsStillProduceProfile(t *testing.T) {
	p := buildProfile(0, 4, false, 0)
	if p.Bucket != BucketUnder8 {
		t.Fatalf("expected smallest bucket for zero memory, got %v", p.Bucket)
	}
	if p.RecommendedClass != Class1to3B {
		t.Fatalf("expected 1-3B class for degraded profile, got %v", p.RecommendedClass)
	}
}

func TestDetect_IsStableAcrossCalls(t *testing.T) {
	first := Detect()
	second := Detect()
	if first != second {
		t.Fatalf("expected cached profile, got %+v then %+v", first, second)
	}
}
