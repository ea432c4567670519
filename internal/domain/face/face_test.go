package face

import (
	"math"
	"testing"
)

func descriptor(fill float64) []float64 {
	v := make([]float64, DescriptorLength)
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestDistanceSelfIsZero(t *testing.T) {
	v := descriptor(0.25)
	if got := Distance(v, v); got != 0 {
		t.Fatalf("expected zero distance, got %v", got)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := descriptor(0.1)
	b := descriptor(0.3)
	if Distance(a, b) != Distance(b, a) {
		t.Fatal("distance must be symmetric")
	}
}

func TestDistanceKnownValue(t *testing.T) {
	a := descriptor(0)
	b := descriptor(0.05)
	// sqrt(128 * 0.05^2)
	want := math.Sqrt(128 * 0.05 * 0.05)
	if got := Distance(a, b); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDistanceFailClosed(t *testing.T) {
	v := descriptor(0.5)
	cases := [][2][]float64{
		{nil, v},
		{v, nil},
		{nil, nil},
		{v, v[:64]},
	}
	for _, c := range cases {
		if got := Distance(c[0], c[1]); !math.IsInf(got, 1) {
			t.Fatalf("expected +Inf sentinel, got %v", got)
		}
	}
}

func TestMatchThresholdIsStrict(t *testing.T) {
	if Match(0.6, 0.6) {
		t.Fatal("distance equal to threshold must not match")
	}
	if !Match(0.59, 0.6) {
		t.Fatal("distance below threshold must match")
	}
	if Match(math.Inf(1), 0.6) {
		t.Fatal("sentinel distance must never match")
	}
}

func TestValidDescriptor(t *testing.T) {
	if !ValidDescriptor(descriptor(0.1)) {
		t.Fatal("expected 128-vector to be valid")
	}
	if ValidDescriptor(descriptor(0.1)[:127]) {
		t.Fatal("short vector must be invalid")
	}
	bad := descriptor(0.1)
	bad[7] = math.NaN()
	if ValidDescriptor(bad) {
		t.Fatal("NaN component must be invalid")
	}
}
