package face

import "math"

// DescriptorLength is the expected component count of a face descriptor.
const DescriptorLength = 128

// Distance returns the L2 norm of the element-wise difference between two
// descriptors. Absent or mismatched inputs yield +Inf so that any threshold
// comparison rejects; the function never panics.
func Distance(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Match reports whether dist clears the threshold. Strictly less than:
// a distance equal to the threshold is not a match.
func Match(dist, threshold float64) bool {
	return dist < threshold
}

func ValidDescriptor(v []float64) bool {
	if len(v) != DescriptorLength {
		return false
	}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
