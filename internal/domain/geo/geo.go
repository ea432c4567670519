package geo

import "math"

// MetersPerDegree is the planar approximation scalar: one coordinate degree
// taken as 111,000 meters. Accurate near the equator only; drifts with
// latitude. The haversine evaluator avoids the drift.
const MetersPerDegree = 111000.0

const earthRadiusM = 6371000.0

type Point struct {
	Lat float64
	Lng float64
}

// Fence is the process-wide geofence policy: one center, one radius.
type Fence struct {
	Center   Point
	RadiusM  float64
	Geodesic bool
}

// Contains reports whether p lies within the fence. The boundary accepts:
// a point at exactly the radius is inside.
func (f Fence) Contains(p Point) bool {
	var d float64
	if f.Geodesic {
		d = HaversineMeters(p, f.Center)
	} else {
		d = PlanarMeters(p, f.Center)
	}
	return d <= f.RadiusM
}

// PlanarMeters scales Euclidean distance in degree space by MetersPerDegree.
func PlanarMeters(a, b Point) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * MetersPerDegree
}

// HaversineMeters returns great-circle distance between a and b.
func HaversineMeters(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}
