// Package spatial implements the geodesic distance, frontline projection,
// direction-axis and clustering primitives used during candidate scoring.
package spatial

import "math"

// EarthRadiusKM is the mean Earth radius (IUGG 1980) used throughout the
// package for Haversine distance computations.
const EarthRadiusKM = 6371.0088

// Point is a (lat, lon) pair in WGS84 decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineKM returns the great-circle distance between two points in
// kilometers.
func HaversineKM(a, b Point) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	h := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}
