package search

import "math"

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371000

// haversineM returns the great-circle distance in meters between two
// coordinate pairs.
func haversineM(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// roundCoord rounds a coordinate to the given number of decimal places.
// Cache keys use rounded coordinates so near-identical queries share entries.
func roundCoord(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}
