package geo

import "math"

const earthRadiusKM = 6371

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKM returns the great-circle (haversine) distance between two points
// in kilometers.
func DistanceKM(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
