// README: Great-circle helpers for reposition distance and block time.
package airport

import (
	"math"

	"charterdesk/internal/types"
)

const (
	earthRadiusKm = 6371.0
	kmPerNm       = 1.852
)

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceNm is the great-circle distance between two points in nautical miles.
func DistanceNm(a, b types.Point) float64 {
	return haversineKm(a, b) / kmPerNm
}

// NmToKm converts nautical miles to kilometres.
func NmToKm(nm float64) float64 {
	return nm * kmPerNm
}

// KmToNm converts kilometres to nautical miles.
func KmToNm(km float64) float64 {
	return km / kmPerNm
}

// SortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function. Equal
// distances keep their input order.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
