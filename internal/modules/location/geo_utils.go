// README: Pure geographic computation helpers.
package location

import "math"

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance in meters between two
// points specified in decimal degrees.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// sortNearby orders results ascending by distance, breaking ties by driver ID
// so repeated queries over the same positions are deterministic. Insertion
// sort is fine for small N.
func sortNearby(items []Nearby) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && nearbyLess(key, items[j]) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}

func nearbyLess(a, b Nearby) bool {
	if a.DistanceMeters != b.DistanceMeters {
		return a.DistanceMeters < b.DistanceMeters
	}
	return a.DriverID < b.DriverID
}
