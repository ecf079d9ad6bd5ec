package booking

import "math"

// Pricing constants for the marketplace.
//
//   - RatePerKm: EUR charged per travelled kilometre.
//   - DefaultDistanceKm: distance substituted when an address cannot be
//     geocoded. The surcharge falls back to this rather than failing the
//     booking.
const (
	RatePerKm         = 0.45
	DefaultDistanceKm = 15.0
)

// BaseServiceCost returns the rate-times-duration cost in EUR.
func BaseServiceCost(hourlyRate, durationHours float64) float64 {
	return roundCents(hourlyRate * durationHours)
}

// TravelSurcharge returns the round-trip travel cost for the given distance.
func TravelSurcharge(distanceKm float64) float64 {
	return roundCents(distanceKm * 2 * RatePerKm)
}

// TotalCost returns the full booking price: service cost plus travel surcharge.
func TotalCost(hourlyRate, durationHours, distanceKm float64) float64 {
	return roundCents(BaseServiceCost(hourlyRate, durationHours) + TravelSurcharge(distanceKm))
}

// ExtensionCost returns the price increase for extending by the given minutes.
func ExtensionCost(minutes int, hourlyRate float64) float64 {
	return roundCents(float64(minutes) / 60.0 * hourlyRate)
}

// Coordinates is a geographic point returned by the coordinate resolver.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineKm calculates the distance between two coordinates in kilometers.
func HaversineKm(from, to Coordinates) float64 {
	const earthRadiusKm = 6371.0

	dLat := degreesToRadians(to.Latitude - from.Latitude)
	dLng := degreesToRadians(to.Longitude - from.Longitude)

	lat1Rad := degreesToRadians(from.Latitude)
	lat2Rad := degreesToRadians(to.Latitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// roundCents rounds a EUR amount to whole cents.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
