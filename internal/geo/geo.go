package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// DefaultSpeedKmh is the assumed average shuttle speed for ETA
// estimates. A heuristic, not a measurement.
const DefaultSpeedKmh = 30.0

// DistanceKm returns the great-circle distance in kilometers between
// two lat/lng points using the Haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ETAMinutes estimates arrival time in whole minutes for a straight-line
// distance at the given average speed. Returns 0 for non-positive
// distances; always rounds up.
func ETAMinutes(distanceKm, speedKmh float64) int {
	if distanceKm <= 0 || speedKmh <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / speedKmh * 60))
}

// Bearing returns the initial forward azimuth from point 1 to point 2
// in degrees, normalized to [0, 360).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLon := toRad(lon2 - lon1)
	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	deg := toDeg(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Bounds is a rectangular geofence
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// CampusBounds is the fixed bounding box around the UCC campus.
// Positions outside it are treated as off-campus noise.
var CampusBounds = Bounds{
	MinLat: 5.08,
	MaxLat: 5.14,
	MinLng: -1.32,
	MaxLng: -1.26,
}

// WithinBounds reports whether a point falls inside the rectangle.
// Edges are inclusive.
func WithinBounds(lat, lng float64, b Bounds) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lng >= b.MinLng && lng <= b.MaxLng
}

// FormatDistance renders a distance for display: meters below 1 km,
// kilometers with one decimal above.
func FormatDistance(km float64) string {
	// Branch on the rounded meter value so 0.9995 km reads "1.0 km",
	// never "1000 m".
	if m := math.Round(km * 1000); m < 1000 {
		return fmt.Sprintf("%d m", int(m))
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatETA renders an ETA for display. Sub-minute ETAs read
// "Arriving now"; above an hour the value splits into hours and minutes.
func FormatETA(minutes int) string {
	switch {
	case minutes < 1:
		return "Arriving now"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	default:
		h := minutes / 60
		m := minutes % 60
		if m == 0 {
			return fmt.Sprintf("%d hr", h)
		}
		return fmt.Sprintf("%d hr %d min", h, m)
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
