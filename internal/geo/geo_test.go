package geo

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tol                    float64
	}{
		{
			name: "same point is zero",
			lat1: 5.1053, lon1: -1.2882,
			lat2: 5.1053, lon2: -1.2882,
			want: 0, tol: tolerance,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want: 111.19, tol: 0.05,
		},
		{
			name: "across campus",
			lat1: 5.1053, lon1: -1.2882,
			lat2: 5.1122, lon2: -1.2901,
			want: 0.795, tol: 0.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if !almostEqual(got, tt.want, tt.tol) {
				t.Errorf("DistanceKm() = %v, want %v (±%v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	ab := DistanceKm(5.1053, -1.2882, 5.1138, -1.2868)
	ba := DistanceKm(5.1138, -1.2868, 5.1053, -1.2882)
	if !almostEqual(ab, ba, tolerance) {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestETAMinutes(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		speedKmh   float64
		want       int
	}{
		{"zero distance", 0, 30, 0},
		{"negative distance", -1, 30, 0},
		{"zero speed", 5, 0, 0},
		{"exact minutes", 5, 30, 10},
		{"rounds up", 5.1, 30, 11},
		{"short hop rounds up to one minute", 0.1, 30, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ETAMinutes(tt.distanceKm, tt.speedKmh); got != tt.want {
				t.Errorf("ETAMinutes(%v, %v) = %d, want %d", tt.distanceKm, tt.speedKmh, got, tt.want)
			}
		})
	}
}

func TestETAMonotonic(t *testing.T) {
	// Farther away never means an earlier arrival
	prev := 0
	for d := 0.5; d <= 10; d += 0.5 {
		eta := ETAMinutes(d, DefaultSpeedKmh)
		if eta < prev {
			t.Fatalf("ETA decreased at %.1f km: %d < %d", d, eta, prev)
		}
		prev = eta
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"due north", 0, 0, 1, 0, 0},
		{"due east", 0, 0, 0, 1, 90},
		{"due south", 1, 0, 0, 0, 180},
		{"due west", 0, 1, 0, 0, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if !almostEqual(got, tt.want, 0.01) {
				t.Errorf("Bearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinBounds(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"campus center", 5.1053, -1.2882, true},
		{"on the min edge", 5.08, -1.32, true},
		{"on the max edge", 5.14, -1.26, true},
		{"north of campus", 5.20, -1.2882, false},
		{"west of campus", 5.1053, -1.40, false},
		{"another hemisphere", 51.5, -0.12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinBounds(tt.lat, tt.lng, CampusBounds); got != tt.want {
				t.Errorf("WithinBounds(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0.25, "250 m"},
		{0.999, "999 m"},
		{0.99949, "999 m"},
		{0.9995, "1.0 km"},
		{1.0, "1.0 km"},
		{2.35, "2.3 km"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.km); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.km, got, tt.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "Arriving now"},
		{1, "1 min"},
		{45, "45 min"},
		{60, "1 hr"},
		{90, "1 hr 30 min"},
		{125, "2 hr 5 min"},
	}

	for _, tt := range tests {
		if got := FormatETA(tt.minutes); got != tt.want {
			t.Errorf("FormatETA(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
