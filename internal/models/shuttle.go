package models

import (
	"fmt"
	"strings"
	"time"
)

// ShuttleStatus represents the current status of a shuttle
type ShuttleStatus string

const (
	ShuttleStatusActive    ShuttleStatus = "active"
	ShuttleStatusOnBreak   ShuttleStatus = "on_break"
	ShuttleStatusBreakdown ShuttleStatus = "breakdown"
	ShuttleStatusOffline   ShuttleStatus = "offline"
)

// ParseShuttleStatus parses a stored status string. Unknown or empty
// values fall back to offline, matching the store's lenient reads.
func ParseShuttleStatus(s string) ShuttleStatus {
	switch ShuttleStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ShuttleStatusActive:
		return ShuttleStatusActive
	case ShuttleStatusOnBreak:
		return ShuttleStatusOnBreak
	case ShuttleStatusBreakdown:
		return ShuttleStatusBreakdown
	default:
		return ShuttleStatusOffline
	}
}

// Shuttle represents a campus shuttle
type Shuttle struct {
	ShuttleID         string        `json:"shuttle_id" firestore:"shuttleId"`
	ShuttleName       string        `json:"shuttle_name" firestore:"shuttleName"`
	PlateNumber       string        `json:"plate_number" firestore:"plateNumber"`
	CurrentLocation   *GeoPoint     `json:"current_location" firestore:"currentLocation"`
	CurrentRoute      string        `json:"current_route,omitempty" firestore:"currentRoute"`
	NextStop          string        `json:"next_stop,omitempty" firestore:"nextStop"`
	Status            ShuttleStatus `json:"status" firestore:"status"`
	Capacity          int           `json:"capacity" firestore:"capacity"`
	CurrentPassengers int           `json:"current_passengers" firestore:"currentPassengers"`
	DriverID          string        `json:"driver_id,omitempty" firestore:"driverId"`
	DriverName        string        `json:"driver_name,omitempty" firestore:"driverName"`
	LastUpdated       time.Time     `json:"last_updated" firestore:"lastUpdated"`

	// Derived per-query fields, recomputed on every reconciliation
	// against the rider's selected stop. Never persisted.
	DistanceToStopKm float64 `json:"distance_to_stop_km" firestore:"-"`
	ETAMinutes       int     `json:"eta_minutes" firestore:"-"`
}

// IsActive reports whether the shuttle is in active service
// (drives the green vs amber marker on the map)
func (s *Shuttle) IsActive() bool {
	return s.Status == ShuttleStatusActive
}

// IsAvailable reports whether the shuttle participates in rider-facing
// ranking and map display (active or on a short break)
func (s *Shuttle) IsAvailable() bool {
	return s.Status == ShuttleStatusActive || s.Status == ShuttleStatusOnBreak
}

// HasLocation reports whether the shuttle is currently on the grid
func (s *Shuttle) HasLocation() bool {
	return s.CurrentLocation != nil
}

// AvailableSeats returns remaining capacity. The passenger count is
// intentionally unclamped, so an over-capacity shuttle goes negative.
func (s *Shuttle) AvailableSeats() int {
	return s.Capacity - s.CurrentPassengers
}

// OccupancyPercent returns the load factor as 0-100
func (s *Shuttle) OccupancyPercent() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.CurrentPassengers) * 100.0 / float64(s.Capacity)
}

// CapacityString renders passengers/capacity for display
func (s *Shuttle) CapacityString() string {
	return fmt.Sprintf("%d/%d", s.CurrentPassengers, s.Capacity)
}
