package models

import "testing"

func TestParseShuttleStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ShuttleStatus
	}{
		{"active", ShuttleStatusActive},
		{"ACTIVE", ShuttleStatusActive},
		{"  on_break ", ShuttleStatusOnBreak},
		{"breakdown", ShuttleStatusBreakdown},
		{"offline", ShuttleStatusOffline},
		{"", ShuttleStatusOffline},
		{"warp_speed", ShuttleStatusOffline},
	}

	for _, tt := range tests {
		if got := ParseShuttleStatus(tt.in); got != tt.want {
			t.Errorf("ParseShuttleStatus(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestShuttleAvailability(t *testing.T) {
	tests := []struct {
		status        ShuttleStatus
		wantAvailable bool
		wantActive    bool
	}{
		{ShuttleStatusActive, true, true},
		{ShuttleStatusOnBreak, true, false},
		{ShuttleStatusBreakdown, false, false},
		{ShuttleStatusOffline, false, false},
	}

	for _, tt := range tests {
		s := Shuttle{Status: tt.status}
		if s.IsAvailable() != tt.wantAvailable {
			t.Errorf("IsAvailable(%s) = %v, want %v", tt.status, s.IsAvailable(), tt.wantAvailable)
		}
		if s.IsActive() != tt.wantActive {
			t.Errorf("IsActive(%s) = %v, want %v", tt.status, s.IsActive(), tt.wantActive)
		}
	}
}

func TestAvailableSeatsUnclamped(t *testing.T) {
	s := Shuttle{Capacity: 30, CurrentPassengers: 33}
	if got := s.AvailableSeats(); got != -3 {
		t.Errorf("AvailableSeats() = %d, want -3 (over-capacity stays visible)", got)
	}
}

func TestOccupancyPercent(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		passengers int
		want       float64
	}{
		{"half full", 30, 15, 50},
		{"empty", 30, 0, 0},
		{"zero capacity", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Shuttle{Capacity: tt.capacity, CurrentPassengers: tt.passengers}
			if got := s.OccupancyPercent(); got != tt.want {
				t.Errorf("OccupancyPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapacityString(t *testing.T) {
	s := Shuttle{Capacity: 30, CurrentPassengers: 12}
	if got := s.CapacityString(); got != "12/30" {
		t.Errorf("CapacityString() = %q, want 12/30", got)
	}
}

func TestHasLocation(t *testing.T) {
	located := Shuttle{CurrentLocation: &GeoPoint{Latitude: 5.11, Longitude: -1.29}}
	if !located.HasLocation() {
		t.Errorf("located shuttle reports no location")
	}
	if (&Shuttle{}).HasLocation() {
		t.Errorf("unlocated shuttle reports a location")
	}
}
