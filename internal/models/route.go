package models

import (
	"fmt"
	"strings"
)

// Route represents a shuttle route (an ordered sequence of stops).
// StopIDs and StopNames are parallel lists: same length, same order.
type Route struct {
	RouteID          string   `json:"route_id" firestore:"routeId"`
	RouteName        string   `json:"route_name" firestore:"routeName"`
	Description      string   `json:"description,omitempty" firestore:"description"`
	StopIDs          []string `json:"stop_ids" firestore:"stopIds"`
	StopNames        []string `json:"stop_names" firestore:"stopNames"`
	FrequencyMinutes int      `json:"frequency_minutes" firestore:"frequencyMinutes"`
	StartTime        string   `json:"start_time,omitempty" firestore:"startTime"`
	EndTime          string   `json:"end_time,omitempty" firestore:"endTime"`
	WeekdayOnly      bool     `json:"weekday_only" firestore:"weekdayOnly"`
	IsActive         bool     `json:"is_active" firestore:"isActive"`
	Color            string   `json:"color,omitempty" firestore:"color"` // hex color for map display
}

// AddStop appends a stop, keeping the id and name lists in lockstep
func (r *Route) AddStop(stopID, stopName string) {
	if r.HasStop(stopID) {
		return
	}
	r.StopIDs = append(r.StopIDs, stopID)
	r.StopNames = append(r.StopNames, stopName)
}

// RemoveStop removes a stop from both parallel lists
func (r *Route) RemoveStop(stopID string) {
	for i, id := range r.StopIDs {
		if id == stopID {
			r.StopIDs = append(r.StopIDs[:i], r.StopIDs[i+1:]...)
			if i < len(r.StopNames) {
				r.StopNames = append(r.StopNames[:i], r.StopNames[i+1:]...)
			}
			return
		}
	}
}

// HasStop reports whether the route includes the given stop id
func (r *Route) HasStop(stopID string) bool {
	for _, id := range r.StopIDs {
		if id == stopID {
			return true
		}
	}
	return false
}

// StopCount returns the number of stops on the route
func (r *Route) StopCount() int {
	return len(r.StopIDs)
}

// StopsString renders the stop sequence for display
func (r *Route) StopsString() string {
	if len(r.StopNames) == 0 {
		return "No stops"
	}
	return strings.Join(r.StopNames, " → ")
}

// FrequencyString renders the headway for display
func (r *Route) FrequencyString() string {
	return fmt.Sprintf("Every %d minutes", r.FrequencyMinutes)
}

// OperatingHoursString renders the service window for display
func (r *Route) OperatingHoursString() string {
	if r.StartTime == "" || r.EndTime == "" {
		return "Operating hours not set"
	}
	return r.StartTime + " - " + r.EndTime
}
