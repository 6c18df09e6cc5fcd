package models

import (
	"strings"
	"time"
)

// DriverStatus represents the current status of a driver
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusOnDuty    DriverStatus = "on_duty"
	DriverStatusOnBreak   DriverStatus = "on_break"
	DriverStatusOffDuty   DriverStatus = "off_duty"
)

// ParseDriverStatus parses a stored status string, defaulting to off_duty
func ParseDriverStatus(s string) DriverStatus {
	switch DriverStatus(strings.ToLower(strings.TrimSpace(s))) {
	case DriverStatusAvailable:
		return DriverStatusAvailable
	case DriverStatusOnDuty:
		return DriverStatusOnDuty
	case DriverStatusOnBreak:
		return DriverStatusOnBreak
	default:
		return DriverStatusOffDuty
	}
}

// Driver represents a shuttle driver.
// Invariant: OnShift implies ShiftStartTime is set, and shuttle status is
// always a function of (OnShift, on break) — shift transitions go through
// the shift manager, never through raw status writes.
type Driver struct {
	DriverID            string       `json:"driver_id" firestore:"driverId"`
	FirstName           string       `json:"first_name" firestore:"firstName"`
	LastName            string       `json:"last_name" firestore:"lastName"`
	Email               string       `json:"email" firestore:"email"`
	PhoneNumber         string       `json:"phone_number,omitempty" firestore:"phoneNumber"`
	LicenseNumber       string       `json:"license_number,omitempty" firestore:"licenseNumber"`
	HireDate            time.Time    `json:"hire_date,omitempty" firestore:"hireDate"`
	IsActive            bool         `json:"is_active" firestore:"isActive"`
	AssignedShuttleID   string       `json:"assigned_shuttle_id,omitempty" firestore:"assignedShuttleId"`
	AssignedShuttleName string       `json:"assigned_shuttle_name,omitempty" firestore:"assignedShuttleName"`
	Status              DriverStatus `json:"status" firestore:"status"`
	OnShift             bool         `json:"on_shift" firestore:"onShift"`
	ShiftStartTime      *time.Time   `json:"shift_start_time" firestore:"shiftStartTime"`
	ShiftEndTime        *time.Time   `json:"shift_end_time" firestore:"shiftEndTime"`
	TotalTrips          int          `json:"total_trips" firestore:"totalTrips"`
	TotalHours          float64      `json:"total_hours" firestore:"totalHours"`
	Rating              float64      `json:"rating" firestore:"rating"`
	LastLogin           time.Time    `json:"last_login,omitempty" firestore:"lastLogin"`
	CreatedAt           time.Time    `json:"created_at,omitempty" firestore:"createdAt"`
}

// FullName returns the driver's display name
func (d *Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// HasAssignedShuttle reports whether the driver can run a shift
func (d *Driver) HasAssignedShuttle() bool {
	return d.AssignedShuttleID != ""
}

// CurrentShiftHours returns the live, not-yet-committed duration of the
// shift in progress. Zero when off shift. Distinct from TotalHours,
// which only accumulates when a shift ends.
func (d *Driver) CurrentShiftHours(now time.Time) float64 {
	if !d.OnShift || d.ShiftStartTime == nil {
		return 0
	}
	return now.Sub(*d.ShiftStartTime).Hours()
}
