// Package shift implements the coupled driver/shuttle shift lifecycle.
// The shuttle's status is always a function of its driver's shift state,
// so the two documents are only ever written together, through the
// composite operations here. No raw status setters are exposed.
package shift

import (
	"context"
	"log"
	"time"

	"campusride-backend/internal/apperr"
	"campusride-backend/internal/models"
)

// Store is the slice of the document store the shift manager needs
type Store interface {
	GetDriver(ctx context.Context, driverID string) (*models.Driver, error)
	ApplyShiftTransition(ctx context.Context, driverID, shuttleID string,
		driverFields, shuttleFields map[string]interface{}) error
}

// Manager drives shift transitions
type Manager struct {
	store Store
	now   func() time.Time
}

// NewManager creates a shift manager backed by the given store
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// NewManagerWithClock creates a shift manager with an injected clock
func NewManagerWithClock(store Store, now func() time.Time) *Manager {
	return &Manager{store: store, now: now}
}

// StartShift puts the driver on duty and activates the assigned
// shuttle. Fails with a validation error when no shuttle is assigned or
// a shift is already running; state is left untouched on failure.
func (m *Manager) StartShift(ctx context.Context, driverID string) (*models.Driver, error) {
	driver, err := m.store.GetDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.HasAssignedShuttle() {
		return nil, apperr.Validationf("driver %s has no assigned shuttle", driverID)
	}
	if driver.OnShift {
		return nil, apperr.Validationf("driver %s is already on shift", driverID)
	}

	now := m.now()
	err = m.store.ApplyShiftTransition(ctx, driverID, driver.AssignedShuttleID,
		map[string]interface{}{
			"onShift":        true,
			"shiftStartTime": now,
			"status":         string(models.DriverStatusOnDuty),
		},
		map[string]interface{}{
			"status":      string(models.ShuttleStatusActive),
			"driverId":    driver.DriverID,
			"driverName":  driver.FullName(),
			"lastUpdated": now,
		})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Shift started: driver=%s shuttle=%s", driverID, driver.AssignedShuttleID)

	driver.OnShift = true
	driver.ShiftStartTime = &now
	driver.Status = models.DriverStatusOnDuty
	return driver, nil
}

// EndShift takes the driver off duty, parks the shuttle offline, and
// folds the elapsed shift into the committed hour total. The
// accumulation happens exactly once per shift pair.
func (m *Manager) EndShift(ctx context.Context, driverID string) (*models.Driver, error) {
	driver, err := m.store.GetDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.OnShift {
		return nil, apperr.Validationf("driver %s is not on shift", driverID)
	}
	if !driver.HasAssignedShuttle() {
		return nil, apperr.Validationf("driver %s has no assigned shuttle", driverID)
	}

	now := m.now()
	totalHours := driver.TotalHours
	if driver.ShiftStartTime != nil {
		totalHours += now.Sub(*driver.ShiftStartTime).Hours()
	}

	err = m.store.ApplyShiftTransition(ctx, driverID, driver.AssignedShuttleID,
		map[string]interface{}{
			"onShift":      false,
			"shiftEndTime": now,
			"status":       string(models.DriverStatusOffDuty),
			"totalHours":   totalHours,
		},
		map[string]interface{}{
			"status":      string(models.ShuttleStatusOffline),
			"lastUpdated": now,
		})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Shift ended: driver=%s shuttle=%s hours=%.2f",
		driverID, driver.AssignedShuttleID, totalHours-driver.TotalHours)

	driver.OnShift = false
	driver.ShiftEndTime = &now
	driver.Status = models.DriverStatusOffDuty
	driver.TotalHours = totalHours
	return driver, nil
}

// ToggleBreak flips the driver between on-duty and on-break, carrying
// the shuttle along. Only valid while on shift.
func (m *Manager) ToggleBreak(ctx context.Context, driverID string) (*models.Driver, error) {
	driver, err := m.store.GetDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.OnShift {
		return nil, apperr.Validationf("driver %s is not on shift", driverID)
	}
	if !driver.HasAssignedShuttle() {
		return nil, apperr.Validationf("driver %s has no assigned shuttle", driverID)
	}

	now := m.now()
	driverStatus := models.DriverStatusOnBreak
	shuttleStatus := models.ShuttleStatusOnBreak
	if driver.Status == models.DriverStatusOnBreak {
		driverStatus = models.DriverStatusOnDuty
		shuttleStatus = models.ShuttleStatusActive
	}

	err = m.store.ApplyShiftTransition(ctx, driverID, driver.AssignedShuttleID,
		map[string]interface{}{"status": string(driverStatus)},
		map[string]interface{}{"status": string(shuttleStatus), "lastUpdated": now})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Break toggled: driver=%s now %s", driverID, driverStatus)

	driver.Status = driverStatus
	return driver, nil
}

// CurrentShiftHours reports the live duration of the driver's shift in
// progress, zero when off shift.
func (m *Manager) CurrentShiftHours(ctx context.Context, driverID string) (float64, error) {
	driver, err := m.store.GetDriver(ctx, driverID)
	if err != nil {
		return 0, err
	}
	return driver.CurrentShiftHours(m.now()), nil
}
