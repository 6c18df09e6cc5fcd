package shift

import (
	"context"
	"testing"
	"time"

	"campusride-backend/internal/apperr"
	"campusride-backend/internal/models"
)

type fakeStore struct {
	driver      *models.Driver
	transitions []transition
	getErr      error
	applyErr    error
}

type transition struct {
	driverID      string
	shuttleID     string
	driverFields  map[string]interface{}
	shuttleFields map[string]interface{}
}

func (f *fakeStore) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d := *f.driver
	return &d, nil
}

func (f *fakeStore) ApplyShiftTransition(ctx context.Context, driverID, shuttleID string,
	driverFields, shuttleFields map[string]interface{}) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.transitions = append(f.transitions, transition{driverID, shuttleID, driverFields, shuttleFields})
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func onDutyDriver(start time.Time) *models.Driver {
	return &models.Driver{
		DriverID:          "driver-1",
		FirstName:         "Kwame",
		LastName:          "Mensah",
		AssignedShuttleID: "shuttle-1",
		OnShift:           true,
		ShiftStartTime:    &start,
		Status:            models.DriverStatusOnDuty,
		TotalHours:        10,
	}
}

func TestStartShift(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("happy path activates the shuttle", func(t *testing.T) {
		store := &fakeStore{driver: &models.Driver{
			DriverID:          "driver-1",
			FirstName:         "Kwame",
			LastName:          "Mensah",
			AssignedShuttleID: "shuttle-1",
			Status:            models.DriverStatusOffDuty,
		}}
		m := NewManagerWithClock(store, fixedClock(now))

		driver, err := m.StartShift(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("StartShift() error = %v", err)
		}
		if !driver.OnShift || driver.Status != models.DriverStatusOnDuty {
			t.Errorf("driver not on duty after start: %+v", driver)
		}
		if len(store.transitions) != 1 {
			t.Fatalf("expected 1 transition, got %d", len(store.transitions))
		}
		tr := store.transitions[0]
		if tr.shuttleID != "shuttle-1" {
			t.Errorf("transition shuttle = %s, want shuttle-1", tr.shuttleID)
		}
		if tr.shuttleFields["status"] != string(models.ShuttleStatusActive) {
			t.Errorf("shuttle status = %v, want active", tr.shuttleFields["status"])
		}
		if tr.shuttleFields["driverName"] != "Kwame Mensah" {
			t.Errorf("shuttle driverName = %v", tr.shuttleFields["driverName"])
		}
	})

	t.Run("no assigned shuttle fails without writing", func(t *testing.T) {
		store := &fakeStore{driver: &models.Driver{DriverID: "driver-3"}}
		m := NewManagerWithClock(store, fixedClock(now))

		_, err := m.StartShift(context.Background(), "driver-3")
		if !apperr.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(store.transitions) != 0 {
			t.Errorf("state written despite validation failure")
		}
	})

	t.Run("already on shift fails", func(t *testing.T) {
		store := &fakeStore{driver: onDutyDriver(now)}
		m := NewManagerWithClock(store, fixedClock(now))

		_, err := m.StartShift(context.Background(), "driver-1")
		if !apperr.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestEndShift(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	t.Run("accumulates hours exactly once", func(t *testing.T) {
		store := &fakeStore{driver: onDutyDriver(start)}
		m := NewManagerWithClock(store, fixedClock(end))

		driver, err := m.EndShift(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("EndShift() error = %v", err)
		}
		if driver.TotalHours != 16 {
			t.Errorf("TotalHours = %v, want 16", driver.TotalHours)
		}
		tr := store.transitions[0]
		if tr.driverFields["totalHours"] != 16.0 {
			t.Errorf("written totalHours = %v, want 16", tr.driverFields["totalHours"])
		}
		if tr.shuttleFields["status"] != string(models.ShuttleStatusOffline) {
			t.Errorf("shuttle status = %v, want offline", tr.shuttleFields["status"])
		}
	})

	t.Run("not on shift fails", func(t *testing.T) {
		store := &fakeStore{driver: &models.Driver{
			DriverID:          "driver-1",
			AssignedShuttleID: "shuttle-1",
		}}
		m := NewManagerWithClock(store, fixedClock(end))

		_, err := m.EndShift(context.Background(), "driver-1")
		if !apperr.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(store.transitions) != 0 {
			t.Errorf("state written despite validation failure")
		}
	})
}

func TestToggleBreak(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("on duty goes on break with shuttle", func(t *testing.T) {
		store := &fakeStore{driver: onDutyDriver(now.Add(-2 * time.Hour))}
		m := NewManagerWithClock(store, fixedClock(now))

		driver, err := m.ToggleBreak(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("ToggleBreak() error = %v", err)
		}
		if driver.Status != models.DriverStatusOnBreak {
			t.Errorf("driver status = %s, want on_break", driver.Status)
		}
		tr := store.transitions[0]
		if tr.shuttleFields["status"] != string(models.ShuttleStatusOnBreak) {
			t.Errorf("shuttle status = %v, want on_break", tr.shuttleFields["status"])
		}
	})

	t.Run("on break resumes duty", func(t *testing.T) {
		d := onDutyDriver(now.Add(-2 * time.Hour))
		d.Status = models.DriverStatusOnBreak
		store := &fakeStore{driver: d}
		m := NewManagerWithClock(store, fixedClock(now))

		driver, err := m.ToggleBreak(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("ToggleBreak() error = %v", err)
		}
		if driver.Status != models.DriverStatusOnDuty {
			t.Errorf("driver status = %s, want on_duty", driver.Status)
		}
		tr := store.transitions[0]
		if tr.shuttleFields["status"] != string(models.ShuttleStatusActive) {
			t.Errorf("shuttle status = %v, want active", tr.shuttleFields["status"])
		}
	})

	t.Run("off shift cannot take a break", func(t *testing.T) {
		store := &fakeStore{driver: &models.Driver{
			DriverID:          "driver-1",
			AssignedShuttleID: "shuttle-1",
		}}
		m := NewManagerWithClock(store, fixedClock(now))

		if _, err := m.ToggleBreak(context.Background(), "driver-1"); !apperr.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestCurrentShiftHours(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	now := start.Add(90 * time.Minute)

	t.Run("live hours while on shift", func(t *testing.T) {
		store := &fakeStore{driver: onDutyDriver(start)}
		m := NewManagerWithClock(store, fixedClock(now))

		hours, err := m.CurrentShiftHours(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("CurrentShiftHours() error = %v", err)
		}
		if hours != 1.5 {
			t.Errorf("hours = %v, want 1.5", hours)
		}
	})

	t.Run("zero when off shift", func(t *testing.T) {
		store := &fakeStore{driver: &models.Driver{DriverID: "driver-1"}}
		m := NewManagerWithClock(store, fixedClock(now))

		hours, err := m.CurrentShiftHours(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("CurrentShiftHours() error = %v", err)
		}
		if hours != 0 {
			t.Errorf("hours = %v, want 0", hours)
		}
	})
}
