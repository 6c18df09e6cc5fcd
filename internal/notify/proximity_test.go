package notify

import (
	"testing"

	"campusride-backend/internal/models"
	"campusride-backend/internal/tracker"
)

func updateAt(etas map[string]int) tracker.Update {
	stop := &models.Stop{StopID: "stop-main-gate", StopName: "Main Gate"}
	var shuttles []models.Shuttle
	for id, eta := range etas {
		shuttles = append(shuttles, models.Shuttle{
			ShuttleID:       id,
			ShuttleName:     id,
			Status:          models.ShuttleStatusActive,
			CurrentLocation: &models.GeoPoint{Latitude: 5.11, Longitude: -1.29},
			ETAMinutes:      eta,
		})
	}
	return tracker.Update{SelectedStop: stop, Shuttles: shuttles}
}

func TestProximityFiresOnCrossing(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	w.Observe(updateAt(map[string]int{"Shuttle A": 9}))
	if len(d.shown) != 0 {
		t.Fatalf("alert fired above threshold: %+v", d.shown)
	}

	w.Observe(updateAt(map[string]int{"Shuttle A": 5}))
	if len(d.shown) != 1 || d.shown[0].Type != TypeApproaching {
		t.Fatalf("expected one approaching alert, got %+v", d.shown)
	}

	w.Observe(updateAt(map[string]int{"Shuttle A": 1}))
	if len(d.shown) != 2 || d.shown[1].Type != TypeArriving {
		t.Fatalf("expected arriving alert, got %+v", d.shown)
	}
}

func TestProximityNoRepeatWhileInside(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	w.Observe(updateAt(map[string]int{"Shuttle A": 9}))
	w.Observe(updateAt(map[string]int{"Shuttle A": 4}))
	w.Observe(updateAt(map[string]int{"Shuttle A": 3}))
	w.Observe(updateAt(map[string]int{"Shuttle A": 4}))

	// One crossing, one alert, no matter how long it idles inside
	if len(d.shown) != 1 {
		t.Errorf("shown = %d, want 1", len(d.shown))
	}
}

func TestProximityFirstObservationInsideFires(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	// First ever sighting already at the arriving threshold
	w.Observe(updateAt(map[string]int{"Shuttle A": 1}))
	if len(d.shown) != 1 || d.shown[0].Type != TypeArriving {
		t.Fatalf("expected arriving alert on first sighting, got %+v", d.shown)
	}
}

func TestProximityDepartedShuttleRealerts(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	w.Observe(updateAt(map[string]int{"Shuttle A": 4}))
	// Shuttle leaves the feed, then comes back in range
	w.Observe(updateAt(map[string]int{}))
	w.Observe(updateAt(map[string]int{"Shuttle A": 4}))

	if len(d.shown) != 2 {
		t.Errorf("shown = %d, want 2 (departed shuttle re-alerts)", len(d.shown))
	}
}

func TestProximityNoStopSelected(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	update := updateAt(map[string]int{"Shuttle A": 1})
	update.SelectedStop = nil

	w.Observe(update)
	if len(d.shown) != 0 {
		t.Errorf("alert fired with no stop selected: %+v", d.shown)
	}
}

func TestProximityIgnoresUnlocatedShuttles(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	stop := &models.Stop{StopID: "stop-main-gate", StopName: "Main Gate"}
	w.Observe(tracker.Update{
		SelectedStop: stop,
		Shuttles: []models.Shuttle{
			{ShuttleID: "s-ghost", ShuttleName: "Ghost", Status: models.ShuttleStatusActive, ETAMinutes: 0},
		},
	})

	if len(d.shown) != 0 {
		t.Errorf("alert fired for unlocated shuttle: %+v", d.shown)
	}
}

func TestProximityCustomThresholds(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcherWithThresholds(NewEngine(d), 10, 2)

	w.Observe(updateAt(map[string]int{"Shuttle A": 12}))
	w.Observe(updateAt(map[string]int{"Shuttle A": 10}))
	if len(d.shown) != 1 || d.shown[0].Type != TypeApproaching {
		t.Fatalf("custom approaching threshold not honored: %+v", d.shown)
	}

	w.Observe(updateAt(map[string]int{"Shuttle A": 2}))
	if len(d.shown) != 2 || d.shown[1].Type != TypeArriving {
		t.Fatalf("custom arriving threshold not honored: %+v", d.shown)
	}
}

func TestProximityReset(t *testing.T) {
	d := newFakeDispatcher()
	w := NewProximityWatcher(NewEngine(d))

	w.Observe(updateAt(map[string]int{"Shuttle A": 4}))
	w.Reset()
	w.Observe(updateAt(map[string]int{"Shuttle A": 4}))

	// After a reset the same ETA counts as a fresh sighting
	if len(d.shown) != 2 {
		t.Errorf("shown = %d, want 2", len(d.shown))
	}
}
