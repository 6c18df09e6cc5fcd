package notify

import (
	"sync"

	"campusride-backend/internal/tracker"
)

// Default ETA thresholds in minutes
const (
	DefaultApproachingMinutes = 5
	DefaultArrivingMinutes    = 1
)

// ProximityWatcher turns reconciled updates into approaching/arriving
// alerts by detecting ETA threshold crossings. An alert fires only when
// a shuttle's ETA crosses from above a threshold to at-or-below it, so
// a shuttle idling near the stop does not spam the rider.
type ProximityWatcher struct {
	mu          sync.Mutex
	engine      *Engine
	approaching int
	arriving    int
	lastETA     map[string]int
}

// NewProximityWatcher creates a watcher with default thresholds
func NewProximityWatcher(engine *Engine) *ProximityWatcher {
	return &ProximityWatcher{
		engine:      engine,
		approaching: DefaultApproachingMinutes,
		arriving:    DefaultArrivingMinutes,
		lastETA:     make(map[string]int),
	}
}

// NewProximityWatcherWithThresholds creates a watcher with custom
// approaching/arriving ETA thresholds (minutes).
func NewProximityWatcherWithThresholds(engine *Engine, approachingMin, arrivingMin int) *ProximityWatcher {
	w := NewProximityWatcher(engine)
	if approachingMin > 0 {
		w.approaching = approachingMin
	}
	if arrivingMin >= 0 {
		w.arriving = arrivingMin
	}
	return w
}

// Observe inspects one reconciled update for threshold crossings
func (w *ProximityWatcher) Observe(update tracker.Update) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if update.SelectedStop == nil {
		// No stop selected: ETAs are meaningless, reset crossing state
		w.lastETA = make(map[string]int)
		return
	}

	seen := make(map[string]bool, len(update.Shuttles))
	for _, shuttle := range update.Shuttles {
		if !shuttle.HasLocation() {
			continue
		}
		seen[shuttle.ShuttleID] = true

		eta := shuttle.ETAMinutes
		prev, known := w.lastETA[shuttle.ShuttleID]
		w.lastETA[shuttle.ShuttleID] = eta

		switch {
		case eta <= w.arriving && (!known || prev > w.arriving):
			w.engine.ShuttleArriving(shuttle.ShuttleName, update.SelectedStop.StopName)
		case eta <= w.approaching && (!known || prev > w.approaching):
			w.engine.ShuttleApproaching(shuttle.ShuttleName, eta)
		}
	}

	// Shuttles that left the feed re-alert if they come back in range
	for id := range w.lastETA {
		if !seen[id] {
			delete(w.lastETA, id)
		}
	}
}

// Reset clears all crossing state (e.g. when the rider reselects a stop)
func (w *ProximityWatcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastETA = make(map[string]int)
}
