package tracker

import (
	"context"
	"testing"

	"campusride-backend/internal/models"
	"campusride-backend/internal/store"
)

// fakeFeed captures the subscription callbacks so tests can push
// snapshots synchronously.
type fakeFeed struct {
	stopsFn    func([]models.Stop)
	routesFn   func([]models.Route)
	shuttlesFn func([]models.Shuttle)
	released   int
}

func (f *fakeFeed) SubscribeStops(ctx context.Context, fn func([]models.Stop)) (*store.Subscription, error) {
	f.stopsFn = fn
	return store.NewSubscription(func() { f.released++ }), nil
}

func (f *fakeFeed) SubscribeRoutes(ctx context.Context, fn func([]models.Route)) (*store.Subscription, error) {
	f.routesFn = fn
	return store.NewSubscription(func() { f.released++ }), nil
}

func (f *fakeFeed) SubscribeShuttles(ctx context.Context, fn func([]models.Shuttle)) (*store.Subscription, error) {
	f.shuttlesFn = fn
	return store.NewSubscription(func() { f.released++ }), nil
}

func loc(lat, lng float64) *models.GeoPoint {
	return &models.GeoPoint{Latitude: lat, Longitude: lng}
}

var testStop = models.Stop{
	StopID:   "stop-main-gate",
	StopName: "Main Gate",
	Location: loc(5.1053, -1.2882),
	IsActive: true,
}

func newTestSession(t *testing.T) (*Session, *fakeFeed, *[]Update) {
	t.Helper()
	feed := &fakeFeed{}
	var updates []Update
	session, err := NewSession(context.Background(), feed, func(u Update) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(session.Close)
	return session, feed, &updates
}

func TestSessionRanksByDistance(t *testing.T) {
	session, feed, _ := newTestSession(t)

	feed.stopsFn([]models.Stop{testStop})
	session.SelectStop("stop-main-gate")

	// Arrivals out of order: far, near, middle
	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-far", ShuttleName: "C", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.1300, -1.2882)},
		{ShuttleID: "s-near", ShuttleName: "A", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.1060, -1.2882)},
		{ShuttleID: "s-mid", ShuttleName: "B", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.1150, -1.2882)},
	})

	ranked := session.Ranked()
	if len(ranked) != 3 {
		t.Fatalf("ranked length = %d, want 3", len(ranked))
	}
	wantOrder := []string{"s-near", "s-mid", "s-far"}
	for i, want := range wantOrder {
		if ranked[i].ShuttleID != want {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].ShuttleID, want)
		}
	}
	if ranked[0].ETAMinutes <= 0 {
		t.Errorf("nearest shuttle has no ETA: %+v", ranked[0])
	}
	if ranked[0].DistanceToStopKm >= ranked[1].DistanceToStopKm {
		t.Errorf("distances not ascending: %v >= %v", ranked[0].DistanceToStopKm, ranked[1].DistanceToStopKm)
	}
}

func TestSessionFiltersUnavailable(t *testing.T) {
	session, feed, _ := newTestSession(t)

	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-active", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.11, -1.29)},
		{ShuttleID: "s-break", Status: models.ShuttleStatusOnBreak, CurrentLocation: loc(5.11, -1.29)},
		{ShuttleID: "s-down", Status: models.ShuttleStatusBreakdown, CurrentLocation: loc(5.11, -1.29)},
		{ShuttleID: "s-offline", Status: models.ShuttleStatusOffline, CurrentLocation: loc(5.11, -1.29)},
	})

	ranked := session.Ranked()
	if len(ranked) != 2 {
		t.Fatalf("ranked length = %d, want 2 (active and on_break only)", len(ranked))
	}
	for _, s := range ranked {
		if !s.IsAvailable() {
			t.Errorf("unavailable shuttle %s in ranking", s.ShuttleID)
		}
	}
}

func TestSessionUnlocatedSortLast(t *testing.T) {
	session, feed, _ := newTestSession(t)

	feed.stopsFn([]models.Stop{testStop})
	session.SelectStop("stop-main-gate")

	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-ghost", Status: models.ShuttleStatusActive}, // no location
		{ShuttleID: "s-near", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.1060, -1.2882)},
	})

	ranked := session.Ranked()
	if len(ranked) != 2 {
		t.Fatalf("ranked length = %d, want 2", len(ranked))
	}
	if ranked[0].ShuttleID != "s-near" || ranked[1].ShuttleID != "s-ghost" {
		t.Errorf("unlocated shuttle not last: %s, %s", ranked[0].ShuttleID, ranked[1].ShuttleID)
	}
}

func TestSessionFullReplace(t *testing.T) {
	session, feed, _ := newTestSession(t)

	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-1", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.11, -1.29)},
		{ShuttleID: "s-2", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.11, -1.29)},
	})
	// Second snapshot drops s-2 entirely
	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-1", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.11, -1.29)},
	})

	ranked := session.Ranked()
	if len(ranked) != 1 || ranked[0].ShuttleID != "s-1" {
		t.Errorf("stale shuttle survived replacement: %+v", ranked)
	}
}

func TestSessionMarkers(t *testing.T) {
	session, feed, updates := newTestSession(t)

	feed.stopsFn([]models.Stop{testStop})
	session.SelectStop("stop-main-gate")
	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-1", ShuttleName: "Shuttle A", CurrentRoute: "Campus Loop",
			Status: models.ShuttleStatusActive, CurrentLocation: loc(5.1060, -1.2882)},
		{ShuttleID: "s-2", ShuttleName: "Shuttle B", CurrentRoute: "Campus Loop",
			Status: models.ShuttleStatusOnBreak, CurrentLocation: loc(5.1070, -1.2882)},
		{ShuttleID: "s-ghost", Status: models.ShuttleStatusActive}, // no marker
	})

	last := (*updates)[len(*updates)-1]
	if len(last.Markers) != 3 {
		t.Fatalf("markers = %d, want 3 (two shuttles + stop)", len(last.Markers))
	}

	byID := map[string]Marker{}
	for _, m := range last.Markers {
		byID[m.ID] = m
	}
	if !byID["s-1"].Active {
		t.Errorf("active shuttle marker not flagged active")
	}
	if byID["s-2"].Active {
		t.Errorf("on-break shuttle marker flagged active")
	}
	stopMarker, ok := byID["stop-main-gate"]
	if !ok || stopMarker.Kind != MarkerStop {
		t.Errorf("selected stop marker missing or wrong kind: %+v", stopMarker)
	}
}

func TestSessionUnknownStopTolerated(t *testing.T) {
	session, feed, _ := newTestSession(t)

	feed.stopsFn([]models.Stop{testStop})
	session.SelectStop("stop-does-not-exist")

	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-1", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.11, -1.29)},
	})

	ranked := session.Ranked()
	if len(ranked) != 1 {
		t.Fatalf("ranked length = %d, want 1", len(ranked))
	}
	if ranked[0].ETAMinutes != 0 || ranked[0].DistanceToStopKm != 0 {
		t.Errorf("enrichment computed against unknown stop: %+v", ranked[0])
	}
}

func TestSessionCloseReleasesSubscriptions(t *testing.T) {
	feed := &fakeFeed{}
	session, err := NewSession(context.Background(), feed, nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	session.Close()
	if feed.released != 3 {
		t.Errorf("released = %d, want 3", feed.released)
	}

	// Idempotent
	session.Close()
	if feed.released != 3 {
		t.Errorf("double close released again: %d", feed.released)
	}
}

func TestSessionNoEmitAfterClose(t *testing.T) {
	session, feed, updates := newTestSession(t)

	feed.shuttlesFn([]models.Shuttle{
		{ShuttleID: "s-1", Status: models.ShuttleStatusActive, CurrentLocation: loc(5.11, -1.29)},
	})
	before := len(*updates)

	session.Close()
	feed.shuttlesFn([]models.Shuttle{}) // late delivery after close

	if len(*updates) != before {
		t.Errorf("listener invoked after Close")
	}
}
