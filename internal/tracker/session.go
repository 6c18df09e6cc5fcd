// Package tracker maintains a rider session's live view of the shuttle
// fleet: stops, routes and shuttles reconciled from full-snapshot
// feeds, enriched with distance/ETA against the rider's selected stop.
package tracker

import (
	"context"
	"sort"
	"sync"

	"campusride-backend/internal/geo"
	"campusride-backend/internal/models"
	"campusride-backend/internal/store"
)

// Feed is the slice of the document store a session subscribes to.
// Every delivery is the complete current set, never a diff.
type Feed interface {
	SubscribeStops(ctx context.Context, fn func([]models.Stop)) (*store.Subscription, error)
	SubscribeRoutes(ctx context.Context, fn func([]models.Route)) (*store.Subscription, error)
	SubscribeShuttles(ctx context.Context, fn func([]models.Shuttle)) (*store.Subscription, error)
}

// MarkerKind distinguishes map marker types
type MarkerKind string

const (
	MarkerShuttle MarkerKind = "shuttle"
	MarkerStop    MarkerKind = "stop"
)

// Marker is one map marker in the presentation payload
type Marker struct {
	ID       string          `json:"id"`
	Kind     MarkerKind      `json:"kind"`
	Title    string          `json:"title"`
	Snippet  string          `json:"snippet,omitempty"`
	Location models.GeoPoint `json:"location"`
	Active   bool            `json:"active"` // green vs amber for shuttles
}

// Update is the ranked view emitted to the presentation boundary after
// every reconciliation.
type Update struct {
	SelectedStop *models.Stop     `json:"selected_stop"`
	Shuttles     []models.Shuttle `json:"shuttles"`
	Markers      []Marker         `json:"markers"`
}

// Listener receives reconciled updates
type Listener func(Update)

// Session owns one rider's standing subscriptions and reconciled state.
// Close must run on every exit path of the owning lifecycle: a leaked
// session keeps re-ranking orphaned state.
type Session struct {
	mu           sync.Mutex
	stops        []models.Stop
	routes       []models.Route
	shuttles     []models.Shuttle
	selectedStop string
	speedKmh     float64
	listener     Listener
	subs         []*store.Subscription
	closed       bool
}

// Option configures a session
type Option func(*Session)

// WithSpeed overrides the assumed average speed used for ETA estimates
func WithSpeed(kmh float64) Option {
	return func(s *Session) {
		if kmh > 0 {
			s.speedKmh = kmh
		}
	}
}

// NewSession opens the three entity feeds and starts reconciling.
// Already-acquired subscriptions are released if a later one fails.
func NewSession(ctx context.Context, feed Feed, listener Listener, opts ...Option) (*Session, error) {
	s := &Session{
		speedKmh: geo.DefaultSpeedKmh,
		listener: listener,
	}
	for _, opt := range opts {
		opt(s)
	}

	stopsSub, err := feed.SubscribeStops(ctx, s.applyStops)
	if err != nil {
		return nil, err
	}
	s.subs = append(s.subs, stopsSub)

	routesSub, err := feed.SubscribeRoutes(ctx, s.applyRoutes)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.subs = append(s.subs, routesSub)

	shuttlesSub, err := feed.SubscribeShuttles(ctx, s.applyShuttles)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.subs = append(s.subs, shuttlesSub)

	return s, nil
}

// Close releases every standing subscription. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Release()
	}
}

// SelectStop changes the rider's stop selection and recomputes the
// ranking. Selecting a stop that is not (yet) in the known set is
// tolerated: feeds race, and the ranking is always a pure function of
// current known state.
func (s *Session) SelectStop(stopID string) {
	s.mu.Lock()
	s.selectedStop = stopID
	update, emit := s.reconcileLocked()
	s.mu.Unlock()
	if emit {
		s.listener(update)
	}
}

// Stops returns the current stop set
func (s *Session) Stops() []models.Stop {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Stop, len(s.stops))
	copy(out, s.stops)
	return out
}

// Routes returns the current route set
func (s *Session) Routes() []models.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// Ranked returns the current ranked shuttle list
func (s *Session) Ranked() []models.Shuttle {
	s.mu.Lock()
	defer s.mu.Unlock()
	update, _ := s.reconcileLocked()
	return update.Shuttles
}

func (s *Session) applyStops(stops []models.Stop) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stops = stops
	update, emit := s.reconcileLocked()
	s.mu.Unlock()
	if emit {
		s.listener(update)
	}
}

func (s *Session) applyRoutes(routes []models.Route) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.routes = routes
	update, emit := s.reconcileLocked()
	s.mu.Unlock()
	if emit {
		s.listener(update)
	}
}

func (s *Session) applyShuttles(shuttles []models.Shuttle) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.shuttles = shuttles
	update, emit := s.reconcileLocked()
	s.mu.Unlock()
	if emit {
		s.listener(update)
	}
}

// reconcileLocked replaces derived state from the current collections.
// Idempotent and side-effect free beyond the returned update.
func (s *Session) reconcileLocked() (Update, bool) {
	if s.closed {
		return Update{}, false
	}

	var selected *models.Stop
	for i := range s.stops {
		if s.stops[i].StopID == s.selectedStop {
			selected = &s.stops[i]
			break
		}
	}

	ranked := make([]models.Shuttle, 0, len(s.shuttles))
	for _, shuttle := range s.shuttles {
		if !shuttle.IsAvailable() {
			continue
		}
		shuttle.DistanceToStopKm = 0
		shuttle.ETAMinutes = 0
		if selected != nil && selected.HasLocation() && shuttle.HasLocation() {
			shuttle.DistanceToStopKm = geo.DistanceKm(
				shuttle.CurrentLocation.Latitude, shuttle.CurrentLocation.Longitude,
				selected.Location.Latitude, selected.Location.Longitude,
			)
			shuttle.ETAMinutes = geo.ETAMinutes(shuttle.DistanceToStopKm, s.speedKmh)
		}
		ranked = append(ranked, shuttle)
	}

	// Located shuttles ascending by distance; unlocated shuttles sort
	// last rather than inheriting a zero distance. Stable, so ties keep
	// feed order and the ranking is a total order.
	sort.SliceStable(ranked, func(i, j int) bool {
		li, lj := ranked[i].HasLocation(), ranked[j].HasLocation()
		if li != lj {
			return li
		}
		if !li {
			return false
		}
		return ranked[i].DistanceToStopKm < ranked[j].DistanceToStopKm
	})

	markers := make([]Marker, 0, len(ranked)+1)
	for _, shuttle := range ranked {
		if !shuttle.HasLocation() {
			continue
		}
		markers = append(markers, Marker{
			ID:       shuttle.ShuttleID,
			Kind:     MarkerShuttle,
			Title:    shuttle.ShuttleName,
			Snippet:  shuttle.CurrentRoute + " - " + string(shuttle.Status),
			Location: *shuttle.CurrentLocation,
			Active:   shuttle.IsActive(),
		})
	}
	if selected != nil && selected.HasLocation() {
		markers = append(markers, Marker{
			ID:       selected.StopID,
			Kind:     MarkerStop,
			Title:    selected.StopName,
			Location: *selected.Location,
		})
	}

	return Update{SelectedStop: selected, Shuttles: ranked, Markers: markers}, s.listener != nil
}
