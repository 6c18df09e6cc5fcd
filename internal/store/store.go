package store

import (
	"context"
	"sync"
)

// Collection names
const (
	CollectionUsers    = "users"
	CollectionDrivers  = "drivers"
	CollectionShuttles = "shuttles"
	CollectionStops    = "stops"
	CollectionRoutes   = "routes"
	CollectionReports  = "reports"
)

// Subscription is a handle to a standing snapshot feed. Release stops
// the feed and must be called on every exit path of the owning session;
// a leaked subscription keeps mutating orphaned state. Release is
// idempotent.
type Subscription struct {
	cancel context.CancelFunc
	once   sync.Once
}

// NewSubscription wraps a cancel func in a releasable handle
func NewSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{cancel: cancel}
}

// Release tears the feed down
func (s *Subscription) Release() {
	s.once.Do(s.cancel)
}
