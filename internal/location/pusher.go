// Package location moves a driver's position fixes into the shuttle
// document. Pushes are fire-and-forget: a failed write is logged and
// implicitly retried by the next periodic fix, never explicitly.
package location

import (
	"context"
	"log"
	"time"

	"campusride-backend/internal/geo"
)

// Default subscription parameters
const (
	DefaultInterval        = 30 * time.Second
	DefaultMinDisplacement = 10.0 // meters
)

// Fix is one position sample
type Fix struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// Provider is the platform location source. Subscribe fails with a
// permission error when the caller is not authorized to read location.
type Provider interface {
	Subscribe(ctx context.Context, interval time.Duration, minDisplacementMeters float64) (<-chan Fix, error)
}

// Writer is the slice of the document store the pusher needs
type Writer interface {
	UpdateShuttleLocation(ctx context.Context, shuttleID string, lat, lng float64) error
}

// Pusher streams fixes from a provider into a shuttle document
type Pusher struct {
	provider Provider
	writer   Writer

	shuttleID string
	interval  time.Duration
	minMove   float64
	bounds    geo.Bounds
}

// NewPusher creates a pusher for one shuttle with default cadence
func NewPusher(provider Provider, writer Writer, shuttleID string) *Pusher {
	return &Pusher{
		provider:  provider,
		writer:    writer,
		shuttleID: shuttleID,
		interval:  DefaultInterval,
		minMove:   DefaultMinDisplacement,
		bounds:    geo.CampusBounds,
	}
}

// WithCadence overrides the subscription interval and displacement floor
func (p *Pusher) WithCadence(interval time.Duration, minDisplacementMeters float64) *Pusher {
	if interval > 0 {
		p.interval = interval
	}
	if minDisplacementMeters > 0 {
		p.minMove = minDisplacementMeters
	}
	return p
}

// Run subscribes and pushes until the context is cancelled or the
// provider closes the stream. The subscribe error (typically a
// permission error) is returned to the caller for an actionable prompt;
// per-fix write failures are only logged.
func (p *Pusher) Run(ctx context.Context) error {
	fixes, err := p.provider.Subscribe(ctx, p.interval, p.minMove)
	if err != nil {
		return err
	}

	log.Printf("📍 Location pushes started: shuttle=%s every %s (min %gm)", p.shuttleID, p.interval, p.minMove)

	for {
		select {
		case <-ctx.Done():
			log.Printf("📍 Location pushes stopped: shuttle=%s", p.shuttleID)
			return ctx.Err()
		case fix, ok := <-fixes:
			if !ok {
				log.Printf("📍 Location stream closed: shuttle=%s", p.shuttleID)
				return nil
			}
			if !geo.WithinBounds(fix.Latitude, fix.Longitude, p.bounds) {
				log.Printf("⚠️  Ignoring off-campus fix for shuttle %s: %.5f,%.5f",
					p.shuttleID, fix.Latitude, fix.Longitude)
				continue
			}
			if err := p.writer.UpdateShuttleLocation(ctx, p.shuttleID, fix.Latitude, fix.Longitude); err != nil {
				// Next tick re-attempts; no explicit retry
				log.Printf("❌ Location push failed for shuttle %s: %v", p.shuttleID, err)
			}
		}
	}
}
