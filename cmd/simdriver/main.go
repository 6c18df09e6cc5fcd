// Simulates a driver on shift: walks a shuttle along the campus loop
// and pushes position fixes through the same location pipeline a real
// driver app would use. Useful for exercising rider tracking end to end
// without a device.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"campusride-backend/internal/config"
	"campusride-backend/internal/location"
	"campusride-backend/internal/store"
)

// campusLoop is the waypoint path the simulated shuttle cycles through
var campusLoop = [][2]float64{
	{5.1053, -1.2882}, // Main Gate
	{5.1080, -1.2870},
	{5.1101, -1.2855}, // Science Block
	{5.1115, -1.2875},
	{5.1122, -1.2901}, // Main Library
	{5.1100, -1.2920},
	{5.1080, -1.2930}, // Residence Halls
	{5.1065, -1.2905},
}

// loopProvider emits fixes along the waypoint loop on a fixed cadence
type loopProvider struct {
	stepsPerLeg int
}

func (p *loopProvider) Subscribe(ctx context.Context, interval time.Duration, minDisplacementMeters float64) (<-chan location.Fix, error) {
	fixes := make(chan location.Fix)

	go func() {
		defer close(fixes)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		leg, step := 0, 0
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				from := campusLoop[leg]
				to := campusLoop[(leg+1)%len(campusLoop)]
				t := float64(step) / float64(p.stepsPerLeg)

				fix := location.Fix{
					Latitude:  from[0] + (to[0]-from[0])*t,
					Longitude: from[1] + (to[1]-from[1])*t,
					At:        now,
				}

				select {
				case fixes <- fix:
				case <-ctx.Done():
					return
				}

				step++
				if step >= p.stepsPerLeg {
					step = 0
					leg = (leg + 1) % len(campusLoop)
				}
			}
		}
	}()

	return fixes, nil
}

func main() {
	shuttleID := flag.String("shuttle", "shuttle-1", "shuttle document id to drive")
	interval := flag.Duration("interval", 0, "time between simulated fixes (default: configured location cadence)")
	flag.Parse()

	cfg := config.Load()
	if *interval <= 0 {
		*interval = cfg.LocationInterval
	}

	log.Printf("🚌 Simulated driver starting: shuttle=%s interval=%s", *shuttleID, *interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *store.Firestore
	var err error
	if cfg.FirebaseCredentialsBase64 != "" {
		db, err = store.NewFirestoreFromBase64(ctx, cfg.FirebaseCredentialsBase64)
	} else {
		db, err = store.NewFirestore(ctx, cfg.FirebaseCredentialsFile)
	}
	if err != nil {
		log.Fatalf("❌ Firestore connection failed: %v", err)
	}
	defer db.Close()

	pusher := location.NewPusher(&loopProvider{stepsPerLeg: 6}, db, *shuttleID).
		WithCadence(*interval, cfg.LocationMinDisplacement)

	if err := pusher.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("❌ Simulation stopped: %v", err)
	}
	log.Println("🚌 Simulated driver stopped")
}
