// Seeds the Firestore project with the campus fleet: stops, routes,
// shuttles, drivers, and the default accounts. Safe to re-run; every
// document is written by a fixed id.
package main

import (
	"context"
	"log"
	"time"

	"campusride-backend/internal/config"
	"campusride-backend/internal/models"
	"campusride-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Println("🌱 Seeding campus fleet data...")

	cfg := config.Load()

	ctx := context.Background()
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

	seedStops(ctx, db)
	seedRoutes(ctx, db)
	seedShuttles(ctx, db)
	seedDrivers(ctx, db)
	seedUsers(ctx, db)

	log.Println("✅ Seeding complete")
}

func seedStops(ctx context.Context, db *store.Firestore) {
	stops := []models.Stop{
		{
			StopID:       "stop-main-gate",
			StopName:     "Main Gate",
			Location:     &models.GeoPoint{Latitude: 5.1053, Longitude: -1.2882},
			Routes:       []string{"Campus Loop", "Science Express"},
			IsActive:     true,
			OrderInRoute: 1,
			Landmark:     "University entrance arch",
		},
		{
			StopID:       "stop-science",
			StopName:     "Science Block",
			Location:     &models.GeoPoint{Latitude: 5.1101, Longitude: -1.2855},
			Routes:       []string{"Campus Loop", "Science Express"},
			IsActive:     true,
			OrderInRoute: 2,
			Landmark:     "Opposite the lecture theatres",
		},
		{
			StopID:       "stop-library",
			StopName:     "Main Library",
			Location:     &models.GeoPoint{Latitude: 5.1122, Longitude: -1.2901},
			Routes:       []string{"Campus Loop"},
			IsActive:     true,
			OrderInRoute: 3,
			Landmark:     "Library forecourt",
		},
		{
			StopID:       "stop-halls",
			StopName:     "Residence Halls",
			Location:     &models.GeoPoint{Latitude: 5.1080, Longitude: -1.2930},
			Routes:       []string{"Campus Loop"},
			IsActive:     true,
			OrderInRoute: 4,
			Landmark:     "Between Valco and Atlantic halls",
		},
		{
			StopID:       "stop-hospital",
			StopName:     "University Hospital",
			Location:     &models.GeoPoint{Latitude: 5.1138, Longitude: -1.2868},
			Routes:       []string{"Science Express"},
			IsActive:     true,
			OrderInRoute: 3,
			Landmark:     "Hospital main entrance",
		},
	}

	for i := range stops {
		if err := db.SaveStop(ctx, &stops[i]); err != nil {
			log.Fatalf("❌ Failed to seed stop %s: %v", stops[i].StopID, err)
		}
	}
	log.Printf("✅ Seeded %d stops", len(stops))
}

func seedRoutes(ctx context.Context, db *store.Firestore) {
	routes := []models.Route{
		{
			RouteID:          "route-campus-loop",
			RouteName:        "Campus Loop",
			Description:      "Full circuit of the main campus",
			StopIDs:          []string{"stop-main-gate", "stop-science", "stop-library", "stop-halls"},
			StopNames:        []string{"Main Gate", "Science Block", "Main Library", "Residence Halls"},
			FrequencyMinutes: 15,
			StartTime:        "06:00",
			EndTime:          "22:00",
			IsActive:         true,
			Color:            "#2E7D32",
		},
		{
			RouteID:          "route-science-express",
			RouteName:        "Science Express",
			Description:      "Direct service between the gate and the science area",
			StopIDs:          []string{"stop-main-gate", "stop-science", "stop-hospital"},
			StopNames:        []string{"Main Gate", "Science Block", "University Hospital"},
			FrequencyMinutes: 20,
			StartTime:        "07:00",
			EndTime:          "18:00",
			WeekdayOnly:      true,
			IsActive:         true,
			Color:            "#1565C0",
		},
	}

	for i := range routes {
		if err := db.SaveRoute(ctx, &routes[i]); err != nil {
			log.Fatalf("❌ Failed to seed route %s: %v", routes[i].RouteID, err)
		}
	}
	log.Printf("✅ Seeded %d routes", len(routes))
}

func seedShuttles(ctx context.Context, db *store.Firestore) {
	now := time.Now()
	shuttles := []models.Shuttle{
		{
			ShuttleID:    "shuttle-1",
			ShuttleName:  "Shuttle A",
			PlateNumber:  "GR 4521-23",
			CurrentRoute: "Campus Loop",
			Status:       models.ShuttleStatusOffline,
			Capacity:     30,
			LastUpdated:  now,
		},
		{
			ShuttleID:    "shuttle-2",
			ShuttleName:  "Shuttle B",
			PlateNumber:  "GR 4522-23",
			CurrentRoute: "Campus Loop",
			Status:       models.ShuttleStatusOffline,
			Capacity:     30,
			LastUpdated:  now,
		},
		{
			ShuttleID:    "shuttle-3",
			ShuttleName:  "Shuttle C",
			PlateNumber:  "GR 4523-23",
			CurrentRoute: "Science Express",
			Status:       models.ShuttleStatusOffline,
			Capacity:     18,
			LastUpdated:  now,
		},
	}

	for i := range shuttles {
		if err := db.SaveShuttle(ctx, &shuttles[i]); err != nil {
			log.Fatalf("❌ Failed to seed shuttle %s: %v", shuttles[i].ShuttleID, err)
		}
	}
	log.Printf("✅ Seeded %d shuttles", len(shuttles))
}

func seedDrivers(ctx context.Context, db *store.Firestore) {
	drivers := []models.Driver{
		{
			DriverID:            "driver-1",
			FirstName:           "Kwame",
			LastName:            "Mensah",
			Email:               "kwame.mensah@campusride.test",
			IsActive:            true,
			AssignedShuttleID:   "shuttle-1",
			AssignedShuttleName: "Shuttle A",
			Status:              models.DriverStatusOffDuty,
			Rating:              4.8,
		},
		{
			DriverID:            "driver-2",
			FirstName:           "Ama",
			LastName:            "Owusu",
			Email:               "ama.owusu@campusride.test",
			IsActive:            true,
			AssignedShuttleID:   "shuttle-2",
			AssignedShuttleName: "Shuttle B",
			Status:              models.DriverStatusOffDuty,
			Rating:              4.9,
		},
		{
			DriverID:  "driver-3",
			FirstName: "Yaw",
			LastName:  "Boateng",
			Email:     "yaw.boateng@campusride.test",
			IsActive:  true,
			// No shuttle assigned yet; cannot start a shift
			Status: models.DriverStatusOffDuty,
			Rating: 4.5,
		},
	}

	for i := range drivers {
		if err := db.SaveDriver(ctx, &drivers[i]); err != nil {
			log.Fatalf("❌ Failed to seed driver %s: %v", drivers[i].DriverID, err)
		}
	}
	log.Printf("✅ Seeded %d drivers", len(drivers))
}

func seedUsers(ctx context.Context, db *store.Firestore) {
	type account struct {
		id       string
		email    string
		name     string
		role     string
		password string
	}

	accounts := []account{
		{"admin-1", "admin@campusride.test", "Transport Office", "admin", "admin12345"},
		{"driver-1", "kwame.mensah@campusride.test", "Kwame Mensah", "driver", "driver12345"},
		{"driver-2", "ama.owusu@campusride.test", "Ama Owusu", "driver", "driver12345"},
		{"rider-1", "rider@campusride.test", "Test Rider", "rider", "rider12345"},
	}

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("❌ Failed to hash password for %s: %v", a.email, err)
		}
		user := &models.User{
			UserID:       a.id,
			Email:        a.email,
			PasswordHash: string(hash),
			Name:         a.name,
			Role:         a.role,
			CreatedAt:    time.Now(),
		}
		if err := db.SaveUser(ctx, user); err != nil {
			log.Fatalf("❌ Failed to seed user %s: %v", a.email, err)
		}
	}
	log.Printf("✅ Seeded %d accounts", len(accounts))
}
