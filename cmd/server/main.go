package main

import (
	"context"
	"log"
	"net/http"

	"campusride-backend/internal/config"
	"campusride-backend/internal/handlers"
	"campusride-backend/internal/middleware"
	"campusride-backend/internal/notify"
	"campusride-backend/internal/reports"
	"campusride-backend/internal/services"
	"campusride-backend/internal/shift"
	"campusride-backend/internal/store"
	"campusride-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 CAMPUSRIDE BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	log.Println("📂 Loading configuration...")
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: APP_JWT_SECRET environment variable is required")
		log.Println("   Please set APP_JWT_SECRET in your deployment variables or .env file")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("APP_JWT_SECRET environment variable is required")
	}
	log.Println("✅ Configuration loaded")

	// Connect to Firestore
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	ctx := context.Background()
	log.Println("🔌 Connecting to Firestore...")
	var db *store.Firestore
	var err error
	if cfg.FirebaseCredentialsBase64 != "" {
		db, err = store.NewFirestoreFromBase64(ctx, cfg.FirebaseCredentialsBase64)
	} else {
		db, err = store.NewFirestore(ctx, cfg.FirebaseCredentialsFile)
	}
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Firestore connection failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Missing or invalid service account credentials")
		log.Println("   2. Wrong FIREBASE_CREDENTIALS_FILE path")
		log.Println("   3. Network connectivity issue")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Firestore connection established")

	// Initialize Firebase Cloud Messaging
	var fcmService *services.FCMService
	if cfg.FirebaseCredentialsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(cfg.FirebaseCredentialsBase64)
	} else {
		fcmService, err = services.NewFCMService(cfg.FirebaseCredentialsFile)
	}
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM: %v (push notifications disabled)", err)
		fcmService = nil
	} else {
		log.Println("✅ Firebase Cloud Messaging initialized")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Domain services
	shiftManager := shift.NewManager(db)
	reportIntake := reports.NewIntake(db, db)
	broadcastEngine := notify.NewEngine(websocket.NewRiderBroadcaster(wsHub))

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))
	r.Post("/api/auth/register", handlers.Register(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, db, db, db, fcmService, websocket.SessionConfig{
		SpeedKmh:           cfg.SpeedKmh,
		ApproachingMinutes: cfg.ApproachingMinutes,
		ArrivingMinutes:    cfg.ArrivingMinutes,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Fleet snapshots (no auth required)
		r.Get("/stops", handlers.GetStops(db))
		r.Get("/routes", handlers.GetRoutes(db))
		r.Get("/shuttles", handlers.GetShuttles(db))

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Profile and preferences
			r.Get("/users/me", handlers.Me(db))
			r.Put("/users/favorites", handlers.UpdateFavoriteStops(db))
			r.Post("/users/fcm-token", handlers.RegisterFCMToken(db))

			// Issue reports
			r.Post("/reports", handlers.SubmitReport(reportIntake, db))
			r.Get("/reports/mine", handlers.MyReports(db))
		})

		// Driver endpoints (require authentication + driver role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("driver"))

			// Shift management
			r.Post("/driver/shift/start", handlers.StartShift(shiftManager))
			r.Post("/driver/shift/end", handlers.EndShift(shiftManager))
			r.Post("/driver/shift/break", handlers.ToggleBreak(shiftManager))
			r.Get("/driver/shift/status", handlers.ShiftStatus(shiftManager))

			// Location tracking (HTTP fallback for the socket path)
			r.Post("/driver/location", handlers.UpdateLocation(db))
			r.Post("/driver/passengers", handlers.UpdatePassengerCount(db))
			r.Post("/driver/trip-complete", handlers.CompleteTrip(db))
		})

		// Admin endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			// Report triage
			r.Get("/admin/reports/open", handlers.OpenReports(db))
			r.Patch("/admin/reports/{id}", handlers.UpdateReportStatus(reportIntake))

			// Campus-wide alert broadcast
			r.Post("/admin/alerts/broadcast", handlers.BroadcastAlert(broadcastEngine, fcmService, db, cfg.AlertTopic))
		})
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", cfg.Port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}
