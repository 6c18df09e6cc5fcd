package websocket

import (
	"context"
	"log"
	"net/http"
	"os"

	"campusride-backend/internal/middleware"
	"campusride-backend/internal/models"
	"campusride-backend/internal/notify"
	"campusride-backend/internal/services"
	"campusride-backend/internal/tracker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict in production
		return true
	},
}

// alertDispatcher delivers decided alerts down the rider's socket.
// Cancel semantics are handled client side via the alert key.
type alertDispatcher struct {
	hub    *Hub
	userID string
}

func (d *alertDispatcher) Show(alert notify.Alert) {
	d.hub.BroadcastToUser(d.userID, map[string]interface{}{
		"type": "alert",
		"data": alert,
	})
}

func (d *alertDispatcher) Cancel(key string) {
	d.hub.BroadcastToUser(d.userID, map[string]interface{}{
		"type": "alert_cancel",
		"data": map[string]string{"key": key},
	})
}

func (d *alertDispatcher) CancelAll() {
	d.hub.BroadcastToUser(d.userID, map[string]interface{}{
		"type": "alert_cancel_all",
	})
}

// RiderBroadcaster fans decided alerts out to every connected rider.
// Backs the admin broadcast path; per-rider proximity alerts use the
// per-connection dispatcher instead.
type RiderBroadcaster struct {
	hub *Hub
}

// NewRiderBroadcaster creates a dispatcher that reaches all riders
func NewRiderBroadcaster(hub *Hub) *RiderBroadcaster {
	return &RiderBroadcaster{hub: hub}
}

func (b *RiderBroadcaster) Show(alert notify.Alert) {
	b.hub.BroadcastToRole("rider", map[string]interface{}{
		"type": "alert",
		"data": alert,
	})
}

func (b *RiderBroadcaster) Cancel(key string) {
	b.hub.BroadcastToRole("rider", map[string]interface{}{
		"type": "alert_cancel",
		"data": map[string]string{"key": key},
	})
}

func (b *RiderBroadcaster) CancelAll() {
	b.hub.BroadcastToRole("rider", map[string]interface{}{
		"type": "alert_cancel_all",
	})
}

// SessionConfig tunes the per-rider tracking sessions
type SessionConfig struct {
	SpeedKmh           float64
	ApproachingMinutes int
	ArrivingMinutes    int
}

// UserLookup resolves user documents for session defaults
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// HandleWebSocket upgrades HTTP connection to WebSocket
func HandleWebSocket(hub *Hub, feed tracker.Feed, writer LocationWriter, users UserLookup, fcm *services.FCMService, sc SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Try to get token from query parameter first (for WebSocket connections)
		tokenString := r.URL.Query().Get("token")

		var userClaims middleware.UserClaims

		if tokenString != "" {
			// Validate token from query parameter
			jwtSecret := os.Getenv("APP_JWT_SECRET")
			if jwtSecret == "" {
				log.Println("❌ JWT secret not configured")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			// Parse and validate token
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				// Validate signing method
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				log.Printf("❌ Invalid token in query parameter: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Extract claims
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				log.Println("❌ Failed to parse claims")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Convert to UserClaims struct. Reject well-signed tokens
			// that lack identity claims instead of panicking on them.
			var claimsOK bool
			userClaims, claimsOK = middleware.UserFromJWTClaims(claims)
			if !claimsOK {
				log.Println("❌ Token missing identity claims")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		} else {
			// Fallback: Get user from context (set by Auth middleware)
			var ok bool
			userClaims, ok = middleware.GetUserFromContext(r)
			if !ok {
				log.Println("❌ No user in context for WebSocket connection")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		// Create and register the client before anything can emit to it
		client := NewClient(userClaims.UserID, userClaims.Role, conn, hub, writer)
		hub.register <- client

		// Riders get a live tracking session: reconciled updates are
		// pushed down their socket, and proximity crossings become alerts.
		if userClaims.Role == "rider" {
			if err := attachRiderSession(r.Context(), hub, client, feed, users, fcm, sc); err != nil {
				log.Printf("❌ Failed to open tracking session for %s: %v", userClaims.UserID, err)
				hub.unregister <- client
				conn.Close()
				return
			}
		}

		// Start pumps in separate goroutines
		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ WebSocket connection established for user: %s (%s)", userClaims.Email, userClaims.UserID)
	}
}

// attachRiderSession opens the rider's live view. The client must
// already be registered with the hub: the entity feeds deliver their
// first full snapshot immediately, and an update emitted before
// registration would be dropped instead of reaching the socket.
func attachRiderSession(ctx context.Context, hub *Hub, client *Client, feed tracker.Feed, users UserLookup, fcm *services.FCMService, sc SessionConfig) error {
	var dispatcher notify.Dispatcher = &alertDispatcher{hub: hub, userID: client.UserID}

	var favoriteStop string
	if users != nil {
		if user, err := users.GetUser(ctx, client.UserID); err == nil {
			if len(user.FavoriteStops) > 0 {
				favoriteStop = user.FavoriteStops[0]
			}
			// Proximity alerts also go out as pushes, so a rider whose
			// socket drops still hears about an approaching shuttle
			if fcm != nil && user.FCMToken != "" {
				dispatcher = notify.NewMultiDispatcher(dispatcher, services.NewFCMDispatcher(fcm, user.FCMToken))
			}
		}
	}

	engine := notify.NewEngine(dispatcher)
	watcher := notify.NewProximityWatcherWithThresholds(engine, sc.ApproachingMinutes, sc.ArrivingMinutes)

	// The session outlives this request: it is torn down by ReadPump
	// when the socket closes, so it must not inherit the request context.
	session, err := tracker.NewSession(context.Background(), feed, func(update tracker.Update) {
		watcher.Observe(update)
		hub.BroadcastToUser(client.UserID, map[string]interface{}{
			"type": "tracking_update",
			"data": update,
		})
	}, tracker.WithSpeed(sc.SpeedKmh))
	if err != nil {
		return err
	}
	client.session = session
	client.watcher = watcher

	// A rider with a starred stop starts tracking it immediately;
	// a select_stop message overrides at any time.
	if favoriteStop != "" {
		session.SelectStop(favoriteStop)
	}
	return nil
}
