package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusride-backend/internal/models"
	"campusride-backend/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

// immediateFeed mimics the document store: every subscription delivers
// the complete current set synchronously, before Subscribe returns.
type immediateFeed struct{}

func (f *immediateFeed) SubscribeStops(ctx context.Context, fn func([]models.Stop)) (*store.Subscription, error) {
	fn([]models.Stop{{
		StopID:   "stop-main-gate",
		StopName: "Main Gate",
		Location: &models.GeoPoint{Latitude: 5.1053, Longitude: -1.2882},
		IsActive: true,
	}})
	return store.NewSubscription(func() {}), nil
}

func (f *immediateFeed) SubscribeRoutes(ctx context.Context, fn func([]models.Route)) (*store.Subscription, error) {
	fn(nil)
	return store.NewSubscription(func() {}), nil
}

func (f *immediateFeed) SubscribeShuttles(ctx context.Context, fn func([]models.Shuttle)) (*store.Subscription, error) {
	fn([]models.Shuttle{{
		ShuttleID:       "shuttle-1",
		ShuttleName:     "Shuttle A",
		Status:          models.ShuttleStatusActive,
		CurrentLocation: &models.GeoPoint{Latitude: 5.1100, Longitude: -1.2890},
	}})
	return store.NewSubscription(func() {}), nil
}

// A rider's session must only be opened once the client is registered:
// the feeds fire their first snapshot immediately, and an update
// emitted before registration would be dropped by the hub.
func TestInitialSnapshotReachesFreshClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("rider-1", "rider", nil, hub, nil)
	hub.register <- client

	if err := attachRiderSession(context.Background(), hub, client, &immediateFeed{}, nil, nil, SessionConfig{}); err != nil {
		t.Fatalf("attachRiderSession() error = %v", err)
	}
	t.Cleanup(client.session.Close)

	select {
	case raw := <-client.send:
		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal first message: %v", err)
		}
		if msg.Type != "tracking_update" {
			t.Errorf("first message type = %q, want tracking_update", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("initial snapshot never reached the freshly connected client")
	}
}

func TestHandleWebSocketRejectsTokenWithoutClaims(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "nobody",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	handler := HandleWebSocket(NewHub(), nil, nil, nil, nil, SessionConfig{})
	req := httptest.NewRequest("GET", "/ws?token="+signed, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
