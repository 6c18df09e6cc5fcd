package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"campusride-backend/internal/geo"
	"campusride-backend/internal/notify"
	"campusride-backend/internal/tracker"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 2048 // Increased for location_update messages
)

// LocationWriter is the slice of the document store driver clients
// write position fixes through.
type LocationWriter interface {
	UpdateShuttleLocation(ctx context.Context, shuttleID string, lat, lng float64) error
}

// Client represents a WebSocket client connection
type Client struct {
	ID       string
	UserID   string
	UserRole string // User's role: "rider", "driver" or "admin"
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte
	store    LocationWriter

	// Rider-only: live tracking session and proximity alerting.
	// Nil for driver and admin connections.
	session *tracker.Session
	watcher *notify.ProximityWatcher
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Type      string                 `json:"type"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewClient creates a new WebSocket client
func NewClient(userID string, userRole string, conn *websocket.Conn, hub *Hub, store LocationWriter) *Client {
	return &Client{
		UserID:   userID,
		UserRole: userRole,
		conn:     conn,
		hub:      hub,
		send:     make(chan []byte, 256),
		store:    store,
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		// Release the tracking session so its backend listeners stop
		if c.session != nil {
			c.session.Close()
		}
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Parse incoming message
		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Invalid message format: %v", err)
			continue
		}

		// Handle different message types
		switch msg.Type {
		case "ping":
			// Respond with pong
			response := map[string]interface{}{
				"type":      "pong",
				"timestamp": time.Now().Format(time.RFC3339),
			}
			responseData, _ := json.Marshal(response)
			c.send <- responseData

		case "select_stop":
			c.handleSelectStop(msg.Data)

		case "location_update":
			// Handle driver location update
			c.handleLocationUpdate(msg.Data)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleSelectStop repoints the rider's tracking session at a stop.
// The next reconciled update carries per-shuttle distance and ETA
// relative to it.
func (c *Client) handleSelectStop(data map[string]interface{}) {
	if c.session == nil {
		log.Printf("⚠️ select_stop from non-rider client %s", c.UserID)
		return
	}

	stopID, _ := data["stopId"].(string)
	c.session.SelectStop(stopID)
	if c.watcher != nil {
		c.watcher.Reset()
	}
	log.Printf("📍 User %s selected stop %q", c.UserID, stopID)
}

// handleLocationUpdate processes driver location updates received via WebSocket
func (c *Client) handleLocationUpdate(data map[string]interface{}) {
	if c.UserRole != "driver" {
		log.Printf("⚠️ location_update from non-driver client %s", c.UserID)
		return
	}

	log.Printf("📍 Received location_update from driver %s", c.UserID)

	shuttleID, ok := data["shuttleId"].(string)
	if !ok || shuttleID == "" {
		log.Printf("❌ Missing shuttleId in location update")
		return
	}

	latitude, ok := data["latitude"].(float64)
	if !ok {
		log.Printf("❌ Invalid latitude in location update")
		return
	}

	longitude, ok := data["longitude"].(float64)
	if !ok {
		log.Printf("❌ Invalid longitude in location update")
		return
	}

	if !geo.WithinBounds(latitude, longitude, geo.CampusBounds) {
		log.Printf("⚠️ Ignoring off-campus location from driver %s: %.5f,%.5f", c.UserID, latitude, longitude)
		return
	}

	if c.store == nil {
		log.Printf("❌ Store not available for location update")
		return
	}

	if err := c.store.UpdateShuttleLocation(context.Background(), shuttleID, latitude, longitude); err != nil {
		log.Printf("❌ Error saving location for shuttle %s: %v", shuttleID, err)
		return
	}

	log.Printf("✅ Location updated for shuttle %s", shuttleID)

	// Admins see raw driver positions as they land; riders get theirs
	// through the reconciled tracking sessions instead.
	c.hub.BroadcastToRole("admin", map[string]interface{}{
		"type": "driver_location_update",
		"data": map[string]interface{}{
			"driver_id":  c.UserID,
			"shuttle_id": shuttleID,
			"latitude":   latitude,
			"longitude":  longitude,
			"timestamp":  time.Now().Unix(),
		},
	})
}
