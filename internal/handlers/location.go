package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"campusride-backend/internal/geo"
	"campusride-backend/internal/middleware"
	"campusride-backend/internal/store"
	"campusride-backend/pkg/utils"
)

type LocationUpdateRequest struct {
	ShuttleID string  `json:"shuttle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PassengerCountRequest struct {
	ShuttleID string `json:"shuttle_id"`
	Count     int    `json:"count"`
}

// UpdateLocation writes a driver position fix. The HTTP path exists as
// a fallback for clients without a live socket; both paths converge on
// the same store write.
func UpdateLocation(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req LocationUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ShuttleID == "" {
			utils.RespondError(w, http.StatusBadRequest, "shuttle_id is required")
			return
		}

		if !geo.WithinBounds(req.Latitude, req.Longitude, geo.CampusBounds) {
			log.Printf("⚠️ Off-campus fix from driver %s: %.5f,%.5f", claims.UserID, req.Latitude, req.Longitude)
			utils.RespondError(w, http.StatusBadRequest, "Location is outside the service area")
			return
		}

		if err := db.UpdateShuttleLocation(r.Context(), req.ShuttleID, req.Latitude, req.Longitude); err != nil {
			respondAppError(w, err)
			return
		}

		log.Printf("📍 Location updated: shuttle=%s by driver=%s", req.ShuttleID, claims.UserID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// UpdatePassengerCount records the current head count for a shuttle
func UpdatePassengerCount(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PassengerCountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ShuttleID == "" {
			utils.RespondError(w, http.StatusBadRequest, "shuttle_id is required")
			return
		}
		if req.Count < 0 {
			utils.RespondError(w, http.StatusBadRequest, "count cannot be negative")
			return
		}

		if err := db.UpdatePassengerCount(r.Context(), req.ShuttleID, req.Count); err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// CompleteTrip bumps the authenticated driver's cumulative trip counter
func CompleteTrip(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if err := db.IncrementDriverTrips(r.Context(), claims.UserID); err != nil {
			respondAppError(w, err)
			return
		}

		log.Printf("✅ Trip completed: driver=%s", claims.UserID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
