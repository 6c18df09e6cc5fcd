package handlers

import (
	"encoding/json"
	"net/http"

	"campusride-backend/internal/middleware"
	"campusride-backend/internal/store"
	"campusride-backend/pkg/utils"
)

type FavoriteStopsRequest struct {
	StopIDs []string `json:"stop_ids"`
}

type FCMTokenRequest struct {
	Token string `json:"token"`
}

// Me returns the authenticated user's profile
func Me(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := db.GetUser(r.Context(), claims.UserID)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user.ToUserResponse(),
		})
	}
}

// UpdateFavoriteStops replaces the rider's starred stop list
func UpdateFavoriteStops(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req FavoriteStopsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.StopIDs == nil {
			req.StopIDs = []string{}
		}

		if err := db.UpdateFavoriteStops(r.Context(), claims.UserID, req.StopIDs); err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":        true,
			"favorite_stops": req.StopIDs,
		})
	}
}

// RegisterFCMToken stores a refreshed push token for the user's device
func RegisterFCMToken(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req FCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}

		if err := db.RegisterFCMToken(r.Context(), claims.UserID, req.Token); err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
