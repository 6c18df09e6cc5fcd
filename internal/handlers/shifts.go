package handlers

import (
	"log"
	"net/http"

	"campusride-backend/internal/middleware"
	"campusride-backend/internal/shift"
	"campusride-backend/pkg/utils"
)

// StartShift puts the authenticated driver on duty
func StartShift(manager *shift.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		log.Printf("📥 REQUEST: Start shift for driver %s", claims.UserID)

		driver, err := manager.StartShift(r.Context(), claims.UserID)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"driver":  driver,
		})
	}
}

// EndShift takes the authenticated driver off duty
func EndShift(manager *shift.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		log.Printf("📥 REQUEST: End shift for driver %s", claims.UserID)

		driver, err := manager.EndShift(r.Context(), claims.UserID)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"driver":  driver,
		})
	}
}

// ToggleBreak flips the authenticated driver between on duty and break
func ToggleBreak(manager *shift.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		log.Printf("📥 REQUEST: Toggle break for driver %s", claims.UserID)

		driver, err := manager.ToggleBreak(r.Context(), claims.UserID)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"driver":  driver,
		})
	}
}

// ShiftStatus reports the live hours of the driver's shift in progress
func ShiftStatus(manager *shift.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		hours, err := manager.CurrentShiftHours(r.Context(), claims.UserID)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":             true,
			"current_shift_hours": hours,
		})
	}
}
