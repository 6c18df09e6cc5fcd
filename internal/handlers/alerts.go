package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"campusride-backend/internal/notify"
	"campusride-backend/internal/services"
	"campusride-backend/pkg/utils"
)

// RiderTokenSource lists the push tokens riders have registered
type RiderTokenSource interface {
	ListRiderFCMTokens(ctx context.Context) ([]string, error)
}

// BroadcastAlert accepts a structured alert payload from an admin and
// fans it out: the decision engine validates it and pushes the decided
// alert to connected riders, then the same alert goes out over FCM so
// offline devices receive it too. With a topic configured the raw
// payload is published there; without one the decided alert is pushed
// directly to every registered rider token.
func BroadcastAlert(engine *notify.Engine, fcm *services.FCMService, tokens RiderTokenSource, topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("📥 REQUEST: Broadcast alert type=%q", payload["type"])

		alert, err := engine.HandlePayload(payload)
		if err != nil {
			respondAppError(w, err)
			return
		}

		// Connected riders already got it; push failures are logged and
		// never fail the request
		if fcm != nil {
			switch {
			case topic != "":
				if err := fcm.SendShuttleAlertToTopic(r.Context(), topic, payload); err != nil {
					log.Printf("⚠️ FCM topic push failed: %v", err)
				}
			case tokens != nil:
				riderTokens, err := tokens.ListRiderFCMTokens(r.Context())
				if err != nil {
					log.Printf("⚠️ Could not list rider tokens: %v", err)
				} else if len(riderTokens) > 0 {
					if err := fcm.SendMulticast(r.Context(), riderTokens, alert.Title, alert.Body, payload); err != nil {
						log.Printf("⚠️ FCM multicast failed: %v", err)
					}
				}
			}
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
