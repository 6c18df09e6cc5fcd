package handlers

import (
	"net/http"
	"sort"

	"campusride-backend/internal/geo"
	"campusride-backend/internal/models"
	"campusride-backend/internal/store"
	"campusride-backend/pkg/utils"
)

// GetShuttles returns the available shuttles as a point-in-time
// snapshot. With ?stop_id=... each shuttle is enriched with distance
// and ETA to that stop and the list is ranked nearest first.
func GetShuttles(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shuttles, err := db.ListShuttles(r.Context())
		if err != nil {
			respondAppError(w, err)
			return
		}

		available := make([]models.Shuttle, 0, len(shuttles))
		for _, shuttle := range shuttles {
			if shuttle.IsAvailable() {
				available = append(available, shuttle)
			}
		}

		var selected *models.Stop
		if stopID := r.URL.Query().Get("stop_id"); stopID != "" {
			stop, err := db.GetStop(r.Context(), stopID)
			if err == nil && stop.HasLocation() {
				selected = stop
			}
		}

		if selected != nil {
			for i := range available {
				if !available[i].HasLocation() {
					continue
				}
				available[i].DistanceToStopKm = geo.DistanceKm(
					available[i].CurrentLocation.Latitude, available[i].CurrentLocation.Longitude,
					selected.Location.Latitude, selected.Location.Longitude,
				)
				available[i].ETAMinutes = geo.ETAMinutes(available[i].DistanceToStopKm, geo.DefaultSpeedKmh)
			}
			// Located shuttles nearest first, unlocated last
			sort.SliceStable(available, func(i, j int) bool {
				li, lj := available[i].HasLocation(), available[j].HasLocation()
				if li != lj {
					return li
				}
				if !li {
					return false
				}
				return available[i].DistanceToStopKm < available[j].DistanceToStopKm
			})
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"shuttles":      available,
			"selected_stop": selected,
		})
	}
}

// GetStops returns the active stop set
func GetStops(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stops, err := db.ListStops(r.Context())
		if err != nil {
			respondAppError(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stops":   stops,
		})
	}
}

// GetRoutes returns the active route set
func GetRoutes(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes, err := db.ListRoutes(r.Context())
		if err != nil {
			respondAppError(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"routes":  routes,
		})
	}
}
