package handlers

import (
	"encoding/json"
	"net/http"

	"campusride-backend/internal/middleware"
	"campusride-backend/internal/models"
	"campusride-backend/internal/reports"
	"campusride-backend/internal/store"
	"campusride-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type SubmitReportRequest struct {
	ShuttleID   string `json:"shuttle_id"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
}

type UpdateReportRequest struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// SubmitReport files an issue report from the authenticated rider
func SubmitReport(intake *reports.Intake, db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req SubmitReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		userName := claims.Email
		if user, err := db.GetUser(r.Context(), claims.UserID); err == nil && user.Name != "" {
			userName = user.Name
		}

		report, err := intake.Submit(r.Context(), claims.UserID, userName, req.ShuttleID, req.IssueType, req.Description)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"report":  report,
		})
	}
}

// MyReports returns the authenticated rider's reports, newest first
func MyReports(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		list, err := db.ListReportsForUser(r.Context(), claims.UserID)
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"reports": list,
		})
	}
}

// OpenReports returns the admin triage queue, oldest first
func OpenReports(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := db.ListOpenReports(r.Context())
		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"reports": list,
		})
	}
}

// UpdateReportStatus moves a report through its lifecycle. Resolving or
// dismissing requires a response text; the resolution timestamp is
// written together with the status.
func UpdateReportStatus(intake *reports.Intake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reportID := chi.URLParam(r, "id")
		if reportID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Report id is required")
			return
		}

		var req UpdateReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var err error
		switch models.ParseReportStatus(req.Status) {
		case models.ReportInProgress:
			err = intake.MarkInProgress(r.Context(), reportID)
		case models.ReportResolved:
			if req.Response == "" {
				utils.RespondError(w, http.StatusBadRequest, "A response is required to resolve a report")
				return
			}
			err = intake.Resolve(r.Context(), reportID, req.Response)
		case models.ReportDismissed:
			if req.Response == "" {
				utils.RespondError(w, http.StatusBadRequest, "A reason is required to dismiss a report")
				return
			}
			err = intake.Dismiss(r.Context(), reportID, req.Response)
		default:
			utils.RespondError(w, http.StatusBadRequest, "Unsupported status transition")
			return
		}

		if err != nil {
			respondAppError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
