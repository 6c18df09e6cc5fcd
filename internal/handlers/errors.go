package handlers

import (
	"net/http"

	"campusride-backend/internal/apperr"
	"campusride-backend/pkg/utils"
)

// respondAppError maps error kinds onto HTTP statuses: validation
// failures are the caller's to fix, permission failures are forbidden,
// transient backend failures invite a retry.
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case apperr.IsPermission(err):
		utils.RespondError(w, http.StatusForbidden, err.Error())
	case apperr.IsMalformed(err):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case apperr.IsTransient(err):
		utils.RespondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable, please try again")
	default:
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
