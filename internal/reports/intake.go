// Package reports implements rider issue-report intake and the admin
// side of the report lifecycle.
package reports

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"campusride-backend/internal/apperr"
	"campusride-backend/internal/models"
)

// MinDescriptionLength is the minimum trimmed description length
const MinDescriptionLength = 10

// UnknownShuttleName is used when the reported shuttle id cannot be
// resolved against the current shuttle set. Not an error: reports stay
// submittable even when the fleet snapshot is stale.
const UnknownShuttleName = "Unknown Shuttle"

// Store is the slice of the document store the intake needs
type Store interface {
	AddReport(ctx context.Context, report *models.Report) (string, error)
	UpdateReport(ctx context.Context, reportID string, fields map[string]interface{}) error
}

// ShuttleLookup resolves shuttle ids to documents for display names
type ShuttleLookup interface {
	GetShuttle(ctx context.Context, shuttleID string) (*models.Shuttle, error)
}

// Intake validates and stores issue reports
type Intake struct {
	store    Store
	shuttles ShuttleLookup
	now      func() time.Time
}

// NewIntake creates a report intake
func NewIntake(store Store, shuttles ShuttleLookup) *Intake {
	return &Intake{store: store, shuttles: shuttles, now: time.Now}
}

// NewIntakeWithClock creates a report intake with an injected clock
func NewIntakeWithClock(store Store, shuttles ShuttleLookup, now func() time.Time) *Intake {
	return &Intake{store: store, shuttles: shuttles, now: now}
}

// Submit validates and stores a new report. The shuttle id, issue type
// and a trimmed description of at least 10 characters are required; all
// failures are validation errors surfaced inline to the caller.
func (i *Intake) Submit(ctx context.Context, userID, userName, shuttleID, issueType, description string) (*models.Report, error) {
	if strings.TrimSpace(shuttleID) == "" {
		return nil, apperr.Validationf("please select a shuttle")
	}
	if strings.TrimSpace(issueType) == "" {
		return nil, apperr.Validationf("please select an issue type")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validationf("please describe the issue")
	}
	// Characters, not bytes: a short description in a multibyte script
	// must fail the same way a short ASCII one does.
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return nil, apperr.Validationf("please provide more details (at least %d characters)", MinDescriptionLength)
	}

	report := &models.Report{
		UserID:      userID,
		UserName:    userName,
		ShuttleID:   shuttleID,
		ShuttleName: i.resolveShuttleName(ctx, shuttleID),
		IssueType:   models.ParseIssueType(issueType),
		Description: description,
		Status:      models.ReportPending,
		CreatedAt:   i.now(),
	}

	id, err := i.store.AddReport(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ReportID = id

	log.Printf("✅ Report submitted: id=%s shuttle=%s type=%s", id, report.ShuttleName, report.IssueType)
	return report, nil
}

func (i *Intake) resolveShuttleName(ctx context.Context, shuttleID string) string {
	shuttle, err := i.shuttles.GetShuttle(ctx, shuttleID)
	if err != nil || shuttle.ShuttleName == "" {
		return UnknownShuttleName
	}
	return shuttle.ShuttleName
}

// MarkInProgress moves a report into triage
func (i *Intake) MarkInProgress(ctx context.Context, reportID string) error {
	return i.store.UpdateReport(ctx, reportID, map[string]interface{}{
		"status": string(models.ReportInProgress),
	})
}

// Resolve closes a report with an admin response. ResolvedAt is written
// together with the status, preserving the resolution invariant.
func (i *Intake) Resolve(ctx context.Context, reportID, response string) error {
	return i.store.UpdateReport(ctx, reportID, map[string]interface{}{
		"status":        string(models.ReportResolved),
		"adminResponse": response,
		"resolvedAt":    i.now(),
	})
}

// Dismiss closes a report without action
func (i *Intake) Dismiss(ctx context.Context, reportID, reason string) error {
	return i.store.UpdateReport(ctx, reportID, map[string]interface{}{
		"status":        string(models.ReportDismissed),
		"adminResponse": reason,
		"resolvedAt":    i.now(),
	})
}
