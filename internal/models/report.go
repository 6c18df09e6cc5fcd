package models

import (
	"strings"
	"time"
)

// IssueType categorizes a rider issue report
type IssueType string

const (
	IssueDelay          IssueType = "delay"
	IssueBreakdown      IssueType = "breakdown"
	IssueOvercrowding   IssueType = "overcrowding"
	IssueMissedStop     IssueType = "missed_stop"
	IssueDriverBehavior IssueType = "driver_behavior"
	IssueCleanliness    IssueType = "cleanliness"
	IssueOther          IssueType = "other"
)

var issueDisplayNames = map[IssueType]string{
	IssueDelay:          "Delay",
	IssueBreakdown:      "Breakdown",
	IssueOvercrowding:   "Overcrowding",
	IssueMissedStop:     "Missed Stop",
	IssueDriverBehavior: "Driver Behavior",
	IssueCleanliness:    "Cleanliness",
	IssueOther:          "Other",
}

// ParseIssueType parses a stored issue type, defaulting to other
func ParseIssueType(s string) IssueType {
	t := IssueType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := issueDisplayNames[t]; ok {
		return t
	}
	return IssueOther
}

// DisplayName returns the human-readable issue label
func (t IssueType) DisplayName() string {
	if name, ok := issueDisplayNames[t]; ok {
		return name
	}
	return "Other"
}

// ReportStatus tracks a report through its lifecycle
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportDismissed  ReportStatus = "dismissed"
)

// ParseReportStatus parses a stored report status, defaulting to pending
func ParseReportStatus(s string) ReportStatus {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ReportInProgress:
		return ReportInProgress
	case ReportResolved:
		return ReportResolved
	case ReportDismissed:
		return ReportDismissed
	default:
		return ReportPending
	}
}

// Report represents a rider-submitted issue report.
// Invariant: ResolvedAt is set iff status is resolved or dismissed.
type Report struct {
	ReportID      string       `json:"report_id" firestore:"reportId"`
	UserID        string       `json:"user_id" firestore:"userId"`
	UserName      string       `json:"user_name,omitempty" firestore:"userName"`
	ShuttleID     string       `json:"shuttle_id" firestore:"shuttleId"`
	ShuttleName   string       `json:"shuttle_name" firestore:"shuttleName"`
	IssueType     IssueType    `json:"issue_type" firestore:"issueType"`
	Description   string       `json:"description" firestore:"description"`
	Status        ReportStatus `json:"status" firestore:"status"`
	AdminResponse string       `json:"admin_response,omitempty" firestore:"adminResponse"`
	CreatedAt     time.Time    `json:"created_at" firestore:"createdAt"`
	ResolvedAt    *time.Time   `json:"resolved_at" firestore:"resolvedAt"`
}

// IsPending reports whether the report is still awaiting triage
func (r *Report) IsPending() bool {
	return r.Status == ReportPending
}

// IsResolved reports whether the report reached a resolved state
func (r *Report) IsResolved() bool {
	return r.Status == ReportResolved
}

// MarkInProgress moves the report into triage
func (r *Report) MarkInProgress() {
	r.Status = ReportInProgress
}

// MarkResolved closes the report with an admin response
func (r *Report) MarkResolved(response string, now time.Time) {
	r.Status = ReportResolved
	r.AdminResponse = response
	r.ResolvedAt = &now
}

// Dismiss closes the report without action
func (r *Report) Dismiss(reason string, now time.Time) {
	r.Status = ReportDismissed
	r.AdminResponse = reason
	r.ResolvedAt = &now
}

// ResolutionTime returns how long the report took to close.
// Only meaningful when both timestamps exist; zero otherwise.
func (r *Report) ResolutionTime() time.Duration {
	if r.CreatedAt.IsZero() || r.ResolvedAt == nil {
		return 0
	}
	return r.ResolvedAt.Sub(r.CreatedAt)
}
