package models

import (
	"testing"
	"time"
)

func TestParseIssueType(t *testing.T) {
	tests := []struct {
		in   string
		want IssueType
	}{
		{"delay", IssueDelay},
		{"BREAKDOWN", IssueBreakdown},
		{" overcrowding ", IssueOvercrowding},
		{"missed_stop", IssueMissedStop},
		{"driver_behavior", IssueDriverBehavior},
		{"cleanliness", IssueCleanliness},
		{"other", IssueOther},
		{"", IssueOther},
		{"teleportation", IssueOther},
	}

	for _, tt := range tests {
		if got := ParseIssueType(tt.in); got != tt.want {
			t.Errorf("ParseIssueType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseReportStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ReportStatus
	}{
		{"pending", ReportPending},
		{"in_progress", ReportInProgress},
		{"resolved", ReportResolved},
		{"dismissed", ReportDismissed},
		{"", ReportPending},
		{"garbage", ReportPending},
	}

	for _, tt := range tests {
		if got := ParseReportStatus(tt.in); got != tt.want {
			t.Errorf("ParseReportStatus(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestReportLifecycle(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	resolved := created.Add(2 * time.Hour)

	r := Report{Status: ReportPending, CreatedAt: created}
	if !r.IsPending() {
		t.Fatalf("new report not pending")
	}
	if r.ResolvedAt != nil {
		t.Fatalf("pending report has a resolution time")
	}

	r.MarkInProgress()
	if r.Status != ReportInProgress || r.ResolvedAt != nil {
		t.Errorf("in-progress report state: %+v", r)
	}

	r.MarkResolved("Shuttle replaced", resolved)
	if !r.IsResolved() {
		t.Errorf("resolved report not resolved")
	}
	if r.ResolvedAt == nil || !r.ResolvedAt.Equal(resolved) {
		t.Errorf("ResolvedAt = %v, want %v", r.ResolvedAt, resolved)
	}
	if r.ResolutionTime() != 2*time.Hour {
		t.Errorf("ResolutionTime() = %v, want 2h", r.ResolutionTime())
	}
}

func TestReportDismiss(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	r := Report{Status: ReportPending, CreatedAt: now.Add(-time.Hour)}
	r.Dismiss("Duplicate", now)

	if r.Status != ReportDismissed {
		t.Errorf("Status = %s, want dismissed", r.Status)
	}
	if r.AdminResponse != "Duplicate" {
		t.Errorf("AdminResponse = %q", r.AdminResponse)
	}
	if r.ResolvedAt == nil {
		t.Errorf("dismissed report missing resolution time")
	}
}

func TestDriverShiftHelpers(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	now := start.Add(3 * time.Hour)

	d := Driver{FirstName: "Kwame", LastName: "Mensah", OnShift: true, ShiftStartTime: &start}
	if d.FullName() != "Kwame Mensah" {
		t.Errorf("FullName() = %q", d.FullName())
	}
	if got := d.CurrentShiftHours(now); got != 3 {
		t.Errorf("CurrentShiftHours() = %v, want 3", got)
	}

	off := Driver{}
	if got := off.CurrentShiftHours(now); got != 0 {
		t.Errorf("off-shift CurrentShiftHours() = %v, want 0", got)
	}
	if off.HasAssignedShuttle() {
		t.Errorf("driver without shuttle reports an assignment")
	}
}

func TestRouteStopsString(t *testing.T) {
	r := Route{StopNames: []string{"Main Gate", "Science Block", "Main Library"}}
	if got := r.StopsString(); got != "Main Gate → Science Block → Main Library" {
		t.Errorf("StopsString() = %q", got)
	}

	empty := Route{}
	if got := empty.StopsString(); got != "No stops" {
		t.Errorf("empty StopsString() = %q", got)
	}
}

func TestRouteStopListLockstep(t *testing.T) {
	r := Route{}
	r.AddStop("stop-1", "Main Gate")
	r.AddStop("stop-2", "Science Block")
	r.AddStop("stop-1", "Main Gate") // duplicate ignored

	if r.StopCount() != 2 || len(r.StopNames) != 2 {
		t.Fatalf("lists out of lockstep: %v / %v", r.StopIDs, r.StopNames)
	}

	r.RemoveStop("stop-1")
	if r.StopCount() != 1 || r.StopNames[0] != "Science Block" {
		t.Errorf("remove broke lockstep: %v / %v", r.StopIDs, r.StopNames)
	}
}
