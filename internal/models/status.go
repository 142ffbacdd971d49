package models

import "github.com/pkg/errors"

// ReportStatus describes the life-cycle state of a report in the workflow.
type ReportStatus string

const (
	StatusOpen       ReportStatus = "OPEN"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusResolved   ReportStatus = "RESOLVED"
	StatusClosed     ReportStatus = "CLOSED"
	StatusCancelled  ReportStatus = "CANCELLED"
)

// Statuses lists every report status in workflow order.
var Statuses = []ReportStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s ReportStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a ReportStatus.
func ParseStatus(raw string) (ReportStatus, error) {
	s := ReportStatus(raw)
	if !s.Valid() {
		return "", errors.Errorf("unknown report status %q", raw)
	}
	return s, nil
}

// Ptr returns a pointer to a copy of s, used for nullable ledger columns.
func (s ReportStatus) Ptr() *ReportStatus {
	return &s
}

// Priority ranks how urgently a report should be handled.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePriority converts raw input into a Priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return "", errors.Errorf("unknown priority %q", raw)
	}
	return p, nil
}
