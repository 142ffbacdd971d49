package workflow

import (
	"strings"

	"github.com/example/campusreports/backend/internal/models"
)

// transitions is the fixed report workflow. No status maps to itself and
// CLOSED and CANCELLED are terminal.
var transitions = map[models.ReportStatus][]models.ReportStatus{
	models.StatusOpen:       {models.StatusInProgress, models.StatusResolved, models.StatusCancelled},
	models.StatusInProgress: {models.StatusResolved, models.StatusCancelled},
	models.StatusResolved:   {models.StatusClosed},
	models.StatusClosed:     {},
	models.StatusCancelled:  {},
}

// AllowedNext returns the statuses a report in status current may move to.
// Unknown statuses have no outgoing transitions. The returned slice is a copy.
func AllowedNext(current models.ReportStatus) []models.ReportStatus {
	next := transitions[current]
	out := make([]models.ReportStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from current to target is permitted.
func CanTransition(current, target models.ReportStatus) bool {
	for _, s := range transitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves status s.
func IsTerminal(s models.ReportStatus) bool {
	return len(transitions[s]) == 0
}

// Describe renders an allowed set for error messages, "none" when empty.
func Describe(statuses []models.ReportStatus) string {
	if len(statuses) == 0 {
		return "none"
	}
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
