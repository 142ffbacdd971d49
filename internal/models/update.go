package models

import "time"

// Update is an append-only ledger entry attached to a report. Entries with both
// status fields nil are free-form notes; the others record a status change.
type Update struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ReportID  uint          `gorm:"not null;index" json:"reportId"`
	Report    *Report       `gorm:"foreignKey:ReportID" json:"-"`
	Comment   string        `gorm:"type:text;not null" json:"comment"`
	UpdatedBy string        `gorm:"size:100;not null" json:"updatedBy"`
	StatusOld *ReportStatus `gorm:"size:20" json:"statusOld"`
	StatusNew *ReportStatus `gorm:"size:20" json:"statusNew"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
}

// IsTransition reports whether the entry records a status change.
func (u Update) IsTransition() bool {
	return u.StatusNew != nil
}

// ReplayStatus folds ledger entries, oldest first, into the status they imply.
// The second result is false when no entry carries a status.
func ReplayStatus(entries []Update) (ReportStatus, bool) {
	var (
		current ReportStatus
		seen    bool
	)
	for _, e := range entries {
		if e.StatusNew == nil {
			continue
		}
		current = *e.StatusNew
		seen = true
	}
	return current, seen
}
