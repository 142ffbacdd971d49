package models

import "time"

// Report is an incident submitted against a category. Its status is only ever
// changed by the workflow service and every change is mirrored in the ledger.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"size:200;not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	CategoryID   uint         `gorm:"not null;index" json:"categoryId"`
	Category     *Category    `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Location     string       `gorm:"size:200;not null" json:"location"`
	Priority     Priority     `gorm:"size:10;not null;index" json:"priority"`
	Status       ReportStatus `gorm:"size:20;not null;index" json:"status"`
	ReporterName *string      `gorm:"size:100" json:"reporterName"`
	CreatedAt    time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewReport holds the pre-validated input of a report submission.
type NewReport struct {
	Title        string
	Description  string
	CategoryID   uint
	Location     string
	Priority     Priority
	ReporterName *string
}

// ReportDetail is a report with its category and full ledger, newest entry first.
type ReportDetail struct {
	Report
	Updates []Update `json:"updates"`
}
