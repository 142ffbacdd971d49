package models

import "time"

// Category classifies reports. Deactivated categories keep their reports but accept no new ones.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"size:500" json:"description"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryPatch carries the optional fields of a category update.
type CategoryPatch struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// Apply copies the set fields onto c.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// CategoryDetail is a category together with its most recent reports.
type CategoryDetail struct {
	Category
	RecentReports []Report `json:"reports"`
}
