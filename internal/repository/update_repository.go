package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/campusreports/backend/internal/models"
)

// UpdateGormRepository appends and reads ledger entries.
type UpdateGormRepository struct {
	db *gorm.DB
}

// Append inserts the entry. Entries are never modified afterwards.
func (r *UpdateGormRepository) Append(ctx context.Context, u *models.Update) error {
	return translate(r.db.WithContext(ctx).Omit("Report").Create(u).Error)
}

// ListByReport returns the report's entries, newest first.
func (r *UpdateGormRepository) ListByReport(ctx context.Context, reportID uint, page Pagination) ([]models.Update, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Update{}).Where("report_id = ?", reportID).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var updates []models.Update
	err := r.db.WithContext(ctx).Scopes(paginate(page)).
		Where("report_id = ?", reportID).
		Order("created_at desc, id desc").
		Find(&updates).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return updates, total, nil
}
