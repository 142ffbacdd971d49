package service

import (
	"context"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/mq"
	"github.com/example/campusreports/backend/internal/repository"
)

// UpdateService records free-form notes in a report's ledger and reads the ledger back.
type UpdateService struct {
	store repository.Store
	deps
}

// NewUpdateService builds a service with dependencies.
func NewUpdateService(store repository.Store, opts ...Option) *UpdateService {
	return &UpdateService{store: store, deps: newDeps(opts)}
}

// AddNote appends a comment that does not change the report's status.
func (s *UpdateService) AddNote(ctx context.Context, reportID uint, comment, updatedBy string) (*models.Update, error) {
	entry := &models.Update{ReportID: reportID, Comment: comment, UpdatedBy: updatedBy}
	var categoryID uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		report, err := findReport(ctx, tx.Reports(), reportID)
		if err != nil {
			return err
		}
		categoryID = report.CategoryID
		return appendEntry(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncLedgerEntry(ledgerKind(*entry))
	s.logger.Info("report note added", "report_id", reportID, "update_id", entry.ID)
	s.publishEvent(ctx, mq.Event{
		Event:      mq.EventReportNoteAdded,
		ReportID:   reportID,
		CategoryID: categoryID,
		Actor:      updatedBy,
	})
	return entry, nil
}

// List returns a page of the report's ledger, newest first, and its total size.
func (s *UpdateService) List(ctx context.Context, reportID uint, page repository.Pagination) ([]models.Update, int64, error) {
	var (
		updates []models.Update
		total   int64
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := findReport(ctx, tx.Reports(), reportID); err != nil {
			return err
		}
		var err error
		updates, total, err = tx.Updates().ListByReport(ctx, reportID, page)
		if err != nil {
			return apperr.Internal(err, "failed to list report history")
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return updates, total, nil
}
