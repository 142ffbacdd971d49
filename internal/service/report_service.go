package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/mq"
	"github.com/example/campusreports/backend/internal/repository"
	"github.com/example/campusreports/backend/internal/workflow"
)

// ReportService owns report creation and every status change. Each mutation
// writes the report and its ledger entry in one unit of work.
type ReportService struct {
	store repository.Store
	deps
}

// NewReportService builds a service with dependencies.
func NewReportService(store repository.Store, opts ...Option) *ReportService {
	return &ReportService{store: store, deps: newDeps(opts)}
}

// Create persists a new OPEN report together with its genesis ledger entry.
func (s *ReportService) Create(ctx context.Context, in models.NewReport) (*models.Report, error) {
	var report *models.Report
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		category, err := requireActiveCategory(ctx, tx.Categories(), in.CategoryID)
		if err != nil {
			return err
		}

		report = &models.Report{
			Title:        in.Title,
			Description:  in.Description,
			CategoryID:   in.CategoryID,
			Location:     in.Location,
			Priority:     in.Priority,
			Status:       models.StatusOpen,
			ReporterName: in.ReporterName,
		}
		if err := tx.Reports().Create(ctx, report); err != nil {
			return apperr.Internal(err, "failed to create report")
		}
		report.Category = category

		return appendEntry(ctx, tx, &models.Update{
			ReportID:  report.ID,
			Comment:   GenesisComment,
			UpdatedBy: genesisAuthor(in.ReporterName),
			StatusNew: models.StatusOpen.Ptr(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncReportCreated(string(report.Priority))
	s.metrics.IncLedgerEntry(ledgerKindGenesis)
	s.logger.Info("report created", "report_id", report.ID, "category_id", report.CategoryID, "priority", report.Priority)
	s.publishEvent(ctx, mq.Event{
		Event:      mq.EventReportCreated,
		ReportID:   report.ID,
		CategoryID: report.CategoryID,
		Title:      report.Title,
		Priority:   string(report.Priority),
		Status:     string(report.Status),
		Actor:      genesisAuthor(in.ReporterName),
	})
	return report, nil
}

// Get returns a report with its category and full ledger, newest entry first.
func (s *ReportService) Get(ctx context.Context, id uint) (*models.ReportDetail, error) {
	var detail *models.ReportDetail
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		report, err := findReport(ctx, tx.Reports(), id)
		if err != nil {
			return err
		}
		updates, _, err := tx.Updates().ListByReport(ctx, id, repository.Pagination{})
		if err != nil {
			return apperr.Internal(err, "failed to load report history")
		}
		detail = &models.ReportDetail{Report: *report, Updates: updates}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// List returns the matching page of reports, newest first, and the total match count.
func (s *ReportService) List(ctx context.Context, filter repository.ReportFilter, page repository.Pagination) ([]models.Report, int64, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, apperr.Validation("startDate must not be after endDate")
	}
	reports, total, err := s.store.Reports().List(ctx, filter, page)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list reports")
	}
	return reports, total, nil
}

// UpdateStatus moves a report to target if the workflow allows it from the
// current status, appending the matching ledger entry in the same unit of work.
func (s *ReportService) UpdateStatus(ctx context.Context, id uint, target models.ReportStatus, updatedBy string) (*models.Report, error) {
	if !target.Valid() {
		return nil, apperr.Validation("invalid status %q", target)
	}

	var (
		previous models.ReportStatus
		rejected bool
		report   *models.Report
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		current, err := findReport(ctx, tx.Reports(), id)
		if err != nil {
			return err
		}
		previous = current.Status

		if !workflow.CanTransition(previous, target) {
			rejected = true
			return apperr.Validation("invalid status transition: current status %s, allowed: %s",
				previous, workflow.Describe(workflow.AllowedNext(previous)))
		}

		switch err := tx.Reports().UpdateStatus(ctx, id, previous, target); {
		case errors.Is(err, repository.ErrStaleStatus):
			return apperr.Conflict("report status changed concurrently, reload and retry")
		case errors.Is(err, repository.ErrNotFound):
			return apperr.NotFound("report not found")
		case err != nil:
			return apperr.Internal(err, "failed to update report status")
		}

		if err := appendEntry(ctx, tx, &models.Update{
			ReportID:  id,
			Comment:   transitionComment(previous, target),
			UpdatedBy: updatedBy,
			StatusOld: previous.Ptr(),
			StatusNew: target.Ptr(),
		}); err != nil {
			return err
		}

		report, err = findReport(ctx, tx.Reports(), id)
		return err
	})
	if err != nil {
		if rejected {
			s.metrics.IncRejectedTransition(string(previous), string(target))
		}
		return nil, err
	}

	s.metrics.IncTransition(string(previous), string(target))
	s.metrics.IncLedgerEntry(ledgerKindTransition)
	s.logger.Info("report status changed", "report_id", id, "from", previous, "to", target, "updated_by", updatedBy)
	s.publishEvent(ctx, mq.Event{
		Event:          mq.EventReportStatusChanged,
		ReportID:       id,
		CategoryID:     report.CategoryID,
		Status:         string(target),
		PreviousStatus: string(previous),
		Actor:          updatedBy,
	})
	return report, nil
}

func findReport(ctx context.Context, reports repository.ReportRepository, id uint) (*models.Report, error) {
	report, err := reports.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("report not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load report")
	}
	return report, nil
}

func genesisAuthor(reporterName *string) string {
	if reporterName != nil && strings.TrimSpace(*reporterName) != "" {
		return *reporterName
	}
	return SystemAuthor
}
