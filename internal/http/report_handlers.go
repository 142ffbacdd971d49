package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/repository"
)

type createReportRequest struct {
	Title        string  `json:"title" binding:"required,min=5,max=200"`
	Description  string  `json:"description" binding:"required,min=10"`
	CategoryID   uint    `json:"categoryId" binding:"required,min=1"`
	Location     string  `json:"location" binding:"required,min=5,max=200"`
	Priority     string  `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	ReporterName *string `json:"reporterName" binding:"omitempty,max=100"`
}

type updateStatusRequest struct {
	Status    string `json:"status" binding:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED CANCELLED"`
	UpdatedBy string `json:"updatedBy" binding:"required,max=100"`
}

type createUpdateRequest struct {
	Comment   string `json:"comment" binding:"required,min=5"`
	UpdatedBy string `json:"updatedBy" binding:"required,max=100"`
}

func (s *Server) createReport(c *gin.Context) {
	var payload createReportRequest
	if err := bindJSON(c, &payload); err != nil {
		respondError(c, err)
		return
	}
	report, err := s.reports.Create(c.Request.Context(), models.NewReport{
		Title:        payload.Title,
		Description:  payload.Description,
		CategoryID:   payload.CategoryID,
		Location:     payload.Location,
		Priority:     models.Priority(payload.Priority),
		ReporterName: payload.ReporterName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "report created successfully", toReportView(*report))
}

func (s *Server) listReports(c *gin.Context) {
	filter, err := parseReportFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page := parsePagination(c)

	reports, total, err := s.reports.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, "reports retrieved successfully", toReportViews(reports), page, total)
}

func (s *Server) getReport(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := s.reports.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	updates := detail.Updates
	if updates == nil {
		updates = []models.Update{}
	}
	respond(c, http.StatusOK, "report retrieved successfully", reportDetailView{
		reportView: toReportView(detail.Report),
		Updates:    updates,
	})
}

func (s *Server) updateReportStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload updateStatusRequest
	if err := bindJSON(c, &payload); err != nil {
		respondError(c, err)
		return
	}
	report, err := s.reports.UpdateStatus(c.Request.Context(), id, models.ReportStatus(payload.Status), payload.UpdatedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "report status updated successfully", toReportView(*report))
}

func (s *Server) createReportUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload createUpdateRequest
	if err := bindJSON(c, &payload); err != nil {
		respondError(c, err)
		return
	}
	update, err := s.updates.AddNote(c.Request.Context(), id, payload.Comment, payload.UpdatedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "update added successfully", update)
}

func (s *Server) listReportUpdates(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page := parsePagination(c)

	updates, total, err := s.updates.List(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	if updates == nil {
		updates = []models.Update{}
	}
	respondPage(c, "updates retrieved successfully", updates, page, total)
}

func parseReportFilter(c *gin.Context) (repository.ReportFilter, error) {
	var filter repository.ReportFilter
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return filter, apperr.Validation("categoryId must be a positive integer")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, apperr.Validation("invalid status %q", raw)
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return filter, apperr.Validation("invalid priority %q", raw)
		}
		filter.Priority = &priority
	}
	if raw := c.Query("startDate"); raw != "" {
		from, err := parseDate(raw, false)
		if err != nil {
			return filter, apperr.Validation("invalid startDate %q", raw)
		}
		filter.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		to, err := parseDate(raw, true)
		if err != nil {
			return filter, apperr.Validation("invalid endDate %q", raw)
		}
		filter.To = &to
	}
	return filter, nil
}
