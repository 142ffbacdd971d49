package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/repository"
)

type createCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

func (s *Server) createCategory(c *gin.Context) {
	var payload createCategoryRequest
	if err := bindJSON(c, &payload); err != nil {
		respondError(c, err)
		return
	}
	category, err := s.categories.Create(c.Request.Context(), payload.Name, payload.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "category created successfully", category)
}

func (s *Server) listCategories(c *gin.Context) {
	var filter repository.CategoryFilter
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, apperr.Validation("isActive must be a boolean"))
			return
		}
		filter.IsActive = &active
	}
	page := parsePagination(c)

	categories, total, err := s.categories.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondPage(c, "categories retrieved successfully", categories, page, total)
}

func (s *Server) getCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := s.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "category retrieved successfully", categoryDetailView{
		Category: detail.Category,
		Reports:  toReportViews(detail.RecentReports),
	})
}

func (s *Server) updateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var payload updateCategoryRequest
	if err := bindJSON(c, &payload); err != nil {
		respondError(c, err)
		return
	}
	category, err := s.categories.Update(c.Request.Context(), id, models.CategoryPatch{
		Name:        payload.Name,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "category updated successfully", category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "category deleted successfully", nil)
}
