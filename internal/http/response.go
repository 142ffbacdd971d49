package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	// maxPage keeps (page-1)*limit within int for every allowed limit.
	maxPage      = math.MaxInt / maxLimit
)

// envelope is the body of every API response.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       any             `json:"data,omitempty"`
	Pagination *paginationMeta `json:"pagination,omitempty"`
}

type paginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func newPaginationMeta(page repository.Pagination, total int64) *paginationMeta {
	totalPages := int(math.Ceil(float64(total) / float64(page.Limit)))
	return &paginationMeta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page.Page < totalPages,
		HasPrev:    page.Page > 1,
	}
}

// parsePagination reads page and limit, clamping instead of rejecting bad values.
func parsePagination(c *gin.Context) repository.Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	switch {
	case err != nil || page < 1:
		page = defaultPage
	case page > maxPage:
		page = maxPage
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	switch {
	case err != nil || limit < 1:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}
	return repository.Pagination{Page: page, Limit: limit}
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondPage(c *gin.Context, message string, data any, page repository.Pagination, total int64) {
	c.JSON(http.StatusOK, envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: newPaginationMeta(page, total),
	})
}

// respondError writes the envelope for err and records it on the context so the
// request logger reports it once.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), envelope{Success: false, Message: apperr.Message(err)})
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
