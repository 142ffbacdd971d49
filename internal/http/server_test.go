package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/example/campusreports/backend/internal/metrics"
	"github.com/example/campusreports/backend/internal/repository/memory"
	"github.com/example/campusreports/backend/internal/service"
)

type response struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *paginationMeta `json:"pagination"`
}

type ServerSuite struct {
	suite.Suite
	server  *Server
	handler http.Handler
}

func TestServerSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	clock := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	opts := []service.Option{service.WithMetrics(m)}

	s.server = NewServer(
		service.NewCategoryService(store, opts...),
		service.NewReportService(store, opts...),
		service.NewUpdateService(store, opts...),
		WithMetrics(m, reg),
		WithCORSOrigins("https://campus.example.edu"),
	)
	s.handler = s.server.Handler()
}

func (s *ServerSuite) do(method, path string, body any) (*httptest.ResponseRecorder, response) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (s *ServerSuite) decode(raw json.RawMessage, dst any) {
	s.Require().NoError(json.Unmarshal(raw, dst))
}

func (s *ServerSuite) createCategory(name string) uint {
	rec, resp := s.do(http.MethodPost, "/api/categories", map[string]any{"name": name})
	s.Require().Equal(http.StatusCreated, rec.Code, resp.Message)
	var c struct {
		ID uint `json:"id"`
	}
	s.decode(resp.Data, &c)
	return c.ID
}

func (s *ServerSuite) createReport(categoryID uint) uint {
	rec, resp := s.do(http.MethodPost, "/api/reports", map[string]any{
		"title":       "Leak in the library",
		"description": "Water dripping from the ceiling near the entrance",
		"categoryId":  categoryID,
		"location":    "Main library, ground floor",
		"priority":    "HIGH",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, resp.Message)
	var r struct {
		ID uint `json:"id"`
	}
	s.decode(resp.Data, &r)
	return r.ID
}

func (s *ServerSuite) TestHealth() {
	rec, resp := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.True(resp.Success)
	s.NotEmpty(rec.Header().Get(requestIDHeader))
}

func (s *ServerSuite) TestUnknownRoute() {
	rec, resp := s.do(http.MethodGet, "/api/nothing-here", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.False(resp.Success)
	s.Equal("route /api/nothing-here not found", resp.Message)
}

func (s *ServerSuite) TestReportLifecycle() {
	categoryID := s.createCategory("Infrastructure")
	reportID := s.createReport(categoryID)
	path := "/api/reports/" + itoa(reportID)

	rec, resp := s.do(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var detail struct {
		Status   string `json:"status"`
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
		Updates []struct {
			Comment   string  `json:"comment"`
			UpdatedBy string  `json:"updatedBy"`
			StatusOld *string `json:"statusOld"`
			StatusNew *string `json:"statusNew"`
		} `json:"updates"`
	}
	s.decode(resp.Data, &detail)
	s.Equal("OPEN", detail.Status)
	s.Equal("Infrastructure", detail.Category.Name)
	s.Equal(map[string]any{"id": float64(categoryID), "name": "Infrastructure"}, extractObject(s, resp.Data, "category"))
	s.Require().Len(detail.Updates, 1)
	s.Equal("initial report record", detail.Updates[0].Comment)
	s.Equal("System", detail.Updates[0].UpdatedBy)
	s.Nil(detail.Updates[0].StatusOld)
	s.Equal("OPEN", *detail.Updates[0].StatusNew)

	rec, resp = s.do(http.MethodPatch, path+"/status", map[string]any{"status": "IN_PROGRESS", "updatedBy": "tech1"})
	s.Require().Equal(http.StatusOK, rec.Code, resp.Message)

	rec, resp = s.do(http.MethodPatch, path+"/status", map[string]any{"status": "OPEN", "updatedBy": "tech1"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(resp.Success)
	s.Equal("invalid status transition: current status IN_PROGRESS, allowed: RESOLVED, CANCELLED", resp.Message)

	rec, resp = s.do(http.MethodPost, path+"/updates", map[string]any{"comment": "Plumber on the way", "updatedBy": "tech1"})
	s.Require().Equal(http.StatusCreated, rec.Code, resp.Message)

	rec, resp = s.do(http.MethodGet, path+"/updates?page=1&limit=2", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NotNil(resp.Pagination)
	s.Equal(paginationMeta{Page: 1, Limit: 2, Total: 3, TotalPages: 2, HasNext: true, HasPrev: false}, *resp.Pagination)
	var entries []struct {
		Comment string `json:"comment"`
	}
	s.decode(resp.Data, &entries)
	s.Require().Len(entries, 2)
	s.Equal("Plumber on the way", entries[0].Comment)
	s.Equal("status changed from OPEN to IN_PROGRESS", entries[1].Comment)
}

func (s *ServerSuite) TestCreateReportValidation() {
	categoryID := s.createCategory("Infrastructure")
	valid := map[string]any{
		"title":       "Broken projector",
		"description": "Projector in room 12 does not turn on",
		"categoryId":  categoryID,
		"location":    "Room 12, Block C",
		"priority":    "MEDIUM",
	}

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		status  int
		message string
	}{
		{"short title", func(b map[string]any) { b["title"] = "Oops" }, http.StatusBadRequest, "title must be at least 5 characters"},
		{"missing description", func(b map[string]any) { delete(b, "description") }, http.StatusBadRequest, "description is required"},
		{"unknown priority", func(b map[string]any) { b["priority"] = "URGENT" }, http.StatusBadRequest, "priority must be one of LOW, MEDIUM, HIGH"},
		{"unknown category", func(b map[string]any) { b["categoryId"] = 999 }, http.StatusBadRequest, "invalid or inactive category"},
		{"long reporter name", func(b map[string]any) { b["reporterName"] = strings.Repeat("a", 101) }, http.StatusBadRequest, "reporterName must be at most 100 characters"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			body := make(map[string]any, len(valid))
			for k, v := range valid {
				body[k] = v
			}
			tt.mutate(body)

			rec, resp := s.do(http.MethodPost, "/api/reports", body)
			s.Equal(tt.status, rec.Code)
			s.False(resp.Success)
			s.Equal(tt.message, resp.Message)
		})
	}

	rec, resp := s.do(http.MethodGet, "/api/reports", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.EqualValues(0, resp.Pagination.Total)
}

func (s *ServerSuite) TestMalformedInput() {
	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/reports/abc", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/reports?status=REOPENED", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/reports?startDate=yesterday", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, resp := s.do(http.MethodGet, "/api/reports?startDate=2025-03-11&endDate=2025-03-10", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("startDate must not be after endDate", resp.Message)
}

func (s *ServerSuite) TestListReportsFilters() {
	infra := s.createCategory("Infrastructure")
	classes := s.createCategory("Classes")
	first := s.createReport(infra)
	s.createReport(classes)
	second := s.createReport(infra)

	rec, resp := s.do(http.MethodGet, "/api/reports?categoryId="+itoa(infra)+"&limit=500", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(100, resp.Pagination.Limit)
	s.EqualValues(2, resp.Pagination.Total)

	var reports []struct {
		ID       uint `json:"id"`
		Category struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"category"`
	}
	s.decode(resp.Data, &reports)
	s.Require().Len(reports, 2)
	s.Equal(second, reports[0].ID)
	s.Equal(first, reports[1].ID)
	s.Equal("Infrastructure", reports[0].Category.Name)

	rec, resp = s.do(http.MethodGet, "/api/reports?startDate=2025-03-10&endDate=2025-03-10&page=0&limit=x", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.EqualValues(3, resp.Pagination.Total)
	s.Equal(1, resp.Pagination.Page)
	s.Equal(10, resp.Pagination.Limit)

	rec, resp = s.do(http.MethodGet, "/api/reports?endDate=2025-03-09", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.EqualValues(0, resp.Pagination.Total)
	s.JSONEq(`[]`, string(resp.Data))

	rec, resp = s.do(http.MethodGet, "/api/reports?page=9223372036854775807", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(maxPage, resp.Pagination.Page)
	s.EqualValues(3, resp.Pagination.Total)
	s.False(resp.Pagination.HasNext)
	s.JSONEq(`[]`, string(resp.Data))
}

func (s *ServerSuite) TestCategoryEndpoints() {
	id := s.createCategory("Security")

	rec, resp := s.do(http.MethodPost, "/api/categories", map[string]any{"name": "Security"})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("a category with this name already exists", resp.Message)

	rec, _ = s.do(http.MethodPost, "/api/categories", map[string]any{"name": "ab"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, resp = s.do(http.MethodPut, "/api/categories/"+itoa(id), map[string]any{"isActive": false})
	s.Require().Equal(http.StatusOK, rec.Code, resp.Message)

	rec, resp = s.do(http.MethodGet, "/api/categories?isActive=true", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.EqualValues(0, resp.Pagination.Total)

	rec, resp = s.do(http.MethodGet, "/api/categories?isActive=false", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.EqualValues(1, resp.Pagination.Total)

	rec, _ = s.do(http.MethodGet, "/api/categories?isActive=maybe", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, resp = s.do(http.MethodGet, "/api/categories/"+itoa(id), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, string(extractField(s, resp.Data, "reports")))

	rec, _ = s.do(http.MethodDelete, "/api/categories/"+itoa(id), nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/categories/"+itoa(id), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestDeleteCategoryWithReports() {
	id := s.createCategory("Cleaning")
	reportID := s.createReport(id)

	rec, resp := s.do(http.MethodDelete, "/api/categories/"+itoa(id), nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("cannot delete a category with associated reports", resp.Message)

	rec, _ = s.do(http.MethodGet, "/api/reports/"+itoa(reportID), nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerSuite) TestNotFound() {
	rec, resp := s.do(http.MethodGet, "/api/reports/42", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("report not found", resp.Message)

	rec, _ = s.do(http.MethodPatch, "/api/reports/42/status", map[string]any{"status": "RESOLVED", "updatedBy": "tech1"})
	s.Equal(http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/reports/42/updates", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestMetricsEndpoint() {
	s.createReport(s.createCategory("Events"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "campusreports_reports_created_total")
}

func (s *ServerSuite) TestCORS() {
	req := httptest.NewRequest(http.MethodOptions, "/api/reports", nil)
	req.Header.Set("Origin", "https://campus.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal("https://campus.example.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.New()
	srv := NewServer(
		service.NewCategoryService(store),
		service.NewReportService(store),
		service.NewUpdateService(store),
		WithRateLimit(2, time.Hour),
	)

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:5000"), "limits are tracked per client IP")
}

func extractField(s *ServerSuite, raw json.RawMessage, field string) json.RawMessage {
	var fields map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(raw, &fields))
	return fields[field]
}

func extractObject(s *ServerSuite, raw json.RawMessage, field string) map[string]any {
	var obj map[string]any
	s.Require().NoError(json.Unmarshal(extractField(s, raw, field), &obj))
	return obj
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
