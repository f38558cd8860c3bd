package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/kiosk/internal/analytics"
	"github.com/your-org/kiosk/internal/observability"
	"github.com/your-org/kiosk/internal/storage"
	"github.com/your-org/kiosk/pkg/dto"
)

type DashboardHandler struct {
	db     *storage.PostgresStore
	engine *analytics.Engine
}

func NewDashboardHandler(db *storage.PostgresStore, engine *analytics.Engine) *DashboardHandler {
	return &DashboardHandler{db: db, engine: engine}
}

// Metrics computes the dashboard snapshot for the requested range.
// An empty body selects the current month.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	var req dto.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitors, err := h.db.ListVisitorsWithHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var rng analytics.Range
	if req.DateRange != nil {
		rng = analytics.Range{From: req.DateRange.From, To: req.DateRange.To}
	}

	start := time.Now()
	snap := h.engine.Compute(c.Request.Context(), visitors, rng)
	observability.MetricsComputeDuration.Observe(time.Since(start).Seconds())
	observability.ActiveVisitors.Set(float64(snap.Summary.ActiveVisitors))

	c.JSON(http.StatusOK, toMetricsResponse(snap))
}

func toMetricsResponse(snap analytics.Snapshot) dto.MetricsResponse {
	resp := dto.MetricsResponse{
		From:            snap.From,
		To:              snap.To,
		VisitorData:     make([]dto.VisitorResponse, 0, len(snap.Visitors)),
		HourlyStats:     make([]dto.HourBucket, 0, len(snap.Hourly)),
		EmployeeStats:   make([]dto.EmployeeStat, 0, len(snap.Employees)),
		DepartmentStats: make([]dto.DepartmentStat, 0, len(snap.Departments)),
		DashboardStats: dto.DashboardStats{
			TotalVisitors:   snap.Summary.TotalVisitors,
			ActiveVisitors:  snap.Summary.ActiveVisitors,
			PeakHour:        snap.Summary.PeakHour,
			AverageDuration: snap.Summary.AverageDuration,
			TopEmployee:     snap.Summary.TopEmployee,
			TopDepartment:   snap.Summary.TopDepartment,
			VisitorTrend:    snap.Summary.VisitorTrend,
			DurationTrend:   snap.Summary.DurationTrend,
		},
	}
	for _, v := range snap.Visitors {
		resp.VisitorData = append(resp.VisitorData, toVisitorResponse(v, true))
	}
	for _, b := range snap.Hourly {
		resp.HourlyStats = append(resp.HourlyStats, dto.HourBucket{Hour: b.Hour, Visitors: b.Visitors})
	}
	for _, e := range snap.Employees {
		resp.EmployeeStats = append(resp.EmployeeStats, dto.EmployeeStat{
			Name:       e.Name,
			Visits:     e.Visits,
			Department: e.Department,
		})
	}
	for _, d := range snap.Departments {
		resp.DepartmentStats = append(resp.DepartmentStats, dto.DepartmentStat{
			Name:       d.Name,
			Visitors:   d.Visitors,
			Percentage: d.Percentage,
		})
	}
	return resp
}
