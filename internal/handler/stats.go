package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/stats"
)

// StatsHandler serves the dashboard metrics endpoints.
type StatsHandler struct {
	Engine *stats.Engine
}

func NewStatsHandler(e *stats.Engine) *StatsHandler {
	return &StatsHandler{Engine: e}
}

// Dashboard returns the month-over-month summary metrics.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	d, err := h.Engine.DashboardStats(ctx, providerID)
	if err != nil {
		return internalError(c, "stats: dashboard", err, "Unable to load stats")
	}
	return c.JSON(http.StatusOK, d)
}

// Performance returns the trailing six-month chart series.
func (h *StatsHandler) Performance(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	series, err := h.Engine.PerformanceSeries(ctx, providerID)
	if err != nil {
		return internalError(c, "stats: performance", err, "Unable to load performance data")
	}
	return c.JSON(http.StatusOK, series)
}
