package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/repository"
)

// ReviewHandler serves the provider's read-only review endpoints.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(r *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

type reviewResp struct {
	ID       uint64       `json:"id"`
	Customer customerPart `json:"customer"`
	Service  string       `json:"service"`
	Rating   int          `json:"rating"`
	Comment  string       `json:"comment"`
	Date     string       `json:"date"`
}

func reviewJSON(d *repository.ReviewDetail, now time.Time) reviewResp {
	return reviewResp{
		ID: d.ID,
		Customer: customerPart{
			Name:     d.CustomerName,
			Avatar:   "/placeholder.svg",
			Initials: initials(d.CustomerName),
		},
		Service: d.ServiceName,
		Rating:  d.Rating,
		Comment: d.Comment,
		Date:    timeAgo(d.CreatedAt, now),
	}
}

// List returns the provider's reviews, optionally filtered by ?rating=
// (exact integer) and ?limit=, newest first.
func (h *ReviewHandler) List(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	filters := repository.ReviewFilters{Limit: parseLimit(c)}
	if raw := c.QueryParam("rating"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filters.Rating = &n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reviews.ListByProvider(ctx, providerID, filters)
	if err != nil {
		return internalError(c, "reviews: list", err, "Unable to load reviews")
	}

	now := time.Now().UTC()
	out := make([]reviewResp, 0, len(list))
	for i := range list {
		out = append(out, reviewJSON(&list[i], now))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one review scoped to the provider.
func (h *ReviewHandler) Get(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Review ID is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Reviews.GetByID(ctx, id, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "Review not found")
		}
		return internalError(c, "reviews: get", err, "Unable to load review")
	}
	return c.JSON(http.StatusOK, reviewJSON(d, time.Now().UTC()))
}
