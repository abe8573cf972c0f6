package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/repository"
	"github.com/rudzz/marketplace-api/internal/utils"
)

// ProfileHandler serves the provider's own profile endpoints.
type ProfileHandler struct {
	Providers *repository.ProviderRepo
}

func NewProfileHandler(r *repository.ProviderRepo) *ProfileHandler {
	return &ProfileHandler{Providers: r}
}

// Get returns the authenticated provider's profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Providers.GetProfile(ctx, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "Provider not found")
		}
		return internalError(c, "profile: get", err, "Unable to load profile")
	}
	return c.JSON(http.StatusOK, d)
}

// profileColumns maps the patchable payload fields to their columns.
// Email and password deliberately stay out: credential changes go through
// a separate flow.
var profileColumns = []string{
	"business_name", "phone", "address", "city",
	"state", "zip_code", "description", "website",
}

// Update applies a sparse patch to the profile and returns the stored row.
func (h *ProfileHandler) Update(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}

	patch := &repository.Patch{}
	for _, col := range profileColumns {
		if v, ok := strField(body, col); ok {
			patch.Set(col, utils.Sanitize(v))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Providers.UpdateProfile(ctx, providerID, patch)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "Provider not found")
		case repository.ErrNoFields:
			return fail(c, http.StatusBadRequest, "No fields to update")
		}
		return internalError(c, "profile: update", err, "Unable to update profile")
	}
	return c.JSON(http.StatusOK, d)
}
