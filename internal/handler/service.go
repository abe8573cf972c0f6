package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/repository"
	"github.com/rudzz/marketplace-api/internal/utils"
)

// ServiceHandler serves the provider's service CRUD endpoints.
type ServiceHandler struct {
	Services *repository.ServiceRepo
}

func NewServiceHandler(r *repository.ServiceRepo) *ServiceHandler {
	return &ServiceHandler{Services: r}
}

// List returns all of the provider's services.
func (h *ServiceHandler) List(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Services.ListByProvider(ctx, providerID)
	if err != nil {
		return internalError(c, "services: list", err, "Unable to load services")
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one service scoped to the provider.
func (h *ServiceHandler) Get(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Service ID is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Services.GetByID(ctx, id, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "Service not found")
		}
		return internalError(c, "services: get", err, "Unable to load service")
	}
	return c.JSON(http.StatusOK, d)
}

// Create validates and inserts a new service. Name, price and category
// are required; the response names whichever are missing. The owning
// provider id is always the authenticated principal.
func (h *ServiceHandler) Create(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}

	var missing []string
	for _, k := range []string{"name", "price", "category_id"} {
		if _, ok := body[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fail(c, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
	}

	name, _ := strField(body, "name")
	description, _ := strField(body, "description")
	price, _ := floatField(body, "price")
	duration, _ := intField(body, "duration")
	categoryID, _ := intField(body, "category_id")
	if categoryID < 0 {
		// forgiving coercion: a nonsense category is 0, never a wrapped
		// unsigned value
		categoryID = 0
	}
	status, ok := strField(body, "status")
	if !ok || status == "" {
		status = "active"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Services.Create(ctx, repository.NewService{
		ProviderID:  providerID,
		Name:        utils.Sanitize(name),
		Description: utils.Sanitize(description),
		Price:       price,
		Duration:    int(duration),
		CategoryID:  uint64(categoryID),
		Status:      utils.Sanitize(status),
	})
	if err != nil {
		return internalError(c, "services: create", err, "Unable to create service")
	}
	return c.JSON(http.StatusCreated, d)
}

// Update applies a sparse patch to a service and returns the stored row.
// Only fields present in the payload are written; unrecognized fields are
// ignored.
func (h *ServiceHandler) Update(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Service ID is required")
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}

	patch := &repository.Patch{}
	if v, ok := strField(body, "name"); ok {
		patch.Set("name", utils.Sanitize(v))
	}
	if v, ok := strField(body, "description"); ok {
		patch.Set("description", utils.Sanitize(v))
	}
	if v, ok := floatField(body, "price"); ok {
		patch.Set("price", v)
	}
	if v, ok := intField(body, "duration"); ok {
		patch.Set("duration", v)
	}
	if v, ok := intField(body, "category_id"); ok {
		if v < 0 {
			v = 0
		}
		patch.Set("category_id", v)
	}
	if v, ok := strField(body, "status"); ok {
		patch.Set("status", utils.Sanitize(v))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Services.Update(ctx, id, providerID, patch)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "Service not found")
		case repository.ErrNoFields:
			return fail(c, http.StatusBadRequest, "No fields to update")
		}
		return internalError(c, "services: update", err, "Unable to update service")
	}
	return c.JSON(http.StatusOK, d)
}

// Delete removes a service owned by the provider.
func (h *ServiceHandler) Delete(c echo.Context) error {
	providerID, err := getProviderID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access denied")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Service ID is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Services.Delete(ctx, id, providerID); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "Service not found")
		}
		return internalError(c, "services: delete", err, "Unable to delete service")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Service deleted successfully"})
}
