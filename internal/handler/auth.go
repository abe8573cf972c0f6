package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/auth"
	"github.com/rudzz/marketplace-api/internal/config"
	"github.com/rudzz/marketplace-api/internal/repository"
	"github.com/rudzz/marketplace-api/internal/utils"
)

// AuthHandler bundles dependencies for provider authentication endpoints.
type AuthHandler struct {
	Cfg       config.Config
	Providers *repository.ProviderRepo
	Tokens    *auth.TokenService
}

func NewAuthHandler(cfg config.Config, p *repository.ProviderRepo, t *auth.TokenService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Providers: p, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerReq struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Description  string `json:"description"`
	Website      string `json:"website"`
}

type providerPart struct {
	ID           uint64 `json:"id"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
}

type authResp struct {
	Message  string       `json:"message"`
	Token    string       `json:"token"`
	Provider providerPart `json:"provider"`
}

// issueToken signs the standard provider claim set. The token is the only
// session artifact: nothing is stored server-side.
func (h *AuthHandler) issueToken(id uint64, businessName, email string) (string, error) {
	return h.Tokens.Issue(map[string]any{
		"provider_id":   id,
		"business_name": businessName,
		"email":         email,
		"role":          "provider",
	})
}

// Login verifies credentials and returns a fresh token. Unknown email and
// wrong password produce the same response so accounts cannot be probed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Providers.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return internalError(c, "login: load provider", err, "Unable to log in")
	}
	if !utils.VerifyPassword(p.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.issueToken(p.ID, p.BusinessName, p.Email)
	if err != nil {
		return internalError(c, "login: issue token", err, "Unable to log in")
	}
	return c.JSON(http.StatusOK, authResp{
		Message:  "Login successful",
		Token:    token,
		Provider: providerPart{ID: p.ID, BusinessName: p.BusinessName, Email: p.Email},
	})
}

// Register creates a provider account and logs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.BusinessName == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Business name, email, and password are required")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c, "register: hash password", err, "Unable to register provider")
	}
	businessName := utils.Sanitize(req.BusinessName)
	email := utils.Sanitize(req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Providers.Create(ctx, repository.NewProvider{
		BusinessName: businessName,
		Email:        email,
		PasswordHash: hash,
		Phone:        utils.Sanitize(req.Phone),
		Address:      utils.Sanitize(req.Address),
		City:         utils.Sanitize(req.City),
		State:        utils.Sanitize(req.State),
		ZipCode:      utils.Sanitize(req.ZipCode),
		Description:  utils.Sanitize(req.Description),
		Website:      utils.Sanitize(req.Website),
	})
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "Email already exists")
		}
		return internalError(c, "register: create provider", err, "Unable to register provider")
	}

	token, err := h.issueToken(id, businessName, email)
	if err != nil {
		return internalError(c, "register: issue token", err, "Unable to register provider")
	}
	return c.JSON(http.StatusCreated, authResp{
		Message:  "Provider registered successfully",
		Token:    token,
		Provider: providerPart{ID: id, BusinessName: businessName, Email: email},
	})
}

// Logout is a stateless no-op: tokens have no server-side record, the
// client simply discards its copy.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}
