package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rudzz/marketplace-api/internal/auth"
)

// bearerPrefix is matched case-sensitively: the scheme is "Bearer" with a
// single space before the token, anything else is a missing credential.
const bearerPrefix = "Bearer "

// ProviderAuth returns the middleware that gates every owned-resource
// route. It extracts the bearer token from the Authorization header,
// verifies it against the token service and stores the acting provider's
// id in the context under "provider_id". All failure variants surface as
// a single 401 so callers cannot probe which check failed; the specific
// reason is still logged for auditing.
func ProviderAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				return deny(c, "missing bearer credential")
			}
			raw := strings.TrimSpace(header[len(bearerPrefix):])
			if raw == "" {
				return deny(c, "missing bearer credential")
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				// malformed / bad signature / expired, collapsed outward
				return deny(c, err.Error())
			}

			id, ok := providerIDClaim(claims["provider_id"])
			if !ok {
				return deny(c, "token carries no usable provider_id claim")
			}
			c.Set("provider_id", id)
			return next(c)
		}
	}
}

// deny logs the audit reason and writes the uniform 401 body.
func deny(c echo.Context, reason string) error {
	c.Logger().Warnf("auth rejected %s %s: %s", c.Request().Method, c.Path(), reason)
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied"})
}

// providerIDClaim converts the provider_id claim to uint64. JSON numbers
// decode as float64; string and integer forms are accepted as well because
// tokens issued by earlier revisions carried the id as a string.
func providerIDClaim(v any) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t < 0 || t != float64(uint64(t)) {
			return 0, false
		}
		return uint64(t), true
	case uint64:
		return t, true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
