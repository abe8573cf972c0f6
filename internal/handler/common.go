package handler // handler defines http handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// getProviderID extracts the authenticated provider's id stored in the
// context by the auth middleware.
func getProviderID(c echo.Context) (uint64, error) {
	v := c.Get("provider_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case int:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid provider_id in context")
}

// fail writes the uniform failure body: {"message": "<reason>"}.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// internalError logs the underlying cause with context and returns the
// generic failure body. SQL text, driver errors and stack detail stay in
// the log and never reach the response.
func internalError(c echo.Context, op string, err error, msg string) error {
	c.Logger().Errorf("%s: %v", op, err)
	return fail(c, http.StatusInternalServerError, msg)
}

// parseLimit reads the optional ?limit= parameter. Absent, non-numeric or
// negative values yield nil, meaning no limit is applied; raw input is
// never spliced into SQL.
func parseLimit(c echo.Context) *int64 {
	raw := c.QueryParam("limit")
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// initials returns up to two uppercase initials from a display name, used
// by the dashboard avatars.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		b.WriteString(strings.ToUpper(string(r)))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// humanDate renders an appointment date the way the dashboard shows it:
// "Today", "Tomorrow", or "Jan 2, 2006".
func humanDate(t, now time.Time) string {
	day := func(x time.Time) time.Time {
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
	}
	switch day(t.UTC()) {
	case day(now.UTC()):
		return "Today"
	case day(now.UTC()).AddDate(0, 0, 1):
		return "Tomorrow"
	}
	return t.Format("Jan 2, 2006")
}

// timeAgo renders a review timestamp as a relative age, falling back to
// an absolute date after a month.
func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "min")
	case diff < 24*time.Hour:
		return plural(int(diff/time.Hour), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff/(24*time.Hour)), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff/(7*24*time.Hour)), "week")
	}
	return t.Format("Jan 2, 2006")
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// strField reads a string field from a JSON payload map. Presence and
// value are reported separately so sparse patches can distinguish "absent"
// from "empty".
func strField(body map[string]any, key string) (string, bool) {
	v, ok := body[key]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// floatField reads a numeric field forgivingly: numbers pass through,
// numeric strings are parsed, anything else coerces to 0. Accepted policy
// inherited from the surrounding UI contract, not ideal.
func floatField(body map[string]any, key string) (float64, bool) {
	v, ok := body[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return n, true
		}
	}
	return 0, true
}

// intField is floatField truncated to an integer.
func intField(body map[string]any, key string) (int64, bool) {
	f, ok := floatField(body, key)
	return int64(f), ok
}
