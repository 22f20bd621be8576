package httputil

import (
	"net/http"
	"strconv"
	"strings"
)

// GetClientIP extracts the real client IP address from request headers.
// It handles proxy scenarios by checking headers in this order:
//  1. X-Forwarded-For (extracts first/client IP from comma-separated list)
//  2. X-Real-IP (single IP from reverse proxy)
//  3. RemoteAddr (direct connection)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// ParseIntParam parses an integer query parameter with a default value.
// Returns defaultVal if the parameter is empty or invalid.
func ParseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultVal
}

// Paging represents offset-based pagination parameters for API responses.
type Paging struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// ParsePaging extracts skip/limit parameters from the query string.
// It enforces sensible defaults and a maximum limit to prevent abuse.
// Out-of-range values are clamped, never rejected.
func ParsePaging(r *http.Request, defaultLimit, maxLimit int) Paging {
	skip := ParseIntParam(r.URL.Query().Get("skip"), 0)
	limit := ParseIntParam(r.URL.Query().Get("limit"), defaultLimit)

	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Paging{
		Skip:  skip,
		Limit: limit,
	}
}
