package logger

import (
	"log/slog"
	"strings"
)

var sensitiveParams = []string{
	"password",
	"token",
	"secret",
	"session",
	"api_key",
	"apikey",
	"auth",
}

// SanitizeQueryString reports whether the query string mentions a sensitive
// parameter and must be redacted as a whole.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}

// Secret is an attribute whose value is always redacted.
func Secret(key string) slog.Attr {
	return slog.String(key, "[REDACTED]")
}
