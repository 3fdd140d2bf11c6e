package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/passguardian/passguardian-go/internal/logger"
)

// Logger returns transport middleware that logs every request with its
// outcome. Bodies are never logged; they may carry password text.
func Logger(log *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("host", r.URL.Host),
				slog.String("path", r.URL.Path),
				slog.String("duration", time.Since(start).String()),
			}
			if logger.SanitizeQueryString(r.URL.RawQuery) {
				attrs = append(attrs, logger.Secret("query"))
			} else if r.URL.RawQuery != "" {
				attrs = append(attrs, slog.String("query", r.URL.RawQuery))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				log.LogAttrs(r.Context(), slog.LevelWarn, "api_request_failed", attrs...)
				return nil, err
			}

			attrs = append(attrs, slog.Int("status", resp.StatusCode))
			level := slog.LevelDebug
			if resp.StatusCode >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			log.LogAttrs(r.Context(), level, "api_request", attrs...)
			return resp, nil
		})
	}
}
