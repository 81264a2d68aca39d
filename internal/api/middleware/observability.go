package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
)

// ObservabilityMiddleware traces every request and records its latency.
func ObservabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeLabel(r)

		ctx, span := observability.StartSpan(r.Context(), r.Method+" "+route)
		defer span.End()

		observability.SetSpanAttributes(span,
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("http.user_agent", r.UserAgent()),
		)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r.WithContext(ctx))

		observability.RecordRequestMetric(ctx, r.Method, route, rw.statusCode, time.Since(start))
		observability.SetSpanAttributes(span, attribute.Int("http.status_code", rw.statusCode))
	})
}

// routeLabel collapses provider and application ids so metric labels stay
// bounded.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	path := r.URL.Path
	for _, prefix := range []string{"/api/providers/", "/api/applications/"} {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || rest == "" {
			continue
		}
		switch rest {
		case "featured", "suggest", "match", "patient", "practitioner":
			return path
		default:
			return prefix + "{id}"
		}
	}
	return path
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
