package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mssola/useragent"

	"calldex/pkg/requestcontext"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logger logs one line per request with method, path, status, duration and a
// device label parsed from the User-Agent. The label also rides the context
// so spam-report events can record what kind of client filed the report.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := requestcontext.WithDeviceLabel(r.Context(), deviceLabel(r.UserAgent()))
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			logger.InfoContext(ctx, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"device", requestcontext.DeviceLabel(ctx),
				"request_id", requestcontext.RequestID(ctx),
			)
		})
	}
}

// deviceLabel condenses a User-Agent into "Browser/OS" for logs and events.
func deviceLabel(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OS()
	switch {
	case name == "" && os == "":
		return "unknown"
	case os == "":
		return name
	case name == "":
		return os
	default:
		return name + "/" + os
	}
}
