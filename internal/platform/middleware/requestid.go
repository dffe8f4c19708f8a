package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"calldex/pkg/requestcontext"
)

const requestIDHeader = "X-Request-Id"

// RequestID attaches a request ID to the context and echoes it in the
// response. An inbound header wins so IDs survive proxies.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
