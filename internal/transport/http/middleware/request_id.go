package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"crewledger/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation ID. An inbound header value
// is kept so the ID survives proxy hops; anything else gets a fresh UUID. The
// ID is echoed on the response and carried in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), reqID)))
	})
}

// GetRequestID returns the ID stored by RequestID, or "" outside of it.
func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
