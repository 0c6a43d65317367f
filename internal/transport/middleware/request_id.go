package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// RequestID tags every request with an id for log correlation. An inbound
// X-Request-Id from the edge proxy is kept; otherwise a fresh UUID is
// issued. The id travels in the context and is echoed back to the client.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-Id", id)
		ctx := ctxutil.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
