package middleware

import (
	"net/http"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// Identity reads the caller identity the upstream auth gateway sets in the
// X-User-Id header and stores it in the request context. Requests without
// the header proceed anonymously; write handlers reject them downstream.
// The header value may be a numeric ID or a UUID, both are accepted.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-Id")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := ctxutil.WithCallerID(r.Context(), domain.IDFromString(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
