package api

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ndenisov/imgvault/internal/server/auth"
)

// Authenticate validates the bearer token and stores its subject in the
// request context for the handlers.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		subject, err := auth.ValidateAndExtract(token, h.secret)
		if err != nil {
			respondError(w, statusFromError(err), err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), subject)))
	})
}

// RateLimit bounds the request rate accepted by the whole server. A non
// positive rps disables limiting.
func RateLimit(rps, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
