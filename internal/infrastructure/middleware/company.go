package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"stocksync-core-layer/internal/domain"

	"github.com/rs/zerolog"
)

// publicPrefixes are routes served without company scoping.
var publicPrefixes = []string{"/health", "/metrics", "/swagger"}

// CompanyIDMiddleware extracts the authenticated company id from the
// X-Company-ID header and places it in the request context. Session
// authentication happens upstream of this service; the header is the
// contract with the gateway.
func CompanyIDMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			companyID := r.Header.Get("X-Company-ID")
			if companyID == "" {
				logger.Warn().
					Str("path", r.URL.Path).
					Msg("Request missing X-Company-ID header")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "missing company id"})
				return
			}

			ctx := domain.WithCompanyID(r.Context(), companyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
