// internal/app/system/identity/context.go
package identity

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type contextKey int

const principalContextKey contextKey = iota

// FromContext extracts the verified principal from the request context.
// Returns nil for unauthenticated requests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// WithPrincipal returns a request whose context carries the principal.
// Exposed for handler tests that bypass the middleware.
func WithPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalContextKey, p))
}

// RequireBearer is chi middleware that verifies the bearer token and puts
// the principal in context, rejecting unauthenticated requests with 401.
func RequireBearer(v *Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := v.VerifyRequest(r)
			if err != nil {
				logger.Debug("bearer verification failed", zap.Error(err))
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, WithPrincipal(r, p))
		})
	}
}

// RequireInternalAdmin is chi middleware for internal-only endpoints: the
// bearer token must carry the internalAdmin claim.
func RequireInternalAdmin(v *Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := v.VerifyRequest(r)
			if err != nil {
				logger.Debug("bearer verification failed", zap.Error(err))
				writeUnauthorized(w)
				return
			}
			if !p.InternalAdmin {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
				return
			}
			next.ServeHTTP(w, WithPrincipal(r, p))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
