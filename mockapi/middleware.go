package mockapi

import (
	"context"
	"net/http"
	"strings"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified access token claims
const ContextKeyClaims ContextKey = "claims"

// RequireAuth validates the Bearer access token and stores its claims in the request context.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, "Access Token is required", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			writeJSONError(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := s.creator.Verify(parts[1])
		if err != nil {
			s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected access token")
			if consoleerrors.Is(err, consoleerrors.ErrTokenExpired) {
				writeJSONError(w, "Token Expired!", http.StatusUnauthorized)
				return
			}
			writeJSONError(w, "Invalid Token!", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims
}

// cacheable marks a per-user GET response as safe for a private cache.
func cacheable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "private, max-age=60")
		w.Header().Set("Vary", "Authorization")
		next(w, r)
	}
}
