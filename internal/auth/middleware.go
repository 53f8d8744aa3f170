// internal/auth/middleware.go
// Bearer token authentication for the matching API

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
)

type contextKey string

const (
	partyIDKey contextKey = "partyID"
	emailKey   contextKey = "email"
)

// Middleware validates access tokens issued by the account service
type Middleware struct {
	secret string
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: secret}
}

// Authenticate verifies the JWT and adds the party id to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(token, m.secret)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Refresh tokens are not accepted here
		if claims.Type != "access" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token type")
			return
		}

		ctx := WithPartyID(r.Context(), claims.UserID)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithPartyID stores the authenticated party id in ctx
func WithPartyID(ctx context.Context, partyID int64) context.Context {
	return context.WithValue(ctx, partyIDKey, partyID)
}

// PartyIDFromContext returns the authenticated party id
func PartyIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(partyIDKey).(int64)
	return id, ok && id > 0
}

// extractToken gets the token from the Authorization header. Websocket
// clients cannot set headers, so the token query parameter is accepted too.
func extractToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if parts := strings.SplitN(bearer, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return r.URL.Query().Get("token")
}
