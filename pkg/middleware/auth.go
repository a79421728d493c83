// Package middleware provides the HTTP middleware chain: request ids,
// logging, panic recovery, rate limiting, tracing, and owner resolution.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/domain/common"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth resolves the request owner from an optional bearer token. A valid
// token with a UUID subject sets the owner; a missing header falls back to
// the anonymous owner (uuid.Nil); a malformed or badly signed token is
// rejected. Full identity management lives outside this service.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uuid.Nil)))
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				common.WriteError(w, common.ErrUnauthenticated)
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				common.WriteError(w, common.ErrUnauthenticated)
				return
			}

			subject, err := token.Claims.GetSubject()
			if err != nil {
				common.WriteError(w, common.ErrUnauthenticated)
				return
			}
			userID, err := uuid.Parse(subject)
			if err != nil {
				common.WriteError(w, common.ErrUnauthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID stores the resolved owner on the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the resolved owner, uuid.Nil for anonymous.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
