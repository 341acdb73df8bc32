package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyPrincipal stores the *users.User the access token names
	ContextKeyPrincipal ContextKey = "principal"
	// ContextKeyTokenID stores the jti of the access token
	ContextKeyTokenID ContextKey = "jti"
)

// principalFrom returns the user RequireAuth placed on the request.
func principalFrom(r *http.Request) *users.User {
	u, _ := r.Context().Value(ContextKeyPrincipal).(*users.User)
	return u
}

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, "Authentication credentials were not provided.", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeJSONError(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			introspection, err := s.inspector.Introspect(parts[1])
			if err != nil || !introspection.Active {
				msg := "Given token not valid for any token type"
				if errors.Is(err, errors.ErrTokenExpired) {
					msg = "Token is expired"
				}
				writeJSONError(w, msg, http.StatusUnauthorized)
				return
			}

			// The account may have been removed since the token was issued.
			user, err := s.repos.Users.GetByID(introspection.User.ID)
			if err != nil || user == nil {
				writeJSONError(w, "User not found", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, user)
			ctx = context.WithValue(ctx, ContextKeyTokenID, introspection.Jti)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole is middleware that admits only the given roles. It must be
// chained after RequireAuth.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := principalFrom(r)
			if user == nil {
				writeJSONError(w, "Authentication credentials were not provided.", http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, user.Role) {
				writeJSONError(w, "You do not have permission to perform this action.", http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
}
