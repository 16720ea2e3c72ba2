package middleware

import (
	"context"
	"net/http"
	"strings"

	"authapi/internal/repository"
	"authapi/internal/token"
	"authapi/logging"
	"authapi/model"
	"authapi/utils"
)

type contextKey int

const (
	userContextKey contextKey = iota
	requestIDContextKey
)

// Auth guards routes behind a valid access token and, optionally, a role.
type Auth struct {
	tokens *token.Service
	users  repository.UserRepository
	log    logging.Logger
}

func NewAuth(tokens *token.Service, users repository.UserRepository, log logging.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, log: log}
}

// Authenticated verifies the bearer token, loads the user and attaches it to
// the request context. Every failure is a 401; the middleware never reveals
// which check failed.
func (a *Auth) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteError(w, http.StatusUnauthorized, "no token provided")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.WriteError(w, http.StatusUnauthorized, "bearer token missing")
			return
		}

		userID, err := a.tokens.Verify(tokenString, token.Access)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil {
			// Covers accounts deleted after the token was issued.
			a.log.Warn(r.Context(), "token for missing user", "user_id", userID)
			utils.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorized allows only principals whose role is in the given set. It must
// run after Authenticated.
func (a *Auth) Authorized(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "user not authenticated")
				return
			}
			if !allowed[user.Role] {
				a.log.Warn(r.Context(), "access denied", "user_id", user.ID, "role", user.Role)
				utils.WriteError(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom returns the authenticated principal attached by Authenticated.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}
