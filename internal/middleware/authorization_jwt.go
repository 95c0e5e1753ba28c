// Package middleware provides the authentication middleware of the
// HTTP API.
package middleware

import (
	"errors"
	"net/http"

	"github.com/akarpov/shortly/internal/config"
	"github.com/akarpov/shortly/internal/jwt"
	"github.com/akarpov/shortly/internal/logger"
	"github.com/akarpov/shortly/internal/models/user"
	"github.com/google/uuid"
)

// Authorization checks for an "Authorization" cookie and extracts the
// user ID from the JWT token, adding it to the request context. A
// request without the cookie gets a fresh identity and a new cookie;
// a request with a malformed or expired token is rejected.
func Authorization(config *config.Config, logger logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			authCookie, err := r.Cookie("Authorization")
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}

				logger.Debug("authorization cookie not found, issuing new identity")

				id := uuid.NewString()
				token, err := jwt.BuildJWTString(id, config.JWT.SigningKey, config.JWT.Expiration)
				if err != nil {
					logger.Errorf("failed to build token: %v", err)
					http.Error(w, "failed to build token", http.StatusInternalServerError)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     "Authorization",
					Value:    token,
					Path:     "/",
					HttpOnly: true,
				})

				ctx := user.NewContext(r.Context(), &user.User{ID: id})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			id, err := jwt.GetUserID(authCookie.Value, config.JWT.SigningKey)
			if err != nil {
				logger.Debugf("failed to parse token: %v", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := user.NewContext(r.Context(), &user.User{ID: id})
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(f)
	}
}
