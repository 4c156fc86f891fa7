package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"event-service/internal/httputil"
	"event-service/internal/user"
)

const cookieName = "token"

// Authenticate validates the JWT from the Authorization header, falling back
// to the token cookie, and stores the caller Identity in the request context.
func Authenticate(tokens *TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				logger.WarnContext(r.Context(), "no credentials found", "path", r.URL.Path)
				unauthorized(w, r, logger)
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "invalid token", "error", err)
				unauthorized(w, r, logger)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				logger.WarnContext(r.Context(), "invalid token subject", "subject", claims.Subject)
				unauthorized(w, r, logger)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID: userID,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after
// Authenticate.
func RequireRoles(logger *slog.Logger, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				unauthorized(w, r, logger)
				return
			}
			if err := RequireRole(id, roles...); err != nil {
				httputil.RespondWithServiceError(r.Context(), w, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httputil.RespondWithServiceError(r.Context(), w, logger, ErrUnauthenticated)
}

// SetAuthCookie sets the access token in an HttpOnly cookie
func SetAuthCookie(w http.ResponseWriter, env, token string, ttl time.Duration) {
	sameSite := http.SameSiteStrictMode
	if env == "development" || env == "local" {
		sameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   env == "production" || env == "prod",
		SameSite: sameSite,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Caller returns the request identity, writing a 401 when there is none
func Caller(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (Identity, bool) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		unauthorized(w, r, logger)
	}
	return id, ok
}
