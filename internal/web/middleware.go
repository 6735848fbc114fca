package web

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/pixelpet/internal/auth"
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/store"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

// cookieName is the session cookie.
const cookieName = "token"

// CookieAuthMiddleware validates the session cookie, checks token revocation
// and that the account still exists, and adds claims to context. Pages redirect to the login form; fragments
// answer 401 so the page script can tell a lost session from a failed panel.
func CookieAuthMiddleware(issuer *auth.Issuer, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func() {
				clearAuthCookie(w)
				if strings.HasPrefix(r.URL.Path, "/fragments/") {
					http.Error(w, "session expired", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				reject()
				return
			}

			claims, err := issuer.Validate(cookie.Value)
			if err != nil {
				reject()
				return
			}

			revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
				reject()
				return
			}
			if revoked {
				reject()
				return
			}

			user, err := store.GetUser(r.Context(), db, claims.UserID)
			if err != nil {
				slog.Error("failed to load session user", "user_id", claims.UserID, "error", err)
				reject()
				return
			}
			if user == nil || user.DeletedAt != nil {
				reject()
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole answers 403 unless the session has at least the given role.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetWebClaims(r.Context())
			if claims == nil || !model.RoleAtLeast(claims.Role, minimum) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.Issuer.TTL().Seconds()),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}
