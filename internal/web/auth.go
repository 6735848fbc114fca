package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/pixelpet/internal/service"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Enter your username and password.",
		})
		return
	}

	user, err := service.Authenticate(r.Context(), s.DB, username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Sign in",
			Error: "Wrong username or password.",
		})
		return
	}
	if err != nil {
		slog.Error("failed to authenticate", "error", err)
		s.Templates.Render(w, "login.html", &PageData{Title: "Sign in", Error: "Sign in failed."})
		return
	}

	token, _, err := s.Issuer.Issue(user)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		s.Templates.Render(w, "login.html", &PageData{Title: "Sign in", Error: "Sign in failed."})
		return
	}

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	s.setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked and any
// generation shown to this player is discarded.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetWebClaims(r.Context()); claims != nil {
		if err := s.Service.Logout(r.Context(), claims); err != nil {
			slog.Error("failed to revoke session", "error", err)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
