package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/service"
	"github.com/erazemk/pixelpet/internal/store"
)

type usersData struct {
	PageData
	Users []model.User
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, pd PageData) {
	users, err := store.ListUsers(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		pd.Error = "Could not load users."
	}
	s.Templates.Render(w, "users.html", &usersData{PageData: pd, Users: users})
}

// UsersPage handles GET /users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, s.page(r, "Users"))
}

// UserCreateSubmit handles POST /users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Users")

	username := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")
	if role == "" {
		role = model.RolePlayer
	}

	user, err := service.CreateAccount(r.Context(), s.DB, username, password, role)
	if err != nil {
		slog.Warn("failed to create user", "username", username, "error", err)
		pd.Error = "Could not create user: " + err.Error()
		s.renderUsers(w, r, pd)
		return
	}

	slog.Info("user created", "user", user.Username, "role", user.Role, "by", pd.User.Username)
	pd.Success = "Created " + user.Username + "."
	s.renderUsers(w, r, pd)
}

// UserDeleteSubmit handles POST /users/{id}/delete (admin only).
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Users")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	if id == pd.User.UserID {
		pd.Error = "You cannot delete your own account."
		s.renderUsers(w, r, pd)
		return
	}

	if err := store.DeleteUser(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete user", "id", id, "error", err)
		pd.Error = "Could not delete user."
		s.renderUsers(w, r, pd)
		return
	}
	s.Service.EndSession(id)

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Settings")
	s.Templates.Render(w, "settings.html", &pd)
}

// SettingsSubmit handles POST /settings (change own password).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Settings")

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		pd.Error = "Enter your current and new password."
		s.Templates.Render(w, "settings.html", &pd)
		return
	}

	err := service.ChangePassword(r.Context(), s.DB, pd.User.UserID, currentPassword, newPassword)
	switch {
	case errors.Is(err, service.ErrWrongPassword):
		pd.Error = "Current password is incorrect."
	case err != nil:
		slog.Warn("failed to change password", "user", pd.User.Username, "error", err)
		pd.Error = "Could not change password: " + err.Error()
	default:
		slog.Info("user changed own password", "user", pd.User.Username)
		pd.Success = "Password changed."
	}
	s.Templates.Render(w, "settings.html", &pd)
}
