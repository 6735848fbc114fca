package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/pixelpet/internal/trigger"
	"github.com/erazemk/pixelpet/internal/view"
)

// DalleTestPage handles GET /dalle-test.
func (s *Server) DalleTestPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	dalle := s.Service.DalleTest(claims.UserID)

	pd := s.page(r, "Image generation test")
	pd.Refresh = dalle.Loading

	s.Templates.Render(w, "dalle_test.html", &struct {
		PageData
		Dalle view.DalleTest
	}{PageData: pd, Dalle: dalle})
}

// DalleTestTrigger handles POST /dalle-test/trigger. A trigger while one is
// still running has no effect; either way the player lands on the status page.
func (s *Server) DalleTestTrigger(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	err := s.Service.StartGeneration(claims.UserID)
	switch {
	case errors.Is(err, trigger.ErrInFlight):
		slog.Info("generation already in progress", "user_id", claims.UserID)
	case err != nil:
		slog.Error("failed to start generation", "user_id", claims.UserID, "error", err)
	default:
		slog.Info("generation started", "user_id", claims.UserID)
	}

	http.Redirect(w, r, "/dalle-test", http.StatusSeeOther)
}

// DalleStatusFragment handles GET /fragments/dalle-status.
func (s *Server) DalleStatusFragment(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.RenderFragment(w, "dalle_status", s.Service.DalleTest(claims.UserID))
}
