package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/pixelpet/internal/model"
)

// GenerationsPage handles GET /generations.
func (s *Server) GenerationsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	data := struct {
		PageData
		Generations []model.Generation
	}{PageData: s.page(r, "Generations")}

	gens, err := s.Service.History(r.Context(), claims.UserID, 0)
	if err != nil {
		slog.Error("failed to list generations", "user_id", claims.UserID, "error", err)
		data.Error = "Could not load generation history."
	}
	data.Generations = gens

	s.Templates.Render(w, "generations.html", &data)
}

// GenerationThumbnail handles GET /generations/{id}/thumbnail.
func (s *Server) GenerationThumbnail(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	data, mime, err := s.Service.Thumbnail(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("failed to get thumbnail", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write thumbnail response", "error", err)
	}
}
