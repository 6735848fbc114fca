package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/pixelpet/internal/auth"
	"github.com/erazemk/pixelpet/internal/service"
)

// NewRouter creates the JSON view API router with all endpoints registered.
func NewRouter(db *sql.DB, issuer *auth.Issuer, svc *service.Service) http.Handler {
	authHandler := &AuthHandler{DB: db, Issuer: issuer, Service: svc}
	viewsHandler := &ViewsHandler{Service: svc}
	genHandler := &GenerationHandler{Service: svc}

	r := chi.NewRouter()

	r.Post("/api/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(issuer, db))

		r.Post("/api/auth/logout", authHandler.Logout)

		r.Get("/api/views/pet-stats", viewsHandler.PetStats)
		r.Get("/api/views/inventory", viewsHandler.Inventory)
		r.Get("/api/views/overlay", viewsHandler.Overlay)

		r.Post("/api/generation/test", genHandler.Start)
		r.Get("/api/generation/test", genHandler.Status)
		r.Get("/api/generations", genHandler.History)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
