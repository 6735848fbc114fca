package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/pixelpet/internal/model"
	webembed "github.com/erazemk/pixelpet/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(s *Server) (http.Handler, error) {
	if s.Templates == nil {
		templates, err := LoadTemplates()
		if err != nil {
			return nil, err
		}
		s.Templates = templates
	}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	r.Get("/login", s.LoginPage)
	r.Post("/login", s.LoginSubmit)

	r.Group(func(r chi.Router) {
		r.Use(CookieAuthMiddleware(s.Issuer, s.DB))

		r.Post("/logout", s.Logout)
		r.Get("/", s.Dashboard)

		r.Get("/fragments/pet-stats", s.PetStatsFragment)
		r.Get("/fragments/inventory", s.InventoryFragment)
		r.Get("/fragments/overlay", s.OverlayFragment)
		r.Get("/fragments/dalle-status", s.DalleStatusFragment)

		r.Get("/inventory/all", s.AllItemsPage)

		r.Get("/dalle-test", s.DalleTestPage)
		r.Post("/dalle-test/trigger", s.DalleTestTrigger)

		r.Get("/generations", s.GenerationsPage)
		r.Get("/generations/{id}/thumbnail", s.GenerationThumbnail)

		r.Get("/settings", s.SettingsPage)
		r.Post("/settings", s.SettingsSubmit)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(model.RoleAdmin))
			r.Get("/users", s.UsersPage)
			r.Post("/users", s.UserCreateSubmit)
			r.Post("/users/{id}/delete", s.UserDeleteSubmit)
		})
	})

	return r, nil
}
