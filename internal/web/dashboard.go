package web

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/erazemk/pixelpet/internal/view"
)

type dashboardData struct {
	PageData
	Pet       view.PetStats
	Inventory view.Inventory
	// Loaded is set when the panels were rendered server side.
	Loaded bool
}

// Dashboard handles GET /. The shell renders skeleton panels that the page
// script replaces with fragments. ?full=1 loads both panels up front for
// clients without scripts.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	data := dashboardData{
		PageData:  s.page(r, "Dashboard"),
		Pet:       view.PetStats{Panel: view.Panel{Status: view.StatusPending}},
		Inventory: view.PendingInventory(),
	}

	if r.URL.Query().Get("full") == "1" {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			data.Pet = s.Service.PetStats(r.Context(), claims.UserID)
		}()
		go func() {
			defer wg.Done()
			data.Inventory = s.Service.Inventory(r.Context(), claims.UserID)
		}()
		wg.Wait()
		data.Loaded = true
	}

	s.Templates.Render(w, "dashboard.html", &data)
}

// PetStatsFragment handles GET /fragments/pet-stats.
func (s *Server) PetStatsFragment(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.RenderFragment(w, "pet_stats", s.Service.PetStats(r.Context(), claims.UserID))
}

// InventoryFragment handles GET /fragments/inventory.
func (s *Server) InventoryFragment(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.RenderFragment(w, "inventory", s.Service.Inventory(r.Context(), claims.UserID))
}

// OverlayFragment handles GET /fragments/overlay.
func (s *Server) OverlayFragment(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	s.Templates.RenderFragment(w, "overlay", s.Service.Overlay(claims.UserID))
}

// AllItemsPage handles GET /inventory/all, the target of "View All".
func (s *Server) AllItemsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	data := struct {
		PageData
		Items []view.InventorySlot
	}{PageData: s.page(r, "Inventory")}

	items, err := s.Service.AllItems(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to load inventory", "user_id", claims.UserID, "error", err)
		data.Error = "Could not load inventory."
	}
	data.Items = items

	s.Templates.Render(w, "inventory_all.html", &data)
}
