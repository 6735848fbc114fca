package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/service"
	"github.com/erazemk/pixelpet/internal/trigger"
)

// ViewsHandler serves the dashboard view models as JSON.
type ViewsHandler struct {
	Service *service.Service
}

// PetStats handles GET /api/views/pet-stats.
func (h *ViewsHandler) PetStats(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, h.Service.PetStats(r.Context(), claims.UserID))
}

// Inventory handles GET /api/views/inventory.
func (h *ViewsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, h.Service.Inventory(r.Context(), claims.UserID))
}

// Overlay handles GET /api/views/overlay.
func (h *ViewsHandler) Overlay(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, h.Service.Overlay(claims.UserID))
}

// GenerationHandler drives the test generation.
type GenerationHandler struct {
	Service *service.Service
}

// Start handles POST /api/generation/test. Answers 202 with the loading
// state, or 409 with the current state when a generation is in flight.
func (h *GenerationHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	err := h.Service.StartGeneration(claims.UserID)
	switch {
	case errors.Is(err, trigger.ErrInFlight):
		jsonResponse(w, http.StatusConflict, h.Service.DalleTest(claims.UserID))
		return
	case err != nil:
		slog.Error("failed to start generation", "user_id", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, trigger.GenericFailure)
		return
	}

	slog.Info("generation started", "user_id", claims.UserID)
	jsonResponse(w, http.StatusAccepted, h.Service.DalleTest(claims.UserID))
}

// Status handles GET /api/generation/test.
func (h *GenerationHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, h.Service.DalleTest(claims.UserID))
}

// History handles GET /api/generations?limit=N.
func (h *GenerationHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	gens, err := h.Service.History(r.Context(), claims.UserID, limit)
	if err != nil {
		slog.Error("failed to list generations", "user_id", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if gens == nil {
		gens = []model.Generation{}
	}
	jsonResponse(w, http.StatusOK, gens)
}
