// Package service composes backend reads, the generation trigger and local
// history into the view models rendered by the web and API layers.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/erazemk/pixelpet/internal/imaging"
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/store"
	"github.com/erazemk/pixelpet/internal/trigger"
	"github.com/erazemk/pixelpet/internal/view"
)

// Backend is the subset of the game backend client the service uses.
type Backend interface {
	ActivePet(ctx context.Context, userID int64) (*model.Pet, error)
	Inventory(ctx context.Context, userID int64) ([]model.InventoryItem, error)
	GameState(ctx context.Context, userID int64) (*model.GameState, error)
	TestImageGeneration(ctx context.Context, userID int64) (*model.GenerationResult, error)
	FetchImage(ctx context.Context, imageURL string) (io.Reader, error)
	Invalidate(ctx context.Context, userID int64) error
}

// Service serves the dashboard panels and the test generation of each player.
type Service struct {
	DB            *sql.DB
	Backend       Backend
	ThumbnailSize int

	triggers *trigger.Registry
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a Service. Close cancels generations still in flight.
func New(db *sql.DB, b Backend, thumbnailSize int) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		DB:            db,
		Backend:       b,
		ThumbnailSize: thumbnailSize,
		triggers:      trigger.NewRegistry(),
		ctx:           ctx,
		cancel:        cancel,
	}
	s.triggers.OnDone = func(userID int64, snap trigger.Snapshot) {
		slog.Info("generation finished", "user_id", userID, "state", snap.State.String(), "error", snap.Error)
	}
	return s
}

// PetStats loads the active pet panel.
func (s *Service) PetStats(ctx context.Context, userID int64) view.PetStats {
	pet, err := s.Backend.ActivePet(ctx, userID)
	if err != nil {
		slog.Error("failed to load active pet", "user_id", userID, "error", err)
	}
	return view.NewPetStats(pet, err)
}

// Inventory loads the inventory panel. Items and balances are read
// concurrently and fail independently.
func (s *Service) Inventory(ctx context.Context, userID int64) view.Inventory {
	var (
		wg       sync.WaitGroup
		items    []model.InventoryItem
		itemsErr error
		gs       *model.GameState
		gsErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		items, itemsErr = s.Backend.Inventory(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		gs, gsErr = s.Backend.GameState(ctx, userID)
	}()
	wg.Wait()

	if itemsErr != nil {
		slog.Error("failed to load inventory", "user_id", userID, "error", itemsErr)
	}
	if gsErr != nil {
		slog.Error("failed to load game state", "user_id", userID, "error", gsErr)
	}
	return view.NewInventory(items, itemsErr, gs, gsErr)
}

// AllItems loads every inventory item, ignoring the grid capacity.
func (s *Service) AllItems(ctx context.Context, userID int64) ([]view.InventorySlot, error) {
	items, err := s.Backend.Inventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view.AllItems(items), nil
}

// Overlay returns the blocking overlay state of the player's session.
func (s *Service) Overlay(userID int64) view.Overlay {
	return view.NewOverlay(s.triggers.Peek(userID))
}

// DalleTest returns the test generation panel of the player's session.
func (s *Service) DalleTest(userID int64) view.DalleTest {
	return view.NewDalleTest(s.triggers.Peek(userID))
}

// StartGeneration starts a test generation for the player. It returns
// trigger.ErrInFlight while a previous one is still loading. The run is not
// bound to the caller's context; it ends with the service.
func (s *Service) StartGeneration(userID int64) error {
	s.wg.Add(1)
	err := s.triggers.Get(userID).Start(s.ctx, func(ctx context.Context) (*model.GenerationResult, error) {
		defer s.wg.Done()
		res, err := s.Backend.TestImageGeneration(ctx, userID)
		s.record(context.WithoutCancel(ctx), userID, res, err)
		return res, err
	})
	if err != nil {
		s.wg.Done()
	}
	return err
}

// record stores the outcome in the history, thumbnails its image and drops
// cached snapshots the generation may have changed. Failures here are logged
// and never change the outcome shown to the player.
func (s *Service) record(ctx context.Context, userID int64, res *model.GenerationResult, genErr error) {
	errMsg := ""
	if genErr != nil {
		errMsg = trigger.FailureMessage(genErr)
		res = nil
	}

	g, err := store.CreateGeneration(ctx, s.DB, userID, res, errMsg)
	if err != nil {
		slog.Error("failed to record generation", "user_id", userID, "error", err)
		return
	}
	if genErr != nil {
		return
	}

	if err := s.Backend.Invalidate(ctx, userID); err != nil {
		slog.Warn("failed to invalidate snapshot cache", "user_id", userID, "error", err)
	}

	if !res.HasImage() {
		return
	}
	if err := s.storeThumbnail(ctx, g.ID, res.ImageURL); err != nil {
		slog.Warn("failed to store generation thumbnail", "generation_id", g.ID, "error", err)
	}
}

func (s *Service) storeThumbnail(ctx context.Context, id, imageURL string) error {
	r, err := s.Backend.FetchImage(ctx, imageURL)
	if err != nil {
		return err
	}
	thumb, err := imaging.Thumbnail(r, s.ThumbnailSize)
	if err != nil {
		return fmt.Errorf("thumbnailing %s: %w", imageURL, err)
	}
	return store.SetGenerationThumbnail(ctx, s.DB, id, thumb, imaging.ThumbnailMIME)
}

// History returns the player's recorded generations, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]model.Generation, error) {
	return store.ListGenerations(ctx, s.DB, userID, limit)
}

// Thumbnail returns a stored thumbnail owned by the player.
func (s *Service) Thumbnail(ctx context.Context, userID int64, id string) ([]byte, string, error) {
	return store.GetGenerationThumbnail(ctx, s.DB, id, userID)
}

// EndSession discards the player's trigger. A generation still in flight
// completes in the background but its outcome is no longer shown.
func (s *Service) EndSession(userID int64) {
	s.triggers.Dispose(userID)
}

// Wait blocks until all started generations have been recorded.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight generations and waits for them to finish.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}
