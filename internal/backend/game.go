package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/erazemk/pixelpet/internal/model"
)

// Backend paths.
const (
	PathActivePet = "/api/pet/active"
	PathInventory = "/api/inventory"
	PathGameState = "/api/game-state"
	PathTestDalle = "/api/test-dalle"
)

var snapshotPaths = []string{PathActivePet, PathInventory, PathGameState}

// ActivePet returns the player's active pet, or nil when there is none.
func (c *Client) ActivePet(ctx context.Context, userID int64) (*model.Pet, error) {
	var pet *model.Pet
	err := c.getJSON(ctx, PathActivePet, userID, &pet)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting active pet: %w", err)
	}
	return pet, nil
}

// Inventory returns the player's inventory in backend order.
func (c *Client) Inventory(ctx context.Context, userID int64) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := c.getJSON(ctx, PathInventory, userID, &items); err != nil {
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	return items, nil
}

// GameState returns the player's currency counters.
func (c *Client) GameState(ctx context.Context, userID int64) (*model.GameState, error) {
	gs := &model.GameState{}
	if err := c.getJSON(ctx, PathGameState, userID, gs); err != nil {
		return nil, fmt.Errorf("getting game state: %w", err)
	}
	return gs, nil
}

// TestImageGeneration triggers a one-shot test generation with an empty body.
// Non-2xx responses are returned as *APIError.
func (c *Client) TestImageGeneration(ctx context.Context, userID int64) (*model.GenerationResult, error) {
	raw, err := c.do(ctx, c.genHTTP, http.MethodPost, PathTestDalle, userID, struct{}{})
	if err != nil {
		return nil, err
	}
	result := &model.GenerationResult{}
	if err := decode(raw, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchImage downloads a generated image. Relative URLs resolve against the
// backend base URL; absolute ones must point at an allowed image host.
func (c *Client) FetchImage(ctx context.Context, imageURL string) (io.Reader, error) {
	fullURL, err := c.resolveURL(imageURL)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(fullURL)
	if err != nil {
		return nil, fmt.Errorf("parsing image url: %w", err)
	}
	if !c.imageHostAllowed(u) {
		return nil, fmt.Errorf("%w: %s", ErrImageHostNotAllowed, u.Host)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building image request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Invalidate drops the player's cached snapshots.
func (c *Client) Invalidate(ctx context.Context, userID int64) error {
	if c.cache == nil {
		return nil
	}
	keys := make([]string, 0, len(snapshotPaths))
	for _, p := range snapshotPaths {
		keys = append(keys, snapshotKey(userID, p))
	}
	return c.cache.Delete(ctx, keys...)
}
