package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	return c
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestActivePet(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathActivePet, r.URL.Path)
		assert.Equal(t, "7", r.Header.Get("X-User-ID"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":3,"hash":"deadbeefcafe","level":2,"experience":1500,"health":50,"maxHealth":100,"specialFeatures":["glows"]}`))
	}))

	pet, err := c.ActivePet(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, pet)
	assert.Equal(t, int64(3), pet.ID)
	assert.Equal(t, 2, pet.Level)
	assert.Equal(t, []string{"glows"}, pet.SpecialFeatures)
}

func TestActivePetAbsent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"no active pet"}`, http.StatusNotFound)
		}},
		{"null body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("null"))
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			pet, err := c.ActivePet(context.Background(), 1)
			require.NoError(t, err)
			assert.Nil(t, pet)
		})
	}
}

func TestInventoryAndGameState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathInventory, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"userId":7,"itemType":"Gem","rarity":"rare","itemName":"Ruby","quantity":2},{"id":2,"userId":7,"itemName":"Rock","quantity":1}]`))
	})
	mux.HandleFunc(PathGameState, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	c := newTestClient(t, mux)

	items, err := c.Inventory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ruby", items[0].ItemName)
	require.NotNil(t, items[0].ItemType)
	assert.Equal(t, "Gem", *items[0].ItemType)
	assert.Nil(t, items[1].Rarity)

	gs, err := c.GameState(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gs.CoinBalance())
}

func TestTestImageGenerationError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}))

	_, err := c.TestImageGeneration(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "quota exceeded", apiErr.Message)
}

func TestTestImageGenerationSuccess(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	}))

	res, err := c.TestImageGeneration(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	assert.False(t, res.HasImage())
	assert.False(t, res.HasPet())
}

func TestSnapshotCacheDeduplicates(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Cache: newMemoryCache(), CacheTTL: time.Minute})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.Inventory(ctx, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	require.NoError(t, c.Invalidate(ctx, 1))
	_, err = c.Inventory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchImageHosts(t *testing.T) {
	var cdnHits atomic.Int32
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cdnHits.Add(1)
		w.Write([]byte("cdn"))
	}))
	t.Cleanup(cdn.Close)

	game := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("game:" + r.URL.Path))
	}))
	t.Cleanup(game.Close)

	ctx := context.Background()
	readAll := func(r io.Reader) string {
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		return string(b)
	}

	c, err := New(Config{BaseURL: game.URL})
	require.NoError(t, err)

	r, err := c.FetchImage(ctx, "/img/pet.png")
	require.NoError(t, err)
	assert.Equal(t, "game:/img/pet.png", readAll(r))

	r, err = c.FetchImage(ctx, game.URL+"/img/abs.png")
	require.NoError(t, err)
	assert.Equal(t, "game:/img/abs.png", readAll(r))

	_, err = c.FetchImage(ctx, cdn.URL+"/pet.png")
	assert.ErrorIs(t, err, ErrImageHostNotAllowed)
	assert.Equal(t, int32(0), cdnHits.Load())

	cdnURL, err := url.Parse(cdn.URL)
	require.NoError(t, err)
	c, err = New(Config{BaseURL: game.URL, ImageHosts: []string{cdnURL.Host}})
	require.NoError(t, err)

	r, err = c.FetchImage(ctx, cdn.URL+"/pet.png")
	require.NoError(t, err)
	assert.Equal(t, "cdn", readAll(r))
	assert.Equal(t, int32(1), cdnHits.Load())
}
