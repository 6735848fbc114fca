package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pixelpet/internal/db"
	"github.com/erazemk/pixelpet/internal/model"
)

func TestCreateGeneration(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID := db.InsertTestUser(t, database, "player", model.RolePlayer)

	result := &model.GenerationResult{
		Message:  "ok",
		ImageURL: "https://img.example/pet.png",
		PetData:  &model.PetDescriptor{Name: "Blip", Rarity: "rare"},
	}
	g, err := CreateGeneration(ctx, database, userID, result, "")
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, userID, g.UserID)
	assert.Equal(t, "ok", g.Message)
	assert.Equal(t, "https://img.example/pet.png", g.ImageURL)
	assert.Equal(t, "Blip", g.PetName)
	assert.Equal(t, "rare", g.PetRarity)
	assert.True(t, g.Succeeded())
	assert.False(t, g.HasThumbnail)
}

func TestCreateGenerationFailure(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID := db.InsertTestUser(t, database, "player", model.RolePlayer)

	g, err := CreateGeneration(ctx, database, userID, nil, "quota exceeded")
	require.NoError(t, err)

	assert.False(t, g.Succeeded())
	assert.Equal(t, "quota exceeded", g.Error)
	assert.Empty(t, g.PetName)
}

func TestListGenerationsScopedAndLimited(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	aliceID := db.InsertTestUser(t, database, "alice", model.RolePlayer)
	bobID := db.InsertTestUser(t, database, "bob", model.RolePlayer)

	var (
		last *model.Generation
		err  error
	)
	for i := 0; i < 3; i++ {
		last, err = CreateGeneration(ctx, database, aliceID, &model.GenerationResult{Message: "ok"}, "")
		require.NoError(t, err)
	}
	_, err = CreateGeneration(ctx, database, bobID, &model.GenerationResult{Message: "ok"}, "")
	require.NoError(t, err)

	gens, err := ListGenerations(ctx, database, aliceID, 0)
	require.NoError(t, err)
	require.Len(t, gens, 3)
	assert.Equal(t, last.ID, gens[0].ID, "newest first")

	gens, err = ListGenerations(ctx, database, aliceID, 2)
	require.NoError(t, err)
	assert.Len(t, gens, 2)
}

func TestGenerationThumbnail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	aliceID := db.InsertTestUser(t, database, "alice", model.RolePlayer)
	bobID := db.InsertTestUser(t, database, "bob", model.RolePlayer)

	g, err := CreateGeneration(ctx, database, aliceID, &model.GenerationResult{ImageURL: "x"}, "")
	require.NoError(t, err)

	data, _, err := GetGenerationThumbnail(ctx, database, g.ID, aliceID)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, SetGenerationThumbnail(ctx, database, g.ID, []byte{1, 2, 3}, "image/png"))

	data, mimeType, err := GetGenerationThumbnail(ctx, database, g.ID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", mimeType)

	data, _, err = GetGenerationThumbnail(ctx, database, g.ID, bobID)
	require.NoError(t, err)
	assert.Nil(t, data, "thumbnail must not leak to other users")

	got, err := GetGeneration(ctx, database, g.ID)
	require.NoError(t, err)
	assert.True(t, got.HasThumbnail)
}
