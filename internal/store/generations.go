package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/pixelpet/internal/model"
)

// DefaultHistoryLimit caps ListGenerations when no limit is given.
const DefaultHistoryLimit = 50

// CreateGeneration records the outcome of a test generation. result is nil for
// failed generations, errMsg is empty for successful ones.
func CreateGeneration(ctx context.Context, db *sql.DB, userID int64, result *model.GenerationResult, errMsg string) (*model.Generation, error) {
	g := &model.Generation{
		ID:     uuid.NewString(),
		UserID: userID,
		Error:  errMsg,
	}
	if result != nil {
		g.Message = result.Message
		g.ImageURL = result.ImageURL
		if result.HasPet() {
			g.PetName = result.PetData.Name
			g.PetRarity = result.PetData.Rarity
		}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO generations (id, user_id, message, image_url, pet_name, pet_rarity, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Message, g.ImageURL, g.PetName, g.PetRarity, g.Error,
	)
	if err != nil {
		return nil, fmt.Errorf("creating generation: %w", err)
	}

	return GetGeneration(ctx, db, g.ID)
}

// GetGeneration returns a generation by ID, or nil if there is none.
func GetGeneration(ctx context.Context, db *sql.DB, id string) (*model.Generation, error) {
	g := &model.Generation{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, message, image_url, pet_name, pet_rarity, error,
		        thumbnail IS NOT NULL, created_at
		 FROM generations WHERE id = ?`, id,
	).Scan(&g.ID, &g.UserID, &g.Message, &g.ImageURL, &g.PetName, &g.PetRarity, &g.Error,
		&g.HasThumbnail, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting generation: %w", err)
	}
	return g, nil
}

// ListGenerations returns a user's generations, newest first.
func ListGenerations(ctx context.Context, db *sql.DB, userID int64, limit int) ([]model.Generation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, message, image_url, pet_name, pet_rarity, error,
		        thumbnail IS NOT NULL, created_at
		 FROM generations
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	var gens []model.Generation
	for rows.Next() {
		var g model.Generation
		if err := rows.Scan(&g.ID, &g.UserID, &g.Message, &g.ImageURL, &g.PetName, &g.PetRarity, &g.Error,
			&g.HasThumbnail, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// SetGenerationThumbnail stores the thumbnail of a generated image.
func SetGenerationThumbnail(ctx context.Context, db *sql.DB, id string, data []byte, mimeType string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE generations SET thumbnail = ?, thumbnail_mime = ? WHERE id = ?`,
		data, mimeType, id,
	)
	if err != nil {
		return fmt.Errorf("setting generation thumbnail: %w", err)
	}
	return nil
}

// GetGenerationThumbnail returns a generation's thumbnail if it belongs to
// userID. Returns nil data when there is no such thumbnail.
func GetGenerationThumbnail(ctx context.Context, db *sql.DB, id string, userID int64) ([]byte, string, error) {
	var data []byte
	var mimeType sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT thumbnail, thumbnail_mime FROM generations
		 WHERE id = ? AND user_id = ? AND thumbnail IS NOT NULL`, id, userID,
	).Scan(&data, &mimeType)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting generation thumbnail: %w", err)
	}
	return data, mimeType.String, nil
}
