package model

import "time"

// PetDescriptor is the structured pet returned by a test generation.
type PetDescriptor struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Color    string   `json:"color"`
	Element  string   `json:"element"`
	Rarity   string   `json:"rarity"`
	Features []string `json:"features,omitempty"`
}

// GenerationResult is the body of a successful test generation.
// ImageURL and PetData are independently optional.
type GenerationResult struct {
	Message  string         `json:"message,omitempty"`
	ImageURL string         `json:"imageUrl,omitempty"`
	PetData  *PetDescriptor `json:"petData,omitempty"`
}

// HasImage reports whether the result carries an image.
func (r *GenerationResult) HasImage() bool {
	return r != nil && r.ImageURL != ""
}

// HasPet reports whether the result carries a pet descriptor.
func (r *GenerationResult) HasPet() bool {
	return r != nil && r.PetData != nil
}

// Generation is a locally recorded test generation.
type Generation struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Message      string    `json:"message,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	PetName      string    `json:"pet_name,omitempty"`
	PetRarity    string    `json:"pet_rarity,omitempty"`
	Error        string    `json:"error,omitempty"`
	HasThumbnail bool      `json:"has_thumbnail"`
	CreatedAt    time.Time `json:"created_at"`
}

// Succeeded reports whether the generation finished without error.
func (g Generation) Succeeded() bool {
	return g.Error == ""
}
