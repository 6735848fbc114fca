package model

import "unicode/utf8"

// ExperiencePerLevel is the experience step between consecutive levels.
const ExperiencePerLevel = 1000

// shortHashLen is the number of hash characters shown in the identity footer.
const shortHashLen = 8

// Pet is the active pet snapshot returned by the backend.
type Pet struct {
	ID         int64  `json:"id"`
	Hash       string `json:"hash"`
	Name       string `json:"name,omitempty"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`

	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Hunger    int `json:"hunger"`
	Energy    int `json:"energy"`
	Happiness int `json:"happiness"`

	Rarity  string `json:"rarity"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	Element string `json:"element"`

	// SpecialFeatures may be absent, null or empty.
	SpecialFeatures []string `json:"specialFeatures,omitempty"`
}

// Progress holds the values derived from a pet snapshot for display.
type Progress struct {
	pet Pet
}

// NewProgress derives progression values from a pet snapshot.
func NewProgress(p Pet) Progress {
	return Progress{pet: p}
}

// HealthFraction returns health / maxHealth, or 0 when maxHealth is not positive.
func (pr Progress) HealthFraction() float64 {
	if pr.pet.MaxHealth <= 0 {
		return 0
	}
	return float64(pr.pet.Health) / float64(pr.pet.MaxHealth)
}

// HealthPercent returns the health fraction as a percentage.
func (pr Progress) HealthPercent() float64 {
	return pr.HealthFraction() * 100
}

// ExperienceThreshold returns the experience needed to leave the current level.
func (pr Progress) ExperienceThreshold() int {
	return ExperienceThreshold(pr.pet.Level)
}

// ExperiencePercent is experience / threshold as a percentage. It is not
// clamped and exceeds 100 when the backend has not levelled the pet up yet.
func (pr Progress) ExperiencePercent() float64 {
	return float64(pr.pet.Experience) / float64(pr.ExperienceThreshold()) * 100
}

// ExperienceBarPercent is ExperiencePercent clamped to [0, 100] for bar widths.
func (pr Progress) ExperienceBarPercent() float64 {
	return ClampPercent(pr.ExperiencePercent())
}

// ExperienceThreshold returns (level+1) * ExperiencePerLevel. Negative levels
// count as level 0 so the threshold is always positive.
func ExperienceThreshold(level int) int {
	if level < 0 {
		level = 0
	}
	return (level + 1) * ExperiencePerLevel
}

// ClampPercent limits v to [0, 100].
func ClampPercent(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// HasSpecialFeatures reports whether the special features section should render.
func (p Pet) HasSpecialFeatures() bool {
	return len(p.SpecialFeatures) > 0
}

// ShortHash returns the first eight characters of hash followed by "...".
// Shorter hashes are returned whole, an empty hash becomes "unknown".
func ShortHash(hash string) string {
	if hash == "" {
		return "unknown"
	}
	if utf8.RuneCountInString(hash) < shortHashLen {
		return hash
	}
	runes := []rune(hash)
	return string(runes[:shortHashLen]) + "..."
}
