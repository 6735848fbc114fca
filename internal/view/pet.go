package view

import (
	"fmt"

	"github.com/erazemk/pixelpet/internal/model"
)

// Stat is one bar in the pet panel.
type Stat struct {
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Value float64 `json:"value"`
	// Bar is Value clamped to [0, 100].
	Bar float64 `json:"bar"`
}

// PetStats is the pet statistics panel.
type PetStats struct {
	Panel

	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Level   int    `json:"level,omitempty"`
	Rarity  string `json:"rarity,omitempty"`
	Type    string `json:"type,omitempty"`
	Size    string `json:"size,omitempty"`
	Element string `json:"element,omitempty"`

	Health     Stat `json:"health"`
	Experience Stat `json:"experience"`
	Hunger     Stat `json:"hunger"`
	Energy     Stat `json:"energy"`
	Happiness  Stat `json:"happiness"`

	ExperienceThreshold int      `json:"experience_threshold,omitempty"`
	SpecialFeatures     []string `json:"special_features,omitempty"`
	Footer              string   `json:"footer,omitempty"`
}

// NewPetStats builds the panel from the result of the active pet query.
func NewPetStats(pet *model.Pet, err error) PetStats {
	if err != nil {
		return PetStats{Panel: failedPanel("pet", err)}
	}
	if pet == nil {
		return PetStats{Panel: Panel{Status: StatusEmpty}}
	}

	pr := model.NewProgress(*pet)
	v := PetStats{
		Panel:   Panel{Status: StatusReady},
		ID:      pet.ID,
		Name:    pet.Name,
		Level:   pet.Level,
		Rarity:  pet.Rarity,
		Type:    pet.Type,
		Size:    pet.Size,
		Element: pet.Element,

		Health: Stat{
			Label: "Health",
			Text:  fmt.Sprintf("%d/%d", pet.Health, pet.MaxHealth),
			Value: pr.HealthPercent(),
			Bar:   model.ClampPercent(pr.HealthPercent()),
		},
		Experience: Stat{
			Label: "Experience",
			Text:  fmt.Sprintf("%d/%d (%s%%)", pet.Experience, pr.ExperienceThreshold(), formatPercent(pr.ExperiencePercent())),
			Value: pr.ExperiencePercent(),
			Bar:   pr.ExperienceBarPercent(),
		},
		Hunger:    scaleStat("Hunger", pet.Hunger),
		Energy:    scaleStat("Energy", pet.Energy),
		Happiness: scaleStat("Happiness", pet.Happiness),

		ExperienceThreshold: pr.ExperienceThreshold(),
		Footer:              fmt.Sprintf("#%d · %s", pet.ID, model.ShortHash(pet.Hash)),
	}
	if pet.HasSpecialFeatures() {
		v.SpecialFeatures = pet.SpecialFeatures
	}
	return v
}

// HasSpecialFeatures reports whether the special features section renders.
func (v PetStats) HasSpecialFeatures() bool {
	return len(v.SpecialFeatures) > 0
}

func scaleStat(label string, value int) Stat {
	return Stat{
		Label: label,
		Text:  fmt.Sprintf("%d/100", value),
		Value: float64(value),
		Bar:   model.ClampPercent(float64(value)),
	}
}

// formatPercent drops the fraction for whole percentages.
func formatPercent(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
