package view

import (
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/trigger"
)

// Overlay is the blocking "generation in progress" overlay. It renders only
// when InProgress is set and offers no way to dismiss it.
type Overlay struct {
	InProgress bool `json:"in_progress"`
}

// NewOverlay derives the overlay from the session's trigger state.
func NewOverlay(s trigger.Snapshot) Overlay {
	return Overlay{InProgress: s.Loading()}
}

// DalleTest is the image generation test panel.
type DalleTest struct {
	State   string                  `json:"state"`
	Loading bool                    `json:"loading"`
	Error   string                  `json:"error,omitempty"`
	Result  *model.GenerationResult `json:"result,omitempty"`
}

// NewDalleTest derives the panel from a trigger snapshot.
func NewDalleTest(s trigger.Snapshot) DalleTest {
	v := DalleTest{
		State:   s.State.String(),
		Loading: s.Loading(),
	}
	switch s.State {
	case trigger.Success:
		v.Result = s.Result
	case trigger.Failed:
		v.Error = s.Error
	}
	return v
}

// Succeeded reports whether the success banner should show.
func (v DalleTest) Succeeded() bool {
	return v.State == trigger.Success.String()
}

// ShowImage reports whether the image section renders.
func (v DalleTest) ShowImage() bool {
	return v.Succeeded() && v.Result.HasImage()
}

// ShowPet reports whether the pet data section renders.
func (v DalleTest) ShowPet() bool {
	return v.Succeeded() && v.Result.HasPet()
}
