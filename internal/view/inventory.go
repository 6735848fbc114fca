package view

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/pixelpet/internal/model"
)

// InventorySlot is one rendered grid cell.
type InventorySlot struct {
	Empty       bool   `json:"empty"`
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Glyph       string `json:"glyph,omitempty"`
	Rarity      string `json:"rarity,omitempty"`
	Color       string `json:"color,omitempty"`
	CSSClass    string `json:"css_class,omitempty"`
}

// Inventory is the fixed-capacity inventory panel.
type Inventory struct {
	Panel

	Slots        []InventorySlot `json:"slots"`
	Total        int             `json:"total"`
	Overflow     int             `json:"overflow"`
	ViewAllLabel string          `json:"view_all_label,omitempty"`
	Coins        string          `json:"coins"`
	Gems         string          `json:"gems"`
	CoinsError   string          `json:"coins_error,omitempty"`
}

// NewInventory builds the panel from the inventory and game state queries.
// Either query may fail independently.
func NewInventory(items []model.InventoryItem, itemsErr error, gs *model.GameState, gsErr error) Inventory {
	v := Inventory{
		Coins: FormatCount(0),
		Gems:  FormatCount(0),
	}
	if gsErr != nil {
		v.CoinsError = failureText("balance", gsErr)
	} else if gs != nil {
		v.Coins = FormatCount(gs.CoinBalance())
		v.Gems = FormatCount(gs.GemBalance())
	}

	if itemsErr != nil {
		v.Panel = failedPanel("inventory", itemsErr)
		v.Slots = placeholderSlots(model.GridCapacity)
		return v
	}

	grid := model.FillGrid(items, model.GridCapacity)
	v.Total = grid.Total
	v.Overflow = grid.Overflow
	if grid.HasMore() {
		v.ViewAllLabel = ViewAllLabel(grid.Total)
	}
	v.Slots = make([]InventorySlot, 0, len(grid.Slots))
	for _, s := range grid.Slots {
		if s.Empty() {
			v.Slots = append(v.Slots, InventorySlot{Empty: true})
			continue
		}
		v.Slots = append(v.Slots, itemSlot(*s.Item, s.Label))
	}

	if grid.Total == 0 {
		v.Panel = Panel{Status: StatusEmpty}
	} else {
		v.Panel = Panel{Status: StatusReady}
	}
	return v
}

// PendingInventory is the skeleton shown while the inventory loads.
func PendingInventory() Inventory {
	return Inventory{
		Panel: Panel{Status: StatusPending},
		Slots: placeholderSlots(model.GridCapacity),
	}
}

// AllItems projects every item, without the grid capacity, for the full list.
func AllItems(items []model.InventoryItem) []InventorySlot {
	out := make([]InventorySlot, 0, len(items))
	for _, it := range items {
		out = append(out, itemSlot(it, it.Classify()))
	}
	return out
}

// ViewAllLabel is the text of the "view all" affordance.
func ViewAllLabel(total int) string {
	return fmt.Sprintf("View All (%d items)", total)
}

// FormatCount formats n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

func itemSlot(it model.InventoryItem, label model.Label) InventorySlot {
	rarity := string(label.Tier)
	if it.Rarity != nil && *it.Rarity != "" {
		rarity = *it.Rarity
	}
	return InventorySlot{
		ID:          it.ID,
		Name:        it.ItemName,
		Description: it.ItemDescription,
		Quantity:    it.Quantity,
		Icon:        string(label.Icon),
		Glyph:       label.Icon.Glyph(),
		Rarity:      rarity,
		Color:       label.Tier.Color(),
		CSSClass:    label.Tier.CSSClass(),
	}
}

func placeholderSlots(n int) []InventorySlot {
	slots := make([]InventorySlot, n)
	for i := range slots {
		slots[i].Empty = true
	}
	return slots
}

// Filled returns the number of real items in the grid.
func (v Inventory) Filled() int {
	n := 0
	for _, s := range v.Slots {
		if !s.Empty {
			n++
		}
	}
	return n
}
