package model

import "strings"

// GridCapacity is the number of slots shown in the inventory grid.
const GridCapacity = 9

// InventoryItem is one inventory row owned by a player.
type InventoryItem struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	ItemType        *string `json:"itemType,omitempty"`
	Rarity          *string `json:"rarity,omitempty"`
	ItemName        string  `json:"itemName"`
	ItemDescription string  `json:"itemDescription,omitempty"`
	Quantity        int     `json:"quantity"`
}

// GameState holds the player's currency counters. Either counter may be missing.
type GameState struct {
	Coins *int64 `json:"coins,omitempty"`
	Gems  *int64 `json:"gems,omitempty"`
}

// CoinBalance returns the coin counter, or 0 when the backend omitted it.
func (g GameState) CoinBalance() int64 {
	if g.Coins == nil {
		return 0
	}
	return *g.Coins
}

// GemBalance returns the gem counter, or 0 when the backend omitted it.
func (g GameState) GemBalance() int64 {
	if g.Gems == nil {
		return 0
	}
	return *g.Gems
}

// Icon identifies the glyph drawn for an item type.
type Icon string

// Item icons.
const (
	IconGem    Icon = "gem"
	IconApple  Icon = "apple"
	IconSword  Icon = "sword"
	IconCoins  Icon = "coins"
	IconBox    Icon = "box"
	IconTrophy Icon = "trophy"
	IconCube   Icon = "cube"
)

// Glyph returns a text glyph for the icon, used where no icon font is loaded.
func (i Icon) Glyph() string {
	switch i {
	case IconGem:
		return "💎"
	case IconApple:
		return "🍎"
	case IconSword:
		return "⚔️"
	case IconCoins:
		return "🪙"
	case IconBox:
		return "📦"
	case IconTrophy:
		return "🏆"
	default:
		return "🧊"
	}
}

// ItemIcon maps an item type to its icon. Unknown or missing types get IconCube.
func ItemIcon(itemType *string) Icon {
	switch normalizeLabel(itemType) {
	case "gem":
		return IconGem
	case "consumable":
		return IconApple
	case "equipment":
		return IconSword
	case "currency":
		return IconCoins
	case "item":
		return IconBox
	case "trophy":
		return IconTrophy
	default:
		return IconCube
	}
}

// Tier is a rarity colour tier.
type Tier string

// Rarity tiers.
const (
	TierCommon    Tier = "common"
	TierUncommon  Tier = "uncommon"
	TierRare      Tier = "rare"
	TierEpic      Tier = "epic"
	TierLegendary Tier = "legendary"
	TierMythic    Tier = "mythic"
)

// Color returns the display colour for the tier.
func (t Tier) Color() string {
	switch t {
	case TierUncommon:
		return "#22c55e"
	case TierRare:
		return "#3b82f6"
	case TierEpic:
		return "#a855f7"
	case TierLegendary:
		return "#f59e0b"
	case TierMythic:
		return "#ef4444"
	default:
		return "#9ca3af"
	}
}

// CSSClass returns the stylesheet class for the tier.
func (t Tier) CSSClass() string {
	return "rarity-" + string(t)
}

// RarityTier maps a rarity label to its tier. Unknown or missing rarity is common.
func RarityTier(rarity *string) Tier {
	switch normalizeLabel(rarity) {
	case "uncommon":
		return TierUncommon
	case "rare":
		return TierRare
	case "epic":
		return TierEpic
	case "legendary":
		return TierLegendary
	case "mythic":
		return TierMythic
	default:
		return TierCommon
	}
}

// Label returns the item's display classification, resolved once.
type Label struct {
	Icon Icon
	Tier Tier
}

// Classify resolves the optional classification fields of an item.
func (it InventoryItem) Classify() Label {
	return Label{
		Icon: ItemIcon(it.ItemType),
		Tier: RarityTier(it.Rarity),
	}
}

func normalizeLabel(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}

// Slot is one cell of the inventory grid. Item is nil for empty slots.
type Slot struct {
	Item  *InventoryItem
	Label Label
}

// Empty reports whether the slot is a placeholder.
func (s Slot) Empty() bool {
	return s.Item == nil
}

// Grid is the fixed-capacity projection of an inventory list.
type Grid struct {
	Slots    []Slot
	Total    int
	Overflow int
}

// FillGrid lays items out over capacity slots: the first min(N, capacity)
// items in order, then empty slots. Overflow counts the items not shown.
func FillGrid(items []InventoryItem, capacity int) Grid {
	if capacity < 0 {
		capacity = 0
	}
	g := Grid{
		Slots: make([]Slot, capacity),
		Total: len(items),
	}
	for i := 0; i < capacity && i < len(items); i++ {
		it := items[i]
		g.Slots[i] = Slot{Item: &it, Label: it.Classify()}
	}
	if len(items) > capacity {
		g.Overflow = len(items) - capacity
	}
	return g
}

// Filled returns the number of slots holding a real item.
func (g Grid) Filled() int {
	n := 0
	for _, s := range g.Slots {
		if !s.Empty() {
			n++
		}
	}
	return n
}

// Placeholders returns the number of empty slots.
func (g Grid) Placeholders() int {
	return len(g.Slots) - g.Filled()
}

// HasMore reports whether the "view all" affordance should be offered.
func (g Grid) HasMore() bool {
	return g.Overflow > 0
}
