package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestItemIcon(t *testing.T) {
	tests := []struct {
		itemType *string
		want     Icon
	}{
		{strPtr("gem"), IconGem},
		{strPtr("Consumable"), IconApple},
		{strPtr("EQUIPMENT"), IconSword},
		{strPtr("currency"), IconCoins},
		{strPtr("item"), IconBox},
		{strPtr(" trophy "), IconTrophy},
		{strPtr("potion"), IconCube},
		{strPtr(""), IconCube},
		{nil, IconCube},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ItemIcon(tt.itemType))
	}
}

func TestItemIconTotal(t *testing.T) {
	inputs := []string{"", " ", "GeM", "gems", "Ω", "null", "undefined", "\x00"}
	for _, in := range inputs {
		icon := ItemIcon(strPtr(in))
		assert.NotEmpty(t, string(icon), "input %q", in)
		assert.NotEmpty(t, icon.Glyph(), "input %q", in)
	}
}

func TestRarityTier(t *testing.T) {
	tests := []struct {
		rarity *string
		want   Tier
	}{
		{strPtr("common"), TierCommon},
		{strPtr("Uncommon"), TierUncommon},
		{strPtr("RARE"), TierRare},
		{strPtr("epic"), TierEpic},
		{strPtr("Legendary"), TierLegendary},
		{strPtr("mythic"), TierMythic},
		{strPtr("ultra"), TierCommon},
		{strPtr(""), TierCommon},
		{nil, TierCommon},
	}

	for _, tt := range tests {
		tier := RarityTier(tt.rarity)
		assert.Equal(t, tt.want, tier)
		assert.NotEmpty(t, tier.Color())
	}
	assert.Equal(t, TierCommon.Color(), RarityTier(strPtr("bogus")).Color())
}

func makeItems(n int) []InventoryItem {
	items := make([]InventoryItem, n)
	for i := range items {
		items[i] = InventoryItem{ID: int64(i + 1), ItemName: fmt.Sprintf("item-%d", i+1), Quantity: 1}
	}
	return items
}

func TestFillGridSlotCounts(t *testing.T) {
	for n := 0; n <= 20; n++ {
		g := FillGrid(makeItems(n), GridCapacity)
		require.Len(t, g.Slots, GridCapacity, "n=%d", n)
		assert.Equal(t, min(n, GridCapacity), g.Filled(), "n=%d", n)
		assert.Equal(t, max(0, GridCapacity-n), g.Placeholders(), "n=%d", n)
		assert.Equal(t, n > GridCapacity, g.HasMore(), "n=%d", n)
		assert.Equal(t, n, g.Total)
	}
}

func TestFillGridKeepsOrder(t *testing.T) {
	g := FillGrid(makeItems(12), GridCapacity)
	for i := 0; i < GridCapacity; i++ {
		require.NotNil(t, g.Slots[i].Item)
		assert.Equal(t, int64(i+1), g.Slots[i].Item.ID)
	}
	assert.Equal(t, 3, g.Overflow)
}

func TestFillGridFourItems(t *testing.T) {
	g := FillGrid(makeItems(4), GridCapacity)
	assert.Equal(t, 4, g.Filled())
	assert.Equal(t, 5, g.Placeholders())
	assert.False(t, g.HasMore())
	for _, s := range g.Slots[4:] {
		assert.True(t, s.Empty())
	}
}

func TestGameStateDefaults(t *testing.T) {
	var gs GameState
	assert.Equal(t, int64(0), gs.CoinBalance())
	assert.Equal(t, int64(0), gs.GemBalance())

	coins := int64(12500)
	gs.Coins = &coins
	assert.Equal(t, int64(12500), gs.CoinBalance())
}
