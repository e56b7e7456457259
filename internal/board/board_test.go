package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpacesLayout(t *testing.T) {
	all := Spaces()
	require.Len(t, all, Size)
	for i, s := range all {
		assert.Equal(t, i, s.ID, "space %d id", i)
	}

	tests := []struct {
		id   int
		want SpaceType
	}{
		{0, SpaceStart},
		{2, SpaceCommunityChest},
		{4, SpaceTax},
		{5, SpaceRailroad},
		{7, SpaceChance},
		{10, SpaceJail},
		{12, SpaceUtility},
		{20, SpaceFreeParking},
		{28, SpaceUtility},
		{30, SpaceGoToJail},
		{36, SpaceChance},
		{38, SpaceTax},
		{39, SpaceProperty},
	}
	for _, tt := range tests {
		s, ok := SpaceAt(tt.id)
		require.True(t, ok)
		assert.Equal(t, tt.want, s.Type, "space %d", tt.id)
	}

	_, ok := SpaceAt(Size)
	assert.False(t, ok)
	_, ok = SpaceAt(-1)
	assert.False(t, ok)
}

func TestGroupsMatchSpaces(t *testing.T) {
	all := Groups()
	require.Len(t, all, 10)
	seen := map[int]bool{}
	for _, g := range all {
		name := g.Name
		_, ok := Group(name)
		require.True(t, ok, name)
		for _, id := range g.Properties {
			s, _ := SpaceAt(id)
			assert.Equal(t, name, s.Group, "space %d", id)
			assert.True(t, s.Purchasable())
			assert.False(t, seen[id], "space %d in two groups", id)
			seen[id] = true
		}
	}
	// 22 streets + 4 railroads + 2 utilities
	assert.Len(t, seen, 28)

	for _, s := range Spaces() {
		if s.Type == SpaceProperty {
			assert.Len(t, s.Rent, 6, s.Name)
			assert.Equal(t, s.Price/2, s.MortgageValue, s.Name)
		}
	}
}

func TestGroupReturnsCopy(t *testing.T) {
	g, _ := Group(GroupBrown)
	g.Properties[0] = 99
	again, _ := Group(GroupBrown)
	assert.Equal(t, []int{1, 3}, again.Properties)
}

func TestNearestOfType(t *testing.T) {
	id, ok := NearestOfType(7, SpaceRailroad)
	require.True(t, ok)
	assert.Equal(t, 15, id)

	id, _ = NearestOfType(36, SpaceRailroad)
	assert.Equal(t, 5, id)

	id, _ = NearestOfType(22, SpaceUtility)
	assert.Equal(t, 28, id)

	id, _ = NearestOfType(36, SpaceUtility)
	assert.Equal(t, 12, id)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 0, Wrap(40))
	assert.Equal(t, 3, Wrap(43))
	assert.Equal(t, 37, Wrap(-3))
}

func TestDecks(t *testing.T) {
	chance := ChanceDeck()
	chest := CommunityChestDeck()
	assert.Len(t, chance, 16)
	assert.Len(t, chest, 16)

	ids := map[string]bool{}
	for _, c := range append(chance, chest...) {
		assert.False(t, ids[c.ID], "duplicate card %s", c.ID)
		ids[c.ID] = true
		assert.NotEmpty(t, c.Effect.Kind)
	}
	assert.Equal(t, DeckChance, chance[0].Deck)

	// mutating a copy leaves the source deck intact
	chance[0].Effect.Position = 12
	assert.Equal(t, 0, ChanceDeck()[0].Effect.Position)

	d, ok := DeckFor(SpaceCommunityChest)
	require.True(t, ok)
	assert.Equal(t, DeckCommunityChest, d)
	_, ok = DeckFor(SpaceTax)
	assert.False(t, ok)
}
