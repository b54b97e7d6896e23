package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShoeSize(t *testing.T) {
	for _, n := range DeckCounts {
		shoe := NewShoe(n)
		assert.Equal(t, n*52, shoe.Remaining(), "decks %d", n)
		assert.Equal(t, n, shoe.NumDecks)
	}
}

func TestNewShoeInvalidCountFallsBack(t *testing.T) {
	shoe := NewShoe(3)
	assert.Equal(t, DefaultDeckCount, shoe.NumDecks)
	assert.Equal(t, DefaultDeckCount*52, shoe.Remaining())
}

func TestShoeContainsFullDecks(t *testing.T) {
	shoe := NewShoe(2)

	counts := make(map[Card]int)
	for _, c := range shoe.Cards {
		counts[*c]++
	}

	require.Len(t, counts, 52)
	for card, n := range counts {
		assert.Equal(t, 2, n, "card %s", card.String())
	}
}

func TestShoeDraw(t *testing.T) {
	shoe := NewShoe(1)
	before := shoe.Remaining()

	card := shoe.Draw()
	require.NotNil(t, card)
	assert.Equal(t, before-1, shoe.Remaining())
}

func TestShoeDrawRefillsWhenEmpty(t *testing.T) {
	shoe := &Shoe{Cards: nil, NumDecks: 2}

	card := shoe.Draw()
	require.NotNil(t, card)
	// A fresh two-deck shoe minus the drawn card.
	assert.Equal(t, 2*52-1, shoe.Remaining())
}

func TestValidDeckCount(t *testing.T) {
	for _, n := range DeckCounts {
		assert.True(t, ValidDeckCount(n))
	}
	assert.False(t, ValidDeckCount(0))
	assert.False(t, ValidDeckCount(3))
	assert.False(t, ValidDeckCount(52))
}
