package blackjack

import (
	"strings"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// Hand is an ordered set of cards owned by the player or dealer for one
// round. Order matters for display and for the save record, not for scoring.
type Hand struct {
	Cards []*entities.Card
}

// NewHand creates an empty hand
func NewHand() *Hand {
	return &Hand{
		Cards: make([]*entities.Card, 0, 4),
	}
}

// AddCard appends a card to the hand.
func (h *Hand) AddCard(card *entities.Card) {
	h.Cards = append(h.Cards, card)
}

// Score returns the best possible total for the hand.
func (h *Hand) Score() int {
	return Score(h.Cards)
}

// IsNatural reports a two-card 21.
func (h *Hand) IsNatural() bool {
	return IsNatural(h.Cards)
}

// IsBust reports a total over 21.
func (h *Hand) IsBust() bool {
	return IsBust(h.Cards)
}

// String renders the hand for log lines.
func (h *Hand) String() string {
	parts := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}
