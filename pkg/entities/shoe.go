package entities

import (
	"math/rand"
	"time"
)

// DeckCounts lists the shoe sizes the engine accepts.
var DeckCounts = []int{1, 2, 4, 6, 8}

// DefaultDeckCount is used when no (or an invalid) deck count is configured.
const DefaultDeckCount = 1

// ValidDeckCount reports whether n is an accepted shoe size.
func ValidDeckCount(n int) bool {
	for _, c := range DeckCounts {
		if c == n {
			return true
		}
	}
	return false
}

// Shoe is the shuffled multi-deck stack the session draws from.
type Shoe struct {
	Cards    []*Card
	NumDecks int
}

// NewShoe builds numDecks copies of the 52-card deck and shuffles them.
func NewShoe(numDecks int) *Shoe {
	if !ValidDeckCount(numDecks) {
		numDecks = DefaultDeckCount
	}

	cards := make([]*Card, 0, numDecks*52)
	for d := 0; d < numDecks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}

	s := &Shoe{Cards: cards, NumDecks: numDecks}
	s.Shuffle()
	return s
}

func (s *Shoe) Shuffle() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(s.Cards), func(i, j int) {
		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	})
}

// Draw removes and returns the top card. An empty shoe is replaced with a
// fresh shuffled shoe of the same deck count first, so Draw never fails.
func (s *Shoe) Draw() *Card {
	if len(s.Cards) == 0 {
		fresh := NewShoe(s.NumDecks)
		s.Cards = fresh.Cards
	}
	card := s.Cards[0]
	s.Cards = s.Cards[1:]
	return card
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.Cards)
}
