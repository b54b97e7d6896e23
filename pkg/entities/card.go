package entities

import "fmt"

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Suits lists every suit in persistence order. The index of a suit in this
// slice is its wire code in the save record.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Code returns the numeric wire code for the suit, or -1 for an unknown suit.
func (s Suit) Code() int {
	for i, suit := range Suits {
		if suit == s {
			return i
		}
	}
	return -1
}

// SuitFromCode returns the suit for a wire code.
func SuitFromCode(code int) (Suit, error) {
	if code < 0 || code >= len(Suits) {
		return "", fmt.Errorf("invalid suit code %d", code)
	}
	return Suits[code], nil
}

// Symbol returns the single-rune suit symbol used for display.
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	}
	return "?"
}

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Ranks lists every rank in deck-construction order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankValues = map[Rank]int{
	Ace: 11, Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7,
	Eight: 8, Nine: 9, Ten: 10, Jack: 10, Queen: 10, King: 10,
}

// RankFromString validates a rank read from a save record.
func RankFromString(s string) (Rank, error) {
	r := Rank(s)
	if _, ok := rankValues[r]; !ok {
		return "", fmt.Errorf("invalid rank %q", s)
	}
	return r, nil
}

// Card represents a playing card. Immutable once constructed.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) *Card {
	return &Card{
		Suit: suit,
		Rank: rank,
	}
}

// BaseValue returns the card's unsoftened value: 11 for an ace, 10 for
// face cards, the numeric rank otherwise.
func (c *Card) BaseValue() int {
	return rankValues[c.Rank]
}

// IsAce reports whether the card is an ace.
func (c *Card) IsAce() bool {
	return c.Rank == Ace
}

// String returns the string representation of the card
func (c *Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit.Symbol())
}
