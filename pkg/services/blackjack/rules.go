package blackjack

import (
	"github.com/fadedpez/stakejack/pkg/entities"
)

// DefaultBalance is the starting stake outside of Hard mode, and the amount
// an Easy-mode session resets to when it hits zero.
const DefaultBalance = 10000

// DealerTarget returns the total the dealer draws to. Hard mode raises the
// target to 18 as a difficulty lever.
func DealerTarget(d entities.Difficulty) int {
	if d == entities.DifficultyHard {
		return 18
	}
	return 17
}

// Score returns the best total for a set of cards: base values summed, then
// aces softened from 11 to 1 one at a time while the total is over 21.
func Score(cards []*entities.Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		score += card.BaseValue()
		if card.IsAce() {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsNatural reports a two-card 21.
func IsNatural(cards []*entities.Card) bool {
	return len(cards) == 2 && Score(cards) == 21
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []*entities.Card) bool {
	return Score(cards) > 21
}

// CanSplitCards reports whether a hand is a splittable pair. Split itself is
// not implemented; this only drives the action list shown to the caller.
func CanSplitCards(cards []*entities.Card) bool {
	return len(cards) == 2 && cards[0].Rank == cards[1].Rank
}

// WinPayout is the amount returned to the balance on a regular win: the
// original bet plus equal winnings.
func WinPayout(bet int) int {
	return bet * 2
}

// NaturalPayout is the 3:2 blackjack payout, truncated to an integer in the
// house's favor.
func NaturalPayout(bet int) int {
	return bet * 5 / 2
}

// SurrenderRefund is the half bet returned on surrender. The odd unit of an
// odd bet comes back with the refund.
func SurrenderRefund(bet int) int {
	return bet - bet/2
}
