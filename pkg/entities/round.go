package entities

import (
	"fmt"
	"time"
)

// Difficulty selects the stakes the session plays for. The numeric values
// are the wire codes used by the settings and save files.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

// String returns the string representation of the difficulty
func (d Difficulty) String() string {
	switch d {
	case DifficultyNormal:
		return "NORMAL"
	case DifficultyHard:
		return "HARD"
	default:
		return "EASY"
	}
}

// DifficultyFromCode maps a settings-file code to a difficulty.
// Unknown codes fall back to Easy, matching the desktop build.
func DifficultyFromCode(code int) Difficulty {
	switch code {
	case 1:
		return DifficultyNormal
	case 2:
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

// ParseDifficulty maps a difficulty name to its value.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy", "EASY", "Easy":
		return DifficultyEasy, nil
	case "normal", "NORMAL", "Normal":
		return DifficultyNormal, nil
	case "hard", "HARD", "Hard":
		return DifficultyHard, nil
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty %q", s)
}

// Outcome represents how a round ended for the player.
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"
	OutcomeSurrender Outcome = "SURRENDER"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome represents a win
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// IsLoss returns true if the player lost the bet outright.
func (o Outcome) IsLoss() bool {
	return o == OutcomeLose
}

// RoundRecord is the persisted result of one resolved round.
type RoundRecord struct {
	ID           string // Unique identifier
	CompletedAt  time.Time
	Difficulty   Difficulty
	Bet          int // Bet at resolution time (after any double down)
	Outcome      Outcome
	PlayerScore  int
	DealerScore  int
	Payout       int // Amount returned to the balance, 0 for a loss
	BalanceAfter int
	FilesDeleted int // Hard mode: files removed (or simulated) this round
}
