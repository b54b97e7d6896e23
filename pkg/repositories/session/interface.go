package session

import (
	"context"
	"errors"

	"github.com/fadedpez/stakejack/pkg/entities"
)

var (
	// ErrNoSavedState is returned by LoadState when nothing was saved yet.
	ErrNoSavedState = errors.New("no saved session state")
)

// State is the full persisted session: settings, money, flags, and the exact
// card sequences. Loading a saved state must reproduce the session that
// wrote it, shoe remainder included.
type State struct {
	Difficulty   entities.Difficulty
	FolderPath   string
	Balance      int
	Bet          int
	InProgress   bool
	NumDecks     int
	HoleRevealed bool
	Shoe         []*entities.Card
	PlayerHand   []*entities.Card
	DealerHand   []*entities.Card
}

// Repository defines the interface for session persistence
type Repository interface {
	// SaveState writes the full session state
	SaveState(ctx context.Context, st *State) error

	// LoadState reads the last saved session state
	LoadState(ctx context.Context) (*State, error)
}
