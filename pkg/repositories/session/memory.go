package session

import (
	"context"
	"sync"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// MemoryRepository keeps the last saved state in memory. Used by tests and
// as a fallback when no save path is configured.
type MemoryRepository struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveState writes the full session state
func (r *MemoryRepository) SaveState(ctx context.Context, st *State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = copyState(st)
	return nil
}

// LoadState reads the last saved session state
func (r *MemoryRepository) LoadState(ctx context.Context) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return nil, ErrNoSavedState
	}
	return copyState(r.state), nil
}

func copyState(st *State) *State {
	out := *st
	out.Shoe = copyCards(st.Shoe)
	out.PlayerHand = copyCards(st.PlayerHand)
	out.DealerHand = copyCards(st.DealerHand)
	return &out
}

func copyCards(cards []*entities.Card) []*entities.Card {
	out := make([]*entities.Card, len(cards))
	for i, c := range cards {
		card := *c
		out[i] = &card
	}
	return out
}
