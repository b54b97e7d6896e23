package history

import (
	"context"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// Repository defines the interface for round history storage
type Repository interface {
	// SaveRound records a resolved round
	SaveRound(ctx context.Context, record *entities.RoundRecord) error

	// RecentRounds retrieves the most recent rounds, newest first
	RecentRounds(ctx context.Context, limit int) ([]*entities.RoundRecord, error)

	// Close releases any underlying resources
	Close() error
}
