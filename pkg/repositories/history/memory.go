package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// MemoryRepository implements Repository in memory (data is lost on restart)
type MemoryRepository struct {
	mu      sync.Mutex
	records []*entities.RoundRecord
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveRound records a resolved round
func (r *MemoryRepository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}

	stored := *record
	r.records = append(r.records, &stored)
	return nil
}

// RecentRounds retrieves the most recent rounds, newest first
func (r *MemoryRepository) RecentRounds(ctx context.Context, limit int) ([]*entities.RoundRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}

	out := make([]*entities.RoundRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := *r.records[i]
		out = append(out, &rec)
	}
	return out, nil
}

// Close releases any underlying resources
func (r *MemoryRepository) Close() error {
	return nil
}
