package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "stakejack",
	}
}

// ElasticsearchRepository archives round records to Elasticsearch on top of
// a base repository. Reads are served by the base repository; ES is a
// write-through archive for offline analysis.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "stakejack"
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    config.IndexPrefix + "_rounds",
	}

	if err := repo.initIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

// initIndex creates the rounds index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index})
	if err != nil {
		return fmt.Errorf("error checking if rounds index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"round_id": { "type": "keyword" },
				"completed_at": { "type": "date" },
				"difficulty": { "type": "keyword" },
				"bet": { "type": "long" },
				"outcome": { "type": "keyword" },
				"player_score": { "type": "integer" },
				"dealer_score": { "type": "integer" },
				"payout": { "type": "long" },
				"balance_after": { "type": "long" },
				"files_deleted": { "type": "integer" }
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(mapping)),
	}

	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating rounds index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating rounds index: %s", createRes.String())
	}

	return nil
}

type esRoundDoc struct {
	RoundID      string    `json:"round_id"`
	CompletedAt  time.Time `json:"completed_at"`
	Difficulty   string    `json:"difficulty"`
	Bet          int       `json:"bet"`
	Outcome      string    `json:"outcome"`
	PlayerScore  int       `json:"player_score"`
	DealerScore  int       `json:"dealer_score"`
	Payout       int       `json:"payout"`
	BalanceAfter int       `json:"balance_after"`
	FilesDeleted int       `json:"files_deleted"`
}

// SaveRound records a resolved round in the base repository and archives it
// to Elasticsearch. An archive failure is logged, not returned: the base
// repository is the source of truth.
func (r *ElasticsearchRepository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	if err := r.baseRepo.SaveRound(ctx, record); err != nil {
		return err
	}

	doc := esRoundDoc{
		RoundID:      record.ID,
		CompletedAt:  record.CompletedAt,
		Difficulty:   record.Difficulty.String(),
		Bet:          record.Bet,
		Outcome:      string(record.Outcome),
		PlayerScore:  record.PlayerScore,
		DealerScore:  record.DealerScore,
		Payout:       record.Payout,
		BalanceAfter: record.BalanceAfter,
		FilesDeleted: record.FilesDeleted,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		log.Printf("Failed to marshal round %s for archive: %v", record.ID, err)
		return nil
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		log.Printf("Failed to archive round %s: %v", record.ID, err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("Failed to archive round %s: %s", record.ID, res.String())
	}

	return nil
}

// RecentRounds retrieves the most recent rounds from the base repository
func (r *ElasticsearchRepository) RecentRounds(ctx context.Context, limit int) ([]*entities.RoundRecord, error) {
	return r.baseRepo.RecentRounds(ctx, limit)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
