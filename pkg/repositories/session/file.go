package session

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// FileRepository persists the session as the flat text record the desktop
// build used: one value per line, then shoe / player hand / dealer hand
// blocks, each a count line followed by `rank,baseValue,isAceFlag,suitCode`
// card lines. The byte layout is a compatibility surface; do not change it.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository writing to path.
func NewFileRepository(path string) (*FileRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating save directory: %w", err)
	}
	return &FileRepository{path: path}, nil
}

// SaveState writes the full session state
func (r *FileRepository) SaveState(ctx context.Context, st *State) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%d\n", int(st.Difficulty))
	fmt.Fprintf(&b, "%s\n", st.FolderPath)
	fmt.Fprintf(&b, "%d\n", st.Balance)
	fmt.Fprintf(&b, "%d\n", st.Bet)
	fmt.Fprintf(&b, "%d\n", boolFlag(st.InProgress))
	fmt.Fprintf(&b, "%d\n", st.NumDecks)
	fmt.Fprintf(&b, "%d\n", boolFlag(st.HoleRevealed))

	for _, block := range [][]*entities.Card{st.Shoe, st.PlayerHand, st.DealerHand} {
		fmt.Fprintf(&b, "%d\n", len(block))
		for _, card := range block {
			fmt.Fprintf(&b, "%s\n", encodeCard(card))
		}
	}

	if err := os.WriteFile(r.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("error writing save record: %w", err)
	}
	return nil
}

// LoadState reads the last saved session state
func (r *FileRepository) LoadState(ctx context.Context) (*State, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSavedState
		}
		return nil, fmt.Errorf("error opening save record: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	st := &State{}

	diffCode, err := readInt(scanner)
	if err != nil {
		return nil, fmt.Errorf("error reading difficulty: %w", err)
	}
	st.Difficulty = entities.DifficultyFromCode(diffCode)

	if !scanner.Scan() {
		return nil, fmt.Errorf("save record truncated at folder path")
	}
	st.FolderPath = strings.TrimSpace(scanner.Text())

	if st.Balance, err = readInt(scanner); err != nil {
		return nil, fmt.Errorf("error reading balance: %w", err)
	}
	if st.Bet, err = readInt(scanner); err != nil {
		return nil, fmt.Errorf("error reading bet: %w", err)
	}
	inProgress, err := readInt(scanner)
	if err != nil {
		return nil, fmt.Errorf("error reading in-progress flag: %w", err)
	}
	st.InProgress = inProgress != 0
	if st.NumDecks, err = readInt(scanner); err != nil {
		return nil, fmt.Errorf("error reading deck count: %w", err)
	}
	if !entities.ValidDeckCount(st.NumDecks) {
		st.NumDecks = entities.DefaultDeckCount
	}
	holeRevealed, err := readInt(scanner)
	if err != nil {
		return nil, fmt.Errorf("error reading hole-revealed flag: %w", err)
	}
	st.HoleRevealed = holeRevealed != 0

	if st.Shoe, err = readCardBlock(scanner); err != nil {
		return nil, fmt.Errorf("error reading shoe: %w", err)
	}
	if st.PlayerHand, err = readCardBlock(scanner); err != nil {
		return nil, fmt.Errorf("error reading player hand: %w", err)
	}
	if st.DealerHand, err = readCardBlock(scanner); err != nil {
		return nil, fmt.Errorf("error reading dealer hand: %w", err)
	}

	return st, nil
}

// readCardBlock reads a count line and that many card lines. Malformed card
// lines are logged and skipped rather than failing the whole load.
func readCardBlock(scanner *bufio.Scanner) ([]*entities.Card, error) {
	count, err := readInt(scanner)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("negative card count %d", count)
	}

	cards := make([]*entities.Card, 0, count)
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("card block truncated at %d of %d", i, count)
		}
		card, err := parseCard(scanner.Text())
		if err != nil {
			log.Printf("Skipping malformed card line %q: %v", scanner.Text(), err)
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func encodeCard(c *entities.Card) string {
	return fmt.Sprintf("%s,%d,%d,%d", c.Rank, c.BaseValue(), boolFlag(c.IsAce()), c.Suit.Code())
}

func parseCard(line string) (*entities.Card, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 {
		return nil, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	rank, err := entities.RankFromString(fields[0])
	if err != nil {
		return nil, err
	}

	// baseValue and isAce are derived from the rank; the record carries
	// them for the legacy reader, so just validate they parse.
	if _, err := strconv.Atoi(fields[1]); err != nil {
		return nil, fmt.Errorf("invalid base value %q", fields[1])
	}
	if _, err := strconv.Atoi(fields[2]); err != nil {
		return nil, fmt.Errorf("invalid ace flag %q", fields[2])
	}

	suitCode, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("invalid suit code %q", fields[3])
	}
	suit, err := entities.SuitFromCode(suitCode)
	if err != nil {
		return nil, err
	}

	return entities.NewCard(suit, rank), nil
}

func readInt(scanner *bufio.Scanner) (int, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("unexpected end of record")
	}
	return strconv.Atoi(strings.TrimSpace(scanner.Text()))
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
