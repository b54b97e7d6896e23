package blackjack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/stakejack/internal/logging"
	"github.com/fadedpez/stakejack/pkg/entities"
	historyrepo "github.com/fadedpez/stakejack/pkg/repositories/history"
	sessionrepo "github.com/fadedpez/stakejack/pkg/repositories/session"
	"github.com/fadedpez/stakejack/pkg/services/consequence"
)

var (
	ErrInvalidBet          = errors.New("invalid bet")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrIllegalAction       = errors.New("illegal action for current round state")
	ErrNotSupported        = errors.New("split is not supported")
	ErrSessionOver         = errors.New("session is over")
	ErrPersistence         = errors.New("persistence error")
)

// Action is an operation the caller may invoke next.
type Action string

const (
	ActionBet       Action = "BET"
	ActionHit       Action = "HIT"
	ActionStand     Action = "STAND"
	ActionDouble    Action = "DOUBLE"
	ActionSurrender Action = "SURRENDER"
	ActionSplit     Action = "SPLIT"
	ActionSave      Action = "SAVE"
	ActionLoad      Action = "LOAD"
)

// Snapshot is the renderable state returned after every engine call. The
// caller renders it and nothing else; there is no other way to observe the
// session.
type Snapshot struct {
	Balance      int
	Bet          int
	Difficulty   entities.Difficulty
	PlayerCards  []*entities.Card
	PlayerScore  int
	DealerCards  []*entities.Card
	DealerScore  int // Up-card only until the hole is revealed
	HoleRevealed bool
	Status       string
	Actions      []Action
	AtRiskFiles  []string
	LastReport   *consequence.Report
	SessionOver  bool
}

// Config holds the settings a session is created from.
type Config struct {
	Difficulty entities.Difficulty
	FolderPath string
	NumDecks   int

	// StartingBalance overrides the derived stake when > 0. Otherwise
	// Hard mode counts the stake folder's files and the other modes use
	// DefaultBalance.
	StartingBalance int
}

// Session owns the balance, the shoe and the current round. Single-threaded
// embedding: callers must serialize access.
type Session struct {
	difficulty entities.Difficulty
	folderPath string
	numDecks   int

	balance      int
	bet          int
	inProgress   bool
	canSurrender bool
	holeRevealed bool
	player       *Hand
	dealer       *Hand
	shoe         *entities.Shoe

	over       bool
	status     string
	atRisk     []string
	lastReport *consequence.Report

	logger  *logging.Logger
	store   sessionrepo.Repository
	history historyrepo.Repository
	files   *consequence.Engine
}

// NewSession creates a session from settings. Hard mode derives the
// starting balance from the live file count of the stake folder.
func NewSession(cfg Config, logger *logging.Logger, store sessionrepo.Repository, history historyrepo.Repository, files *consequence.Engine) (*Session, error) {
	numDecks := cfg.NumDecks
	if !entities.ValidDeckCount(numDecks) {
		numDecks = entities.DefaultDeckCount
	}

	balance := cfg.StartingBalance
	if balance <= 0 {
		if cfg.Difficulty == entities.DifficultyHard {
			count, err := files.CountFiles(cfg.FolderPath)
			if err != nil {
				return nil, fmt.Errorf("hard mode stake folder: %w", err)
			}
			balance = count
		} else {
			balance = DefaultBalance
		}
	}

	s := &Session{
		difficulty: cfg.Difficulty,
		folderPath: cfg.FolderPath,
		numDecks:   numDecks,
		balance:    balance,
		player:     NewHand(),
		dealer:     NewHand(),
		shoe:       entities.NewShoe(numDecks),
		status:     "Place your bets.",
		logger:     logger,
		store:      store,
		history:    history,
		files:      files,
	}

	if balance == 0 {
		logger.Warn("session started with empty stake", "folder", cfg.FolderPath)
	}
	logger.Info("session started",
		"difficulty", cfg.Difficulty,
		"balance", balance,
		"decks", numDecks,
	)

	return s, nil
}

// Snapshot returns the current renderable state without mutating anything.
func (s *Session) Snapshot() *Snapshot {
	return s.snapshot()
}

// PlaceBet deducts the bet and deals the opening hands: player, dealer,
// player, dealer. In Hard mode it also selects the files put at stake.
func (s *Session) PlaceBet(amount int) (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if s.inProgress {
		return nil, fmt.Errorf("%w: round already in progress", ErrInvalidBet)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive", ErrInvalidBet)
	}
	if amount > s.balance {
		return nil, fmt.Errorf("%w: bet %d exceeds balance %d", ErrInvalidBet, amount, s.balance)
	}

	s.balance -= amount
	s.bet = amount
	s.player = NewHand()
	s.dealer = NewHand()
	s.lastReport = nil

	for i := 0; i < 2; i++ {
		s.player.AddCard(s.shoe.Draw())
		s.dealer.AddCard(s.shoe.Draw())
	}

	s.inProgress = true
	s.canSurrender = true
	s.holeRevealed = false
	s.status = "Your move."

	if s.difficulty == entities.DifficultyHard {
		candidates, err := s.files.SelectCandidates(s.folderPath, s.bet)
		if err != nil {
			s.logger.Error("failed to select stake files", "error", err)
		}
		s.atRisk = candidates
	}

	s.logger.Info("round started",
		"bet", amount,
		"balance", s.balance,
		"player", s.player.String(),
		"dealerUp", s.dealer.Cards[0].String(),
	)

	return s.snapshot(), nil
}

// Hit draws one card for the player. A bust resolves the round immediately;
// the dealer is not evaluated.
func (s *Session) Hit() (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if !s.inProgress {
		return nil, fmt.Errorf("%w: no round in progress", ErrIllegalAction)
	}

	s.canSurrender = false
	s.player.AddCard(s.shoe.Draw())
	s.logger.Info("player hits", "player", s.player.String(), "score", s.player.Score())

	if s.player.IsBust() {
		s.resolve(true, false)
	}

	return s.snapshot(), nil
}

// Stand reveals the hole card, plays the dealer out and resolves.
func (s *Session) Stand() (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if !s.inProgress {
		return nil, fmt.Errorf("%w: no round in progress", ErrIllegalAction)
	}

	s.canSurrender = false
	s.playDealer()
	s.resolve(false, s.dealer.IsBust())

	return s.snapshot(), nil
}

// DoubleDown doubles the bet for exactly one more card, then stands.
func (s *Session) DoubleDown() (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if !s.inProgress {
		return nil, fmt.Errorf("%w: no round in progress", ErrIllegalAction)
	}
	if s.balance < s.bet {
		return nil, fmt.Errorf("%w: need %d to double", ErrInsufficientBalance, s.bet)
	}

	s.balance -= s.bet
	s.bet *= 2
	s.canSurrender = false
	s.player.AddCard(s.shoe.Draw())
	s.logger.Info("player doubles down", "bet", s.bet, "player", s.player.String())

	if s.player.IsBust() {
		s.resolve(true, false)
	} else {
		s.playDealer()
		s.resolve(false, s.dealer.IsBust())
	}

	return s.snapshot(), nil
}

// Surrender forfeits half the bet (rounded in the house's favor) and ends
// the round without dealer play. Only legal before the player's first action.
func (s *Session) Surrender() (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if !s.inProgress {
		return nil, fmt.Errorf("%w: no round in progress", ErrIllegalAction)
	}
	if !s.canSurrender {
		return nil, fmt.Errorf("%w: surrender only allowed before the first action", ErrIllegalAction)
	}

	s.finishRound(entities.OutcomeSurrender, SurrenderRefund(s.bet))
	return s.snapshot(), nil
}

// Split is surfaced for pairs but not implemented; it always reports not
// supported and changes nothing.
func (s *Session) Split() (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}
	if !s.inProgress {
		return nil, fmt.Errorf("%w: no round in progress", ErrIllegalAction)
	}
	return nil, ErrNotSupported
}

// Save writes the full session, including a round in progress and the exact
// shoe remainder.
func (s *Session) Save() (*Snapshot, error) {
	if s.over {
		return nil, ErrSessionOver
	}

	st := &sessionrepo.State{
		Difficulty:   s.difficulty,
		FolderPath:   s.folderPath,
		Balance:      s.balance,
		Bet:          s.bet,
		InProgress:   s.inProgress,
		NumDecks:     s.numDecks,
		HoleRevealed: s.holeRevealed,
		Shoe:         s.shoe.Cards,
		PlayerHand:   s.player.Cards,
		DealerHand:   s.dealer.Cards,
	}

	if err := s.store.SaveState(context.Background(), st); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	s.logger.Info("session saved", "balance", s.balance, "inProgress", s.inProgress)
	s.status = "Game saved."
	return s.snapshot(), nil
}

// Load replaces the session with the last saved state.
func (s *Session) Load() (*Snapshot, error) {
	st, err := s.store.LoadState(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	s.difficulty = st.Difficulty
	s.folderPath = st.FolderPath
	s.balance = st.Balance
	s.bet = st.Bet
	s.inProgress = st.InProgress
	s.numDecks = st.NumDecks
	s.holeRevealed = st.HoleRevealed
	s.shoe = &entities.Shoe{Cards: st.Shoe, NumDecks: st.NumDecks}
	s.player = &Hand{Cards: st.PlayerHand}
	s.dealer = &Hand{Cards: st.DealerHand}
	s.over = false
	s.lastReport = nil

	// The record has no surrender flag: hit and double both add a third
	// card and stand resolves the round, so two player cards in a live
	// round mean no action was taken yet.
	s.canSurrender = s.inProgress && len(s.player.Cards) == 2

	// Candidate sets are not persisted; re-select for a live Hard round.
	s.atRisk = nil
	if s.difficulty == entities.DifficultyHard && s.inProgress && s.bet > 0 {
		candidates, err := s.files.SelectCandidates(s.folderPath, s.bet)
		if err != nil {
			s.logger.Error("failed to re-select stake files after load", "error", err)
		}
		s.atRisk = candidates
	}

	if s.inProgress {
		s.status = "Game loaded. Your move."
	} else {
		s.status = "Game loaded. Place your bets."
	}
	s.logger.Info("session loaded", "balance", s.balance, "inProgress", s.inProgress)

	return s.snapshot(), nil
}

// RecentHistory returns the most recently resolved rounds.
func (s *Session) RecentHistory(limit int) ([]*entities.RoundRecord, error) {
	return s.history.RecentRounds(context.Background(), limit)
}

// playDealer reveals the hole card and draws until the dealer reaches the
// difficulty's target.
func (s *Session) playDealer() {
	s.holeRevealed = true
	target := DealerTarget(s.difficulty)
	for s.dealer.Score() < target {
		s.dealer.AddCard(s.shoe.Draw())
	}
	s.logger.Info("dealer plays", "dealer", s.dealer.String(), "score", s.dealer.Score())
}

// resolve applies the fixed outcome precedence: both-bust push, player bust,
// dealer bust, then naturals, then totals.
func (s *Session) resolve(userBust, dealerBust bool) {
	var outcome entities.Outcome
	payout := 0

	switch {
	case userBust && dealerBust:
		outcome = entities.OutcomePush
		payout = s.bet
	case userBust:
		outcome = entities.OutcomeLose
	case dealerBust:
		outcome = entities.OutcomeWin
		payout = WinPayout(s.bet)
	default:
		playerNatural := s.player.IsNatural()
		dealerNatural := s.dealer.IsNatural()
		switch {
		case playerNatural && dealerNatural:
			outcome = entities.OutcomePush
			payout = s.bet
		case playerNatural:
			outcome = entities.OutcomeBlackjack
			payout = NaturalPayout(s.bet)
		case dealerNatural:
			outcome = entities.OutcomeLose
		default:
			playerScore := s.player.Score()
			dealerScore := s.dealer.Score()
			switch {
			case playerScore > dealerScore:
				outcome = entities.OutcomeWin
				payout = WinPayout(s.bet)
			case playerScore < dealerScore:
				outcome = entities.OutcomeLose
			default:
				outcome = entities.OutcomePush
				payout = s.bet
			}
		}
	}

	s.finishRound(outcome, payout)
}

// finishRound credits the payout, ends the round, applies difficulty
// consequences and records the result.
func (s *Session) finishRound(outcome entities.Outcome, payout int) {
	s.balance += payout
	s.holeRevealed = true
	s.inProgress = false
	s.canSurrender = false

	betAtResolution := s.bet
	s.bet = 0
	s.status = statusFor(outcome)

	s.logger.Info("round resolved",
		"outcome", outcome,
		"bet", betAtResolution,
		"payout", payout,
		"balance", s.balance,
		"player", s.player.String(),
		"dealer", s.dealer.String(),
	)

	filesDeleted := s.applyConsequences(outcome)

	record := &entities.RoundRecord{
		CompletedAt:  time.Now(),
		Difficulty:   s.difficulty,
		Bet:          betAtResolution,
		Outcome:      outcome,
		PlayerScore:  s.player.Score(),
		DealerScore:  s.dealer.Score(),
		Payout:       payout,
		BalanceAfter: s.balance,
		FilesDeleted: filesDeleted,
	}
	if err := s.history.SaveRound(context.Background(), record); err != nil {
		s.logger.Error("failed to save round record", "error", err)
	}
}

// applyConsequences runs the difficulty side effects for a resolved round
// and returns the number of files deleted (or simulated).
func (s *Session) applyConsequences(outcome entities.Outcome) int {
	deleted := 0

	if s.difficulty == entities.DifficultyHard {
		if outcome.IsLoss() && len(s.atRisk) > 0 {
			s.lastReport = s.files.DeleteFiles(s.atRisk)
			deleted = s.lastReport.Deleted
		} else if len(s.atRisk) > 0 {
			s.logger.Info("stake survived, candidates discarded", "count", len(s.atRisk))
		}
		s.atRisk = nil

		if s.lastReport != nil {
			if n, err := s.files.CountFiles(s.folderPath); err == nil && n == 0 {
				s.over = true
				s.status = "The stake folder is empty. Game over."
			}
		}
	}

	if s.balance > 0 {
		return deleted
	}

	switch s.difficulty {
	case entities.DifficultyEasy:
		s.balance = DefaultBalance
		s.logger.Info("balance reset to default stake", "balance", s.balance)
		s.status = "You're broke. The house spots you a fresh stake."
	case entities.DifficultyNormal:
		count, err := s.files.CountFiles(s.folderPath)
		if err != nil {
			s.logger.Error("cannot count stake folder", "folder", s.folderPath, "error", err)
			count = 0
		}
		if count > 0 {
			s.lastReport = s.files.DeleteUpTo(s.folderPath, count)
			deleted += s.lastReport.Deleted
		}
		s.over = true
		s.status = "You're broke. The folder pays the debt. Game over."
	case entities.DifficultyHard:
		s.over = true
		s.status = "You're broke. Game over."
	}

	return deleted
}

func statusFor(outcome entities.Outcome) string {
	switch outcome {
	case entities.OutcomeWin:
		return "You win!"
	case entities.OutcomeBlackjack:
		return "Blackjack! Paid 3:2."
	case entities.OutcomePush:
		return "Push. Bet returned."
	case entities.OutcomeSurrender:
		return "Surrendered. Half the bet returned."
	default:
		return "You lose."
	}
}

func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		Balance:      s.balance,
		Bet:          s.bet,
		Difficulty:   s.difficulty,
		PlayerCards:  append([]*entities.Card(nil), s.player.Cards...),
		PlayerScore:  s.player.Score(),
		DealerCards:  append([]*entities.Card(nil), s.dealer.Cards...),
		HoleRevealed: s.holeRevealed,
		Status:       s.status,
		AtRiskFiles:  append([]string(nil), s.atRisk...),
		LastReport:   s.lastReport,
		SessionOver:  s.over,
	}

	if s.holeRevealed {
		snap.DealerScore = s.dealer.Score()
	} else if len(s.dealer.Cards) > 0 {
		snap.DealerScore = Score(s.dealer.Cards[:1])
	}

	snap.Actions = s.availableActions()
	return snap
}

// availableActions lists what the caller may do next. Split shows up for
// pairs even though invoking it reports not supported.
func (s *Session) availableActions() []Action {
	if s.over {
		return nil
	}

	actions := []Action{ActionSave, ActionLoad}
	if !s.inProgress {
		return append(actions, ActionBet)
	}

	actions = append(actions, ActionHit, ActionStand)
	if s.balance >= s.bet {
		actions = append(actions, ActionDouble)
	}
	if s.canSurrender {
		actions = append(actions, ActionSurrender)
	}
	if CanSplitCards(s.player.Cards) && s.balance >= s.bet {
		actions = append(actions, ActionSplit)
	}
	return actions
}
