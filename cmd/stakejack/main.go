package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/fadedpez/stakejack/internal/config"
	"github.com/fadedpez/stakejack/internal/logging"
	"github.com/fadedpez/stakejack/pkg/entities"
	historyrepo "github.com/fadedpez/stakejack/pkg/repositories/history"
	sessionrepo "github.com/fadedpez/stakejack/pkg/repositories/session"
	"github.com/fadedpez/stakejack/pkg/services/blackjack"
	"github.com/fadedpez/stakejack/pkg/services/consequence"
)

type CLI struct {
	Difficulty string `short:"d" help:"Difficulty: easy, normal or hard."`
	Folder     string `short:"f" help:"Stake folder put at risk in normal and hard modes."`
	Decks      int    `help:"Shoe size: 1, 2, 4, 6 or 8."`
	DataDir    string `help:"Directory for the save record, history and event log."`
	Arm        bool   `help:"Perform real file deletions instead of simulating them."`
	Verbose    bool   `short:"v" help:"Enable debug logging."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("stakejack"),
		kong.Description("Single-player blackjack where losing costs more than chips."),
	)

	if cli.DataDir != "" {
		os.Setenv("DATA_DIR", cli.DataDir)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	// Flags beat the environment and the legacy settings file.
	if cli.Difficulty != "" {
		diff, err := entities.ParseDifficulty(cli.Difficulty)
		if err != nil {
			log.Fatal("Invalid difficulty", "error", err)
		}
		cfg.Difficulty = diff
	}
	if cli.Folder != "" {
		cfg.FolderPath = cli.Folder
	}
	if cli.Decks != 0 {
		cfg.NumDecks = cli.Decks
	}
	if cli.Arm {
		cfg.ArmDeletions = true
	}
	if cfg.Difficulty == entities.DifficultyHard && cfg.FolderPath == "" {
		cfg.FolderPath = config.LegacyHardModeFolder
	}

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger, err := logging.New(level, cfg.EventLogPath)
	if err != nil {
		log.Fatal("Failed to set up logging", "error", err)
	}
	defer logger.Close()

	history := openHistory(cfg, logger)
	defer history.Close()

	store, err := sessionrepo.NewFileRepository(cfg.SavePath)
	if err != nil {
		log.Fatal("Failed to open save record", "error", err)
	}

	engine := consequence.NewEngine(logger, cfg.ArmDeletions)
	if engine.Armed() {
		logger.Warn("deletions are ARMED: losing rounds will remove real files", "folder", cfg.FolderPath)
	}

	sess, err := blackjack.NewSession(blackjack.Config{
		Difficulty: cfg.Difficulty,
		FolderPath: cfg.FolderPath,
		NumDecks:   cfg.NumDecks,
	}, logger, store, history, engine)
	if err != nil {
		log.Fatal("Failed to start session", "error", err)
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ STAKEJACK ♦ ♣ "))
	if !engine.Armed() && cfg.Difficulty != entities.DifficultyEasy {
		fmt.Println(mutedStyle.Render("Deletions are simulated. Pass --arm to make them real."))
	}
	fmt.Println()
	fmt.Print(renderSnapshot(sess.Snapshot()))

	repl(sess)
	kctx.Exit(0)
}

// openHistory opens the configured history backend, falling back to memory
// so a broken database never blocks the game.
func openHistory(cfg *config.Config, logger *logging.Logger) historyrepo.Repository {
	var repo historyrepo.Repository

	if cfg.HistoryBackend == "sqlite" {
		dbPath := filepath.Join(cfg.DataDir, "history.db")
		sqliteRepo, err := historyrepo.NewSQLiteRepository(dbPath)
		if err != nil {
			logger.Error("failed to open sqlite history, falling back to memory", "error", err)
			repo = historyrepo.NewMemoryRepository()
		} else {
			logger.Info("round history stored in sqlite", "path", dbPath)
			repo = sqliteRepo
		}
	} else {
		logger.Info("round history kept in memory (lost on exit)")
		repo = historyrepo.NewMemoryRepository()
	}

	if cfg.ElasticURL != "" {
		esRepo, err := historyrepo.NewElasticsearchRepository(repo, &historyrepo.ElasticsearchConfig{
			URL:      cfg.ElasticURL,
			Username: cfg.ElasticUser,
			Password: cfg.ElasticPass,
		})
		if err != nil {
			logger.Error("failed to connect to Elasticsearch archive", "error", err)
		} else {
			logger.Info("archiving rounds to Elasticsearch", "url", cfg.ElasticURL)
			repo = esRepo
		}
	}

	return repo
}

func repl(sess *blackjack.Session) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(promptStyle.Render("> "))
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		var (
			snap *blackjack.Snapshot
			err  error
		)

		switch fields[0] {
		case "bet", "b":
			if len(fields) < 2 {
				fmt.Println(errorStyle.Render("Usage: bet <amount>"))
				continue
			}
			amount, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Println(errorStyle.Render("Bet must be a number."))
				continue
			}
			snap, err = sess.PlaceBet(amount)
		case "hit", "h":
			snap, err = sess.Hit()
		case "stand", "s":
			snap, err = sess.Stand()
		case "double", "d":
			snap, err = sess.DoubleDown()
		case "surrender":
			snap, err = sess.Surrender()
		case "split":
			snap, err = sess.Split()
		case "save":
			snap, err = sess.Save()
		case "load":
			snap, err = sess.Load()
		case "history":
			records, histErr := sess.RecentHistory(10)
			if histErr != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("Cannot read history: %v", histErr)))
				continue
			}
			fmt.Print(renderHistory(records))
			continue
		case "help", "?":
			fmt.Print(renderHelp())
			continue
		case "quit", "q", "exit":
			fmt.Println(mutedStyle.Render("Walk away while you still can."))
			return
		default:
			fmt.Println(errorStyle.Render(fmt.Sprintf("Unknown command %q. Try 'help'.", fields[0])))
			continue
		}

		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			if errors.Is(err, blackjack.ErrSessionOver) {
				return
			}
			continue
		}

		fmt.Print(renderSnapshot(snap))
		if snap.SessionOver {
			return
		}
	}
}
