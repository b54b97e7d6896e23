package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fadedpez/stakejack/pkg/entities"
)

// LegacyHardModeFolder is the stake folder the desktop build hardcoded for
// Hard mode. Only used when Hard mode is configured without a folder, and
// deletions still have to be armed explicitly.
const LegacyHardModeFolder = "C:/Windows/System32"

// Config holds all configuration for the application
type Config struct {
	Difficulty entities.Difficulty
	FolderPath string // Stake folder (Normal: user-chosen, Hard: system folder)
	NumDecks   int

	// Resource paths
	DataDir      string
	SavePath     string // Session save record
	SettingsPath string // Legacy line-oriented settings file
	EventLogPath string

	// History storage
	HistoryBackend string // "sqlite" or "memory"
	ElasticURL     string // Optional Elasticsearch archive
	ElasticUser    string
	ElasticPass    string

	// ArmDeletions enables real file deletion. Off by default: the
	// consequence engine simulates otherwise.
	ArmDeletions bool
}

// Load reads the configuration from environment variables, falling back to
// the legacy settings file for difficulty and stake folder.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		DataDir:        getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		SettingsPath:   getEnvWithDefault("STAKEJACK_SETTINGS", filepath.Join(wd, "settings.txt")),
		HistoryBackend: getEnvWithDefault("STAKEJACK_HISTORY", "sqlite"),
		ElasticURL:     os.Getenv("ELASTICSEARCH_URL"),
		ElasticUser:    os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticPass:    os.Getenv("ELASTICSEARCH_PASSWORD"),
		ArmDeletions:   os.Getenv("STAKEJACK_ARM_DELETIONS") == "1",
		NumDecks:       entities.DefaultDeckCount,
	}
	cfg.SavePath = getEnvWithDefault("STAKEJACK_SAVE", filepath.Join(cfg.DataDir, "session.sav"))
	cfg.EventLogPath = getEnvWithDefault("STAKEJACK_LOG", filepath.Join(cfg.DataDir, "game.log"))

	// Legacy settings file first, then env overrides.
	if diff, folder, ok := readLegacySettings(cfg.SettingsPath); ok {
		cfg.Difficulty = diff
		cfg.FolderPath = folder
	}

	if v := os.Getenv("STAKEJACK_DIFFICULTY"); v != "" {
		diff, err := entities.ParseDifficulty(v)
		if err != nil {
			return nil, fmt.Errorf("STAKEJACK_DIFFICULTY: %w", err)
		}
		cfg.Difficulty = diff
	}
	if v := os.Getenv("STAKEJACK_FOLDER"); v != "" {
		cfg.FolderPath = v
	}
	if v := os.Getenv("STAKEJACK_DECKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !entities.ValidDeckCount(n) {
			return nil, fmt.Errorf("STAKEJACK_DECKS must be one of %v", entities.DeckCounts)
		}
		cfg.NumDecks = n
	}

	if cfg.Difficulty == entities.DifficultyHard && cfg.FolderPath == "" {
		cfg.FolderPath = LegacyHardModeFolder
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// readLegacySettings parses the desktop build's settings file: line 1 is the
// difficulty code (0 Easy, 1 Normal, 2 Hard), line 2 the stake folder for
// Normal mode. A missing or unreadable file means defaults.
func readLegacySettings(path string) (entities.Difficulty, string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return entities.DifficultyEasy, "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return entities.DifficultyEasy, "", false
	}

	code, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return entities.DifficultyEasy, "", false
	}
	diff := entities.DifficultyFromCode(code)

	folder := ""
	if diff == entities.DifficultyNormal && scanner.Scan() {
		folder = strings.TrimSpace(scanner.Text())
	}

	return diff, folder, true
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
