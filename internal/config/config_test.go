package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/stakejack/pkg/entities"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadLegacySettings(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		diff     entities.Difficulty
		folder   string
		expectOK bool
	}{
		{"easy", "0\n", entities.DifficultyEasy, "", true},
		{"normal with folder", "1\n/home/player/stuff\n", entities.DifficultyNormal, "/home/player/stuff", true},
		{"hard ignores folder line", "2\n/should/be/ignored\n", entities.DifficultyHard, "", true},
		{"unknown code falls back to easy", "9\n", entities.DifficultyEasy, "", true},
		{"junk first line", "not a number\n", entities.DifficultyEasy, "", false},
		{"empty file", "", entities.DifficultyEasy, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSettings(t, tc.content)
			diff, folder, ok := readLegacySettings(path)
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.diff, diff)
			assert.Equal(t, tc.folder, folder)
		})
	}
}

func TestReadLegacySettingsMissingFile(t *testing.T) {
	_, _, ok := readLegacySettings(filepath.Join(t.TempDir(), "nope.txt"))
	assert.False(t, ok)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STAKEJACK_SETTINGS", filepath.Join(dir, "settings.txt"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, entities.DifficultyEasy, cfg.Difficulty)
	assert.Equal(t, entities.DefaultDeckCount, cfg.NumDecks)
	assert.Equal(t, "sqlite", cfg.HistoryBackend)
	assert.False(t, cfg.ArmDeletions)
	assert.Empty(t, cfg.FolderPath)
	assert.DirExists(t, cfg.DataDir)
}

func TestLoadEnvOverridesSettingsFile(t *testing.T) {
	dir := t.TempDir()
	settings := writeSettings(t, "1\n/from/settings\n")

	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STAKEJACK_SETTINGS", settings)
	t.Setenv("STAKEJACK_DIFFICULTY", "hard")
	t.Setenv("STAKEJACK_FOLDER", "/from/env")
	t.Setenv("STAKEJACK_DECKS", "4")
	t.Setenv("STAKEJACK_ARM_DELETIONS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, entities.DifficultyHard, cfg.Difficulty)
	assert.Equal(t, "/from/env", cfg.FolderPath)
	assert.Equal(t, 4, cfg.NumDecks)
	assert.True(t, cfg.ArmDeletions)
}

func TestLoadSettingsFileAlone(t *testing.T) {
	dir := t.TempDir()
	settings := writeSettings(t, "1\n/from/settings\n")

	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STAKEJACK_SETTINGS", settings)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, entities.DifficultyNormal, cfg.Difficulty)
	assert.Equal(t, "/from/settings", cfg.FolderPath)
}

func TestLoadHardModeDefaultFolder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STAKEJACK_SETTINGS", filepath.Join(dir, "settings.txt"))
	t.Setenv("STAKEJACK_DIFFICULTY", "hard")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, LegacyHardModeFolder, cfg.FolderPath)
}

func TestLoadRejectsBadDeckCount(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STAKEJACK_SETTINGS", filepath.Join(dir, "settings.txt"))
	t.Setenv("STAKEJACK_DECKS", "3")

	_, err := Load()
	assert.Error(t, err)
}
