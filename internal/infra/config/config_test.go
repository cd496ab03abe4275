package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv изолирует тест от переменных окружения запуска.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_TYPE", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram_bot:
  token: "test-token"
database:
  url: "postgres://localhost/quiz"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, 10, cfg.Quiz.QuestionsPerQuiz)
	assert.Equal(t, 10, cfg.Quiz.HistoryLimit)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram_bot:
  token: "file-token"
database:
  url: "postgres://localhost/quiz"
`)

	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("STORAGE_TYPE", "memory")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.TelegramBot.Token)
	assert.Equal(t, "memory", cfg.Storage)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  url: "postgres://localhost/quiz"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRequiresDatabaseURLForPostgres(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram_bot:
  token: "test-token"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)

	// в режиме memory база не нужна
	path = writeConfig(t, `
telegram_bot:
  token: "test-token"
storage: "memory"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{1, 2}}
	assert.True(t, cfg.IsAdmin(1))
	assert.False(t, cfg.IsAdmin(3))
}
