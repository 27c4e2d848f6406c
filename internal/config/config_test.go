package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("STRINGS_ENCODING", "")
	t.Setenv("DEFAULT_TABLE", "")

	cfg := Load()
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, "", cfg.Encoding)
	assert.Equal(t, "Localizable", cfg.DefaultTable)
	assert.Equal(t, "en", cfg.BaseLanguage)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("STRINGS_ENCODING", "utf-16-le")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, "utf-16-le", cfg.Encoding)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	assert.Equal(t, 8, getEnvInt("WORKER_COUNT", 8))
}
