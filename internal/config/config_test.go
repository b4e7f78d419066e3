package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[openagenda]
region = "Occitanie"
start_year = 2024
keywords = ["jazz", "cinéma"]
retention_days = 180

[llm]
provider = "mistral"
model = "mistral-small"
api_key = "test-key"

[index]
path = "faiss_like_index"
top_k = 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))

	require.NoError(t, err)
	assert.Equal(t, "Occitanie", cfg.OpenAgenda.Region)
	assert.Equal(t, 180, cfg.OpenAgenda.RetentionDays)
	assert.Equal(t, []string{"jazz", "cinéma"}, cfg.OpenAgenda.Keywords)
	assert.Equal(t, "faiss_like_index", cfg.Index.Path)
	assert.Equal(t, 5, cfg.Index.TopK)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[llm]\napi_key = \"k\"\n"))

	require.NoError(t, err)
	assert.Equal(t, "Occitanie", cfg.OpenAgenda.Region)
	assert.Equal(t, 365, cfg.OpenAgenda.RetentionDays)
	assert.Equal(t, 100, cfg.OpenAgenda.PageSize)
	assert.Equal(t, "mistral", cfg.LLM.Provider)
	assert.Equal(t, "mistral-embed", cfg.LLM.EmbeddingModel)
	assert.Equal(t, 3, cfg.Chat.HistoryWindow)
	assert.Equal(t, 5, cfg.Chat.RateLimitBackoffS)
	assert.Equal(t, "Toulouse", cfg.Geo.DefaultCity)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, sampleTOML))

	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "this is not toml ["))
	assert.Error(t, err)
}
