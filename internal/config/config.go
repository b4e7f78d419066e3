package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type OpenAgendaConfig struct {
	Region           string   `toml:"region"`
	StartYear        int      `toml:"start_year"`
	Keywords         []string `toml:"keywords"`
	RetentionDays    int      `toml:"retention_days"`
	RequireFutureEnd bool     `toml:"require_future_end"`
	PageSize         int      `toml:"page_size"`
	RequestDelayMs   int      `toml:"request_delay_ms"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type IndexConfig struct {
	Path string `toml:"path"`
	TopK int    `toml:"top_k"`
}

type ChatConfig struct {
	HistoryWindow     int `toml:"history_window"`
	RateLimitBackoffS int `toml:"rate_limit_backoff_s"`
}

type GeoConfig struct {
	Enabled       bool   `toml:"enabled"`
	TimeoutS      int    `toml:"timeout_s"`
	DefaultCity   string `toml:"default_city"`
	DefaultRegion string `toml:"default_region"`
}

type LogConfig struct {
	Dir string `toml:"dir"`
}

type Config struct {
	OpenAgenda OpenAgendaConfig `toml:"openagenda"`
	LLM        LLMConfig        `toml:"llm"`
	Index      IndexConfig      `toml:"index"`
	Chat       ChatConfig       `toml:"chat"`
	Geo        GeoConfig        `toml:"geo"`
	Log        LogConfig        `toml:"log"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets deployment environments override the provider settings
// without editing the TOML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		c.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("MISTRAL_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.OpenAgenda.Region == "" {
		c.OpenAgenda.Region = "Occitanie"
	}
	if c.OpenAgenda.StartYear == 0 {
		c.OpenAgenda.StartYear = 2024
	}
	if c.OpenAgenda.RetentionDays == 0 {
		c.OpenAgenda.RetentionDays = 365
	}
	if c.OpenAgenda.PageSize == 0 {
		c.OpenAgenda.PageSize = 100
	}
	if c.OpenAgenda.RequestDelayMs == 0 {
		c.OpenAgenda.RequestDelayMs = 500
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "mistral"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "mistral-small"
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "mistral-embed"
	}
	if c.Index.Path == "" {
		c.Index.Path = "vector_index"
	}
	if c.Index.TopK == 0 {
		c.Index.TopK = 4
	}
	if c.Chat.HistoryWindow == 0 {
		c.Chat.HistoryWindow = 3
	}
	if c.Chat.RateLimitBackoffS == 0 {
		c.Chat.RateLimitBackoffS = 5
	}
	if c.Geo.TimeoutS == 0 {
		c.Geo.TimeoutS = 5
	}
	if c.Geo.DefaultCity == "" {
		c.Geo.DefaultCity = "Toulouse"
	}
	if c.Geo.DefaultRegion == "" {
		c.Geo.DefaultRegion = "Occitanie"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
}
