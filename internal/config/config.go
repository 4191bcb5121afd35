package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	DataDir  string          `yaml:"data_dir,omitempty"`
	Language string          `yaml:"language,omitempty"` // "en" or "zh"
	Provider ProviderConfig  `yaml:"provider"`
	Chat     ChatConfig      `yaml:"chat,omitempty"`
	RAG      RAGConfig       `yaml:"rag,omitempty"`
	Cache    CacheConfig     `yaml:"cache,omitempty"`
	Autosave *AutosaveConfig `yaml:"autosave,omitempty"`
}

// ProviderConfig selects and configures the LLM vendor adapter.
type ProviderConfig struct {
	Type   string `yaml:"type"`              // "chatglm", "qwen", "llama", "siliconflow"
	APIKey string `yaml:"api_key,omitempty"` // Supports ${ENV_VAR} expansion
	APIURL string `yaml:"api_url,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// ChatConfig tunes the chat loop.
type ChatConfig struct {
	SystemPrompt   string `yaml:"system_prompt,omitempty"`
	TimeoutSecs    int    `yaml:"timeout_secs,omitempty"`
	StreamBufSize  int    `yaml:"stream_buf_size,omitempty"` // deltas buffered before a UI flush
	HistoryEnabled *bool  `yaml:"history_enabled,omitempty"`
}

// RAGConfig configures the retrieval-augmented context engine.
type RAGConfig struct {
	ChunkSize    int                `yaml:"chunk_size,omitempty"`    // tokens per chunk (default 1000)
	ChunkOverlap int                `yaml:"chunk_overlap,omitempty"` // overlapping tokens (default 200)
	TopK         int                `yaml:"top_k,omitempty"`         // results per query (default 3)
	EmbedDims    int                `yaml:"embed_dims,omitempty"`    // local embedder dimensions (default 384)
	Embedder     string             `yaml:"embedder,omitempty"`      // "hash" (default) or "openai"
	OpenAI       *OpenAIEmbedConfig `yaml:"openai,omitempty"`
}

// OpenAIEmbedConfig configures the OpenAI-compatible embedding provider.
type OpenAIEmbedConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"` // Supports ${ENV_VAR} expansion
	Model   string `yaml:"model,omitempty"`   // Default: "text-embedding-3-small"
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	TTLSecs int   `yaml:"ttl_secs,omitempty"` // default 3600
}

// AutosaveConfig configures background maintenance jobs.
type AutosaveConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SnapshotSpec   string `yaml:"snapshot_spec,omitempty"`    // cron spec, default "@every 5m"
	CacheSweepSpec string `yaml:"cache_sweep_spec,omitempty"` // cron spec, default "@hourly"
}

// IsEnabled reports whether the response cache is on. Defaults to true.
func (c *CacheConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// TTL returns the cache TTL as a duration.
func (c *CacheConfig) TTL() time.Duration {
	if c.TTLSecs <= 0 {
		return time.Hour
	}
	return time.Duration(c.TTLSecs) * time.Second
}

// IsHistoryEnabled reports whether chat history is recorded. Defaults to true.
func (c *ChatConfig) IsHistoryEnabled() bool {
	if c.HistoryEnabled == nil {
		return true
	}
	return *c.HistoryEnabled
}

// Timeout returns the per-request timeout.
func (c *ChatConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Load reads a config file from path. A missing file yields defaults.
// A .env file in the working directory is loaded first so that ${VAR}
// expansion can see it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	expandSecrets(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./termllm.yaml first, then the user config path.
func LoadDefault(userPath string) (*Config, string, error) {
	const cwdPath = "termllm.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	if userPath != "" {
		if _, err := os.Stat(userPath); err == nil {
			cfg, err := Load(userPath)
			return cfg, userPath, err
		}
	}
	_ = godotenv.Load()
	cfg := Default()
	return cfg, "", nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Language: "zh",
		Provider: ProviderConfig{
			Type:   "chatglm",
			APIKey: "${CHATGLM_API_KEY}",
			APIURL: "https://open.bigmodel.cn/api/paas/v4/chat/completions",
			Model:  "glm-4-flash",
		},
	}
	applyDefaults(cfg)
	expandSecrets(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "chatglm"
	}
	if cfg.Chat.SystemPrompt == "" {
		cfg.Chat.SystemPrompt = "你是一个有帮助的 AI 助手。"
	}
	if cfg.Chat.StreamBufSize <= 0 {
		cfg.Chat.StreamBufSize = 8
	}
	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap <= 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.EmbedDims <= 0 {
		cfg.RAG.EmbedDims = 384
	}
	if cfg.RAG.Embedder == "" {
		cfg.RAG.Embedder = "hash"
	}
	if cfg.RAG.Embedder == "openai" {
		if cfg.RAG.OpenAI == nil {
			cfg.RAG.OpenAI = &OpenAIEmbedConfig{}
		}
		if cfg.RAG.OpenAI.BaseURL == "" {
			cfg.RAG.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.RAG.OpenAI.APIKey == "" {
			cfg.RAG.OpenAI.APIKey = "${OPENAI_API_KEY}"
		}
		if cfg.RAG.OpenAI.Model == "" {
			cfg.RAG.OpenAI.Model = "text-embedding-3-small"
		}
	}
	if cfg.Autosave == nil {
		cfg.Autosave = &AutosaveConfig{Enabled: true}
	}
	if cfg.Autosave.SnapshotSpec == "" {
		cfg.Autosave.SnapshotSpec = "@every 5m"
	}
	if cfg.Autosave.CacheSweepSpec == "" {
		cfg.Autosave.CacheSweepSpec = "@hourly"
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${VAR} references with environment values. Unknown
// variables expand to the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[2 : len(m)-1])
	})
}

func expandSecrets(cfg *Config) {
	cfg.Provider.APIKey = ExpandEnv(cfg.Provider.APIKey)
	cfg.Provider.APIURL = ExpandEnv(cfg.Provider.APIURL)
	if cfg.RAG.OpenAI != nil {
		cfg.RAG.OpenAI.APIKey = ExpandEnv(cfg.RAG.OpenAI.APIKey)
	}
}
