package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the rosterdex configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Database  DatabaseConfig  `yaml:"database"`
	Roster    RosterConfig    `yaml:"roster"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings for the vector index and embedding cache.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RosterConfig locates the SQLite roster database.
type RosterConfig struct {
	Path string `yaml:"path"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	Algorithm       string `yaml:"algorithm"` // hnsw (default) or flat
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	CacheTTLSec     int    `yaml:"embedding_cache_ttl_sec"` // 0 = keep forever
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
}

// LLMConfig holds the routing fallback model settings. An empty APIKey disables it.
type LLMConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
	TimeoutSec      int     `yaml:"timeout_sec"`
	RatePerSecond   float64 `yaml:"rate_per_second"` // 0 = unlimited
	Burst           int     `yaml:"burst"`
	BreakerFailures uint32  `yaml:"breaker_failures"`
	BreakerOpenSec  int     `yaml:"breaker_open_sec"`
}

// SearchConfig holds retrieval limits and per-source timeouts.
type SearchConfig struct {
	StructuredLimit     int `yaml:"structured_limit"`
	SemanticTopK        int `yaml:"semantic_top_k"`
	StructuredTimeoutMS int `yaml:"structured_timeout_ms"`
	SemanticTimeoutMS   int `yaml:"semantic_timeout_ms"`
}

// Enabled reports whether an LLM fallback is configured.
func (c LLMConfig) Enabled() bool { return c.APIKey != "" }

// Timeout returns the per-call LLM timeout.
func (c LLMConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// BreakerOpen returns how long the circuit breaker stays open.
func (c LLMConfig) BreakerOpen() time.Duration {
	return time.Duration(c.BreakerOpenSec) * time.Second
}

// StructuredTimeout returns the structured store timeout.
func (c SearchConfig) StructuredTimeout() time.Duration {
	return time.Duration(c.StructuredTimeoutMS) * time.Millisecond
}

// SemanticTimeout returns the semantic search timeout.
func (c SearchConfig) SemanticTimeout() time.Duration {
	return time.Duration(c.SemanticTimeoutMS) * time.Millisecond
}

// CacheTTL returns the embedding cache entry lifetime.
func (c IndexConfig) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Roster.Path == "" {
		c.Roster.Path = "rosterdex.db"
	}
	if c.Index.Name == "" {
		c.Index.Name = "rosterdex:profiles:idx"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "rosterdex:profile:"
	}
	if c.Index.Algorithm == "" {
		c.Index.Algorithm = "hnsw"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 512
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 15
	}
	if c.LLM.Burst <= 0 {
		c.LLM.Burst = 1
	}
	if c.LLM.BreakerFailures == 0 {
		c.LLM.BreakerFailures = 3
	}
	if c.LLM.BreakerOpenSec <= 0 {
		c.LLM.BreakerOpenSec = 30
	}
	if c.Search.StructuredLimit <= 0 {
		c.Search.StructuredLimit = 100
	}
	if c.Search.SemanticTopK <= 0 {
		c.Search.SemanticTopK = 10
	}
	if c.Search.StructuredTimeoutMS <= 0 {
		c.Search.StructuredTimeoutMS = 2000
	}
	if c.Search.SemanticTimeoutMS <= 0 {
		c.Search.SemanticTimeoutMS = 5000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Index.Algorithm {
	case "hnsw", "flat":
	default:
		return fmt.Errorf("index.algorithm must be \"hnsw\" or \"flat\", got %q", c.Index.Algorithm)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.RatePerSecond < 0 {
		return fmt.Errorf("llm.rate_per_second must not be negative, got %v", c.LLM.RatePerSecond)
	}
	if c.Search.StructuredLimit > 1000 {
		return fmt.Errorf("search.structured_limit must be at most 1000, got %d", c.Search.StructuredLimit)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
