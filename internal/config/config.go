package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the courserank configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Engine    EngineConfig    `yaml:"engine"`
	Artifact  ArtifactConfig  `yaml:"artifact"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatasetConfig holds the course table and evaluation case locations.
type DatasetConfig struct {
	Path      string `yaml:"path"`
	EvalCases string `yaml:"eval_cases"`
}

// EngineConfig holds recommendation engine settings.
type EngineConfig struct {
	Recommender string `yaml:"recommender"` // tfidf, embedding (default: tfidf)
	TopK        int    `yaml:"top_k"`
	StopWords   bool   `yaml:"stop_words"`
}

// ArtifactConfig holds fitted model snapshot storage settings.
type ArtifactConfig struct {
	Driver string `yaml:"driver"` // file, redis (default: file)
	Dir    string `yaml:"dir"`
	Name   string `yaml:"name"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds query result cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Recommender == "" {
		c.Engine.Recommender = "tfidf"
	}
	if c.Engine.TopK <= 0 {
		c.Engine.TopK = 5
	}
	if c.Artifact.Driver == "" {
		c.Artifact.Driver = "file"
	}
	if c.Artifact.Dir == "" {
		c.Artifact.Dir = "artifacts"
	}
	if c.Artifact.Name == "" {
		c.Artifact.Name = "model"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "courserank:"
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	switch c.Engine.Recommender {
	case "tfidf", "embedding":
	default:
		return fmt.Errorf("engine.recommender must be \"tfidf\" or \"embedding\", got %q", c.Engine.Recommender)
	}
	switch c.Artifact.Driver {
	case "file", "redis":
	default:
		return fmt.Errorf("artifact.driver must be \"file\" or \"redis\", got %q", c.Artifact.Driver)
	}
	if c.needsRedis() && len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required when artifact.driver is redis or cache is enabled")
	}
	if c.Engine.Recommender == "embedding" && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required for the embedding recommender")
	}
	return nil
}

func (c *Config) needsRedis() bool {
	return c.Artifact.Driver == "redis" || c.Cache.Enabled
}

// NeedsRedis reports whether any configured component uses the redis store.
func (c *Config) NeedsRedis() bool { return c.needsRedis() }

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
