package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Dataset: DatasetConfig{Path: "data/courses.csv"},
		Engine:  EngineConfig{Recommender: "tfidf", TopK: 5},
		Artifact: ArtifactConfig{
			Driver: "file",
			Dir:    "artifacts",
			Name:   "model",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatasetPath(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing dataset path")
	}
}

func TestValidate_InvalidRecommender(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Recommender = "bm25"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid recommender")
	}

	expected := `engine.recommender must be "tfidf" or "embedding", got "bm25"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_InvalidArtifactDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Artifact.Driver = "s3"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid artifact driver")
	}
}

func TestValidate_RedisRequiredForRedisArtifacts(t *testing.T) {
	cfg := validConfig()
	cfg.Artifact.Driver = "redis"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis addrs")
	}

	cfg.Redis.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with addrs set: %v", err)
	}
}

func TestValidate_RedisRequiredForCache(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cache without redis addrs")
	}
}

func TestValidate_EmbeddingModelRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Recommender = "embedding"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for embedding recommender without model")
	}

	cfg.Embedding.Model = "text-embedding-3-small"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with model set: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Engine.Recommender != "tfidf" {
		t.Errorf("expected Recommender=tfidf, got %q", cfg.Engine.Recommender)
	}
	if cfg.Engine.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Engine.TopK)
	}
	if cfg.Artifact.Driver != "file" {
		t.Errorf("expected Driver=file, got %q", cfg.Artifact.Driver)
	}
	if cfg.Artifact.Name != "model" {
		t.Errorf("expected Name=model, got %q", cfg.Artifact.Name)
	}
	if cfg.Redis.KeyPrefix != "courserank:" {
		t.Errorf("expected KeyPrefix='courserank:', got %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Redis.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Redis.ReadinessTimeout)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("expected TTLSec=300, got %d", cfg.Cache.TTLSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Engine:   EngineConfig{Recommender: "embedding", TopK: 20},
		Artifact: ArtifactConfig{Driver: "redis", Dir: "snapshots", Name: "latest"},
		Redis:    RedisConfig{KeyPrefix: "custom:", ReadinessTimeout: 15},
		Cache:    CacheConfig{TTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Engine.Recommender != "embedding" {
		t.Errorf("expected Recommender=embedding, got %q", cfg.Engine.Recommender)
	}
	if cfg.Artifact.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Artifact.Driver)
	}
	if cfg.Redis.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("COURSERANK_TEST_PORT", "9090")

	in := []byte("port: ${COURSERANK_TEST_PORT}\npath: ${COURSERANK_TEST_MISSING:-data/courses.csv}\n")
	out := string(expandEnvVars(in))

	want := "port: 9090\npath: data/courses.csv\n"
	if out != want {
		t.Errorf("expanded config:\ngot:  %q\nwant: %q", out, want)
	}
}
