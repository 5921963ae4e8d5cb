package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_EmbeddingEnabledWithoutKey(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when embedding is enabled without api key")
	}
}

func TestValidate_MMRLambdaRange(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.MMRLambda = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for mmr_lambda > 1")
	}
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Scoring.Weights = map[string]float64{"marketing_tone": -0.5}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative factor weight")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Retrieval.RRFK != 60 {
		t.Errorf("expected default rrf_k 60, got %d", cfg.Retrieval.RRFK)
	}
	if cfg.Retrieval.MMRLambda != 0.6 {
		t.Errorf("expected default mmr_lambda 0.6, got %g", cfg.Retrieval.MMRLambda)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected default top_k 5, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Scoring.DuplicateThreshold != 0.85 {
		t.Errorf("expected default duplicate threshold 0.85, got %g", cfg.Scoring.DuplicateThreshold)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("expected default dimensions 768, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Validation.PassThreshold != 70 {
		t.Errorf("expected default pass threshold 70, got %d", cfg.Validation.PassThreshold)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("BRANDGEN_TEST_KEY", "secret")
	defer os.Unsetenv("BRANDGEN_TEST_KEY")

	got := string(expandEnvVars([]byte("api_key: ${BRANDGEN_TEST_KEY}")))
	if got != "api_key: secret" {
		t.Errorf("unexpected expansion: %q", got)
	}

	got = string(expandEnvVars([]byte("model: ${BRANDGEN_MISSING:-fallback-model}")))
	if got != "model: fallback-model" {
		t.Errorf("unexpected default expansion: %q", got)
	}
}
