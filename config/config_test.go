package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("mode = %q, want release", cfg.Server.Mode)
	}
	if !cfg.Browser.Headless {
		t.Error("headless should default to true")
	}
	if cfg.Extractor.StaticTimeout != 10*time.Second {
		t.Errorf("static timeout = %v", cfg.Extractor.StaticTimeout)
	}
	if cfg.LLM.SummaryModel != "gpt-3.5-turbo" {
		t.Errorf("summary model = %q", cfg.LLM.SummaryModel)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("embed provider = %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.OpenAIModel != "text-embedding-3-small" {
		t.Errorf("embed model = %q", cfg.Embedding.OpenAIModel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GIST_PORT", "9001")
	t.Setenv("GIST_MODE", "debug")
	t.Setenv("GIST_STATIC_TIMEOUT", "3s")
	t.Setenv("GIST_API_KEYS", "key-a, key-b ,")
	t.Setenv("GIST_RATE_RPS", "2.5")

	cfg := Load()
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("mode = %q", cfg.Server.Mode)
	}
	if cfg.Extractor.StaticTimeout != 3*time.Second {
		t.Errorf("static timeout = %v", cfg.Extractor.StaticTimeout)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[0] != "key-a" || cfg.Auth.APIKeys[1] != "key-b" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("rps = %v", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestValidate_MissingOpenAIKeyIsFatal(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when OPENAI_API_KEY is unset")
	}
}

func TestValidate_OpenAIKeyPresent(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidate_CohereProviderRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GIST_EMBED_PROVIDER", "cohere")
	t.Setenv("COHERE_API_KEY", "")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when COHERE_API_KEY is unset")
	}

	t.Setenv("COHERE_API_KEY", "co-test")
	cfg = Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GIST_EMBED_PROVIDER", "bert")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}
