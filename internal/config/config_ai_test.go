package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationConfigInheritsGlobals(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{
			Provider:        "gemini",
			Model:           "gemini-2.0-flash",
			Timeout:         45 * time.Second,
			APIKey:          "global-key",
			MaxRetries:      2,
			Temperature:     0.2,
			MaxOutputTokens: 2048,
			Backoff:         BackoffConfig{BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second},
		},
	}

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, "gemini-2.0-flash", analyze.Model)
	assert.Equal(t, "global-key", analyze.APIKey)
	require.NotNil(t, analyze.Timeout)
	assert.Equal(t, 45*time.Second, *analyze.Timeout)
	assert.Equal(t, 2, *analyze.MaxRetries)
	assert.InDelta(t, 0.2, float64(*analyze.Temperature), 1e-6)
	assert.Equal(t, int32(2048), *analyze.MaxOutputTokens)
	assert.Equal(t, 500*time.Millisecond, analyze.Backoff.BaseDelay)
	assert.Equal(t, 5*time.Second, analyze.Backoff.MaxDelay)
}

func TestOperationConfigOverrides(t *testing.T) {
	temp := float32(0.7)
	retries := 0
	cfg := &Config{
		AI: AIConfig{
			Model:       "gemini-2.0-flash",
			APIKey:      "global-key",
			MaxRetries:  2,
			Temperature: 0.2,
			Enhance: OperationAIConfig{
				Model:       "gemini-2.5-pro",
				APIKey:      "enhance-key",
				Temperature: &temp,
				MaxRetries:  &retries,
			},
		},
	}

	enhance := cfg.GetEnhanceConfig()
	assert.Equal(t, "gemini-2.5-pro", enhance.Model)
	assert.Equal(t, "enhance-key", enhance.APIKey)
	assert.InDelta(t, 0.7, float64(*enhance.Temperature), 1e-6)
	assert.Equal(t, 0, *enhance.MaxRetries)

	// Overrides do not leak into the stored config
	assert.Nil(t, cfg.AI.Analyze.Temperature)
	assert.Equal(t, "gemini-2.0-flash", cfg.GetAnalyzeConfig().Model)
}

func TestOperationConfigBackoffDefaults(t *testing.T) {
	cfg := &Config{}
	opCfg := cfg.OperationConfig(OperationAnalyze)
	assert.Equal(t, time.Second, opCfg.Backoff.BaseDelay)
	assert.Equal(t, 30*time.Second, opCfg.Backoff.MaxDelay)
}

func TestHasAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.HasAPIKey(OperationAnalyze))

	cfg.AI.Enhance.APIKey = "only-enhance"
	assert.False(t, cfg.HasAPIKey(OperationAnalyze))
	assert.True(t, cfg.HasAPIKey(OperationEnhance))

	cfg.AI.APIKey = "global"
	assert.True(t, cfg.HasAPIKey(OperationAnalyze))
}

func TestPromptSetForOperation(t *testing.T) {
	set := PromptSet{
		AnalyzeResume:     "inline analyze",
		EnhanceResumeFile: "enhance.md",
	}

	inline, file := set.ForOperation(OperationAnalyze)
	assert.Equal(t, "inline analyze", inline)
	assert.Empty(t, file)

	inline, file = set.ForOperation(OperationEnhance)
	assert.Empty(t, inline)
	assert.Equal(t, "enhance.md", file)

	inline, file = set.ForOperation("unknown")
	assert.Empty(t, inline)
	assert.Empty(t, file)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI:      AIConfig{Provider: "gemini", Temperature: 0.2, MaxRetries: 2},
			App:     AppConfig{BatchConcurrency: 4},
			Extract: ExtractConfig{MaxUploadSize: 1024},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: "unsupported AI provider"},
		{name: "temperature too high", mutate: func(c *Config) { c.AI.Temperature = 2.5 }, wantErr: "ai.temperature"},
		{name: "negative retries", mutate: func(c *Config) { c.AI.MaxRetries = -1 }, wantErr: "ai.maxRetries"},
		{name: "zero batch concurrency", mutate: func(c *Config) { c.App.BatchConcurrency = 0 }, wantErr: "batchConcurrency"},
		{name: "zero upload size", mutate: func(c *Config) { c.Extract.MaxUploadSize = 0 }, wantErr: "maxUploadSize"},
		{
			name: "breaker threshold out of range",
			mutate: func(c *Config) {
				c.AI.Analyze.CircuitBreaker = CircuitBreakerConfig{Enabled: true, FailureThreshold: 1.5}
			},
			wantErr: "failureThreshold",
		},
		{
			name: "rate limit without budget",
			mutate: func(c *Config) {
				c.Server.RateLimit = RateLimitConfig{Enabled: true}
			},
			wantErr: "requestsPerMin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", " legacy-key ")
	t.Setenv("RESUMELIFT_SERVER_APIKEYS", "one, two ,,three")

	cfg := &Config{Observability: ObservabilityConfig{ServiceName: "resumelift"}}
	cfg.applyFallbacks()

	assert.Equal(t, "legacy-key", cfg.AI.APIKey)
	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)

	// Explicit values win over the environment
	cfg = &Config{AI: AIConfig{APIKey: "explicit"}}
	cfg.applyFallbacks()
	assert.Equal(t, "explicit", cfg.AI.APIKey)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
ai:
  model: gemini-2.5-flash
  maxRetries: 1
  enhance:
    temperature: 0.5
app:
  batchConcurrency: 8
server:
  port: "9000"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 8, cfg.App.BatchConcurrency)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(5*1024*1024), cfg.Extract.MaxUploadSize)

	enhance := cfg.GetEnhanceConfig()
	assert.Equal(t, "gemini-2.5-flash", enhance.Model)
	assert.Equal(t, 1, *enhance.MaxRetries)
	assert.InDelta(t, 0.5, float64(*enhance.Temperature), 1e-6)
	assert.Equal(t, 90*time.Second, *enhance.Timeout)

	analyze := cfg.GetAnalyzeConfig()
	assert.InDelta(t, 0.2, float64(*analyze.Temperature), 1e-6)
	assert.True(t, analyze.CircuitBreaker.Enabled)
}
