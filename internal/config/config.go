package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMELIFT_AI_APIKEY, then GEMINI_API_KEY)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Extract       ExtractConfig       `mapstructure:"extract"`
	Prompts       PromptsConfig       `mapstructure:"prompts"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	prompts *PromptStore
}

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global values inherited by every operation
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	MaxOutputTokens  int32         `mapstructure:"maxOutputTokens"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	Backoff          BackoffConfig `mapstructure:"backoff"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	Analyze OperationAIConfig `mapstructure:"analyze"`
	Enhance OperationAIConfig `mapstructure:"enhance"`
}

// BackoffConfig bounds the delay between retries of a transient failure
type BackoffConfig struct {
	BaseDelay time.Duration `mapstructure:"baseDelay"`
	MaxDelay  time.Duration `mapstructure:"maxDelay"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for one operation. Nil pointer
// fields inherit the global value.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	MaxOutputTokens  *int32               `mapstructure:"maxOutputTokens"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	Backoff          BackoffConfig        `mapstructure:"backoff"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`

	// Prompts holds file-loaded prompt overrides; set by OperationConfig.
	Prompts *PromptStore `mapstructure:"-"`
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts PromptSet `mapstructure:"systemPrompts"`
	UserPrompts   PromptSet `mapstructure:"userPrompts"`
}

// PromptSet holds inline prompt text and prompt file paths per operation
type PromptSet struct {
	AnalyzeResume     string `mapstructure:"analyzeResume"`
	AnalyzeResumeFile string `mapstructure:"analyzeResumeFile"`
	EnhanceResume     string `mapstructure:"enhanceResume"`
	EnhanceResumeFile string `mapstructure:"enhanceResumeFile"`
}

// ForOperation returns the inline prompt and prompt file for operation.
func (p PromptSet) ForOperation(operation string) (inline, file string) {
	switch operation {
	case OperationAnalyze:
		return p.AnalyzeResume, p.AnalyzeResumeFile
	case OperationEnhance:
		return p.EnhanceResume, p.EnhanceResumeFile
	default:
		return "", ""
	}
}

// PromptsConfig controls prompt file reloading
type PromptsConfig struct {
	Watch PromptWatchConfig `mapstructure:"watch"`
}

// PromptWatchConfig holds configuration for prompt file watching
type PromptWatchConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	BatchConcurrency int      `mapstructure:"batchConcurrency"`
}

// ExtractConfig holds document extraction configuration
type ExtractConfig struct {
	MaxUploadSize     int64    `mapstructure:"maxUploadSize"`
	AllowedExtensions []string `mapstructure:"allowedExtensions"`
	Canonicalize      bool     `mapstructure:"canonicalize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	TrackFallbacks  bool `mapstructure:"trackFallbacks"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackScores       bool `mapstructure:"trackScores"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMELIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMELIFT'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumelift/")
	v.AddConfigPath("$HOME/.resumelift")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	return finishLoad(v, configFileUsed)
}

// LoadConfigFile loads configuration from an explicit YAML file path.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMELIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	log.Printf("[CONFIG] Successfully loaded config file: %s", path)

	return finishLoad(v, path)
}

func finishLoad(v *viper.Viper, configFileUsed string) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AI.Provider != "" && c.AI.Provider != "gemini" {
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %v", c.AI.Temperature)
	}

	if c.AI.MaxOutputTokens < 0 {
		return fmt.Errorf("ai.maxOutputTokens must not be negative")
	}

	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.maxRetries must not be negative")
	}

	for _, op := range []string{OperationAnalyze, OperationEnhance} {
		opCfg := c.OperationConfig(op)
		if *opCfg.Temperature < 0 || *opCfg.Temperature > 2 {
			return fmt.Errorf("ai.%s.temperature must be between 0 and 2, got %v", op, *opCfg.Temperature)
		}
		if *opCfg.MaxRetries < 0 {
			return fmt.Errorf("ai.%s.maxRetries must not be negative", op)
		}
		cb := opCfg.CircuitBreaker
		if cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
			return fmt.Errorf("ai.%s.circuitBreaker.failureThreshold must be in (0, 1], got %v", op, cb.FailureThreshold)
		}
	}

	if c.App.BatchConcurrency < 1 {
		return fmt.Errorf("app.batchConcurrency must be at least 1")
	}

	if c.Extract.MaxUploadSize <= 0 {
		return fmt.Errorf("extract.maxUploadSize must be positive")
	}

	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("server.rateLimit.requestsPerMin must be positive when rate limiting is enabled")
	}

	return nil
}
