package server

import (
	"time"

	"resumelift/internal/ai"
	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/extract"
	"resumelift/internal/types"
)

// AnalyzeResponse is the body returned by POST /analyze
type AnalyzeResponse struct {
	Analysis      types.ResumeAnalysis `json:"analysis"`
	Source        types.ResultSource   `json:"source"`
	Notifications []ai.Notification    `json:"notifications"`
}

// EnhanceResponse is the body returned by POST /enhance
type EnhanceResponse struct {
	EnhancedResume string             `json:"enhancedResume"`
	Source         types.ResultSource `json:"source"`
	Notifications  []ai.Notification  `json:"notifications"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Résumé operations; built from AppConfig in Start when nil
	Service   *ai.Service
	Extractor *extract.Extractor

	// API Authentication
	APIKeys *APIKeyStore

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit for JSON endpoints
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Optional dependencies checked by /health
	Vault VaultHealthChecker

	// Logger
	Logger *resumeliftErrors.Logger

	vaultWatcher  *VaultWatcher
	promptWatcher *config.PromptWatcher
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig

	// Service overrides the service built from the application config
	Service *ai.Service
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumeliftErrors.Logger) *Server {
	if logger == nil {
		logger = resumeliftErrors.NewNopLogger()
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Service:        cfg.Service,
		Extractor:      extract.NewExtractor(appCfg.Extract, logger),
		APIKeys:        NewAPIKeyStore(cfg.APIKeys),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
