package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"resumelift/internal/ai"
	"resumelift/internal/config"
	"resumelift/internal/observability"
)

const (
	shutdownTimeout              = 30 * time.Second
	observabilityShutdownTimeout = 5 * time.Second
)

// Start wires every component and serves until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)
	om.StartPrometheus()

	if err := s.initializeService(om); err != nil {
		return err
	}
	defer func() {
		if err := s.Service.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close AI service")
		}
	}()

	if err := s.startPromptWatcher(om); err != nil {
		return err
	}
	if err := s.startVaultWatcher(om); err != nil {
		return err
	}
	defer s.stopWatchers()

	httpServer := s.setupHTTPServer(om)
	s.displayServerInfo()

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdownTimeout)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initializeService builds the résumé service unless one was injected
func (s *Server) initializeService(om *observability.ObservabilityManager) error {
	if s.Service != nil {
		return nil
	}

	service, err := ai.NewServiceFromConfig(s.AppConfig, ai.LogNotifier{Logger: s.Logger}, om.GetMetrics(), s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	s.Service = service

	s.Logger.Info("AI service ready",
		"analyze_model", service.HasAnalyzer(),
		"enhance_model", service.HasEnhancer())
	return nil
}

// startPromptWatcher reloads prompt files edited while the server runs
func (s *Server) startPromptWatcher(om *observability.ObservabilityManager) error {
	if !s.AppConfig.Prompts.Watch.Enabled {
		return nil
	}

	metrics := om.GetMetrics()
	s.promptWatcher = config.NewPromptWatcher(s.AppConfig, func(path string, updated int) {
		metrics.RecordPromptReload(context.Background(), path, updated)
	}, s.Logger)

	if err := s.promptWatcher.Start(); err != nil {
		return fmt.Errorf("failed to start prompt watcher: %w", err)
	}
	return nil
}

// startVaultWatcher connects to Vault for /health and, when a poll interval
// is set, rotates API keys from the configured secret.
func (s *Server) startVaultWatcher(om *observability.ObservabilityManager) error {
	client, err := config.NewVaultClient(s.AppConfig.Vault, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to vault: %w", err)
	}
	if client == nil {
		return nil
	}
	s.Vault = client

	vaultCfg := s.AppConfig.Vault
	if vaultCfg.PollInterval <= 0 || vaultCfg.Secrets.APIKeys == "" {
		return nil
	}

	metrics := om.GetMetrics()
	s.vaultWatcher = NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.PollInterval,
		func(keys []string, err error) {
			ctx := context.Background()
			if err != nil {
				metrics.RecordAPIKeyRotation(ctx, false)
				return
			}
			if len(keys) == 0 {
				s.Logger.Warn("Vault returned no API keys, keeping current keys")
				metrics.RecordAPIKeyRotation(ctx, false)
				return
			}
			s.APIKeys.Replace(keys)
			metrics.RecordAPIKeyRotation(ctx, true)
			s.Logger.Info("API keys rotated from Vault", "count", len(keys))
		}, s.Logger)

	return s.vaultWatcher.Start()
}

func (s *Server) stopWatchers() {
	if s.promptWatcher != nil {
		if err := s.promptWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop prompt watcher")
		}
	}
	if s.vaultWatcher != nil {
		if err := s.vaultWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop vault watcher")
		}
	}
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	handler := om.HTTPMiddleware()(s.setupRoutes(om))

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown serves until ctx is done, then shuts down
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Shutdown requested, starting graceful shutdown",
			"reason", context.Cause(ctx).Error())
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
