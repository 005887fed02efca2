package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumelift/internal/ai"

	"golang.org/x/sync/errgroup"
)

const defaultHealthCheckTimeout = 5 * time.Second

// VaultHealthChecker is the part of the Vault client used by /health
type VaultHealthChecker interface {
	Health(ctx context.Context) error
}

// getHealthCheckTimeout returns the configured model check timeout, falling
// back to the general health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	hc := s.AppConfig.Observability.HealthCheck
	if hc.AIModelCheckTimeout > 0 {
		return hc.AIModelCheckTimeout
	}
	if hc.Timeout > 0 {
		return hc.Timeout
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports readiness. Model availability and Vault are checked
// concurrently; either failing marks the service degraded.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
	defer cancel()

	var (
		models      map[string]*ai.ModelInfo
		vaultStatus map[string]any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		models = s.Service.ModelInfo(gctx)
		return nil
	})
	if s.Vault != nil {
		g.Go(func() error {
			vaultStatus = checkVaultHealth(gctx, s.Vault)
			return nil
		})
	}
	_ = g.Wait()

	response := map[string]any{
		"status":           "healthy",
		"service":          "resumelift",
		"version":          s.Version,
		"ai_enabled":       s.Service.HasAnalyzer() || s.Service.HasEnhancer(),
		"ai_models":        models,
		"circuit_breakers": s.Service.CircuitBreakerStats(),
	}

	healthy := true
	for _, info := range models {
		if info == nil || !info.Available {
			healthy = false
		}
	}

	if vaultStatus != nil {
		response["vault"] = vaultStatus
		if ok, _ := vaultStatus["healthy"].(bool); !ok {
			healthy = false
		}
	}
	if s.vaultWatcher != nil {
		response["api_key_rotation"] = s.vaultWatcher.Status()
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

func checkVaultHealth(ctx context.Context, vault VaultHealthChecker) map[string]any {
	if err := vault.Health(ctx); err != nil {
		return map[string]any{
			"healthy": false,
			"error":   err.Error(),
		}
	}
	return map[string]any{"healthy": true}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumelift",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys":               s.APIKeys.Count(),
		},
		"extract": map[string]any{
			"max_upload_size_bytes": s.Extractor.MaxSize(),
			"allowed_extensions":    s.AppConfig.Extract.AllowedExtensions,
		},
		"circuit_breakers": s.Service.CircuitBreakerStats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
