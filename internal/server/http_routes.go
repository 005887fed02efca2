package server

import (
	"context"
	"net/http"
	"time"

	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/observability"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type requestLoggerKey struct{}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) http.Handler {
	mux := http.NewServeMux()

	rateLimit := s.rateLimitMiddleware(om.GetMetrics())
	sizeLimit := s.requestSizeLimitMiddleware()

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimit(s.authMiddleware(h))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("POST /analyze", protect(sizeLimit(s.createAnalyzeHandler(om))))
	mux.HandleFunc("POST /enhance", protect(sizeLimit(s.createEnhanceHandler(om))))

	extractHandler := protect(s.createExtractHandler(om))
	mux.HandleFunc("POST /api/extract", extractHandler)
	mux.HandleFunc("POST /api/extract-pdf", extractHandler)

	return s.requestIDMiddleware(s.loggingMiddleware(mux))
}

// requestIDMiddleware tags every request with an ID, reusing one sent by
// the client. The ID is echoed in the response and carried by the request
// logger.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.Logger.With("request_id", id)
		ctx := context.WithValue(r.Context(), requestLoggerKey{}, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggerFromRequest returns the request-scoped logger, or fallback
func loggerFromRequest(r *http.Request, fallback *resumeliftErrors.Logger) *resumeliftErrors.Logger {
	if logger, ok := r.Context().Value(requestLoggerKey{}).(*resumeliftErrors.Logger); ok {
		return logger
	}
	return fallback
}

// loggingMiddleware logs one line per request
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		loggerFromRequest(r, s.Logger).Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", getClientIP(r))
	})
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if s.APIKeys == nil || s.APIKeys.Count() == 0 {
			next(w, r)
			return
		}

		logger := loggerFromRequest(r, s.Logger)
		apiKey := apiKeyFromRequest(r)
		if apiKey == "" {
			logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys.Valid(apiKey) {
			logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of JSON request bodies
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
