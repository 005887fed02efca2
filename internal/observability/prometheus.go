package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumelift/internal/errors"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// PrometheusExporter bridges OpenTelemetry metrics onto a private
// Prometheus registry and serves it on a dedicated port.
type PrometheusExporter struct {
	Reader   metric.Reader
	Registry *prom.Registry
	Handler  http.Handler

	config PrometheusConfig
	server *http.Server
}

// NewPrometheusExporter creates the exporter and its scrape handler. Go
// runtime and process collectors are registered alongside the OTel metrics.
func NewPrometheusExporter(config PrometheusConfig) (*PrometheusExporter, error) {
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return &PrometheusExporter{
		Reader:   exporter,
		Registry: registry,
		Handler:  mux,
		config:   config,
	}, nil
}

// Start serves the scrape endpoint in the background
func (p *PrometheusExporter) Start(logger *errors.Logger) {
	addr := ":" + p.config.Port
	p.server = &http.Server{
		Addr:              addr,
		Handler:           p.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Starting Prometheus metrics server", "address", addr, "endpoint", p.config.Endpoint)

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Prometheus server error", "error", err.Error())
		}
	}()
}

// Shutdown stops the scrape server if it was started
func (p *PrometheusExporter) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
