package cli

import (
	"resumelift/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing résumé analysis, enhancement and document
extraction.

Available endpoints:
- POST /analyze: Score a résumé and list suggestions
- POST /enhance: Rewrite a résumé applying selected suggestions
- POST /api/extract: Extract text and sections from an uploaded PDF, DOCX, HTML or text file
- POST /api/extract-pdf: Alias of /api/extract
- GET /health: Readiness including model and Vault status
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	host, port := cfg.Server.Host, cfg.Server.Port
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetString("port")
	}

	serverCfg := server.ServerConfig{
		Host:           host,
		Port:           port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, logger).Start(cmd.Context())
}
