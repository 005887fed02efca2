package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health           - Health check")
	fmt.Println("  GET  /stats            - Server statistics")
	fmt.Println("  POST /analyze          - Analyze resume text")
	fmt.Println("  POST /enhance          - Apply suggestions to a resume")
	fmt.Println("  POST /api/extract      - Extract text from an uploaded document")
	fmt.Println("  POST /api/extract-pdf  - Alias of /api/extract")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if count := s.APIKeys.Count(); count > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", count)
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /analyze, /enhance and /api/extract")
		if s.vaultWatcher != nil {
			fmt.Println("  - Keys are rotated from Vault")
		}
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
	if limit := s.Extractor.MaxSize(); limit > 0 {
		fmt.Printf("Upload size limit: %d bytes (%.1f MB)\n", limit, float64(limit)/(1024*1024))
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
