package common

import (
	"fmt"
	"slices"
	"strings"

	"resumelift/internal/config"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveOutputFormat applies the configured default to an empty format flag
// and validates the result.
func ResolveOutputFormat(format string, app config.AppConfig) (string, error) {
	if format == "" {
		format = app.DefaultFormat
	}
	if err := ValidateOutputFormat(format, app.SupportedFormats); err != nil {
		return "", err
	}
	return format, nil
}

// NormalizeSuggestions trims each suggestion and drops empty and repeated ones,
// keeping first-seen order.
func NormalizeSuggestions(suggestions []string) []string {
	seen := make(map[string]struct{}, len(suggestions))
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
