package ai

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumelift/internal/config"
)

func TestPromptResolverDefaults(t *testing.T) {
	var r *PromptResolver

	system, user := r.BuildAnalyzePrompts("RESUME BODY")
	if system != DefaultAnalyzeSystemPrompt {
		t.Errorf("Expected default analyze system prompt, got %q", system)
	}
	if !strings.Contains(user, "RESUME:\nRESUME BODY\n") {
		t.Errorf("Expected résumé text in user prompt, got %q", user)
	}

	system, user = r.BuildEnhancePrompts("ORIGINAL", []string{"one", "two"})
	if system != DefaultEnhanceSystemPrompt {
		t.Errorf("Expected default enhance system prompt, got %q", system)
	}
	if !strings.Contains(user, "ORIGINAL RESUME:\nORIGINAL\n") {
		t.Errorf("Expected original résumé in user prompt, got %q", user)
	}
	if !strings.Contains(user, "SUGGESTIONS TO IMPLEMENT:\n- one\n- two\n") {
		t.Errorf("Expected bulleted suggestions in user prompt, got %q", user)
	}
}

func TestPromptResolverInlineOverride(t *testing.T) {
	cfg := config.OperationAIConfig{
		CustomPrompts: config.PromptConfig{
			SystemPrompts: config.PromptSet{AnalyzeResume: "inline system"},
			UserPrompts:   config.PromptSet{AnalyzeResume: "Rate this: %s"},
		},
	}
	r := NewPromptResolver(config.OperationAnalyze, cfg)

	system, user := r.BuildAnalyzePrompts("text")
	if system != "inline system" {
		t.Errorf("Expected inline system prompt, got %q", system)
	}
	if user != "Rate this: text" {
		t.Errorf("Expected inline user template, got %q", user)
	}

	// An analyze resolver does not leak into enhance prompts
	if got := r.SystemPrompt(config.OperationEnhance); got != DefaultEnhanceSystemPrompt {
		t.Errorf("Expected default enhance prompt, got %q", got)
	}
}

func TestPromptResolverFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enhance.md")
	if err := os.WriteFile(path, []byte("from file"), 0600); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	yaml := "ai:\n  enhance:\n    customPrompts:\n      systemPrompts:\n" +
		"        enhanceResume: inline\n        enhanceResumeFile: " + path + "\n"
	if err := os.WriteFile(configPath, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	r := NewPromptResolver(config.OperationEnhance, cfg.GetEnhanceConfig())
	if got := r.SystemPrompt(config.OperationEnhance); got != "from file" {
		t.Errorf("Expected file prompt to win, got %q", got)
	}

	// A reload is visible through the same resolver
	if err := os.WriteFile(path, []byte("reloaded"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.ReloadPromptFile(path); err != nil {
		t.Fatalf("Failed to reload prompt: %v", err)
	}
	if got := r.SystemPrompt(config.OperationEnhance); got != "reloaded" {
		t.Errorf("Expected reloaded prompt, got %q", got)
	}
}
