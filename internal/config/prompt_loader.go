package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

type promptFileRef struct {
	operation string
	role      string
	path      string
}

// promptFiles lists every prompt file referenced by the configuration,
// operation-level paths taking precedence over global ones.
func (c *Config) promptFiles() []promptFileRef {
	var refs []promptFileRef
	for _, op := range []string{OperationAnalyze, OperationEnhance} {
		opCfg := c.OperationConfig(op)
		if _, file := opCfg.CustomPrompts.SystemPrompts.ForOperation(op); file != "" {
			refs = append(refs, promptFileRef{op, PromptRoleSystem, file})
		}
		if _, file := opCfg.CustomPrompts.UserPrompts.ForOperation(op); file != "" {
			refs = append(refs, promptFileRef{op, PromptRoleUser, file})
		}
	}
	return refs
}

// loadPromptsFromFiles reads every configured prompt file into a fresh store
func (c *Config) loadPromptsFromFiles() error {
	store := NewPromptStore()

	for _, ref := range c.promptFiles() {
		content, err := loadPromptFromFile(ref.path, ref.operation+" "+ref.role)
		if err != nil {
			return err
		}
		absPath, _ := filepath.Abs(ref.path)
		store.Set(ref.operation, ref.role, absPath, content)
	}

	c.prompts = store

	if store.Count() == 0 {
		log.Println("[CONFIG] No custom prompt files loaded - using built-in or inline prompts")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded from files: %d", store.Count())
	}
	return nil
}

// ReloadPromptFile re-reads path and replaces every prompt loaded from it.
// It returns the number of prompts updated.
func (c *Config) ReloadPromptFile(path string) (int, error) {
	if c.prompts == nil {
		return 0, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve prompt file path %s: %w", path, err)
	}
	content, err := loadPromptFromFile(absPath, "watched")
	if err != nil {
		return 0, err
	}
	return c.prompts.replaceFile(absPath, content), nil
}

// loadPromptFromFile reads and trims a prompt file.
// label names the prompt in errors and logs, e.g. "analyze system".
func loadPromptFromFile(filePath, label string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", label, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", label, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", label, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", label, absPath)
	}

	log.Printf("[CONFIG] Loaded %s prompt from file: %s (%d characters)",
		label, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles checks that every configured prompt file exists before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, ref := range c.promptFiles() {
		absPath, err := filepath.Abs(ref.path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", ref.operation, ref.role, ref.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", ref.operation, ref.role, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
