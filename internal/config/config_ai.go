package config

import "time"

// Operation names, used as config keys and metric labels.
const (
	OperationAnalyze = "analyze"
	OperationEnhance = "enhance"
)

// applyOperationDefaults fills unset operation fields from the global AI config
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.MaxOutputTokens == nil {
		tokens := c.AI.MaxOutputTokens
		opCfg.MaxOutputTokens = &tokens
	}
	if opCfg.UseSystemPrompts == nil {
		useSystem := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &useSystem
	}
	if opCfg.Backoff.BaseDelay == 0 {
		opCfg.Backoff.BaseDelay = c.AI.Backoff.BaseDelay
	}
	if opCfg.Backoff.MaxDelay == 0 {
		opCfg.Backoff.MaxDelay = c.AI.Backoff.MaxDelay
	}
	if opCfg.Backoff.BaseDelay == 0 {
		opCfg.Backoff.BaseDelay = time.Second
	}
	if opCfg.Backoff.MaxDelay == 0 {
		opCfg.Backoff.MaxDelay = 30 * time.Second
	}
}

// OperationConfig returns the fully defaulted AI configuration for an
// operation. The returned value is a copy.
func (c *Config) OperationConfig(operation string) OperationAIConfig {
	var opCfg OperationAIConfig
	switch operation {
	case OperationAnalyze:
		opCfg = c.AI.Analyze
	case OperationEnhance:
		opCfg = c.AI.Enhance
	}

	c.applyOperationDefaults(&opCfg)
	opCfg.CustomPrompts.SystemPrompts = mergePromptSet(opCfg.CustomPrompts.SystemPrompts, c.AI.CustomPrompts.SystemPrompts)
	opCfg.CustomPrompts.UserPrompts = mergePromptSet(opCfg.CustomPrompts.UserPrompts, c.AI.CustomPrompts.UserPrompts)
	opCfg.Prompts = c.PromptStore()

	return opCfg
}

// GetAnalyzeConfig returns the AI configuration for résumé analysis
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	return c.OperationConfig(OperationAnalyze)
}

// GetEnhanceConfig returns the AI configuration for résumé enhancement
func (c *Config) GetEnhanceConfig() OperationAIConfig {
	return c.OperationConfig(OperationEnhance)
}

// HasAPIKey reports whether any credential is configured for operation.
func (c *Config) HasAPIKey(operation string) bool {
	return c.OperationConfig(operation).APIKey != ""
}

func mergePromptSet(op, global PromptSet) PromptSet {
	if op.AnalyzeResume == "" {
		op.AnalyzeResume = global.AnalyzeResume
	}
	if op.AnalyzeResumeFile == "" {
		op.AnalyzeResumeFile = global.AnalyzeResumeFile
	}
	if op.EnhanceResume == "" {
		op.EnhanceResume = global.EnhanceResume
	}
	if op.EnhanceResumeFile == "" {
		op.EnhanceResumeFile = global.EnhanceResumeFile
	}
	return op
}
