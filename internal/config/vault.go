package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"resumelift/internal/errors"

	"github.com/hashicorp/vault/api"
)

const (
	apiKeysField     = "keys"
	geminiKeyField   = "api_key"
	vaultDialTimeout = 10 * time.Second
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// PollInterval enables periodic re-reads of the API key secret when positive
	PollInterval time.Duration `mapstructure:"pollInterval"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths resumelift reads. Empty paths are skipped.
type VaultSecrets struct {
	// APIKeys holds the server API keys in its "keys" field, either as
	// "key1,key2" or as an array of strings.
	APIKeys string `mapstructure:"apiKeys"`
	// GeminiKey holds the model credential in its "api_key" field.
	GeminiKey string `mapstructure:"geminiKey"`
}

// VaultClient reads resumelift credentials from a KVv2 engine
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient connects to Vault. It returns nil, nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if !cfg.Enabled {
		logger.Debug("Vault integration disabled")
		return nil, nil
	}

	token, err := vaultToken(cfg)
	if err != nil {
		return nil, err
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	vc := &VaultClient{
		client: client,
		logger: logger.With("vault_address", client.Address()),
	}

	ctx, cancel := context.WithTimeout(context.Background(), vaultDialTimeout)
	defer cancel()
	if err := vc.Health(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}

	vc.logger.Info("Connected to Vault", "namespace", cfg.Namespace)
	return vc, nil
}

// vaultToken prefers the inline token over the token file
func vaultToken(cfg VaultConfig) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		if token := strings.TrimSpace(string(raw)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("vault token is required when vault is enabled")
}

// Health reports whether Vault is reachable and unsealed
func (vc *VaultClient) Health(ctx context.Context) error {
	if vc == nil {
		return fmt.Errorf("vault client not initialized")
	}
	health, err := vc.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach vault: %w", err)
	}
	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}
	return nil
}

// VaultSecret is the payload and version of one KVv2 secret.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// StringField returns a string field of the secret.
func (s *VaultSecret) StringField(field string) (string, error) {
	switch v := s.Data[field].(type) {
	case nil:
		return "", fmt.Errorf("field %q not found", field)
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("field %q is %T, not a string", field, v)
	}
}

// List returns a field holding several values. Blank entries are dropped.
func (s *VaultSecret) List(field string) ([]string, error) {
	switch v := s.Data[field].(type) {
	case nil:
		return nil, fmt.Errorf("field %q not found", field)
	case string:
		return splitAndTrim(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("field %q item %d is %T, not a string", field, i, item)
			}
			if str = strings.TrimSpace(str); str != "" {
				out = append(out, str)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("field %q is %T, not a list", field, v)
	}
}

// decodeKVv2 splits a raw KVv2 response body into data and version
func decodeKVv2(raw map[string]any) (*VaultSecret, error) {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not a KVv2 secret: missing 'data'")
	}
	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not a KVv2 secret: missing 'metadata'")
	}
	version, err := kvVersion(metadata["version"])
	if err != nil {
		return nil, err
	}
	return &VaultSecret{Data: data, Version: version}, nil
}

func kvVersion(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Int64()
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("secret metadata has no version")
	default:
		return 0, fmt.Errorf("unexpected secret version type %T", raw)
	}
}

// GetSecretV2 reads one KVv2 secret.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	raw, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if raw == nil || raw.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	secret, err := decodeKVv2(raw.Data)
	if err != nil {
		return nil, fmt.Errorf("secret at %s: %w", path, err)
	}

	vc.logger.Debug("Read secret from Vault", "path", path, "version", secret.Version)
	return secret, nil
}

// GetStringSliceSecret reads a list-valued field, such as the API key set.
func (vc *VaultClient) GetStringSliceSecret(path, field string) ([]string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return nil, err
	}
	values, err := secret.List(field)
	if err != nil {
		return nil, fmt.Errorf("secret at %s: %w", path, err)
	}
	return values, nil
}

// SecretReader reads KVv2 secrets. *VaultClient implements it.
type SecretReader interface {
	GetSecretV2(path string) (*VaultSecret, error)
}

// VaultCredentials are the values read from Vault at startup.
type VaultCredentials struct {
	APIKeys   []string
	GeminiKey string
}

// LoadVaultCredentials reads every configured secret path.
func LoadVaultCredentials(reader SecretReader, secrets VaultSecrets) (VaultCredentials, error) {
	var creds VaultCredentials

	if secrets.APIKeys != "" {
		secret, err := reader.GetSecretV2(secrets.APIKeys)
		if err == nil {
			creds.APIKeys, err = secret.List(apiKeysField)
		}
		if err != nil {
			return VaultCredentials{}, fmt.Errorf("failed to load API keys from vault: %w", err)
		}
	}

	if secrets.GeminiKey != "" {
		secret, err := reader.GetSecretV2(secrets.GeminiKey)
		if err == nil {
			creds.GeminiKey, err = secret.StringField(geminiKeyField)
		}
		if err != nil {
			return VaultCredentials{}, fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		creds.GeminiKey = strings.TrimSpace(creds.GeminiKey)
	}

	return creds, nil
}

// Apply copies non-empty credentials into cfg. The API key set is replaced
// as a whole. The Gemini key becomes the global key and fills every
// operation that has none of its own.
func (c VaultCredentials) Apply(cfg *Config) {
	if len(c.APIKeys) > 0 {
		cfg.Server.APIKeys = c.APIKeys
	}
	if c.GeminiKey == "" {
		return
	}
	cfg.AI.APIKey = c.GeminiKey
	for _, op := range []*OperationAIConfig{&cfg.AI.Analyze, &cfg.AI.Enhance} {
		if op.APIKey == "" {
			op.APIKey = c.GeminiKey
		}
	}
}

// ApplyVaultSecrets loads credentials from Vault into config when enabled
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if !config.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client")
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	creds, err := LoadVaultCredentials(client, config.Vault.Secrets)
	if err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		return err
	}

	if config.Vault.Secrets.APIKeys != "" && len(creds.APIKeys) == 0 {
		logger.Warn("No API keys found in Vault", "path", config.Vault.Secrets.APIKeys)
	}
	if config.Vault.Secrets.GeminiKey != "" && creds.GeminiKey == "" {
		logger.Warn("Empty Gemini API key found in Vault", "path", config.Vault.Secrets.GeminiKey)
	}

	creds.Apply(config)
	logger.Info("Applied secrets from Vault",
		"api_keys", len(creds.APIKeys),
		"gemini_key", creds.GeminiKey != "")
	return nil
}
