package server

import (
	"fmt"
	"sync"
	"time"

	"resumelift/internal/config"
	"resumelift/internal/errors"
)

// apiKeysSecretKey is the field of the API key secret holding the
// comma-separated key list
const apiKeysSecretKey = "keys"

// VaultClientInterface defines the interface for Vault operations
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// APIKeysCallback receives the new key set, or the error that prevented
// reading it
type APIKeysCallback func(keys []string, err error)

// VaultWatcher polls the API key secret in Vault and hands the keys to a
// callback whenever the secret version moves forward.
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	onChange     APIKeysCallback
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	lastPoll    time.Time
	lastError   string
	rotations   int
}

// NewVaultWatcher creates a new VaultWatcher
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, onChange APIKeysCallback, logger *errors.Logger) *VaultWatcher {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &VaultWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onChange:     onChange,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start records the current secret version and begins polling. Keys loaded
// at startup are already in place, so the current version is not reported.
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	if vw.pollInterval <= 0 {
		return fmt.Errorf("vault poll interval must be positive, got %s", vw.pollInterval)
	}

	if secret, err := vw.client.GetSecretV2(vw.secretPath); err != nil {
		vw.logger.LogError(err, "Failed to read initial API key secret version", "secret_path", vw.secretPath)
	} else if secret != nil {
		vw.lastVersion = secret.Version
	}

	vw.running = true
	go vw.pollLoop()
	vw.logger.Info("Vault API key watcher started",
		"secret_path", vw.secretPath,
		"poll_interval", vw.pollInterval,
		"version", vw.lastVersion)
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	vw.logger.Info("Vault API key watcher stopped")
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.Poll()
		case <-vw.stopChan:
			return
		}
	}
}

// Poll checks the secret once and calls the callback when its version has
// changed. It reports whether a new version was seen.
func (vw *VaultWatcher) Poll() bool {
	changed, err := vw.checkForUpdates()
	if err != nil {
		vw.logger.LogError(err, "Failed to check Vault for API key updates", "secret_path", vw.secretPath)
		return false
	}
	if !changed {
		return false
	}

	vw.logger.Info("API key secret changed, fetching new keys", "secret_path", vw.secretPath)
	keys, err := vw.client.GetStringSliceSecret(vw.secretPath, apiKeysSecretKey)

	vw.mu.Lock()
	if err != nil {
		vw.lastError = err.Error()
	} else {
		vw.lastError = ""
		vw.rotations++
	}
	vw.mu.Unlock()

	if err != nil {
		vw.logger.LogError(err, "Failed to fetch API keys from Vault", "secret_path", vw.secretPath)
	}
	vw.onChange(keys, err)
	return true
}

// checkForUpdates checks if the Vault secret version has moved forward
func (vw *VaultWatcher) checkForUpdates() (bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)

	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.lastPoll = time.Now()

	if err != nil {
		vw.lastError = err.Error()
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return false, fmt.Errorf("secret %s not found", vw.secretPath)
	}
	if secret.Version > vw.lastVersion {
		vw.lastVersion = secret.Version
		return true, nil
	}
	return false, nil
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
		"rotations":     vw.rotations,
	}
	if !vw.lastPoll.IsZero() {
		status["last_poll"] = vw.lastPoll.UTC().Format(time.RFC3339)
	}
	if vw.lastError != "" {
		status["last_error"] = vw.lastError
	}
	return status
}
