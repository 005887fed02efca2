package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchedConfig(t *testing.T) (*Config, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "analyze.md")
	require.NoError(t, os.WriteFile(path, []byte("original prompt"), 0600))

	cfg := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: PromptSet{AnalyzeResumeFile: path},
				},
			},
		},
		Prompts: PromptsConfig{
			Watch: PromptWatchConfig{Enabled: true, DebounceDelay: 20 * time.Millisecond},
		},
	}
	require.NoError(t, cfg.loadPromptsFromFiles())
	return cfg, path
}

func TestPromptWatcherReloadsChangedFile(t *testing.T) {
	cfg, path := newWatchedConfig(t)

	var reloads atomic.Int32
	watcher := NewPromptWatcher(cfg, func(string, int) { reloads.Add(1) }, nil)
	require.NoError(t, watcher.Start())
	defer func() { _ = watcher.Stop() }()

	assert.True(t, watcher.IsRunning())
	absPath, _ := filepath.Abs(path)
	assert.Equal(t, []string{absPath}, watcher.WatchedFiles())

	require.NoError(t, os.WriteFile(path, []byte("updated prompt"), 0600))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		return cfg.PromptStore().Get(OperationAnalyze, PromptRoleSystem) == "updated prompt"
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestPromptWatcherIgnoresOtherFiles(t *testing.T) {
	cfg, path := newWatchedConfig(t)

	watcher := NewPromptWatcher(cfg, nil, nil)
	require.NoError(t, watcher.Start())
	defer func() { _ = watcher.Stop() }()

	other := filepath.Join(filepath.Dir(path), "notes.md")
	require.NoError(t, os.WriteFile(other, []byte("unrelated"), 0600))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "original prompt", cfg.PromptStore().Get(OperationAnalyze, PromptRoleSystem))
}

func TestPromptWatcherStartStop(t *testing.T) {
	cfg, _ := newWatchedConfig(t)
	watcher := NewPromptWatcher(cfg, nil, nil)

	require.NoError(t, watcher.Start())
	assert.Error(t, watcher.Start())
	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())
	assert.NoError(t, watcher.Stop())
}

func TestPromptWatcherNoFiles(t *testing.T) {
	watcher := NewPromptWatcher(&Config{}, nil, nil)
	require.NoError(t, watcher.Start())
	assert.False(t, watcher.IsRunning())
	assert.Empty(t, watcher.WatchedFiles())
}
