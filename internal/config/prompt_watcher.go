package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"resumelift/internal/errors"
)

// PromptWatcher reloads prompt files into a Config when they change on disk
type PromptWatcher struct {
	mu sync.Mutex

	cfg   *Config
	files []string

	lastModTime map[string]time.Time
	pending     map[string]struct{}

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(path string, updated int)
	logger   *errors.Logger

	running bool
}

// NewPromptWatcher creates a watcher for every prompt file loaded into cfg.
// onReload may be nil.
func NewPromptWatcher(cfg *Config, onReload func(path string, updated int), logger *errors.Logger) *PromptWatcher {
	debounceDelay := cfg.Prompts.Watch.DebounceDelay
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	return &PromptWatcher{
		cfg:           cfg,
		files:         cfg.PromptStore().Files(),
		lastModTime:   make(map[string]time.Time),
		pending:       make(map[string]struct{}),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching prompt files. Watching no files is not an error.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}
	if len(pw.files) == 0 {
		pw.logger.Debug("No prompt files to watch")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	dirs := make(map[string]struct{})
	for _, file := range pw.files {
		if stat, err := os.Stat(file); err == nil {
			pw.lastModTime[file] = stat.ModTime()
		}
		dirs[filepath.Dir(file)] = struct{}{}
	}

	// Directories rather than files so atomic rename-into-place is seen
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			pw.logger.Warn("Failed to watch prompt directory", "directory", dir, "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started",
		"files", pw.files,
		"debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops the watcher; calling it on a stopped watcher is a no-op
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.running = false

	if err := pw.fsWatcher.Close(); err != nil {
		pw.logger.LogError(err, "Failed to close prompt file watcher")
		return err
	}

	pw.logger.Info("Prompt file watcher stopped")
	return nil
}

// IsRunning reports whether the watcher is active
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.running
}

// WatchedFiles returns the prompt files being watched
func (pw *PromptWatcher) WatchedFiles() []string {
	return append([]string(nil), pw.files...)
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if file, match := pw.matchEvent(event); match {
				pw.scheduleReload(file)
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt file watcher error")

		case <-pw.reloadChan:
			pw.reloadPending()

		case <-pw.stopChan:
			return
		}
	}
}

// matchEvent maps an event to the watched file it concerns
func (pw *PromptWatcher) matchEvent(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		name = event.Name
	}
	for _, file := range pw.files {
		if name == file {
			return file, true
		}
	}
	return "", false
}

func (pw *PromptWatcher) scheduleReload(file string) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending[file] = struct{}{}
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (pw *PromptWatcher) reloadPending() {
	pw.mu.Lock()
	files := make([]string, 0, len(pw.pending))
	for file := range pw.pending {
		files = append(files, file)
	}
	clear(pw.pending)
	pw.mu.Unlock()

	for _, file := range files {
		if !pw.hasFileChanged(file) {
			continue
		}
		updated, err := pw.cfg.ReloadPromptFile(file)
		if err != nil {
			// Keep serving the previous prompt
			pw.logger.LogError(err, "Failed to reload prompt file", "file", file)
			continue
		}
		pw.logger.Info("Prompt file reloaded", "file", file, "prompts_updated", updated)
		if pw.onReload != nil {
			pw.onReload(file, updated)
		}
	}
}

func (pw *PromptWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		return false
	}
	pw.mu.Lock()
	defer pw.mu.Unlock()
	lastMod, exists := pw.lastModTime[file]
	if !exists || !stat.ModTime().Equal(lastMod) {
		pw.lastModTime[file] = stat.ModTime()
		return true
	}
	return false
}
