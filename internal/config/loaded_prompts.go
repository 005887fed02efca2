package config

import (
	"sort"
	"sync"
	"time"
)

// Prompt roles.
const (
	PromptRoleSystem = "system"
	PromptRoleUser   = "user"
)

// LoadedPrompt is prompt text read from a file
type LoadedPrompt struct {
	Content  string
	FilePath string
	LoadedAt time.Time
}

type promptKey struct {
	operation string
	role      string
}

// PromptStore holds prompts loaded from files. It is safe for concurrent
// use; the prompt watcher replaces entries while requests read them.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[promptKey]LoadedPrompt
}

// NewPromptStore creates an empty prompt store
func NewPromptStore() *PromptStore {
	return &PromptStore{prompts: make(map[promptKey]LoadedPrompt)}
}

// Get returns the loaded prompt for operation and role, or "".
// A nil store holds nothing.
func (s *PromptStore) Get(operation, role string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts[promptKey{operation, role}].Content
}

// Set stores prompt content loaded from path
func (s *PromptStore) Set(operation, role, path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[promptKey{operation, role}] = LoadedPrompt{
		Content:  content,
		FilePath: path,
		LoadedAt: time.Now(),
	}
}

// Lookup returns the full loaded entry for operation and role.
func (s *PromptStore) Lookup(operation, role string) (LoadedPrompt, bool) {
	if s == nil {
		return LoadedPrompt{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[promptKey{operation, role}]
	return p, ok
}

// Files returns the distinct file paths backing the store, sorted
func (s *PromptStore) Files() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var files []string
	for _, p := range s.prompts {
		if _, ok := seen[p.FilePath]; ok || p.FilePath == "" {
			continue
		}
		seen[p.FilePath] = struct{}{}
		files = append(files, p.FilePath)
	}
	sort.Strings(files)
	return files
}

// Count returns the number of loaded prompts
func (s *PromptStore) Count() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prompts)
}

// replaceFile updates every entry loaded from path and reports how many changed.
func (s *PromptStore) replaceFile(path, content string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for key, p := range s.prompts {
		if p.FilePath != path {
			continue
		}
		s.prompts[key] = LoadedPrompt{Content: content, FilePath: path, LoadedAt: time.Now()}
		updated++
	}
	return updated
}

// PromptStore returns the prompts loaded from files for this configuration.
func (c *Config) PromptStore() *PromptStore {
	return c.prompts
}
