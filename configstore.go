package masterblog

import "sync"

// ConfigKey is the name under which the base URL is persisted.
const ConfigKey = "apiBaseUrl"

// ConfigStore persists the API base URL between runs.
// Load returns "" when nothing has been saved yet.
type ConfigStore interface {
	Load() (string, error)
	Save(baseURL string) error
}

// MemoryConfigStore keeps the base URL in process memory.
type MemoryConfigStore struct {
	mu    sync.Mutex
	value string
}

// NewMemoryConfigStore returns a store preloaded with baseURL.
func NewMemoryConfigStore(baseURL string) *MemoryConfigStore {
	return &MemoryConfigStore{value: baseURL}
}

func (s *MemoryConfigStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *MemoryConfigStore) Save(baseURL string) error {
	s.mu.Lock()
	s.value = baseURL
	s.mu.Unlock()
	return nil
}
