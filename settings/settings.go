// Package settings persists terminal preferences in a TOML file under the
// user config directory.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// EnvBaseURL overrides the saved base URL without touching the file.
	EnvBaseURL = "MASTERBLOG_API_BASE_URL"

	keyBaseURL = "api_base_url"
)

// DefaultPath returns <user config dir>/masterblog/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "masterblog", "config.toml"), nil
}

// FileStore keeps the base URL in a config file. It satisfies
// masterblog.ConfigStore.
type FileStore struct {
	path string
	v    *viper.Viper
}

// NewFileStore returns a store on path. An empty path uses DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.BindEnv(keyBaseURL, EnvBaseURL); err != nil {
		return nil, err
	}
	return &FileStore{path: path, v: v}, nil
}

// Path is the config file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file and returns the base URL, or "" when none is saved.
// A missing file is not an error.
func (s *FileStore) Load() (string, error) {
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return "", fmt.Errorf("read %s: %w", s.path, err)
		}
	}
	return s.v.GetString(keyBaseURL), nil
}

// Save writes the base URL, creating the directory when needed.
func (s *FileStore) Save(baseURL string) error {
	s.v.Set(keyBaseURL, baseURL)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
