// Package file provides file-based implementations of driven port
// interfaces. These adapters persist data to the local filesystem.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the persisted CLI configuration. Every field is
// optional; command-line flags and environment variables override
// whatever is stored here.
type Settings struct {
	// Sources lists "Owner/Repo[:subdir]" specs scraped when the
	// scrape command gets no --sources flag.
	Sources []string `toml:"sources"`

	// Token is the GitHub personal access token. Usually supplied via
	// the environment instead of being written to disk.
	Token string `toml:"token,omitempty"`

	// ForceWalk selects the directory-walking traversal strategy even
	// when a token is present.
	ForceWalk bool `toml:"force_walk,omitempty"`

	// FilePatterns are opt-in glob patterns widening the candidate
	// filter beyond the recognised template filenames.
	FilePatterns []string `toml:"file_patterns,omitempty"`

	// Limit caps the number of documents written per scrape pass.
	// Zero means unlimited.
	Limit int `toml:"limit,omitempty"`
}

// SettingsStore reads and writes Settings as a TOML file in the azarch
// config directory.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	settings Settings
}

// NewSettingsStore creates a TOML-backed settings store.
// If configDir is empty, defaults to ~/.azarch/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".azarch")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Settings returns a copy of the current settings.
func (s *SettingsStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update replaces the settings and persists them immediately.
func (s *SettingsStore) Update(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.save()
}

// save writes settings to the TOML file (caller must hold lock).
func (s *SettingsStore) save() error {
	data, err := toml.Marshal(s.settings)
	if err != nil {
		return err
	}

	// Write with restricted permissions: the file may carry a token.
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads settings from the TOML file.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, start empty
			s.settings = Settings{}
			return nil
		}
		return err
	}

	var loaded Settings
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.settings = loaded
	return nil
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
