// Package settings persists user preferences (narration rate and voice)
// across sessions as JSON under the XDG config directory.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const settingsFileName = "settings.json"

// DefaultRate is the narration rate used until the user changes it.
const DefaultRate = 1.0

// Settings holds the persisted preferences.
type Settings struct {
	Rate   float64 `json:"rate"`
	Voice  string  `json:"voice,omitempty"`
	Engine string  `json:"engine,omitempty"`
}

// Store manages persistent settings.
type Store struct {
	path string
	data Settings
	mu   sync.RWMutex
}

// NewStore creates or loads settings from XDG_CONFIG_HOME/hark/. A corrupt
// or missing settings file is non-fatal; defaults are used instead.
func NewStore() (*Store, error) {
	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, settingsFileName),
		data: Settings{Rate: DefaultRate},
	}
	if err := store.load(); err != nil {
		store.data = Settings{Rate: DefaultRate}
	}
	return store, nil
}

// getConfigDir returns XDG_CONFIG_HOME/hark or ~/.config/hark
func getConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hark")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hark")
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetRate saves the narration rate.
func (s *Store) SetRate(rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Rate = rate
	return s.save()
}

// SetVoice saves the preferred voice. An empty voice means backend default.
func (s *Store) SetVoice(voice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Voice = voice
	return s.save()
}

// SetEngine saves the preferred TTS binary name. Empty means probe order.
func (s *Store) SetEngine(engine string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Engine = engine
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
