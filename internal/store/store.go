// File-backed stand-in for the host runtime's key-value store: settings,
// auth token, last-sync timestamp, capped activity log.

package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Settings mirrors the extension settings schema. Created with defaults on
// first run, mutated only through Update, removed only by Reset.
type Settings struct {
	//per-platform enable flags
	Platforms map[string]bool `json:"platforms"`
	//autofill must never submit without explicit consent
	AutoSubmit           bool   `json:"auto_submit"`
	BackendURL           string `json:"backend_url"`
	DefaultResumeVersion string `json:"default_resume_version,omitempty"`
}

// ActivityEntry is one autofill/submit/error outcome. Every run produces one.
type ActivityEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	Platform        string    `json:"platform"`
	URL             string    `json:"url"`
	Action          string    `json:"action"` //autofill | submit | error
	Result          string    `json:"result"` //success | partial | failure
	FieldsCompleted int       `json:"fields_completed,omitempty"`
	TotalFields     int       `json:"total_fields,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// PlatformEnabled reports whether autofill may run on a platform. Unlisted
// platforms default to enabled, same as the config-side flags.
func (s Settings) PlatformEnabled(name string) bool {
	if s.Platforms == nil {
		return true
	}
	enabled, ok := s.Platforms[name]
	if !ok {
		return true
	}
	return enabled
}

// MaxActivityEntries caps the log; the oldest entry is evicted first.
const MaxActivityEntries = 100

type state struct {
	Settings *Settings       `json:"settings,omitempty"`
	Token    string          `json:"auth_token,omitempty"`
	Activity []ActivityEntry `json:"activity"`
	LastSync time.Time       `json:"last_sync"`
}

// Store persists everything as one JSON document under dir.
// Mutex is required because the coordinator and the control surface touch it
// from different goroutines.
type Store struct {
	mu       sync.Mutex
	filePath string
	state    state
}

// Open creates or loads the store and seeds default settings on first run.
func Open(dir, backendURL string) *Store {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create store directory: %v", err)
	}
	s := &Store{filePath: filepath.Join(dir, "extension_state.json")}
	s.load()
	if s.state.Settings == nil {
		s.state.Settings = defaultSettings(backendURL)
		s.save()
	}
	return s
}

func defaultSettings(backendURL string) *Settings {
	return &Settings{
		Platforms: map[string]bool{
			"workday":    true,
			"greenhouse": true,
			"lever":      true,
			"taleo":      true,
		},
		AutoSubmit: false,
		BackendURL: backendURL,
	}
}

func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.Settings
}

func (s *Store) UpdateSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings = &settings
	s.save()
}

// Reset drops everything and re-seeds defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	backendURL := s.state.Settings.BackendURL
	s.state = state{Settings: defaultSettings(backendURL)}
	s.save()
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.save()
}

// AppendActivity appends one entry, evicting the oldest beyond the cap.
func (s *Store) AppendActivity(e ActivityEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Activity = append(s.state.Activity, e)
	if len(s.state.Activity) > MaxActivityEntries {
		s.state.Activity = s.state.Activity[len(s.state.Activity)-MaxActivityEntries:]
	}
	s.save()
}

// Activity returns a copy, newest last.
func (s *Store) Activity() []ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ActivityEntry, len(s.state.Activity))
	copy(out, s.state.Activity)
	return out
}

func (s *Store) SetLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastSync = t
	s.save()
}

func (s *Store) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastSync
}

func (s *Store) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read extension state: %v", err)
		}
		return
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		log.Printf("⚠️ Failed to parse extension state: %v", err)
	}
}

func (s *Store) save() {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal extension state: %v", err)
		return
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write extension state: %v", err)
	}
}
