package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// SourceTypeSukebei is the only source implementation shipped today.
const SourceTypeSukebei = "sukebei"

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings    `json:"server"`
	Sources   []SourceConfig    `json:"sources"`
	Transport TransportSettings `json:"transport"`
	Log       LogConfig         `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SourceConfig describes one torrent index to search.
type SourceConfig struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Filter   string `json:"filter"`
	Enabled  bool   `json:"enabled"`
}

// TransportSettings tunes the shared outbound HTTP client.
type TransportSettings struct {
	TimeoutSeconds    int     `json:"timeoutSeconds"`
	RequestsPerSecond float64 `json:"requestsPerSecond"` // 0 disables limiting
	Burst             int     `json:"burst"`
	UserAgent         string  `json:"userAgent"`
}

// Timeout returns the client timeout as a duration.
func (t TransportSettings) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// LogConfig represents logging configuration
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 7777},
		Sources: []SourceConfig{
			{Name: "sukebei", Type: SourceTypeSukebei, URL: "https://sukebei.nyaa.si", Category: "1_0", Filter: "0", Enabled: true},
		},
		Transport: TransportSettings{TimeoutSeconds: 15, RequestsPerSecond: 2, Burst: 2},
		Log: LogConfig{
			File:       "cache/logs/backend.log",
			Level:      "info",
			MaxSize:    50,   // 50 MB per file
			MaxBackups: 3,    // keep 3 old files
			MaxAge:     7,    // 7 days
			Compress:   true, // compress old files
		},
	}
}

// Validate rejects settings that cannot produce a working source set.
func (s Settings) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Sources))
	for i, src := range s.Sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
		if src.Type != SourceTypeSukebei {
			errs = append(errs, fmt.Errorf("sources[%d]: unsupported type %q", i, src.Type))
		}
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	return errors.Join(errs...)
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	fs   afero.Fs
	path string
}

func NewManager(configPath string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), configPath)
}

// NewManagerWithFs is NewManager over an arbitrary filesystem.
func NewManagerWithFs(fsys afero.Fs, configPath string) *Manager {
	return &Manager{fs: fsys, path: configPath}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return m.fs.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := m.fs.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		// create with defaults
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return Settings{}, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("decode %s: %w", m.path, err)
	}

	// A single source object (hand-written configs) becomes a one-element list.
	if srcRaw, ok := raw["sources"].(map[string]interface{}); ok {
		if _, hasEnabled := srcRaw["enabled"]; !hasEnabled {
			srcRaw["enabled"] = true
		}
		raw["sources"] = []interface{}{srcRaw}
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(rawJSON, &s); err != nil {
		return Settings{}, fmt.Errorf("decode %s: %w", m.path, err)
	}

	applyDefaults(&s)
	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := m.fs.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = m.fs.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = m.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = m.fs.Remove(tmp)
		return err
	}
	return m.fs.Rename(tmp, m.path)
}

// applyDefaults backfills zero values left by configs that predate a field.
func applyDefaults(s *Settings) {
	defaults := DefaultSettings()

	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}

	if s.Sources == nil {
		s.Sources = defaults.Sources
	}
	for i := range s.Sources {
		src := &s.Sources[i]
		if strings.TrimSpace(src.Type) == "" {
			src.Type = SourceTypeSukebei
		}
		if strings.TrimSpace(src.URL) == "" {
			src.URL = defaults.Sources[0].URL
		}
		if strings.TrimSpace(src.Category) == "" {
			src.Category = defaults.Sources[0].Category
		}
		if strings.TrimSpace(src.Filter) == "" {
			src.Filter = defaults.Sources[0].Filter
		}
	}

	if s.Transport.TimeoutSeconds <= 0 {
		s.Transport.TimeoutSeconds = defaults.Transport.TimeoutSeconds
	}
	if s.Transport.Burst <= 0 {
		s.Transport.Burst = defaults.Transport.Burst
	}

	if strings.TrimSpace(s.Log.Level) == "" {
		s.Log.Level = defaults.Log.Level
	}
	if s.Log.MaxSize <= 0 {
		s.Log.MaxSize = defaults.Log.MaxSize
	}
	if s.Log.MaxBackups <= 0 {
		s.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if s.Log.MaxAge <= 0 {
		s.Log.MaxAge = defaults.Log.MaxAge
	}
}
