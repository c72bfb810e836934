package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user config and cache directories.
const AppName = "mp3-tagger"

// Settings holds all configuration options.
type Settings struct {
	// Library settings
	MusicDir       string `json:"music_dir" yaml:"music_dir"`
	FilePattern    string `json:"file_pattern" yaml:"file_pattern"`
	WatchDirectory bool   `json:"watch_directory" yaml:"watch_directory"`

	// Tag settings
	DefaultCommentKey string `json:"default_comment_key" yaml:"default_comment_key"`
	RenameSeparator   string `json:"rename_separator" yaml:"rename_separator"`

	// Album art settings
	ArtworkSearchURL     string `json:"artwork_search_url" yaml:"artwork_search_url"`
	ArtworkCountry       string `json:"artwork_country" yaml:"artwork_country"`
	ArtworkLimit         int    `json:"artwork_limit" yaml:"artwork_limit"`
	ArtworkSize          string `json:"artwork_size" yaml:"artwork_size"`
	CoverArtMaxSize      int    `json:"cover_art_max_size" yaml:"cover_art_max_size"`
	ConvertCoverArtToJPG bool   `json:"convert_cover_art_to_jpg" yaml:"convert_cover_art_to_jpg"`

	// HTTP settings
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	UserAgent          string `json:"user_agent" yaml:"user_agent"`

	// Logging settings
	LogLevel string `json:"log_level" yaml:"log_level"` // debug, info, warn, error
	LogFile  string `json:"log_file" yaml:"log_file"`   // TUI only; empty selects the cache dir
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		MusicDir:       filepath.Join(homeDir, "Music"),
		FilePattern:    "*.mp3",
		WatchDirectory: true,

		DefaultCommentKey: "comment_key",
		RenameSeparator:   " - ",

		ArtworkSearchURL:     "https://itunes.apple.com/search",
		ArtworkLimit:         5,
		ArtworkSize:          "1200x1200",
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		HTTPTimeoutSeconds: 30,
		UserAgent:          AppName,

		LogLevel: "info",
	}
}

// DefaultPath returns the settings file used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// HTTPTimeout returns the HTTP timeout as a duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads settings from a JSON or YAML file, picked by extension. Keys
// missing from the file keep their defaults; a missing file yields the
// defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, picked by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
