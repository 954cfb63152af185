package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultServerURL is where the client expects the todo server
	DefaultServerURL = "http://127.0.0.1:8077"
	// DefaultListenAddr is where `todoui serve` listens
	DefaultListenAddr = "127.0.0.1:8077"
)

var (
	// ConfigDir is the global configuration directory (~/.todoui)
	ConfigDir string

	// SettingsFile is the YAML settings file
	SettingsFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// DatabasePath is the SQLite database file for request history
	DatabasePath string

	// LogFile receives structured logs while the TUI owns the terminal
	LogFile string

	// BackupDir receives a copy of todo.txt before every rewrite
	BackupDir string
)

// Settings are the user-editable options stored in config.yaml
type Settings struct {
	ServerURL  string `yaml:"server_url"`
	ListenAddr string `yaml:"listen_addr"`
	TodoFile   string `yaml:"todo_file"`
	DoneFile   string `yaml:"done_file"`
	LogLevel   string `yaml:"log_level"`
	// Files replaces TodoFile when set
	Files []FileSettings `yaml:"files,omitempty"`
}

// FileSettings describes one file served by `todoui serve`
type FileSettings struct {
	Name        string `yaml:"name,omitempty"`
	Path        string `yaml:"path"`
	AutoProject string `yaml:"auto_project,omitempty"`
	// FrequencyGoal is how often the file should change, e.g. "168h"
	FrequencyGoal time.Duration `yaml:"frequency_goal,omitempty"`
	TrackOnly     bool          `yaml:"track_only,omitempty"`
}

// ServedFiles returns Files, or TodoFile alone when no files are configured
func (s Settings) ServedFiles() []FileSettings {
	if len(s.Files) > 0 {
		return s.Files
	}
	return []FileSettings{{Path: s.TodoFile}}
}

// Initialize sets up the configuration directories and files
// It creates ~/.todoui/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".todoui"))
}

// InitializeAt is Initialize with an explicit configuration directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	SettingsFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	DatabasePath = filepath.Join(ConfigDir, "todoui.db")
	LogFile = filepath.Join(ConfigDir, "todoui.log")
	BackupDir = filepath.Join(ConfigDir, "backups")

	for _, d := range []string{ConfigDir, BackupDir} {
		if err := os.MkdirAll(d, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	// Create default settings file if it doesn't exist
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		data, err := yaml.Marshal(DefaultSettings())
		if err != nil {
			return fmt.Errorf("failed to encode default settings: %w", err)
		}
		if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// DefaultSettings returns the settings used when config.yaml is missing a value
func DefaultSettings() Settings {
	return Settings{
		ServerURL:  DefaultServerURL,
		ListenAddr: DefaultListenAddr,
		TodoFile:   filepath.Join(ConfigDir, "todo.txt"),
		DoneFile:   filepath.Join(ConfigDir, "done.txt"),
		LogLevel:   "info",
	}
}

// LoadSettings reads config.yaml, fills defaults and applies environment overrides
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(SettingsFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if err == nil {
		var fromFile Settings
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return settings, fmt.Errorf("invalid %s: %w", filepath.Base(SettingsFile), err)
		}
		settings.merge(fromFile)
	}

	settings.merge(Settings{
		ServerURL: os.Getenv("TODOUI_SERVER"),
		TodoFile:  os.Getenv("TODOUI_TODO_FILE"),
		DoneFile:  os.Getenv("TODOUI_DONE_FILE"),
		LogLevel:  os.Getenv("TODOUI_LOG_LEVEL"),
	})

	settings.TodoFile = ExpandPath(settings.TodoFile)
	settings.DoneFile = ExpandPath(settings.DoneFile)
	for i := range settings.Files {
		if settings.Files[i].Path == "" {
			return settings, fmt.Errorf("invalid %s: files[%d] has no path", filepath.Base(SettingsFile), i)
		}
		settings.Files[i].Path = ExpandPath(settings.Files[i].Path)
	}
	settings.ServerURL = strings.TrimRight(settings.ServerURL, "/")

	return settings, nil
}

// merge overwrites fields with the non-empty values of other
func (s *Settings) merge(other Settings) {
	if other.ServerURL != "" {
		s.ServerURL = other.ServerURL
	}
	if other.ListenAddr != "" {
		s.ListenAddr = other.ListenAddr
	}
	if other.TodoFile != "" {
		s.TodoFile = other.TodoFile
	}
	if other.DoneFile != "" {
		s.DoneFile = other.DoneFile
	}
	if other.LogLevel != "" {
		s.LogLevel = other.LogLevel
	}
	if len(other.Files) > 0 {
		s.Files = other.Files
	}
}

// ExpandPath expands a leading ~/ and makes relative paths relative to ConfigDir
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand tilde to home directory
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(homeDir, path[2:])
		}
	}

	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ConfigDir, path)
}
