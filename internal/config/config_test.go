package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitializeAt_CreatesLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "todoui")

	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}

	for _, path := range []string{ConfigDir, BackupDir, SettingsFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	if KeybindsFile != filepath.Join(dir, "keybinds.json") {
		t.Errorf("KeybindsFile = %q", KeybindsFile)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	dir := t.TempDir()
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", settings.ServerURL, DefaultServerURL)
	}
	if settings.TodoFile != filepath.Join(dir, "todo.txt") {
		t.Errorf("TodoFile = %q", settings.TodoFile)
	}
}

func TestLoadSettings_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}

	content := "server_url: http://example.test:9000/\ntodo_file: lists/todo.txt\nlog_level: debug\n"
	if err := os.WriteFile(SettingsFile, []byte(content), FilePermissions); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOUI_LOG_LEVEL", "warn")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.ServerURL != "http://example.test:9000" {
		t.Errorf("ServerURL = %q, trailing slash should be trimmed", settings.ServerURL)
	}
	if settings.TodoFile != filepath.Join(dir, "lists", "todo.txt") {
		t.Errorf("TodoFile = %q", settings.TodoFile)
	}
	if settings.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override %q", settings.LogLevel, "warn")
	}
	if settings.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want default", settings.ListenAddr)
	}
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}
	if err := os.WriteFile(SettingsFile, []byte("server_url: [unclosed"), FilePermissions); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadSettings_Files(t *testing.T) {
	dir := t.TempDir()
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}

	settings, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got := settings.ServedFiles(); len(got) != 1 || got[0].Path != settings.TodoFile {
		t.Errorf("ServedFiles() without files = %+v, want the todo file", got)
	}

	content := `files:
  - name: work
    path: work.txt
    auto_project: work
    frequency_goal: 168h
  - path: /tmp/journal.md
    track_only: true
`
	if err := os.WriteFile(SettingsFile, []byte(content), FilePermissions); err != nil {
		t.Fatal(err)
	}

	settings, err = LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	files := settings.ServedFiles()
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Path != filepath.Join(dir, "work.txt") || files[0].AutoProject != "work" {
		t.Errorf("files[0] = %+v", files[0])
	}
	if files[0].FrequencyGoal != 168*time.Hour {
		t.Errorf("FrequencyGoal = %v, want 168h", files[0].FrequencyGoal)
	}
	if files[1].Path != "/tmp/journal.md" || !files[1].TrackOnly {
		t.Errorf("files[1] = %+v", files[1])
	}
}

func TestLoadSettings_FileWithoutPath(t *testing.T) {
	dir := t.TempDir()
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt() error = %v", err)
	}
	if err := os.WriteFile(SettingsFile, []byte("files:\n  - name: broken\n"), FilePermissions); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(); err == nil {
		t.Error("expected error for a file entry without a path")
	}
}
