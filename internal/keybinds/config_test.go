package keybinds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_AllowsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	content := `{
  // vim users
  "version": "1.0",
  "normal": {
    "n": "navigate_down", // next
    "x": ""
  },
  "sequences": [
    {"keys": ["d", "d"], "action": "toggle_focused", "terminal": true}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	registry, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	if action, ok := registry.Match(ContextNormal, "n"); !ok || action != ActionNavigateDown {
		t.Errorf("Expected n -> navigate_down, got %q (%v)", action, ok)
	}
	if registry.HasBinding(ContextNormal, "x") {
		t.Error("Expected x to be unbound")
	}
	if action, ok := registry.Match(ContextNormal, "j"); !ok || action != ActionNavigateDown {
		t.Error("Expected defaults to survive user overrides")
	}

	seqs := registry.Sequences(ContextNormal)
	last := seqs[len(seqs)-1]
	if last.String() != "dd" || last.Action != ActionToggleFocused || !last.Terminal {
		t.Errorf("Unexpected user sequence: %+v", last)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	registry, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected defaults, got error: %v", err)
	}
	if !registry.HasBinding(ContextNormal, "j") {
		t.Error("Expected default bindings")
	}
}

func TestLoadOrDefault_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := os.WriteFile(path, []byte(`{"normal": [}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOrDefault(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestCreateExampleConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybinds.json")
	if err := CreateExampleConfig(path); err != nil {
		t.Fatalf("CreateExampleConfig failed: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed on generated file: %v", err)
	}

	if config.Normal["j"] != string(ActionNavigateDown) {
		t.Errorf("Expected j -> navigate_down, got %q", config.Normal["j"])
	}
	if len(config.Sequences) != 2 {
		t.Fatalf("Expected 2 sequences, got %d", len(config.Sequences))
	}

	result := NewValidator().ValidateConfig(config)
	if result.HasErrors() {
		t.Errorf("Generated config has errors: %s", result.String())
	}
}

func TestRegistry_GetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		context Context
		action  Action
		want    string
	}{
		{ContextNormal, ActionNavigateDown, "down, j"},
		{ContextNormal, ActionGoToTop, "gg"},
		{ContextNormal, ActionArchiveFinished, "\\D"},
		{ContextNormal, ActionQuitForce, "ctrl+c"},
		{ContextNormal, ActionConfirm, "unbound"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			if got := r.GetBindingString(tt.context, tt.action); got != tt.want {
				t.Errorf("GetBindingString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistry_RegisterSequenceReplaces(t *testing.T) {
	r := NewRegistry()
	r.RegisterSequence(ContextNormal, []string{"g", "g"}, ActionGoToTop, true)
	r.RegisterSequence(ContextNormal, []string{"g", "g"}, ActionRefresh, false)

	seqs := r.Sequences(ContextNormal)
	if len(seqs) != 1 {
		t.Fatalf("Expected 1 sequence, got %d", len(seqs))
	}
	if seqs[0].Action != ActionRefresh || seqs[0].Terminal {
		t.Errorf("Expected replaced sequence, got %+v", seqs[0])
	}
}
