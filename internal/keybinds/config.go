package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each context section maps a key to an action; an empty action unbinds the key.
type Config struct {
	Version   string            `json:"version"`
	Global    map[string]string `json:"global,omitempty"`
	Normal    map[string]string `json:"normal,omitempty"`
	Confirm   map[string]string `json:"confirm,omitempty"`
	Help      map[string]string `json:"help,omitempty"`
	History   map[string]string `json:"history,omitempty"`
	Sequences []SequenceConfig  `json:"sequences,omitempty"`
}

// SequenceConfig is a multi-key binding in the normal context
type SequenceConfig struct {
	Keys     []string `json:"keys"`
	Action   string   `json:"action"`
	Terminal bool     `json:"terminal,omitempty"`
}

// configHeader is written above generated files; LoadConfig strips comments
const configHeader = `// todoui keybindings
// Sections map a key to an action. Set an action to "" to unbind a default.
// Sequences match the most recent keys; a terminal sequence consumes them.
`

// LoadConfig loads keybinding configuration from a JSON file (comments allowed)
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := append([]byte(configHeader), data...)
	out = append(out, '\n')
	return os.WriteFile(path, out, 0644)
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextNormal:  c.Normal,
		ContextConfirm: c.Confirm,
		ContextHelp:    c.Help,
		ContextHistory: c.History,
	}
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			if actionStr == "" {
				registry.Unregister(context, key)
				continue
			}
			registry.Register(context, key, Action(actionStr))
		}
	}

	for i, seq := range config.Sequences {
		if len(seq.Keys) == 0 || seq.Action == "" {
			return fmt.Errorf("sequence %d: keys and action are required", i)
		}
		registry.RegisterSequence(ContextNormal, seq.Keys, Action(seq.Action), seq.Terminal)
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults exports the default keybindings as a config
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	export := func(context Context) map[string]string {
		out := make(map[string]string)
		for key, action := range registry.bindings[context] {
			out[key] = string(action)
		}
		return out
	}

	config.Global = export(ContextGlobal)
	config.Normal = export(ContextNormal)
	config.Confirm = export(ContextConfirm)
	config.Help = export(ContextHelp)
	config.History = export(ContextHistory)

	for _, seq := range registry.Sequences(ContextNormal) {
		config.Sequences = append(config.Sequences, SequenceConfig{
			Keys:     seq.Keys,
			Action:   string(seq.Action),
			Terminal: seq.Terminal,
		})
	}

	return config
}

// CreateExampleConfig writes the default keybindings to path
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportDefaults(), path)
}
