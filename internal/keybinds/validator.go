package keybinds

import (
	"fmt"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound
	reservedKeys map[string]bool

	// contextHierarchy defines context inheritance
	contextHierarchy map[Context]Context

	// bufferCapacity bounds sequence length
	bufferCapacity int
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]bool{
			"ctrl+c": true, // Force quit should always work
		},
		contextHierarchy: map[Context]Context{
			ContextNormal:  ContextGlobal,
			ContextConfirm: ContextGlobal,
			ContextHelp:    ContextGlobal,
			ContextHistory: ContextGlobal,
		},
		bufferCapacity: BufferCapacity,
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	v.checkEmptyBindings(registry, result)
	v.checkReservedKeys(registry, result)
	v.checkSequences(registry, result)
	v.checkShadowing(registry, result)

	return result
}

// ValidateConfig validates a configuration before applying it
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	for context, bindings := range config.sections() {
		for key, actionStr := range bindings {
			if err := ValidateKey(key); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key, Message: err.Error(),
				})
			}
			if actionStr != "" && !IsKnownAction(Action(actionStr)) {
				result.Warnings = append(result.Warnings, ValidationError{
					Type: "warning", Context: context, Key: key,
					Message: fmt.Sprintf("unknown action '%s'", actionStr),
				})
			}
		}
	}

	v.checkDuplicateSequences(config, result)

	// Create a temporary registry to validate
	registry := NewRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Context: ContextNormal,
			Message: err.Error(),
		})
		return result
	}

	regResult := v.ValidateRegistry(registry)
	result.Errors = append(result.Errors, regResult.Errors...)
	result.Warnings = append(result.Warnings, regResult.Warnings...)
	return result
}

// checkEmptyBindings rejects empty keys and actions
func (v *Validator) checkEmptyBindings(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			if key == "" {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key, Message: "empty key",
				})
			}
			if action == "" {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key, Message: "empty action",
				})
			}
		}
	}
}

// checkDuplicateSequences reports the same key sequence listed twice
func (v *Validator) checkDuplicateSequences(config *Config, result *ValidationResult) {
	count := make(map[string]int)
	for _, seq := range config.Sequences {
		count[strings.Join(seq.Keys, " ")]++
	}
	for keys, n := range count {
		if n > 1 {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "conflict",
				Context: ContextNormal,
				Key:     keys,
				Message: fmt.Sprintf("sequence bound %d times", n),
			})
		}
	}
}

// checkReservedKeys checks if any reserved keys have been rebound
func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			if v.reservedKeys[key] && action != ActionQuitForce {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: "reserved key rebound (may cause issues)",
				})
			}
		}
	}
}

// checkSequences checks sequence length against the key buffer and warns
// when a sequence's first key also fires a single-key binding
func (v *Validator) checkSequences(registry *Registry, result *ValidationResult) {
	for context, seqs := range registry.sequences {
		for _, seq := range seqs {
			key := strings.Join(seq.Keys, " ")

			if len(seq.Keys) < 2 {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key,
					Message: "sequence needs at least two keys",
				})
				continue
			}
			if len(seq.Keys) > v.bufferCapacity {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key,
					Message: fmt.Sprintf("sequence longer than key buffer (%d)", v.bufferCapacity),
				})
			}
			for _, k := range seq.Keys {
				if k == "" {
					result.Errors = append(result.Errors, ValidationError{
						Type: "invalid", Context: context, Key: key, Message: "empty key in sequence",
					})
					break
				}
			}

			if action, ok := registry.bindings[context][seq.Keys[0]]; ok {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("first key also triggers %s", action),
				})
			}
		}
	}
}

// checkShadowing checks for context-specific bindings that shadow global bindings
func (v *Validator) checkShadowing(registry *Registry, result *ValidationResult) {
	globalBindings := registry.bindings[ContextGlobal]
	if globalBindings == nil {
		return
	}

	for context, bindings := range registry.bindings {
		if context == ContextGlobal {
			continue
		}

		for key, action := range bindings {
			if globalAction, hasGlobal := globalBindings[key]; hasGlobal {
				if action != globalAction {
					result.Warnings = append(result.Warnings, ValidationError{
						Type:    "warning",
						Context: context,
						Key:     key,
						Message: fmt.Sprintf("shadows global binding (%s -> %s)", globalAction, action),
					})
				}
			}
		}
	}
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	validator := NewValidator()
	result := validator.ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}

	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	validModifiers := []string{"ctrl+", "alt+", "shift+", "super+"}
	for _, mod := range validModifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(Action(actionStr)) {
		return fmt.Errorf("unknown action: %s", actionStr)
	}
	return nil
}
