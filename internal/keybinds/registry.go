package keybinds

import (
	"sort"
	"strings"
)

// Binding represents a keybinding mapping
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// Sequence is a multi-key binding matched against the tail of the key buffer.
// A terminal sequence consumes the buffer and stops single-key dispatch.
type Sequence struct {
	Keys     []string
	Action   Action
	Terminal bool
}

// String renders the sequence keys the way they are typed
func (s Sequence) String() string {
	return strings.Join(s.Keys, "")
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// sequences are kept in registration order; the first match wins
	sequences map[Context][]Sequence
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[Context]map[string]Action),
		sequences: make(map[Context][]Sequence),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unregister removes a single-key binding
func (r *Registry) Unregister(context Context, key string) {
	delete(r.bindings[context], key)
}

// RegisterSequence adds a multi-key sequence, replacing one with the same keys
func (r *Registry) RegisterSequence(context Context, keys []string, action Action, terminal bool) {
	seq := Sequence{
		Keys:     append([]string(nil), keys...),
		Action:   action,
		Terminal: terminal,
	}
	for i, existing := range r.sequences[context] {
		if equalKeys(existing.Keys, keys) {
			r.sequences[context][i] = seq
			return
		}
	}
	r.sequences[context] = append(r.sequences[context], seq)
}

// Sequences returns the sequences of a context in registration order
func (r *Registry) Sequences(context Context) []Sequence {
	return append([]Sequence(nil), r.sequences[context]...)
}

// Match attempts to match a key to an action in the given context
// Returns the action and whether a match was found
// Contexts are checked in priority order: specific context -> global
func (r *Registry) Match(context Context, key string) (Action, bool) {
	// First check for exact match in specific context
	if contextBindings, ok := r.bindings[context]; ok {
		if action, ok := contextBindings[key]; ok {
			return action, true
		}
	}

	// Then check global context
	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if action, ok := globalBindings[key]; ok {
			return action, true
		}
	}

	return "", false
}

// GetBinding returns the key(s) bound to an action in a context, sequences included
func (r *Registry) GetBinding(context Context, action Action) []string {
	var keys []string

	for key, act := range r.bindings[context] {
		if act == action {
			keys = append(keys, key)
		}
	}
	for _, seq := range r.sequences[context] {
		if seq.Action == action {
			keys = append(keys, seq.String())
		}
	}

	// If not found, check global
	if len(keys) == 0 {
		for key, act := range r.bindings[ContextGlobal] {
			if act == action {
				keys = append(keys, key)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns all bindings for a context, sorted by key
func (r *Registry) ListBindings(context Context) []Binding {
	var bindings []Binding

	for key, action := range r.bindings[context] {
		bindings = append(bindings, Binding{Key: key, Action: action, Context: context})
	}
	for _, seq := range r.sequences[context] {
		bindings = append(bindings, Binding{Key: seq.String(), Action: seq.Action, Context: context})
	}
	if context != ContextGlobal {
		for key, action := range r.bindings[ContextGlobal] {
			bindings = append(bindings, Binding{Key: key, Action: action, Context: ContextGlobal})
		}
	}

	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Key < bindings[j].Key
	})
	return bindings
}

// HasBinding checks if a key is bound in a context
func (r *Registry) HasBinding(context Context, key string) bool {
	_, ok := r.Match(context, key)
	return ok
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	clone.Merge(r)
	return clone
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for key, action := range contextBindings {
			r.Register(context, key, action)
		}
	}
	for context, seqs := range other.sequences {
		for _, seq := range seqs {
			r.RegisterSequence(context, seq.Keys, seq.Action, seq.Terminal)
		}
	}
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
