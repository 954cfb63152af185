package keybinds

import (
	"github.com/studiowebux/todoui/internal/log"
)

// BufferCapacity is the number of recent keys kept for sequence matching
const BufferCapacity = 10

// SequenceBuffer holds the most recent key presses, oldest first
type SequenceBuffer struct {
	keys     []string
	capacity int
}

// NewSequenceBuffer creates a buffer keeping at most capacity keys
func NewSequenceBuffer(capacity int) *SequenceBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SequenceBuffer{capacity: capacity}
}

// Push appends key, dropping the oldest keys past capacity
func (b *SequenceBuffer) Push(key string) {
	b.keys = append(b.keys, key)
	if over := len(b.keys) - b.capacity; over > 0 {
		b.keys = append(b.keys[:0], b.keys[over:]...)
	}
}

// HasSuffix reports whether the buffer ends with seq
func (b *SequenceBuffer) HasSuffix(seq []string) bool {
	if len(seq) == 0 || len(seq) > len(b.keys) {
		return false
	}
	return equalKeys(b.keys[len(b.keys)-len(seq):], seq)
}

// Clear empties the buffer
func (b *SequenceBuffer) Clear() {
	b.keys = b.keys[:0]
}

// Len returns the number of buffered keys
func (b *SequenceBuffer) Len() int {
	return len(b.keys)
}

// Keys returns a copy of the buffered keys
func (b *SequenceBuffer) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Handler performs actions. It returns true when the action acted on the
// page, which also asks the caller to suppress the key's default behaviour.
type Handler interface {
	HandleAction(action Action) bool
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(action Action) bool

// HandleAction calls f(action)
func (f HandlerFunc) HandleAction(action Action) bool { return f(action) }

// Result describes what a key press did
type Result struct {
	// Action is the last action dispatched, empty when none
	Action Action
	// Actions lists every dispatched action in order
	Actions []Action
	// Handled is set when a sequence completed or the handler acted on a
	// single-key action. A bound key the handler declined is not handled.
	Handled         bool
	SuppressDefault bool
}

func (r *Result) add(action Action) {
	r.Action = action
	r.Actions = append(r.Actions, action)
}

// Interpreter turns key presses into actions, matching sequences against
// a bounded history of recent keys before trying single-key bindings
type Interpreter struct {
	registry *Registry
	context  Context
	buffer   *SequenceBuffer
	handler  Handler
}

// NewInterpreter creates an interpreter for the normal context
func NewInterpreter(registry *Registry, handler Handler) *Interpreter {
	return &Interpreter{
		registry: registry,
		context:  ContextNormal,
		buffer:   NewSequenceBuffer(BufferCapacity),
		handler:  handler,
	}
}

// SetHandler replaces the action handler
func (i *Interpreter) SetHandler(handler Handler) {
	i.handler = handler
}

// Buffer returns the recent keys, oldest first
func (i *Interpreter) Buffer() []string {
	return i.buffer.Keys()
}

// Reset forgets buffered keys
func (i *Interpreter) Reset() {
	i.buffer.Clear()
}

// Press records key and dispatches whatever it completes
func (i *Interpreter) Press(key string) Result {
	var res Result
	i.buffer.Push(key)

	for _, seq := range i.registry.Sequences(i.context) {
		if !i.buffer.HasSuffix(seq.Keys) {
			continue
		}
		res.add(seq.Action)
		res.Handled = true
		i.dispatch(seq.Action)
		if seq.Terminal {
			i.buffer.Clear()
			res.SuppressDefault = true
			return res
		}
		break
	}

	action, ok := i.registry.Match(i.context, key)
	if !ok {
		log.Debug().Str("key", key).Msgf("key: %s", key)
		return res
	}

	res.add(action)
	if i.dispatch(action) {
		res.Handled = true
		res.SuppressDefault = true
	}
	return res
}

func (i *Interpreter) dispatch(action Action) bool {
	if i.handler == nil || action == ActionNoOp {
		return false
	}
	return i.handler.HandleAction(action)
}
