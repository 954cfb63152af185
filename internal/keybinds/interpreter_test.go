package keybinds

import (
	"fmt"
	"reflect"
	"testing"
)

// recordingHandler records dispatched actions and suppresses those listed
type recordingHandler struct {
	actions  []Action
	suppress map[Action]bool
}

func (h *recordingHandler) HandleAction(action Action) bool {
	h.actions = append(h.actions, action)
	return h.suppress[action]
}

func newTestInterpreter() (*Interpreter, *recordingHandler) {
	h := &recordingHandler{suppress: map[Action]bool{
		ActionNavigateDown: true,
		ActionNavigateUp:   true,
		ActionGoToBottom:   true,
	}}
	return NewInterpreter(NewDefaultRegistry(), h), h
}

func pressAll(i *Interpreter, keys ...string) Result {
	var last Result
	for _, k := range keys {
		last = i.Press(k)
	}
	return last
}

func TestSequenceBuffer_Capacity(t *testing.T) {
	b := NewSequenceBuffer(BufferCapacity)
	for n := 0; n < 25; n++ {
		b.Push(fmt.Sprintf("k%d", n))
		if b.Len() > BufferCapacity {
			t.Fatalf("Buffer grew to %d after %d pushes", b.Len(), n+1)
		}
	}

	keys := b.Keys()
	if keys[0] != "k15" || keys[len(keys)-1] != "k24" {
		t.Errorf("Expected the last %d keys, got %v", BufferCapacity, keys)
	}
}

func TestSequenceBuffer_HasSuffix(t *testing.T) {
	b := NewSequenceBuffer(4)
	b.Push("a")
	b.Push("g")
	b.Push("g")

	tests := []struct {
		seq  []string
		want bool
	}{
		{[]string{"g", "g"}, true},
		{[]string{"a", "g", "g"}, true},
		{[]string{"a", "g"}, false},
		{[]string{"x", "a", "g", "g"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := b.HasSuffix(tt.seq); got != tt.want {
			t.Errorf("HasSuffix(%v) = %v, want %v", tt.seq, got, tt.want)
		}
	}
}

func TestInterpreter_GoToTopIsTerminal(t *testing.T) {
	i, h := newTestInterpreter()

	res := pressAll(i, "a", "g", "g")

	if res.Action != ActionGoToTop {
		t.Errorf("Expected go_to_top, got %q", res.Action)
	}
	if !res.SuppressDefault || !res.Handled {
		t.Errorf("Expected handled and suppressed, got %+v", res)
	}
	if len(i.Buffer()) != 0 {
		t.Errorf("Expected empty buffer, got %v", i.Buffer())
	}
	if !reflect.DeepEqual(h.actions, []Action{ActionGoToTop}) {
		t.Errorf("Expected only go_to_top dispatched, got %v", h.actions)
	}
}

func TestInterpreter_ThirdGDoesNotRetrigger(t *testing.T) {
	i, h := newTestInterpreter()

	pressAll(i, "g", "g")
	res := i.Press("g")

	if res.Handled {
		t.Errorf("Expected third g to do nothing, got %+v", res)
	}
	if len(h.actions) != 1 {
		t.Errorf("Expected one dispatch, got %v", h.actions)
	}

	res = i.Press("g")
	if res.Action != ActionGoToTop {
		t.Errorf("Expected fourth g to complete a new sequence, got %+v", res)
	}
}

func TestInterpreter_ArchiveIsNonTerminal(t *testing.T) {
	i, h := newTestInterpreter()

	res := pressAll(i, "\\", "D")

	if res.Action != ActionArchiveFinished {
		t.Errorf("Expected archive_finished, got %q", res.Action)
	}
	if res.SuppressDefault {
		t.Error("Expected archive sequence not to suppress the default")
	}
	if !res.Handled {
		t.Error("Expected a completed sequence to count as handled")
	}
	if got := i.Buffer(); !reflect.DeepEqual(got, []string{"\\", "D"}) {
		t.Errorf("Expected buffer to keep the sequence, got %v", got)
	}
	if !reflect.DeepEqual(h.actions, []Action{ActionArchiveFinished}) {
		t.Errorf("Expected archive dispatched once, got %v", h.actions)
	}
}

func TestInterpreter_NonTerminalFallsThroughToSingleKey(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(ContextNormal, "D", ActionRefresh)
	h := &recordingHandler{suppress: map[Action]bool{ActionRefresh: true}}
	i := NewInterpreter(r, h)

	res := pressAll(i, "\\", "D")

	want := []Action{ActionArchiveFinished, ActionRefresh}
	if !reflect.DeepEqual(res.Actions, want) {
		t.Errorf("Expected %v, got %v", want, res.Actions)
	}
	if !res.SuppressDefault {
		t.Error("Expected the single-key handler to suppress the default")
	}
}

func TestInterpreter_SingleKeys(t *testing.T) {
	tests := []struct {
		key          string
		wantAction   Action
		wantSuppress bool
	}{
		{"j", ActionNavigateDown, true},
		{"k", ActionNavigateUp, true},
		{"G", ActionGoToBottom, true},
		{"x", ActionToggleFocused, false},
		{"enter", ActionFollowLink, false},
	}
	// Handled follows the handler: only actions it acted on count

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			i, _ := newTestInterpreter()
			res := i.Press(tt.key)

			if res.Action != tt.wantAction {
				t.Errorf("Expected %q, got %q", tt.wantAction, res.Action)
			}
			if res.SuppressDefault != tt.wantSuppress {
				t.Errorf("Expected suppress=%v, got %v", tt.wantSuppress, res.SuppressDefault)
			}
			if res.Handled != tt.wantSuppress {
				t.Errorf("Expected handled=%v, got %v", tt.wantSuppress, res.Handled)
			}
		})
	}
}

func TestInterpreter_ToggleSuppressesOnlyWhenHandled(t *testing.T) {
	focusedIsCheckbox := false
	i := NewInterpreter(NewDefaultRegistry(), HandlerFunc(func(a Action) bool {
		return a == ActionToggleFocused && focusedIsCheckbox
	}))

	res := i.Press("x")
	if res.SuppressDefault || res.Handled {
		t.Errorf("Expected an unhandled, unsuppressed press when focus is not a checkbox, got %+v", res)
	}
	if res.Action != ActionToggleFocused {
		t.Errorf("Expected the matched action to be reported, got %q", res.Action)
	}

	focusedIsCheckbox = true
	if res := i.Press("x"); !res.SuppressDefault || !res.Handled {
		t.Errorf("Expected a handled, suppressed press when focus is a checkbox, got %+v", res)
	}
}

func TestInterpreter_UnknownKey(t *testing.T) {
	i, h := newTestInterpreter()

	res := i.Press("z")

	if res.Handled || res.SuppressDefault || res.Action != "" {
		t.Errorf("Expected no action for unbound key, got %+v", res)
	}
	if len(h.actions) != 0 {
		t.Errorf("Expected no dispatch, got %v", h.actions)
	}
	if got := i.Buffer(); !reflect.DeepEqual(got, []string{"z"}) {
		t.Errorf("Expected key to be buffered, got %v", got)
	}
}

func TestInterpreter_NilHandler(t *testing.T) {
	i := NewInterpreter(NewDefaultRegistry(), nil)

	res := pressAll(i, "g", "g")
	if !res.SuppressDefault {
		t.Error("Expected terminal sequence to suppress even without a handler")
	}

	res = i.Press("j")
	if res.SuppressDefault {
		t.Error("Expected no suppression without a handler")
	}
}
