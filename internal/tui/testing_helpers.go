package tui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/page"
	"github.com/studiowebux/todoui/internal/types"
)

// CreateTestModel creates a Model pointed at server, sized like a small terminal
func CreateTestModel(t *testing.T, server *httptest.Server, todos ...types.TodoView) *Model {
	t.Helper()

	url := "http://127.0.0.1:0"
	client := &http.Client{}
	if server != nil {
		url = server.URL
		client = server.Client()
	}

	m := New(Options{ServerURL: url, Client: client})
	m.openURL = func(string) error { return nil }
	m.copyText = func(string) error { return nil }
	m.doc.Load(todos, types.TodoQuery{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	return m
}

// pressKeys feeds keys to the model and returns the commands they produced
func pressKeys(t *testing.T, m *Model, keys ...string) []tea.Cmd {
	t.Helper()

	var cmds []tea.Cmd
	for _, key := range keys {
		_, cmd := m.Update(keyMsg(key))
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// runCmd executes cmd and feeds every resulting message back to the model,
// the way the Bubble Tea runtime would
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, m, c)
		}
	case tea.QuitMsg:
	default:
		_, next := m.Update(msg)
		runCmd(t, m, next)
	}
}

// isQuit reports whether cmd, or any command batched in it, quits
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if isQuit(c) {
				return true
			}
		}
	}
	return false
}

// assertFocused fails unless the element with id has focus
func assertFocused(t *testing.T, m *Model, id string) {
	t.Helper()

	el := m.doc.FocusedElement()
	got := "<none>"
	if el != nil {
		got = el.ID()
	}
	if got != id {
		t.Errorf("focused = %s, want %s", got, id)
	}
}

func checkbox(t *testing.T, m *Model, row int) *page.Element {
	t.Helper()

	rows := m.doc.Rows()
	if row >= len(rows) {
		t.Fatalf("row %d out of range (%d rows)", row, len(rows))
	}
	return rows[row].Checkbox
}

// AssertModelField verifies a model field has the expected value
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
