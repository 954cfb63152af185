package tui

import (
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/executor"
	"github.com/studiowebux/todoui/internal/focus"
	"github.com/studiowebux/todoui/internal/history"
	"github.com/studiowebux/todoui/internal/keybinds"
	"github.com/studiowebux/todoui/internal/page"
	"github.com/studiowebux/todoui/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeConfirmLeave
	ModeHelp
	ModeHistory
)

// Messages delivered to Update
type (
	requestCompletedMsg struct {
		completion executor.Completion
	}

	pageLoadedMsg struct {
		query types.TodoQuery
		list  types.TodoListResponse
		err   error
	}

	historyLoadedMsg struct {
		entries []types.HistoryEntry
		err     error
	}

	linkOpenedMsg struct {
		url    string
		copied bool
		err    error
	}
)

// Model represents the TUI state
type Model struct {
	// Core state
	mode           Mode
	doc            *page.Document
	nav            *focus.Navigator
	tracker        *executor.Tracker
	client         *http.Client
	registry       *keybinds.Registry
	interp         *keybinds.Interpreter
	historyManager *history.Manager

	// Commands produced while handling the current key
	queued []tea.Cmd

	// Navigation waiting for the pending-request confirmation
	leaveTo func() tea.Cmd

	// Views
	spinner   spinner.Model
	helpView  viewport.Model
	modalView viewport.Model
	entries   []types.HistoryEntry
	offset    int // First row shown in the list

	// From the last page load
	todosCount int
	files      []types.FileStatus

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string

	// Link activation, replaceable in tests
	openURL  func(url string) error
	copyText func(text string) error
}

// Init loads the first page
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadPage(m.doc.Query()), m.spinner.Tick)
}

// Cleanup closes database connections and cleans up resources
func (m *Model) Cleanup() {
	if m.historyManager != nil {
		if err := m.historyManager.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing history database: %v\n", err)
		}
		m.historyManager = nil
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()

	case requestCompletedMsg:
		// Continuations run here, on the UI goroutine, and may queue a reload
		m.tracker.Finish(msg.completion)
		cmd = m.drain()

	case pageLoadedMsg:
		if msg.err != nil {
			m.doc.ShowNotification(msg.err.Error())
			m.errorMsg = msg.err.Error()
			break
		}
		m.doc.Load(msg.list.Todos, msg.query)
		m.todosCount = msg.list.TodosCount
		m.files = msg.list.Files
		m.offset = 0
		m.errorMsg = ""

	case historyLoadedMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Failed to load history: %v", msg.err)
			break
		}
		m.entries = msg.entries
		m.updateHistoryView()

	case linkOpenedMsg:
		switch {
		case msg.err != nil:
			m.errorMsg = fmt.Sprintf("Could not open %s: %v", msg.url, msg.err)
		case msg.copied:
			m.statusMsg = "Copied link to clipboard: " + msg.url
		default:
			m.statusMsg = "Opened " + msg.url
		}

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	case ModeConfirmLeave:
		return m.renderConfirmLeave()
	default:
		return m.renderMain()
	}
}

// queue schedules cmd to run after the current message is handled
func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

// drain returns the queued commands as one
func (m *Model) drain() tea.Cmd {
	if len(m.queued) == 0 {
		return nil
	}
	cmds := m.queued
	m.queued = nil
	return tea.Batch(cmds...)
}
