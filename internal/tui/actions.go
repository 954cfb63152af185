package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/executor"
	"github.com/studiowebux/todoui/internal/keybinds"
	"github.com/studiowebux/todoui/internal/log"
	"github.com/studiowebux/todoui/internal/page"
	"github.com/studiowebux/todoui/internal/types"
)

// HandleAction implements keybinds.Handler. It reports whether the key's
// default behaviour should be suppressed.
func (m *Model) HandleAction(action keybinds.Action) bool {
	switch action {
	case keybinds.ActionNavigateDown:
		m.nav.MoveFocus(1)
		return true
	case keybinds.ActionNavigateUp:
		m.nav.MoveFocus(-1)
		return true
	case keybinds.ActionGoToTop:
		m.nav.MoveToFirst()
		return true
	case keybinds.ActionGoToBottom:
		m.nav.MoveToLast()
		return true

	case keybinds.ActionToggleFocused:
		el := m.doc.FocusedElement()
		if el == nil || !el.IsInput() {
			return false
		}
		m.toggle(el)
		return true

	case keybinds.ActionFollowLink:
		link := m.doc.FollowableLink(m.doc.FocusedElement())
		if link == nil {
			return false
		}
		m.activate(link)
		return true

	case keybinds.ActionArchiveFinished:
		m.archiveFinished()
		return false

	case keybinds.ActionRefresh:
		m.leave(m.doc.Query())
		return true
	case keybinds.ActionClearFilter:
		m.leave(types.TodoQuery{})
		return true

	case keybinds.ActionDismissNotification:
		return m.doc.DismissNotification()

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()
		return true
	case keybinds.ActionOpenHistory:
		m.mode = ModeHistory
		m.queue(m.loadHistory())
		return true

	case keybinds.ActionQuit:
		m.confirmLeave(func() tea.Cmd { return tea.Quit })
		return true
	case keybinds.ActionQuitForce:
		m.queue(tea.Quit)
		return true
	}
	return false
}

// toggle flips a checkbox and reports the new state to the server. On
// success the checkbox adopts the hash the server returns.
func (m *Model) toggle(el *page.Element) {
	m.doc.SetChecked(el, !el.Checked)
	update := types.TodoUpdate{Hash: el.Value, Completed: el.Checked}

	m.send("/todos", update, func(resp executor.Response) {
		if m.doc.ReplaceHash(el, resp.String("hash")) {
			log.Debug().Str("hash", el.Value).Msg("todo hash updated")
		}
	})
}

// archiveFinished moves finished todos to done.txt and reloads the page
func (m *Model) archiveFinished() {
	m.send("/actions/archive_finished", struct{}{}, func(resp executor.Response) {
		var out types.ArchiveResponse
		if err := resp.Decode(&out); err == nil {
			m.statusMsg = fmt.Sprintf("Archived %d todo(s)", out.NumArchived)
		}
		m.leave(m.doc.Query())
	})
}

// send registers a request with the tracker and queues the network call
func (m *Model) send(path string, payload any, onSuccess func(executor.Response)) {
	_, call := m.tracker.Send(context.Background(), path, payload, onSuccess)
	m.queue(func() tea.Msg {
		return requestCompletedMsg{completion: call()}
	})
}

// leave navigates to the page for q, asking first while requests are pending
func (m *Model) leave(q types.TodoQuery) {
	m.confirmLeave(func() tea.Cmd { return m.loadPage(q) })
}

func (m *Model) confirmLeave(next func() tea.Cmd) {
	if !m.tracker.HasPending() {
		m.queue(next())
		return
	}
	m.leaveTo = next
	m.mode = ModeConfirmLeave
}

// loadPage fetches the todo list for q
func (m *Model) loadPage(q types.TodoQuery) tea.Cmd {
	client := m.client
	url := m.tracker.BaseURL() + page.Href(q)

	return func() tea.Msg {
		result := executor.Execute(context.Background(), client, &types.JSONRequest{
			Method: http.MethodGet,
			URL:    url,
		})
		list, err := decodeTodoList(result)
		return pageLoadedMsg{query: q, list: list, err: err}
	}
}

func decodeTodoList(result *types.RequestResult) (types.TodoListResponse, error) {
	var list types.TodoListResponse
	if result.Status != http.StatusOK {
		return list, errors.New(executor.FailureMessage(result))
	}

	resp, err := executor.ParseResponse([]byte(result.Body))
	if err != nil {
		return list, errors.New(executor.ParseErrorPrefix + result.Body)
	}

	if err := resp.Decode(&list); err != nil {
		return list, errors.New(executor.ParseErrorPrefix + result.Body)
	}
	return list, nil
}

// loadHistory reads recent requests from the history database
func (m *Model) loadHistory() tea.Cmd {
	mgr := m.historyManager
	return func() tea.Msg {
		if mgr == nil {
			return historyLoadedMsg{}
		}
		entries, err := mgr.List(historyLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}
