package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/keybinds"
	"github.com/studiowebux/todoui/internal/page"
)

// handleKeyPress routes a key to the handler of the current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch m.mode {
	case ModeNormal:
		return m.handleNormalKeys(key)
	case ModeConfirmLeave:
		return m.handleConfirmKeys(key)
	case ModeHelp:
		return m.handleHelpKeys(key)
	case ModeHistory:
		return m.handleHistoryKeys(key)
	}
	return nil
}

// handleNormalKeys feeds the interpreter, then performs the key's own
// behaviour unless an action suppressed it
func (m *Model) handleNormalKeys(key string) tea.Cmd {
	res := m.interp.Press(key)
	if !res.SuppressDefault {
		m.applyDefault(key)
	}
	m.scrollToFocus()
	return m.drain()
}

// applyDefault is what a key does to the focused element when no
// binding claimed it
func (m *Model) applyDefault(key string) {
	el := m.doc.FocusedElement()
	if el == nil {
		return
	}

	switch key {
	case "enter":
		if el.Kind == page.KindLink {
			m.activate(el)
		}
	case " ":
		if el.IsInput() {
			m.toggle(el)
		}
	}
}

func (m *Model) handleConfirmKeys(key string) tea.Cmd {
	action, ok := m.registry.Match(keybinds.ContextConfirm, key)
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return tea.Quit
	case keybinds.ActionConfirm:
		m.mode = ModeNormal
		leave := m.leaveTo
		m.leaveTo = nil
		if leave == nil {
			return nil
		}
		return leave()
	case keybinds.ActionCancel:
		m.mode = ModeNormal
		m.leaveTo = nil
		m.statusMsg = "Stayed on page"
	}
	return nil
}

func (m *Model) handleHelpKeys(key string) tea.Cmd {
	action, ok := m.registry.Match(keybinds.ContextHelp, key)
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return tea.Quit
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionScrollUp:
		m.helpView.ScrollUp(1)
	case keybinds.ActionScrollDown:
		m.helpView.ScrollDown(1)
	}
	return nil
}

func (m *Model) handleHistoryKeys(key string) tea.Cmd {
	action, ok := m.registry.Match(keybinds.ContextHistory, key)
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return tea.Quit
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionScrollUp:
		m.modalView.ScrollUp(1)
	case keybinds.ActionScrollDown:
		m.modalView.ScrollDown(1)
	}
	return nil
}
