package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/studiowebux/todoui/internal/keybinds"
)

// confirmLeaveMessage is asked before leaving the page with requests in flight
const confirmLeaveMessage = "There are pending requests; are you sure you want to navigate away?"

func (m *Model) renderModal(title, content, footer string, border lipgloss.TerminalColor) string {
	fullContent := styleTitle.Render(title) + "\n\n" + content + "\n\n" + styleSubtle.Render(footer)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(m.width - ModalWidthMargin).
		Height(m.height - ModalHeightMargin).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderHelp() string {
	footer := fmt.Sprintf("%s: scroll | %s: close",
		m.registry.GetBindingString(keybinds.ContextHelp, keybinds.ActionScrollDown),
		m.registry.GetBindingString(keybinds.ContextHelp, keybinds.ActionCloseModal))
	return m.renderModal("Keyboard Shortcuts", m.helpView.View(), footer, colorBlue)
}

// updateHelpView lists the active bindings, so user overrides show up
func (m *Model) updateHelpView() {
	var b strings.Builder

	byCategory := make(map[string][]string)
	var categories []string
	for _, binding := range m.registry.ListBindings(keybinds.ContextNormal) {
		if binding.Action == keybinds.ActionNoOp {
			continue
		}
		info := keybinds.GetActionInfo(binding.Action)
		if _, seen := byCategory[info.Category]; !seen {
			categories = append(categories, info.Category)
		}
		byCategory[info.Category] = append(byCategory[info.Category],
			fmt.Sprintf("  %-12s %s", displayKey(binding.Key), info.Description))
	}

	for _, category := range categories {
		b.WriteString(styleWarning.Render(strings.ToUpper(category)) + "\n")
		b.WriteString(strings.Join(byCategory[category], "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString(styleSubtle.Render("Enter on a link opens it; space toggles the focused checkbox."))

	m.helpView.SetContent(b.String())
	m.helpView.GotoTop()
}

func displayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func (m *Model) renderHistory() string {
	footer := fmt.Sprintf("%s: scroll | %s: close",
		m.registry.GetBindingString(keybinds.ContextHistory, keybinds.ActionScrollDown),
		m.registry.GetBindingString(keybinds.ContextHistory, keybinds.ActionCloseModal))
	return m.renderModal("Request History", m.modalView.View(), footer, colorCyan)
}

// updateHistoryView renders the loaded history entries, newest first
func (m *Model) updateHistoryView() {
	if m.historyManager == nil {
		m.modalView.SetContent(styleSubtle.Render("History is disabled"))
		return
	}
	if len(m.entries) == 0 {
		m.modalView.SetContent(styleSubtle.Render("No requests yet"))
		return
	}

	width := max(20, m.modalView.Width)
	var lines []string
	for _, e := range m.entries {
		status := styleSuccess.Render(fmt.Sprintf("%d", e.Status))
		switch {
		case e.Status == 0:
			status = styleError.Render("ERR")
		case e.Status >= 400:
			status = styleError.Render(fmt.Sprintf("%d", e.Status))
		}

		line := fmt.Sprintf("%s %s %s %s %dms", styleSubtle.Render(e.Timestamp), status, e.Method, e.URL, e.Duration)
		lines = append(lines, ansi.Truncate(line, width, "…"))

		detail := e.Body
		if e.Error != "" {
			detail = e.Error
		}
		if detail != "" {
			lines = append(lines, styleSubtle.Render(ansi.Truncate("    "+detail, width, "…")))
		}
	}

	m.modalView.SetContent(strings.Join(lines, "\n"))
	m.modalView.GotoTop()
}

func (m *Model) renderConfirmLeave() string {
	pending := m.tracker.Pending()

	var lines []string
	lines = append(lines, styleWarning.Render(confirmLeaveMessage), "")
	for _, p := range pending {
		lines = append(lines, fmt.Sprintf("  %s %s", p.Path, styleSubtle.Render(p.StartedAt.Format("15:04:05"))))
	}

	footer := fmt.Sprintf("%s: leave | %s: stay",
		m.registry.GetBindingString(keybinds.ContextConfirm, keybinds.ActionConfirm),
		m.registry.GetBindingString(keybinds.ContextConfirm, keybinds.ActionCancel))
	return m.renderModal("Pending Requests", strings.Join(lines, "\n"), footer, colorYellow)
}
