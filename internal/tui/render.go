package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/studiowebux/todoui/internal/keybinds"
	"github.com/studiowebux/todoui/internal/page"
	"github.com/studiowebux/todoui/internal/todo"
	"github.com/studiowebux/todoui/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleDone = lipgloss.NewStyle().
			Foreground(colorGray).
			Strikethrough(true)

	styleContext = lipgloss.NewStyle().
			Foreground(colorCyan)

	styleProject = lipgloss.NewStyle().
			Foreground(colorBlue)

	styleURL = lipgloss.NewStyle().
			Underline(true)

	styleNotification = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorRed).
				Padding(0, 1)
)

// renderMain renders the todo list, the notification panel and the status bar
func (m *Model) renderMain() string {
	sections := []string{m.renderHeader()}

	rows := m.doc.Rows()
	if len(rows) == 0 {
		sections = append(sections, styleSubtle.Render("No todos"))
	} else {
		end := min(len(rows), m.offset+m.listHeight())
		var lines []string
		for _, row := range rows[m.offset:end] {
			lines = append(lines, m.renderRow(row))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	body := lipgloss.NewStyle().
		Height(m.height - StatusBarLines - m.notificationHeight()).
		Render(strings.Join(sections, "\n"))

	parts := []string{body}
	if n := m.doc.Notification(); n.Visible {
		parts = append(parts, m.renderNotification(n))
	}
	parts = append(parts, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	title := styleTitle.Render("todoui")
	filter := "all todos"
	if q := m.doc.Query(); q != (types.TodoQuery{}) {
		filter = page.Href(q)
	}
	header := title + " " + styleSubtle.Render(filter) + " " + styleSubtle.Render(fmt.Sprintf("(%d open)", m.todosCount))

	var stale []string
	for _, f := range m.files {
		if f.UpdateState == todo.UpdateNeedsUpdate {
			stale = append(stale, f.Name)
		}
	}
	if len(stale) > 0 {
		header += " " + styleError.Render("needs update: "+strings.Join(stale, ", "))
	}
	return header
}

// renderRow draws a checkbox followed by the subject and the row's links
func (m *Model) renderRow(row *page.Row) string {
	focused := m.doc.FocusedElement()

	box := "[ ]"
	if row.Checkbox.Checked {
		box = "[x]"
	}
	if focused == row.Checkbox {
		box = styleSelected.Render(box)
	}

	cursor := "  "
	if focused != nil && focused.Row() == row {
		cursor = "> "
	}

	text := row.Todo.Subject
	if row.Todo.Priority != "" {
		text = "(" + row.Todo.Priority + ") " + text
	}
	if row.Todo.Due != "" {
		text += " " + styleWarning.Render("due:"+row.Todo.Due)
	}
	if row.Done {
		text = styleDone.Render(text)
	}

	parts := []string{cursor + box, text}
	for _, link := range row.Links {
		parts = append(parts, renderLink(link, link == focused))
	}

	return ansi.Truncate(strings.Join(parts, " "), m.width, "…")
}

func renderLink(link *page.Element, focused bool) string {
	style := styleURL
	switch {
	case link.HasClass(page.ClassContext):
		style = styleContext
	case link.HasClass(page.ClassProject):
		style = styleProject
	}
	if focused {
		style = style.Inherit(styleSelected)
	}
	return style.Render(link.Text)
}

func (m *Model) renderNotification(n page.Notification) string {
	hint := styleSubtle.Render(fmt.Sprintf("%s to dismiss",
		m.registry.GetBindingString(keybinds.ContextNormal, keybinds.ActionDismissNotification)))
	message := ansi.Truncate(n.Message, m.width-ModalWidthMargin, "…")
	return styleNotification.Width(m.width - 2).Render(message + "\n" + hint)
}

// renderStatusBar renders the status bar at the bottom
func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("%d todo(s)", len(m.doc.Rows()))
	if n := m.tracker.PendingCount(); n > 0 {
		left = m.spinner.View() + " " + styleWarning.Render(fmt.Sprintf("%d pending", n)) + " | " + left
	}

	right := ""
	switch {
	case m.errorMsg != "":
		right = styleError.Render(truncateStatus(m.errorMsg))
	case m.statusMsg != "":
		right = styleSuccess.Render(truncateStatus(m.statusMsg))
	default:
		right = styleSubtle.Render("? for help | q to quit")
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

func truncateStatus(msg string) string {
	return ansi.Truncate(msg, StatusMaxLength, "...")
}

func (m *Model) notificationHeight() int {
	if m.doc.Notification().Visible {
		return NotificationLines
	}
	return 0
}

// listHeight is the number of rows that fit on screen
func (m *Model) listHeight() int {
	return max(1, m.height-HeaderLines-StatusBarLines-m.notificationHeight())
}

// scrollToFocus keeps the focused row visible
func (m *Model) scrollToFocus() {
	idx := m.doc.FocusedIndex()
	if idx < 0 {
		return
	}
	height := m.listHeight()
	switch {
	case idx < m.offset:
		m.offset = idx
	case idx >= m.offset+height:
		m.offset = idx - height + 1
	}
}

// updateViewport resizes the modal viewports
func (m *Model) updateViewport() {
	m.helpView.Width = m.width - ModalWidthMargin
	m.helpView.Height = m.height - ModalOverheadLines
	m.modalView.Width = m.width - ModalWidthMargin
	m.modalView.Height = m.height - ModalOverheadLines
	m.scrollToFocus()
}
