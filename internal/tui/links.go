package tui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/page"
)

// activate follows a link: filter links reload the list narrowed to their
// context or project, other links open outside the terminal
func (m *Model) activate(link *page.Element) {
	if q, ok := link.Query(); ok {
		m.leave(q)
		return
	}
	m.queue(m.openLink(link.Href))
}

// openLink opens url in the browser, falling back to the clipboard
func (m *Model) openLink(url string) tea.Cmd {
	open, copyText := m.openURL, m.copyText
	return func() tea.Msg {
		if err := open(url); err == nil {
			return linkOpenedMsg{url: url}
		}
		if err := copyText(url); err != nil {
			return linkOpenedMsg{url: url, err: err}
		}
		return linkOpenedMsg{url: url, copied: true}
	}
}

// openBrowser opens the default browser with the given URL
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}

func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
