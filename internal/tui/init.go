package tui

import (
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/config"
	"github.com/studiowebux/todoui/internal/executor"
	"github.com/studiowebux/todoui/internal/focus"
	"github.com/studiowebux/todoui/internal/history"
	"github.com/studiowebux/todoui/internal/keybinds"
	"github.com/studiowebux/todoui/internal/log"
	"github.com/studiowebux/todoui/internal/page"
	"github.com/studiowebux/todoui/internal/types"
)

// Options configures a Model
type Options struct {
	ServerURL string
	Query     types.TodoQuery
	Registry  *keybinds.Registry
	History   *history.Manager
	Client    *http.Client
}

// New creates a new TUI model
func New(opts Options) *Model {
	registry := opts.Registry
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	doc := page.New(nil, opts.Query)

	trackerOpts := []executor.TrackerOption{executor.WithHTTPClient(client)}
	if opts.History != nil {
		trackerOpts = append(trackerOpts, executor.WithRecorder(opts.History))
	}
	tracker := executor.NewTracker(opts.ServerURL, executor.NotifierFunc(doc.ShowNotification), trackerOpts...)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWarning

	m := &Model{
		mode:           ModeNormal,
		doc:            doc,
		nav:            focus.NewNavigator(doc),
		tracker:        tracker,
		client:         client,
		registry:       registry,
		historyManager: opts.History,
		spinner:        sp,
		helpView:       viewport.New(80, 20),
		modalView:      viewport.New(80, 20),
		openURL:        openBrowser,
		copyText:       copyToClipboard,
	}
	m.interp = keybinds.NewInterpreter(registry, m)

	return m
}

// Run starts the TUI against the configured server
func Run(settings config.Settings, query types.TodoQuery) error {
	logFile, err := log.SetupFile(config.LogFile, settings.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	result := keybinds.NewValidator().ValidateRegistry(registry)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings:\n%s", result.String())
	}
	for _, w := range result.Warnings {
		log.Warn().Str("key", w.Key).Str("context", string(w.Context)).Msg(w.Message)
	}

	hist, err := history.NewManager(config.DatabasePath)
	if err != nil {
		// History is optional; the list still works without it
		log.Warn().Err(err).Msg("request history disabled")
		hist = nil
	}

	m := New(Options{
		ServerURL: settings.ServerURL,
		Query:     query,
		Registry:  registry,
		History:   hist,
	})
	defer m.Cleanup()

	log.Info().Str("server", settings.ServerURL).Msg("starting tui")

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	if n := m.tracker.PendingCount(); n > 0 {
		fmt.Fprintf(os.Stderr, "quit with %d pending request(s)\n", n)
	}
	return nil
}
