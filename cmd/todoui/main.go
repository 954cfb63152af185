package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/studiowebux/todoui/internal/cli"
	"github.com/studiowebux/todoui/internal/config"
	"github.com/studiowebux/todoui/internal/filter"
	"github.com/studiowebux/todoui/internal/history"
	"github.com/studiowebux/todoui/internal/keybinds"
	"github.com/studiowebux/todoui/internal/log"
	"github.com/studiowebux/todoui/internal/server"
	"github.com/studiowebux/todoui/internal/todo"
	"github.com/studiowebux/todoui/internal/tui"
	"github.com/studiowebux/todoui/internal/types"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todoui",
	Short: "Keyboard-driven todo.txt list",
	Long: `todoui shows a todo.txt list served by 'todoui serve' and lets you work it
from the keyboard: j/k to move, x to toggle, gg/G to jump, \D to archive
finished todos.

Examples:
  todoui serve                   # Serve ~/.todoui/todo.txt or the files in config.yaml
  todoui                         # Start the interactive TUI
  todoui --context phone         # Start filtered to @phone
  todoui list --sort-by due      # Print todos by due date
  todoui mark <hash>             # Mark a todo done
  todoui archive                 # Move finished todos to done.txt`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if err := validateSort(); err != nil {
			return err
		}
		return tui.Run(settings, flagQuery)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured todo.txt files over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		log.Setup(os.Stderr, settings.LogLevel, true)

		if flagListen != "" {
			settings.ListenAddr = flagListen
		}
		if flagTodoFile != "" {
			settings.TodoFile = config.ExpandPath(flagTodoFile)
			settings.Files = nil
		}
		if flagDoneFile != "" {
			settings.DoneFile = config.ExpandPath(flagDoneFile)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sources := todoSources(settings)
		srv := server.New(server.Config{
			Addr:      settings.ListenAddr,
			Sources:   sources,
			DoneFile:  settings.DoneFile,
			BackupDir: config.BackupDir,
		})
		for _, src := range sources {
			log.Info().
				Str("file", src.Path).
				Str("auto_project", src.AutoProject).
				Bool("track_only", src.TrackOnly).
				Msg("serving file")
		}
		log.Info().Str("addr", settings.ListenAddr).Msg("starting todo server")
		return srv.Run(ctx)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the todo list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, cleanup, err := cliOptions(false)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := validateSort(); err != nil {
			return err
		}
		return cli.List(cmd.Context(), opts, flagQuery)
	},
}

var markCmd = &cobra.Command{
	Use:   "mark [hash]",
	Short: "Mark a todo as done (or not done with --undo)",
	Long: `Mark a todo as done and print the hash it has afterwards.

Without a hash, an interactive picker lists the todos.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, cleanup, err := cliOptions(true)
		if err != nil {
			return err
		}
		defer cleanup()

		var hash string
		if len(args) > 0 {
			hash = args[0]
		} else {
			if !cli.IsInteractive() {
				return fmt.Errorf("a hash is required when stdin is not a terminal")
			}
			todos, err := cli.FetchTodos(cmd.Context(), opts, flagQuery)
			if err != nil {
				return err
			}
			title := "Mark as done"
			if flagUndo {
				title = "Mark as not done"
			}
			if hash, err = cli.PickTodo(todos, title); err != nil {
				return err
			}
		}

		return cli.Mark(cmd.Context(), opts, hash, !flagUndo)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move finished todos to done.txt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, cleanup, err := cliOptions(true)
		if err != nil {
			return err
		}
		defer cleanup()
		return cli.Archive(cmd.Context(), opts)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show requests sent by todoui",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, cleanup, err := cliOptions(true)
		if err != nil {
			return err
		}
		defer cleanup()

		if flagClearHistory {
			if err := opts.History.Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		}
		if flagStats {
			return cli.HistoryStats(opts)
		}
		return cli.History(opts, flagLimit)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage keybindings (keybinds.json)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		switch {
		case flagInitKeybinds:
			if _, err := os.Stat(config.KeybindsFile); err == nil && !flagForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
			}
			if err := keybinds.CreateExampleConfig(config.KeybindsFile); err != nil {
				return err
			}
			fmt.Printf("Wrote default keybindings to %s\n", config.KeybindsFile)
			return nil

		case flagValidateKeybinds:
			return validateKeybinds()
		}

		registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
		if err != nil {
			return err
		}
		for _, ctx := range []keybinds.Context{keybinds.ContextNormal, keybinds.ContextConfirm, keybinds.ContextHelp, keybinds.ContextHistory} {
			fmt.Printf("[%s]\n", ctx)
			for _, b := range registry.ListBindings(ctx) {
				fmt.Printf("  %-10s %s\n", b.Key, keybinds.GetActionInfo(b.Action).Description)
			}
		}
		return nil
	},
}

// Flags shared by the TUI, list and mark
var (
	flagServer string
	flagQuery  types.TodoQuery
	flagOutput string
	flagJQuery string
)

// Flags for serve
var (
	flagListen   string
	flagTodoFile string
	flagDoneFile string
)

// Flags for mark, history and keybinds
var (
	flagUndo             bool
	flagTimeout          time.Duration
	flagLimit            int
	flagClearHistory     bool
	flagStats            bool
	flagInitKeybinds     bool
	flagValidateKeybinds bool
	flagForce            bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Todo server URL (overrides config and TODOUI_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "Request timeout for non-interactive commands")

	for _, cmd := range []*cobra.Command{rootCmd, listCmd, markCmd} {
		cmd.Flags().StringVar(&flagQuery.Context, "context", "", "Only todos with this @context")
		cmd.Flags().StringVar(&flagQuery.Project, "project", "", "Only todos with this +project")
		cmd.Flags().StringVar(&flagQuery.Search, "search", "", "Only todos whose subject contains this text")
		cmd.Flags().BoolVar(&flagQuery.Fuzzy, "fuzzy", false, "Match --search fuzzily against the whole line")
		cmd.Flags().StringVar(&flagQuery.SortBy, "sort-by", "", "Sort order (create_date/due/file); default is due urgency then priority")
	}

	listCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml)")
	listCmd.Flags().StringVarP(&flagJQuery, "query", "q", "", "JMESPath expression or $(command) applied to the JSON output")
	historyCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml)")
	historyCmd.Flags().StringVarP(&flagJQuery, "query", "q", "", "JMESPath expression or $(command) applied to the JSON output")
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "Number of entries to show")
	historyCmd.Flags().BoolVar(&flagClearHistory, "clear", false, "Delete all history entries")
	historyCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-endpoint totals instead of entries")

	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address")
	serveCmd.Flags().StringVar(&flagTodoFile, "todo-file", "", "Path to todo.txt (replaces the files list from config.yaml)")
	serveCmd.Flags().StringVar(&flagDoneFile, "done-file", "", "Path to done.txt")

	markCmd.Flags().BoolVar(&flagUndo, "undo", false, "Mark as not done")

	keybindsCmd.Flags().BoolVar(&flagInitKeybinds, "init", false, "Write the default keybindings to keybinds.json")
	keybindsCmd.Flags().BoolVar(&flagValidateKeybinds, "validate", false, "Check keybinds.json for errors")
	keybindsCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing keybinds.json")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keybindsCmd)
}

// loadSettings initializes ~/.todoui and applies the --server flag
func loadSettings() (config.Settings, error) {
	if err := config.Initialize(); err != nil {
		return config.Settings{}, fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return settings, err
	}
	if flagServer != "" {
		settings.ServerURL = flagServer
	}
	return settings, nil
}

// cliOptions builds options for the non-interactive commands. withHistory
// opens the request history database; the returned cleanup closes it.
func cliOptions(withHistory bool) (cli.Options, func(), error) {
	settings, err := loadSettings()
	if err != nil {
		return cli.Options{}, nil, err
	}
	log.SetLevel(settings.LogLevel)

	if flagJQuery != "" && !filter.IsValid(flagJQuery) {
		return cli.Options{}, nil, fmt.Errorf("invalid query: %s", flagJQuery)
	}

	opts := cli.Options{
		ServerURL:    settings.ServerURL,
		OutputFormat: flagOutput,
		Query:        flagJQuery,
		Timeout:      flagTimeout,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
	}

	cleanup := func() {}
	if withHistory {
		mgr, err := history.NewManager(config.DatabasePath)
		if err != nil {
			return opts, nil, err
		}
		opts.History = mgr
		cleanup = func() {
			if err := mgr.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "error closing history database: %v\n", err)
			}
		}
	}
	return opts, cleanup, nil
}

func validateSort() error {
	if !todo.IsValidSort(flagQuery.SortBy) {
		return fmt.Errorf("invalid sort_by key: '%s' (use create_date, due or file)", flagQuery.SortBy)
	}
	return nil
}

func todoSources(settings config.Settings) []todo.Source {
	var sources []todo.Source
	for _, f := range settings.ServedFiles() {
		sources = append(sources, todo.Source{
			File:          todo.File{Path: f.Path},
			Name:          f.Name,
			AutoProject:   f.AutoProject,
			FrequencyGoal: f.FrequencyGoal,
			TrackOnly:     f.TrackOnly,
		})
	}
	return sources
}

func validateKeybinds() error {
	if _, err := os.Stat(config.KeybindsFile); err != nil {
		fmt.Printf("No %s; using default keybindings\n", config.KeybindsFile)
		return nil
	}

	cfg, err := keybinds.LoadConfig(config.KeybindsFile)
	if err != nil {
		return err
	}

	validator := keybinds.NewValidator()
	result := validator.ValidateConfig(cfg)
	if !result.HasErrors() {
		registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
		if err != nil {
			return err
		}
		merged := validator.ValidateRegistry(registry)
		result.Errors = append(result.Errors, merged.Errors...)
		result.Warnings = append(result.Warnings, merged.Warnings...)
	}

	fmt.Println(result.String())
	if result.HasErrors() {
		return fmt.Errorf("keybinds.json has %d error(s)", len(result.Errors))
	}
	return nil
}
