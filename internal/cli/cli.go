package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studiowebux/todoui/internal/executor"
	"github.com/studiowebux/todoui/internal/filter"
	"github.com/studiowebux/todoui/internal/history"
	"github.com/studiowebux/todoui/internal/page"
	"github.com/studiowebux/todoui/internal/types"
	"gopkg.in/yaml.v3"
)

// Options configures a CLI invocation
type Options struct {
	ServerURL    string
	OutputFormat string // json, yaml, text
	Query        string // JMESPath or $(shell command) over the JSON output
	Timeout      time.Duration
	History      *history.Manager
	Client       *http.Client
	Out          io.Writer
	ErrOut       io.Writer
}

func (o Options) tracker() *executor.Tracker {
	var opts []executor.TrackerOption
	switch {
	case o.Client != nil:
		opts = append(opts, executor.WithHTTPClient(o.Client))
	case o.Timeout > 0:
		opts = append(opts, executor.WithTimeout(o.Timeout))
	}
	if o.History != nil {
		opts = append(opts, executor.WithRecorder(o.History))
	}
	return executor.NewTracker(o.ServerURL, executor.NotifierFunc(func(message string) {
		fmt.Fprintf(o.ErrOut, "%s%s%s\n", colorRed, message, colorReset)
	}), opts...)
}

// FetchTodos returns the todo list for q
func FetchTodos(ctx context.Context, opts Options, q types.TodoQuery) ([]types.TodoView, error) {
	list, err := fetchList(ctx, opts, q)
	return list.Todos, err
}

func fetchList(ctx context.Context, opts Options, q types.TodoQuery) (types.TodoListResponse, error) {
	var list types.TodoListResponse
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	result := executor.Execute(ctx, opts.Client, &types.JSONRequest{
		Method: http.MethodGet,
		URL:    strings.TrimRight(opts.ServerURL, "/") + page.Href(q),
	})
	if result.Status != http.StatusOK {
		return list, fmt.Errorf("failed to list todos: %s", executor.FailureMessage(result))
	}

	if err := json.Unmarshal([]byte(result.Body), &list); err != nil {
		return list, fmt.Errorf("failed to list todos: %s%s", executor.ParseErrorPrefix, result.Body)
	}
	return list, nil
}

// List prints the todo list
func List(ctx context.Context, opts Options, q types.TodoQuery) error {
	list, err := fetchList(ctx, opts, q)
	if err != nil {
		return err
	}

	if opts.structured() {
		return opts.print(list)
	}

	for _, t := range list.Todos {
		box := "[ ]"
		if t.Finished {
			box = colorGreen + "[x]" + colorReset
		}
		fmt.Fprintf(opts.Out, "%s %s  %s\n", box, t.Hash, t.Line)
	}
	return nil
}

// Mark sets the completion state of the todo with hash and prints its new hash
func Mark(ctx context.Context, opts Options, hash string, completed bool) error {
	var newHash string
	err := opts.tracker().Do(ctx, "/todos", types.TodoUpdate{Hash: hash, Completed: completed}, func(resp executor.Response) {
		newHash = resp.String("hash")
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, newHash)
	return nil
}

// Archive moves finished todos to done.txt
func Archive(ctx context.Context, opts Options) error {
	var out types.ArchiveResponse
	var decodeErr error
	err := opts.tracker().Do(ctx, "/actions/archive_finished", struct{}{}, func(resp executor.Response) {
		decodeErr = resp.Decode(&out)
	})
	if err != nil {
		return err
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode archive response: %w", decodeErr)
	}

	fmt.Fprintf(opts.Out, "Archived %d todo(s)\n", out.NumArchived)
	return nil
}

// History prints recorded requests, newest first
func History(opts Options, limit int) error {
	if opts.History == nil {
		return fmt.Errorf("history database is not available")
	}

	entries, err := opts.History.List(limit)
	if err != nil {
		return err
	}

	if opts.structured() {
		return opts.print(entries)
	}

	for _, e := range entries {
		status := fmt.Sprintf("%d", e.Status)
		if e.Status == 0 {
			status = "ERR"
		}
		fmt.Fprintf(opts.Out, "%s %s%s%s %s %s (%s)\n",
			e.Timestamp, getStatusColor(e.Status), status, colorReset,
			e.Method, e.URL, executor.FormatDuration(e.Duration))
		if e.Error != "" {
			fmt.Fprintf(opts.Out, "    %s%s%s\n", colorRed, e.Error, colorReset)
		}
	}
	return nil
}

// HistoryStats prints per-endpoint request totals
func HistoryStats(opts Options) error {
	if opts.History == nil {
		return fmt.Errorf("history database is not available")
	}

	stats, err := opts.History.Stats()
	if err != nil {
		return err
	}

	if opts.structured() {
		return opts.print(stats)
	}

	for _, s := range stats {
		fmt.Fprintf(opts.Out, "%s %s\n", s.Method, s.URL)
		fmt.Fprintf(opts.Out, "    calls: %d  success: %.0f%%  errors: %d  network: %d\n",
			s.TotalCalls, s.SuccessRate()*100, s.ErrorCount, s.NetworkErrors)
		fmt.Fprintf(opts.Out, "    avg: %s  min: %s  max: %s  last: %s\n",
			executor.FormatDuration(int64(s.AvgDuration)),
			executor.FormatDuration(s.MinDuration),
			executor.FormatDuration(s.MaxDuration),
			s.LastCalled)
	}
	return nil
}

func (o Options) structured() bool {
	return o.Query != "" || o.OutputFormat == "json" || o.OutputFormat == "yaml"
}

// print writes v in the requested format, applying the query if one is set
func (o Options) print(v any) error {
	if o.Query == "" {
		output, err := formatOutput(v, o.OutputFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(o.Out, output)
		return nil
	}

	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	output, err := filter.Apply(doc, o.Query)
	if err != nil {
		return err
	}
	fmt.Fprintln(o.Out, output)
	return nil
}

// formatOutput renders v as json or yaml
func formatOutput(v any, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown output format: %s (use json or yaml)", format)
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func getStatusColor(status int) string {
	if executor.IsSuccessStatus(status) {
		return colorGreen
	} else if status >= 400 || status == 0 {
		return colorRed
	}
	return colorYellow
}
