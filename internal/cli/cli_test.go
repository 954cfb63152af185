package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/todoui/internal/executor"
	"github.com/studiowebux/todoui/internal/history"
	"github.com/studiowebux/todoui/internal/types"
	"gopkg.in/yaml.v3"
)

func testOptions(t *testing.T, handler http.HandlerFunc) (Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	return Options{
		ServerURL: srv.URL,
		Client:    srv.Client(),
		Out:       &out,
		ErrOut:    &errOut,
	}, &out, &errOut
}

func todoList(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(types.TodoListResponse{Todos: []types.TodoView{
		{Hash: "h1", Line: "(A) call mom @phone", Subject: "call mom @phone"},
		{Hash: "h2", Line: "x pay rent", Finished: true},
	}})
}

func TestList_Text(t *testing.T) {
	opts, out, _ := testOptions(t, todoList)

	if err := List(context.Background(), opts, types.TodoQuery{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"h1  (A) call mom @phone", "h2  x pay rent"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestList_PassesQuery(t *testing.T) {
	var rawQuery string
	opts, _, _ := testOptions(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		todoList(w, r)
	})

	err := List(context.Background(), opts, types.TodoQuery{Context: "phone"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rawQuery != "context=phone" {
		t.Errorf("query = %q, want context=phone", rawQuery)
	}
}

func TestList_Formats(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{"json", json.Unmarshal},
		{"yaml", yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			opts, out, _ := testOptions(t, todoList)
			opts.OutputFormat = tt.format

			if err := List(context.Background(), opts, types.TodoQuery{}); err != nil {
				t.Fatalf("List() error = %v", err)
			}

			var got types.TodoListResponse
			if err := tt.decode(out.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v\n%s", err, out.String())
			}
			if len(got.Todos) != 2 || got.Todos[1].Hash != "h2" {
				t.Errorf("todos = %+v", got.Todos)
			}
		})
	}
}

func TestList_Query(t *testing.T) {
	opts, out, _ := testOptions(t, todoList)
	opts.Query = "todos[?finished].hash | [0]"

	if err := List(context.Background(), opts, types.TodoQuery{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "h2" {
		t.Errorf("output = %q, want h2", got)
	}
}

func TestList_ServerError(t *testing.T) {
	opts, _, _ := testOptions(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid sort_by key: 'x'", http.StatusBadRequest)
	})

	err := List(context.Background(), opts, types.TodoQuery{SortBy: "x"})
	if err == nil || !strings.Contains(err.Error(), "invalid sort_by key") {
		t.Errorf("List() error = %v", err)
	}
}

func TestMark(t *testing.T) {
	var got types.TodoUpdate
	opts, out, _ := testOptions(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"hash":"new"}`))
	})

	if err := Mark(context.Background(), opts, "old", true); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	if got != (types.TodoUpdate{Hash: "old", Completed: true}) {
		t.Errorf("request = %+v", got)
	}
	if strings.TrimSpace(out.String()) != "new" {
		t.Errorf("output = %q, want new", out.String())
	}
}

func TestMark_NotFound(t *testing.T) {
	opts, out, errOut := testOptions(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "hash not found", http.StatusNotFound)
	})

	err := Mark(context.Background(), opts, "missing", true)
	if !errors.Is(err, executor.ErrRequestFailed) {
		t.Fatalf("Mark() error = %v, want ErrRequestFailed", err)
	}
	if !strings.Contains(errOut.String(), "hash not found") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
}

func TestArchive_RecordsHistory(t *testing.T) {
	opts, out, _ := testOptions(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"num_archived":3}`))
	})

	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	opts.History = mgr

	if err := Archive(context.Background(), opts); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !strings.Contains(out.String(), "Archived 3 todo(s)") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := History(opts, 10); err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if !strings.Contains(out.String(), "/actions/archive_finished") {
		t.Errorf("history = %q", out.String())
	}
}

func TestHistoryStats(t *testing.T) {
	opts, out, _ := testOptions(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hash":"b"}`))
	})
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	opts.History = mgr

	for _, hash := range []string{"a", "b"} {
		if err := Mark(context.Background(), opts, hash, true); err != nil {
			t.Fatalf("Mark() error = %v", err)
		}
	}

	out.Reset()
	if err := HistoryStats(opts); err != nil {
		t.Fatalf("HistoryStats() error = %v", err)
	}
	if !strings.Contains(out.String(), "calls: 2  success: 100%") {
		t.Errorf("stats = %q", out.String())
	}
}

func TestHistory_WithoutDatabase(t *testing.T) {
	if err := History(Options{}, 10); err == nil {
		t.Error("expected an error without a history database")
	}
}

func TestFormatOutput_UnknownFormat(t *testing.T) {
	if _, err := formatOutput(nil, "xml"); err == nil {
		t.Error("expected an error for xml")
	}
}

func TestSelector_EnterChoosesHash(t *testing.T) {
	items := []list.Item{
		item{todo: types.TodoView{Hash: "h1", Line: "one"}},
		item{todo: types.TodoView{Hash: "h2", Line: "two"}},
	}
	l := list.New(items, itemDelegate{}, 80, 14)
	var m tea.Model = selectorModel{list: l}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.(selectorModel).choice; got != "h2" {
		t.Errorf("choice = %q, want h2", got)
	}
}
