package todo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/studiowebux/todoui/internal/types"
)

func writeTodo(t *testing.T, content string) File {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return File{Path: path, BackupDir: filepath.Join(dir, "backups")}
}

func TestFile_Load(t *testing.T) {
	f := writeTodo(t, "(A) first\n\nsecond @home\nx done thing\n")

	tasks, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
}

func TestFile_LoadMissing(t *testing.T) {
	f := File{Path: filepath.Join(t.TempDir(), "nope.txt")}
	tasks, err := f.Load()
	if err != nil || len(tasks) != 0 {
		t.Errorf("Load() = %v, %v; want empty, nil", tasks, err)
	}
}

func TestFile_MarkCompleted(t *testing.T) {
	f := writeTodo(t, "first\nsecond @home\n")
	task, _ := Parse("second @home")

	newHash, err := f.MarkCompleted(task.Hash(), true)
	if err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	if newHash == task.Hash() {
		t.Error("new hash should differ")
	}

	data, _ := os.ReadFile(f.Path)
	if string(data) != "first\nx second @home\n" {
		t.Errorf("file = %q", string(data))
	}

	backups, _ := os.ReadDir(f.BackupDir)
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}

	// Undo with the new hash restores the original identity
	restored, err := f.MarkCompleted(newHash, false)
	if err != nil {
		t.Fatal(err)
	}
	if restored != task.Hash() {
		t.Errorf("restored hash = %q, want %q", restored, task.Hash())
	}
}

func TestFile_MarkCompletedNotFound(t *testing.T) {
	f := writeTodo(t, "first\n")
	if _, err := f.MarkCompleted("deadbeef", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFile_ArchiveFinished(t *testing.T) {
	f := writeTodo(t, "x one\ntwo\nx three\n")
	done := File{Path: filepath.Join(filepath.Dir(f.Path), "done.txt")}

	n, err := f.ArchiveFinished(done)
	if err != nil {
		t.Fatalf("ArchiveFinished() error = %v", err)
	}
	if n != 2 {
		t.Errorf("archived = %d, want 2", n)
	}

	todoData, _ := os.ReadFile(f.Path)
	doneData, _ := os.ReadFile(done.Path)
	if string(todoData) != "two\n" {
		t.Errorf("todo.txt = %q", todoData)
	}
	if !strings.Contains(string(doneData), "x one") || !strings.Contains(string(doneData), "x three") {
		t.Errorf("done.txt = %q", doneData)
	}

	n, err = f.ArchiveFinished(done)
	if err != nil || n != 0 {
		t.Errorf("second archive = %d, %v; want 0, nil", n, err)
	}
}

func TestFilter(t *testing.T) {
	var entries []Entry
	for _, line := range []string{"x (A) done @home", "(C) mow lawn @home +garden", "(B) email bob @work", "buy milk @home"} {
		task, _ := Parse(line)
		entries = append(entries, Entry{Task: task})
	}

	got := Filter(entries, types.TodoQuery{Context: "HOME"})
	if len(got) != 3 {
		t.Fatalf("context filter = %d tasks, want 3", len(got))
	}
	// nothing is due, so priority alone decides; finished tasks are not demoted
	if got[0].Subject != "done @home" || got[1].Subject != "mow lawn @home +garden" {
		t.Errorf("unexpected order: %v", got)
	}

	got = Filter(entries, types.TodoQuery{Project: "garden"})
	if len(got) != 1 {
		t.Errorf("project filter = %d tasks, want 1", len(got))
	}

	got = Filter(entries, types.TodoQuery{Search: "buy", SortBy: SortFile})
	if len(got) != 1 || got[0].Subject != "buy milk @home" {
		t.Errorf("search = %v", got)
	}

	got = Filter(entries, types.TodoQuery{Search: "bml", Fuzzy: true, SortBy: SortFile})
	if len(got) != 1 || got[0].Subject != "buy milk @home" {
		t.Errorf("fuzzy search = %v", got)
	}
}

func TestFilter_DueUrgency(t *testing.T) {
	today := Today
	Today = func() time.Time { return time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Today = today })

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "overdue beats priority",
			lines: []string{"(A) later due:2026-06-01", "(C) overdue due:2026-05-01", "(B) plain"},
			want:  []string{"overdue", "later", "plain"},
		},
		{
			name:  "due today after overdue",
			lines: []string{"(A) today due:2026-05-10", "(Z) overdue due:2026-05-09"},
			want:  []string{"overdue", "today"},
		},
		{
			name:  "finished tasks ignore their due date",
			lines: []string{"(B) open", "x (A) closed due:2026-01-01"},
			want:  []string{"closed", "open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []Entry
			for _, line := range tt.lines {
				task, err := Parse(line)
				if err != nil {
					t.Fatal(err)
				}
				entries = append(entries, Entry{Task: task})
			}

			got := Filter(entries, types.TodoQuery{})
			for i, want := range tt.want {
				if got[i].Subject != want {
					t.Errorf("got[%d] = %q, want %q", i, got[i].Subject, want)
				}
			}
		})
	}
}

func TestFilter_AutoProject(t *testing.T) {
	task, _ := Parse("water plants")
	tagged, _ := Parse("fix sink +house")
	entries := []Entry{
		{Task: task, AutoProject: "house"},
		{Task: tagged, AutoProject: "house"},
		{Task: task},
	}

	got := Filter(entries, types.TodoQuery{Project: "house"})
	if len(got) != 2 {
		t.Fatalf("project filter = %d entries, want 2", len(got))
	}

	if s := entries[0].SubjectWithAutoProject(); s != "+house water plants" {
		t.Errorf("SubjectWithAutoProject() = %q", s)
	}
	if s := entries[1].SubjectWithAutoProject(); s != "fix sink +house" {
		t.Errorf("already tagged subject = %q", s)
	}

	v := View(entries[0])
	if v.AutoProject != "house" || len(v.Projects) != 1 || v.Projects[0] != "house" {
		t.Errorf("View() = %+v", v)
	}
	if v.Hash != task.Hash() {
		t.Error("auto project must not change the hash")
	}
}
