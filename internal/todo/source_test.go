package todo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEntries(t *testing.T) {
	work := writeTodo(t, "(A) ship\nx done\n")
	notes := writeTodo(t, "not a todo list\n")

	entries, err := LoadEntries([]Source{
		{File: work, AutoProject: "work"},
		{File: notes, TrackOnly: true},
	})
	if err != nil {
		t.Fatalf("LoadEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].AutoProject != "work" {
		t.Errorf("AutoProject = %q", entries[0].AutoProject)
	}
	if n := CountUnfinished(entries); n != 1 {
		t.Errorf("CountUnfinished() = %d, want 1", n)
	}
}

func TestTrackModifications(t *testing.T) {
	f := writeTodo(t, "first\n")

	states, err := f.TrackModifications()
	if err != nil {
		t.Fatalf("TrackModifications() error = %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("len(states) = %d, want 1", len(states))
	}

	// Unchanged file: no new state
	states, err = f.TrackModifications()
	if err != nil || len(states) != 1 {
		t.Fatalf("second call = %d states, %v; want 1, nil", len(states), err)
	}

	if err := os.WriteFile(f.Path, []byte("first\nsecond\n"), 0644); err != nil {
		t.Fatal(err)
	}
	states, err = f.TrackModifications()
	if err != nil || len(states) != 2 {
		t.Fatalf("after write = %d states, %v; want 2, nil", len(states), err)
	}
	if states[1].Size != int64(len("first\nsecond\n")) {
		t.Errorf("Size = %d", states[1].Size)
	}
}

func TestTrackModifications_Bounded(t *testing.T) {
	f := writeTodo(t, "first\n")

	for i := 0; i < maxFileStates+5; i++ {
		if err := os.WriteFile(f.Path, make([]byte, i+1), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := f.TrackModifications(); err != nil {
			t.Fatal(err)
		}
	}

	states, err := f.TrackModifications()
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != maxFileStates {
		t.Errorf("len(states) = %d, want %d", len(states), maxFileStates)
	}
	if states[len(states)-1].Size != int64(maxFileStates+5) {
		t.Errorf("last state should be the newest, got size %d", states[len(states)-1].Size)
	}
}

func TestTrackModifications_Missing(t *testing.T) {
	f := File{Path: filepath.Join(t.TempDir(), "gone.txt")}
	states, err := f.TrackModifications()
	if err != nil || states != nil {
		t.Errorf("TrackModifications() = %v, %v; want nil, nil", states, err)
	}
	if _, err := os.Stat(f.MetaPath()); !os.IsNotExist(err) {
		t.Error("no history should be written for a missing file")
	}
}

func TestUpdateState(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	recent := []FileState{{ModTime: now.Add(-time.Hour)}}

	tests := []struct {
		name   string
		states []FileState
		goal   time.Duration
		want   string
	}{
		{"no goal", recent, 0, UpdateNoGoal},
		{"within goal", recent, 2 * time.Hour, UpdateOK},
		{"goal missed", recent, 30 * time.Minute, UpdateNeedsUpdate},
		{"never seen", nil, time.Hour, UpdateNeedsUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UpdateState(tt.states, tt.goal, now); got != tt.want {
				t.Errorf("UpdateState() = %q, want %q", got, tt.want)
			}
		})
	}
}
