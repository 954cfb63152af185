package todo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// maxFileStates bounds the modification history kept per file
const maxFileStates = 200

// Update states of a tracked file
const (
	UpdateNoGoal      = "no_goal"
	UpdateOK          = "ok"
	UpdateNeedsUpdate = "needs_update"
)

// Source is one file served by the todo server
type Source struct {
	File
	Name string
	// AutoProject tags every task of the file with a project
	AutoProject string
	// FrequencyGoal is how often the file should be modified; zero disables the goal
	FrequencyGoal time.Duration
	// TrackOnly sources are watched for modifications but hold no todos
	TrackOnly bool
}

// DisplayName returns Name, or the path when unnamed
func (s Source) DisplayName() string {
	if s.Name == "" {
		return s.Path
	}
	return s.Name
}

// Entry is a task together with the auto project of the file it came from
type Entry struct {
	Task
	AutoProject string
}

// ShowAutoProject reports whether the auto project is not already one of the task's projects
func (e Entry) ShowAutoProject() bool {
	return e.AutoProject != "" && !contains(e.Projects, strings.ToLower(e.AutoProject))
}

// SubjectWithAutoProject prefixes the subject with +AutoProject when it is shown
func (e Entry) SubjectWithAutoProject() string {
	if !e.ShowAutoProject() {
		return e.Subject
	}
	return "+" + e.AutoProject + " " + e.Subject
}

// LoadEntries reads the tasks of every todo source
func LoadEntries(sources []Source) ([]Entry, error) {
	var entries []Entry
	for _, src := range sources {
		if src.TrackOnly {
			continue
		}
		tasks, err := src.Load()
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			entries = append(entries, Entry{Task: t, AutoProject: src.AutoProject})
		}
	}
	return entries, nil
}

// CountUnfinished counts entries that are not finished
func CountUnfinished(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if !e.Finished {
			n++
		}
	}
	return n
}

// FileState is one observed size and modification time of a file
type FileState struct {
	ModTime time.Time `yaml:"modification_time"`
	Size    int64     `yaml:"size"`
}

type fileStateCache struct {
	States []FileState `yaml:"states"`
}

// MetaPath is where the modification history of the file is kept
func (f File) MetaPath() string {
	return f.Path + ".meta.yaml"
}

// TrackModifications appends the file's current state to its history when it
// changed since the last observation and returns the history, oldest first.
// A missing file has no history.
func (f File) TrackModifications() ([]FileState, error) {
	info, err := os.Stat(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", f.Path, err)
	}

	var cache fileStateCache
	data, err := os.ReadFile(f.MetaPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cache); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", filepath.Base(f.MetaPath()), err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", f.MetaPath(), err)
	}

	current := FileState{ModTime: info.ModTime(), Size: info.Size()}
	if n := len(cache.States); n > 0 {
		last := cache.States[n-1]
		if last.ModTime.Equal(current.ModTime) && last.Size == current.Size {
			return cache.States, nil
		}
	}

	cache.States = append(cache.States, current)
	if extra := len(cache.States) - maxFileStates; extra > 0 {
		cache.States = cache.States[extra:]
	}

	out, err := yaml.Marshal(cache)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file history: %w", err)
	}
	if err := os.WriteFile(f.MetaPath(), out, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", f.MetaPath(), err)
	}
	return cache.States, nil
}

// UpdateState compares the last modification against goal
func UpdateState(states []FileState, goal time.Duration, now time.Time) string {
	if goal <= 0 {
		return UpdateNoGoal
	}
	if len(states) == 0 || now.Sub(states[len(states)-1].ModTime) > goal {
		return UpdateNeedsUpdate
	}
	return UpdateOK
}
