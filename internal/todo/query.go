package todo

import (
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/todoui/internal/types"
)

// Sort orders accepted by Filter. The default orders by due urgency, then priority.
const (
	SortCreateDate = "create_date"
	SortDue        = "due"
	SortFile       = "file"
)

// Today returns the current local date; tests replace it
var Today = func() time.Time {
	return truncateDay(time.Now())
}

// IsValidSort reports whether by names a known sort order; empty means the default
func IsValidSort(by string) bool {
	switch by {
	case "", SortCreateDate, SortDue, SortFile:
		return true
	}
	return false
}

// Filter applies a TodoQuery: entries are ordered by due urgency and priority,
// narrowed by context, project (including the source's auto project) and search,
// then re-sorted when a sort order is requested.
func Filter(entries []Entry, q types.TodoQuery) []Entry {
	out := make([]Entry, 0, len(entries))
	out = append(out, entries...)

	if q.SortBy != SortFile {
		today := Today()
		sort.SliceStable(out, func(i, j int) bool {
			a, b := dueRank(out[i].Task, today), dueRank(out[j].Task, today)
			if a != b {
				return a < b
			}
			return out[i].Priority < out[j].Priority
		})
	}

	context := strings.ToLower(q.Context)
	project := strings.ToLower(q.Project)
	kept := out[:0]
	for _, e := range out {
		if context != "" && !contains(e.Contexts, context) {
			continue
		}
		if project != "" && !contains(e.Projects, project) && !strings.EqualFold(e.AutoProject, project) {
			continue
		}
		if q.Search != "" && !q.Fuzzy && !strings.Contains(e.Subject, q.Search) {
			continue
		}
		kept = append(kept, e)
	}
	out = kept

	if q.Search != "" && q.Fuzzy {
		lines := make([]string, len(out))
		for i, e := range out {
			lines[i] = e.String()
		}
		// fuzzy ranks by score; keep the current order instead
		out = keepOrder(out, fuzzy.Find(q.Search, lines))
	}

	switch q.SortBy {
	case SortCreateDate:
		sort.SliceStable(out, func(i, j int) bool {
			return dateBefore(out[i].CreateDate, out[j].CreateDate)
		})
	case SortDue:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}
	return out
}

// dueRank puts overdue tasks first, then tasks due today. Finished tasks and
// tasks due later or never share the last rank.
func dueRank(t Task, today time.Time) int {
	if t.Finished || t.DueDate == nil {
		return 0
	}
	due := truncateDay(*t.DueDate)
	switch {
	case due.Before(today):
		return -2
	case due.Equal(today):
		return -1
	default:
		return 0
	}
}

// dateBefore orders missing dates first
func dateBefore(a, b *time.Time) bool {
	switch {
	case b == nil:
		return false
	case a == nil:
		return true
	default:
		return a.Before(*b)
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func keepOrder(entries []Entry, matches fuzzy.Matches) []Entry {
	hit := make(map[int]bool, len(matches))
	for _, m := range matches {
		hit[m.Index] = true
	}
	out := make([]Entry, 0, len(matches))
	for i, e := range entries {
		if hit[i] {
			out = append(out, e)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// View converts an entry to its wire representation. A source's auto project
// is shown as a leading +project unless the task already names it.
func View(e Entry) types.TodoView {
	t := e.Task
	v := types.TodoView{
		Hash:     t.Hash(),
		Line:     t.String(),
		Subject:  strings.TrimSpace(e.SubjectWithAutoProject()),
		Priority: t.PriorityLabel(),
		Finished: t.Finished,
		Contexts: t.Contexts,
		Projects: t.Projects,
		Hashtags: t.Hashtags,
		Links:    t.Links(),
	}
	if e.ShowAutoProject() {
		v.AutoProject = e.AutoProject
		v.Projects = append([]string{strings.ToLower(e.AutoProject)}, t.Projects...)
	}
	if t.DueDate != nil {
		v.Due = t.DueDate.Format(DateLayout)
	}
	if t.CreateDate != nil {
		v.Created = t.CreateDate.Format(DateLayout)
	}
	if len(t.Tags) > 0 {
		v.Tags = t.Tags
	}
	return v
}
