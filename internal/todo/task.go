package todo

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DateLayout is the todo.txt date format
const DateLayout = "2006-01-02"

// NoPriority is the priority of a task without an (A)-(Z) marker
const NoPriority = 26

var (
	// ErrNotFound is returned when no task matches a hash
	ErrNotFound = errors.New("hash not found")
	// ErrEmptyTask is returned for lines without a subject
	ErrEmptyTask = errors.New("empty task")

	contextPattern = regexp.MustCompile(`(?:^|\s)@([\w-]+)`)
	projectPattern = regexp.MustCompile(`(?:^|\s)\+([\w-]+)`)
	hashtagPattern = regexp.MustCompile(`(?:^|\s)#([\w-]+)`)
	keywordPattern = regexp.MustCompile(` ([^\s/]+):([^\s^/]+)`)
	linkPattern    = regexp.MustCompile(`https?://[^\s<>"]+`)
	datePattern    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}) `)
)

// Task is a single todo.txt line
type Task struct {
	Subject       string
	Priority      int
	CreateDate    *time.Time
	FinishDate    *time.Time
	Finished      bool
	ThresholdDate *time.Time
	DueDate       *time.Time
	Contexts      []string
	Projects      []string
	Hashtags      []string
	Tags          map[string]string
}

// Parse parses one todo.txt line
func Parse(line string) (Task, error) {
	task := Task{Priority: NoPriority, Tags: map[string]string{}}
	rest := strings.TrimRight(line, "\r")

	if strings.HasPrefix(rest, "x ") {
		task.Finished = true
		rest = rest[2:]
	}

	if len(rest) >= 4 && rest[0] == '(' && rest[2] == ')' && rest[3] == ' ' {
		if p := rest[1]; p >= 'A' && p <= 'Z' {
			task.Priority = int(p - 'A')
		}
		rest = rest[4:]
	}

	first, rest := takeDate(rest)
	second, rest := takeDate(rest)
	if second != nil {
		task.FinishDate = first
		task.CreateDate = second
	} else {
		task.CreateDate = first
	}

	task.Contexts = collectTags(contextPattern, rest)
	task.Projects = collectTags(projectPattern, rest)
	task.Hashtags = collectTags(hashtagPattern, rest)

	task.Subject = keywordPattern.ReplaceAllStringFunc(rest, func(m string) string {
		parts := keywordPattern.FindStringSubmatch(m)
		task.Tags[parts[1]] = parts[2]
		return ""
	})

	if due, ok := task.Tags["due"]; ok {
		delete(task.Tags, "due")
		task.DueDate = parseDate(due)
	}
	if threshold, ok := task.Tags["t"]; ok {
		delete(task.Tags, "t")
		task.ThresholdDate = parseDate(threshold)
	}

	if strings.TrimSpace(task.Subject) == "" {
		return task, ErrEmptyTask
	}
	return task, nil
}

func takeDate(s string) (*time.Time, string) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, s
	}
	d := parseDate(m[1])
	if d == nil {
		return nil, s
	}
	return d, s[len(m[0]):]
}

func parseDate(s string) *time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &d
}

func collectTags(pattern *regexp.Regexp, subject string) []string {
	seen := map[string]bool{}
	var tags []string
	for _, m := range pattern.FindAllStringSubmatch(subject, -1) {
		tag := strings.ToLower(m[1])
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// String formats the task back into a todo.txt line
func (t Task) String() string {
	var sb strings.Builder

	if t.Finished {
		sb.WriteString("x ")
	}
	if t.Priority < NoPriority {
		fmt.Fprintf(&sb, "(%c) ", 'A'+t.Priority)
	}
	if t.FinishDate != nil {
		sb.WriteString(t.FinishDate.Format(DateLayout) + " ")
	}
	if t.CreateDate != nil {
		sb.WriteString(t.CreateDate.Format(DateLayout) + " ")
	}

	sb.WriteString(t.Subject)

	if t.DueDate != nil {
		sb.WriteString(" due:" + t.DueDate.Format(DateLayout))
	}
	if t.ThresholdDate != nil {
		sb.WriteString(" t:" + t.ThresholdDate.Format(DateLayout))
	}

	keys := make([]string, 0, len(t.Tags))
	for k := range t.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s:%s", k, t.Tags[k])
	}

	return sb.String()
}

// Hash identifies the task by content. Completing a task changes its hash.
func (t Task) Hash() string {
	h := fnv.New64a()
	h.Write([]byte(t.String()))
	return fmt.Sprintf("%x", h.Sum64())
}

// PriorityLabel returns "A".."Z" or "" when unset
func (t Task) PriorityLabel() string {
	if t.Priority >= NoPriority {
		return ""
	}
	return string(rune('A' + t.Priority))
}

// Links returns the URLs in the subject in order of appearance
func (t Task) Links() []string {
	return linkPattern.FindAllString(t.Subject, -1)
}
