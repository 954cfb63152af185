package todo

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantFinished bool
		wantPriority string
		wantSubject  string
		wantContexts []string
		wantProjects []string
		wantDue      string
		wantTags     map[string]string
	}{
		{
			name:        "plain",
			line:        "call mom",
			wantSubject: "call mom",
			wantTags:    map[string]string{},
		},
		{
			name:         "finished with priority and dates",
			line:         "x (B) 2024-03-02 2024-03-01 file taxes @home +admin",
			wantFinished: true,
			wantPriority: "B",
			wantSubject:  "file taxes @home +admin",
			wantContexts: []string{"home"},
			wantProjects: []string{"admin"},
			wantTags:     map[string]string{},
		},
		{
			name:         "due and custom tags",
			line:         "(A) pay rent @Home @home due:2024-04-01 rec:1m",
			wantPriority: "A",
			wantSubject:  "pay rent @Home @home",
			wantContexts: []string{"home"},
			wantDue:      "2024-04-01",
			wantTags:     map[string]string{"rec": "1m"},
		},
		{
			name:        "url is not a keyword",
			line:        "read https://example.com/post",
			wantSubject: "read https://example.com/post",
			wantTags:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if task.Finished != tt.wantFinished {
				t.Errorf("Finished = %v, want %v", task.Finished, tt.wantFinished)
			}
			if task.PriorityLabel() != tt.wantPriority {
				t.Errorf("Priority = %q, want %q", task.PriorityLabel(), tt.wantPriority)
			}
			if task.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", task.Subject, tt.wantSubject)
			}
			if !reflect.DeepEqual(task.Contexts, tt.wantContexts) {
				t.Errorf("Contexts = %v, want %v", task.Contexts, tt.wantContexts)
			}
			if !reflect.DeepEqual(task.Projects, tt.wantProjects) {
				t.Errorf("Projects = %v, want %v", task.Projects, tt.wantProjects)
			}
			gotDue := ""
			if task.DueDate != nil {
				gotDue = task.DueDate.Format(DateLayout)
			}
			if gotDue != tt.wantDue {
				t.Errorf("Due = %q, want %q", gotDue, tt.wantDue)
			}
			if !reflect.DeepEqual(task.Tags, tt.wantTags) {
				t.Errorf("Tags = %v, want %v", task.Tags, tt.wantTags)
			}
		})
	}
}

func TestParse_SingleDateIsCreateDate(t *testing.T) {
	task, err := Parse("2024-01-05 something")
	if err != nil {
		t.Fatal(err)
	}
	if task.CreateDate == nil || task.FinishDate != nil {
		t.Fatalf("CreateDate = %v, FinishDate = %v", task.CreateDate, task.FinishDate)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse("x "); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("Parse(\"x \") error = %v, want ErrEmptyTask", err)
	}
}

func TestString_RoundTrip(t *testing.T) {
	lines := []string{
		"x (B) 2024-03-02 2024-03-01 file taxes @home +admin",
		"(A) pay rent due:2024-04-01 rec:1m",
		"read https://example.com/post",
	}
	for _, line := range lines {
		task, err := Parse(line)
		if err != nil {
			t.Fatal(err)
		}
		if got := task.String(); got != line {
			t.Errorf("String() = %q, want %q", got, line)
		}
	}
}

func TestHash_ChangesWithCompletion(t *testing.T) {
	task, _ := Parse("water plants @home")
	before := task.Hash()
	if before != task.Hash() {
		t.Fatal("hash must be stable")
	}

	task.Finished = true
	if task.Hash() == before {
		t.Error("completing a task must change its hash")
	}
}

func TestLinks(t *testing.T) {
	task, _ := Parse("compare https://a.example/x and http://b.example @web")
	want := []string{"https://a.example/x", "http://b.example"}
	if got := task.Links(); !reflect.DeepEqual(got, want) {
		t.Errorf("Links() = %v, want %v", got, want)
	}
}
