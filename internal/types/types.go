package types

// JSONRequest is a JSON request sent to the todo server
type JSONRequest struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty" yaml:"body,omitempty"`
}

// RequestResult contains the HTTP response data
type RequestResult struct {
	Status       int               `json:"status"`
	StatusText   string            `json:"statusText"`
	Headers      map[string]string `json:"headers"`
	Body         string            `json:"body"`
	Duration     int64             `json:"duration"`     // milliseconds
	RequestSize  int               `json:"requestSize"`  // bytes
	ResponseSize int               `json:"responseSize"` // bytes
	Error        string            `json:"error,omitempty"`
}

// HistoryEntry represents a finished request recorded in the history database
type HistoryEntry struct {
	ID           string `json:"id" yaml:"id"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Method       string `json:"method" yaml:"method"`
	URL          string `json:"url" yaml:"url"`
	Body         string `json:"body,omitempty" yaml:"body,omitempty"`
	Status       int    `json:"status" yaml:"status"`
	ResponseBody string `json:"responseBody,omitempty" yaml:"responseBody,omitempty"`
	Duration     int64  `json:"duration" yaml:"duration"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// TodoUpdate is the body of POST /todos
type TodoUpdate struct {
	Hash      string `json:"hash"`
	Completed bool   `json:"completed"`
}

// TodoUpdateResponse carries the hash the todo has after the update
type TodoUpdateResponse struct {
	Hash string `json:"hash"`
}

// ArchiveResponse is returned by POST /actions/archive_finished
type ArchiveResponse struct {
	NumArchived int `json:"num_archived"`
}

// TodoView is the JSON shape of a single todo row
type TodoView struct {
	Hash        string            `json:"hash" yaml:"hash"`
	Line        string            `json:"line" yaml:"line"`
	Subject     string            `json:"subject" yaml:"subject"`
	Priority    string            `json:"priority,omitempty" yaml:"priority,omitempty"`
	Finished    bool              `json:"finished" yaml:"finished"`
	Due         string            `json:"due,omitempty" yaml:"due,omitempty"`
	Created     string            `json:"created,omitempty" yaml:"created,omitempty"`
	AutoProject string            `json:"auto_project,omitempty" yaml:"auto_project,omitempty"`
	Contexts    []string          `json:"contexts,omitempty" yaml:"contexts,omitempty"`
	Projects    []string          `json:"projects,omitempty" yaml:"projects,omitempty"`
	Hashtags    []string          `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
	Tags        map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Links       []string          `json:"links,omitempty" yaml:"links,omitempty"`
}

// FileStatus reports how recently a served file was modified against its goal
type FileStatus struct {
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	UpdateState  string `json:"update_state" yaml:"update_state"`
	LastModified string `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	Size         int64  `json:"size" yaml:"size"`
}

// TodoListResponse is returned by GET /todos
type TodoListResponse struct {
	Todos []TodoView `json:"todos" yaml:"todos"`
	// TodosCount counts unfinished todos across all files, before filtering
	TodosCount int          `json:"todos_count" yaml:"todos_count"`
	Files      []FileStatus `json:"files,omitempty" yaml:"files,omitempty"`
}

// TodoQuery narrows the todo list returned by GET /todos
type TodoQuery struct {
	Context string `json:"context,omitempty"`
	Project string `json:"project,omitempty"`
	Search  string `json:"search,omitempty"`
	SortBy  string `json:"sort_by,omitempty"`
	// Fuzzy matches Search against the whole line instead of as a substring of the subject
	Fuzzy bool `json:"fuzzy,omitempty"`
}
