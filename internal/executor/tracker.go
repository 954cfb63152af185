package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studiowebux/todoui/internal/log"
	"github.com/studiowebux/todoui/internal/types"
)

// FallbackMessage is shown when a failed request carries no body
const FallbackMessage = "An error occurred."

// ParseErrorPrefix precedes the raw body of an unparseable 200 response
const ParseErrorPrefix = "Could not parse JSON: "

// ErrRequestFailed is returned by Do when the request did not reach its continuation
var ErrRequestFailed = errors.New("request failed")

// Notifier receives user-facing failure messages
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

// Notify calls f(message)
func (f NotifierFunc) Notify(message string) { f(message) }

// Recorder stores finished requests
type Recorder interface {
	Record(req *types.JSONRequest, result *types.RequestResult) error
}

// Pending is an in-flight request handle
type Pending struct {
	ID        string
	Path      string
	StartedAt time.Time

	request   *types.JSONRequest
	onSuccess func(Response)
}

// Completion pairs a handle with the result of its network call
type Completion struct {
	Pending *Pending
	Result  *types.RequestResult
}

// Outcome is how Finish resolved a completion
type Outcome int

const (
	// OutcomeDuplicate means the handle had already been finished
	OutcomeDuplicate Outcome = iota
	OutcomeSuccess
	OutcomeParseError
	OutcomeFailure
)

// TrackerOption configures a Tracker
type TrackerOption func(*Tracker)

// WithHTTPClient sets the client used for requests
func WithHTTPClient(client *http.Client) TrackerOption {
	return func(t *Tracker) { t.client = client }
}

// WithRecorder records every finished request
func WithRecorder(r Recorder) TrackerOption {
	return func(t *Tracker) { t.recorder = r }
}

// WithTimeout bounds each request. Interactive use leaves requests unbounded.
func WithTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.client = &http.Client{Timeout: d}
	}
}

// Tracker issues JSON POSTs and keeps the set of requests still in flight
type Tracker struct {
	mu       sync.Mutex
	pending  map[string]*Pending
	baseURL  string
	client   *http.Client
	notifier Notifier
	recorder Recorder
}

// NewTracker creates a tracker posting to paths under baseURL
func NewTracker(baseURL string, notifier Notifier, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		pending:  make(map[string]*Pending),
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{},
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the server the tracker posts to
func (t *Tracker) BaseURL() string {
	return t.baseURL
}

// Send registers a pending request and returns the deferred network call.
// The handle is in the pending set before Send returns.
func (t *Tracker) Send(ctx context.Context, path string, payload any, onSuccess func(Response)) (*Pending, func() Completion) {
	req := &types.JSONRequest{
		Method: http.MethodPost,
		URL:    t.baseURL + path,
	}
	body, marshalErr := json.Marshal(payload)
	if marshalErr == nil {
		req.Body = body
	}

	p := &Pending{
		ID:        uuid.NewString(),
		Path:      path,
		StartedAt: time.Now(),
		request:   req,
		onSuccess: onSuccess,
	}

	t.mu.Lock()
	t.pending[p.ID] = p
	t.mu.Unlock()

	log.Debug().Str("id", p.ID).Str("url", req.URL).Msg("request sent")

	client := t.client
	return p, func() Completion {
		if marshalErr != nil {
			return Completion{Pending: p, Result: &types.RequestResult{
				Error: fmt.Sprintf("failed to encode payload: %v", marshalErr),
			}}
		}
		return Completion{Pending: p, Result: Execute(ctx, client, req)}
	}
}

// Finish removes the handle and resolves the completion. It reports false
// when the handle was already removed, in which case nothing else happens.
func (t *Tracker) Finish(c Completion) bool {
	return t.finish(c) != OutcomeDuplicate
}

func (t *Tracker) finish(c Completion) Outcome {
	if c.Pending == nil {
		return OutcomeDuplicate
	}

	t.mu.Lock()
	_, ok := t.pending[c.Pending.ID]
	delete(t.pending, c.Pending.ID)
	t.mu.Unlock()

	if !ok {
		return OutcomeDuplicate
	}

	result := c.Result
	if result == nil {
		result = &types.RequestResult{Error: "no result"}
	}

	log.Debug().
		Str("id", c.Pending.ID).
		Int("status", result.Status).
		Int64("duration_ms", result.Duration).
		Msg("request finished")

	if t.recorder != nil {
		if err := t.recorder.Record(c.Pending.request, result); err != nil {
			log.Warn().Err(err).Msg("failed to record request")
		}
	}

	if result.Status != http.StatusOK {
		t.notify(FailureMessage(result))
		return OutcomeFailure
	}

	resp, err := ParseResponse([]byte(result.Body))
	if err != nil {
		t.notify(ParseErrorPrefix + result.Body)
		return OutcomeParseError
	}

	if c.Pending.onSuccess != nil {
		c.Pending.onSuccess(resp)
	}
	return OutcomeSuccess
}

// FailureMessage is the text shown for a request that did not return 200
func FailureMessage(result *types.RequestResult) string {
	if strings.TrimSpace(result.Body) != "" {
		return result.Body
	}
	if result.Status == 0 && result.Error != "" {
		return fmt.Sprintf("%s (%s)", FallbackMessage, result.Error)
	}
	return FallbackMessage
}

func (t *Tracker) notify(message string) {
	log.Warn().Str("message", message).Msg("request notification")
	if t.notifier != nil {
		t.notifier.Notify(message)
	}
}

// Do sends a request and waits for it. The notifier has already seen any
// failure by the time the returned error is non-nil.
func (t *Tracker) Do(ctx context.Context, path string, payload any, onSuccess func(Response)) error {
	_, call := t.Send(ctx, path, payload, onSuccess)
	switch t.finish(call()) {
	case OutcomeSuccess:
		return nil
	case OutcomeParseError:
		return fmt.Errorf("%w: invalid JSON response from %s", ErrRequestFailed, path)
	default:
		return fmt.Errorf("%w: %s", ErrRequestFailed, path)
	}
}

// HasPending reports whether any request is in flight
func (t *Tracker) HasPending() bool {
	return t.PendingCount() > 0
}

// PendingCount returns the number of requests in flight
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Pending returns the in-flight handles, oldest first
func (t *Tracker) Pending() []*Pending {
	t.mu.Lock()
	out := make([]*Pending, 0, len(t.pending))
	for _, p := range t.pending {
		out = append(out, p)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
