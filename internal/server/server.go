// Package server serves todo.txt files over the JSON API the client talks to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/studiowebux/todoui/internal/log"
	"github.com/studiowebux/todoui/internal/todo"
	"github.com/studiowebux/todoui/internal/types"
	"golang.org/x/sync/errgroup"
)

// Config configures the todo server
type Config struct {
	Addr string
	// Sources are listed in order; finished todos of every source archive to DoneFile
	Sources   []todo.Source
	DoneFile  string
	BackupDir string
}

// Server owns the todo files and the HTTP listener
type Server struct {
	config  Config
	sources []todo.Source
	done    todo.File

	// mu serializes file reads and rewrites
	mu sync.Mutex

	httpServer *http.Server
	listener   net.Listener
}

// New creates a server for the given files
func New(config Config) *Server {
	sources := make([]todo.Source, len(config.Sources))
	for i, src := range config.Sources {
		if src.BackupDir == "" {
			src.BackupDir = config.BackupDir
		}
		sources[i] = src
	}

	return &Server{
		config:  config,
		sources: sources,
		done:    todo.File{Path: config.DoneFile, BackupDir: config.BackupDir},
	}
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(accessLog)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.handleListTodos).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.handleMarkTodo).Methods(http.MethodPost)
	r.HandleFunc("/actions/archive_finished", s.handleArchiveFinished).Methods(http.MethodPost)

	return r
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	if err := s.listen(); err != nil {
		return err
	}

	go func() {
		if err := s.serve(); err != nil {
			log.Error().Err(err).Msg("todo server error")
		}
	}()

	return nil
}

func (s *Server) listen() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", ln.Addr().String()).Int("files", len(s.sources)).Msg("todo server listening")
	return nil
}

func (s *Server) serve() error {
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is cancelled or the listener fails
func (s *Server) Run(ctx context.Context) error {
	if err := s.listen(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.serve)
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down todo server")
		return s.Stop()
	})
	return g.Wait()
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := types.TodoQuery{
		Context: params.Get("context"),
		Project: params.Get("project"),
		Search:  params.Get("search"),
		SortBy:  params.Get("sort_by"),
		Fuzzy:   params.Get("fuzzy") == "true",
	}
	if !todo.IsValidSort(q.SortBy) {
		http.Error(w, fmt.Sprintf("invalid sort_by key: '%s'", q.SortBy), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	entries, err := todo.LoadEntries(s.sources)
	files := s.fileStatuses()
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("failed to load todos")
		http.Error(w, "failed to load todos", http.StatusInternalServerError)
		return
	}

	resp := types.TodoListResponse{
		Todos:      []types.TodoView{},
		TodosCount: todo.CountUnfinished(entries),
		Files:      files,
	}
	for _, e := range todo.Filter(entries, q) {
		resp.Todos = append(resp.Todos, todo.View(e))
	}
	writeJSON(w, resp)
}

// fileStatuses records each source's modification history and reports it
// against the source's frequency goal. Caller holds s.mu.
func (s *Server) fileStatuses() []types.FileStatus {
	now := time.Now()
	statuses := make([]types.FileStatus, 0, len(s.sources))
	for _, src := range s.sources {
		states, err := src.TrackModifications()
		if err != nil {
			log.Warn().Err(err).Str("file", src.Path).Msg("failed to track file modifications")
		}

		status := types.FileStatus{
			Name:        src.DisplayName(),
			Path:        src.Path,
			UpdateState: todo.UpdateState(states, src.FrequencyGoal, now),
		}
		if n := len(states); n > 0 {
			status.LastModified = states[n-1].ModTime.Format(time.RFC3339)
			status.Size = states[n-1].Size
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func (s *Server) handleMarkTodo(w http.ResponseWriter, r *http.Request) {
	var update types.TodoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if update.Hash == "" {
		http.Error(w, "missing hash", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	newHash, err := s.markCompleted(update.Hash, update.Completed)
	s.mu.Unlock()

	switch {
	case errors.Is(err, todo.ErrNotFound):
		http.Error(w, "hash not found", http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("hash", update.Hash).Msg("failed to mark todo")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Info().Str("hash", update.Hash).Str("new_hash", newHash).Bool("completed", update.Completed).Msg("todo updated")
	writeJSON(w, types.TodoUpdateResponse{Hash: newHash})
}

// markCompleted updates the task in every source that holds it. Caller holds s.mu.
func (s *Server) markCompleted(hash string, completed bool) (string, error) {
	newHash := ""
	for _, src := range s.sources {
		if src.TrackOnly {
			continue
		}
		h, err := src.MarkCompleted(hash, completed)
		if errors.Is(err, todo.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		newHash = h
	}
	if newHash == "" {
		return "", fmt.Errorf("%w: %s", todo.ErrNotFound, hash)
	}
	return newHash, nil
}

func (s *Server) handleArchiveFinished(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n, err := s.archiveFinished()
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("failed to archive finished todos")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Info().Int("num_archived", n).Msg("archived finished todos")
	writeJSON(w, types.ArchiveResponse{NumArchived: n})
}

// archiveFinished moves finished tasks of every source to the done file. Caller holds s.mu.
func (s *Server) archiveFinished() (int, error) {
	total := 0
	for _, src := range s.sources {
		if src.TrackOnly {
			continue
		}
		n, err := src.ArchiveFinished(s.done)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
