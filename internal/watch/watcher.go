// Package watch monitors the input directory and hands new or modified
// Word and Excel files to a handler.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klytics/fontkit/internal/logger"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 500 * time.Millisecond

// Config holds the watcher configuration.
type Config struct {
	Dir      string        `json:"dir"`
	Debounce time.Duration `json:"debounce"`

	// Extensions to react to, lowercase with the dot. Defaults to .docx and .xlsx.
	Extensions []string `json:"extensions,omitempty"`
}

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Event represents a file event that was detected and processed.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"` // "processed", "error"
	Error     string    `json:"error,omitempty"`
}

// Status represents the current watcher status.
type Status struct {
	Running    bool   `json:"running"`
	Dir        string `json:"dir"`
	EventCount int    `json:"eventCount"`
	StartedAt  string `json:"startedAt,omitempty"`
}

// Watcher monitors a directory for file changes.
type Watcher struct {
	Config  Config
	Handler Handler

	mu        sync.Mutex
	events    []Event
	watcher   *fsnotify.Watcher
	debounce  map[string]*time.Timer
	startedAt time.Time
	running   bool
}

// New creates a Watcher. Call Start to begin watching.
func New(config Config, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".docx", ".xlsx"}
	}

	return &Watcher{
		Config:   config,
		Handler:  handler,
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start watches the configured directory. It blocks until the context is
// cancelled; pending debounced files are dropped on exit.
func (w *Watcher) Start(ctx context.Context) error {
	absDir, err := filepath.Abs(w.Config.Dir)
	if err != nil {
		return fmt.Errorf("could not resolve %s: %w", w.Config.Dir, err)
	}
	if err := w.watcher.Add(absDir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", absDir, err)
	}

	w.mu.Lock()
	w.running = true
	w.startedAt = time.Now()
	w.mu.Unlock()

	logger.Info("watching directory", "dir", absDir, "debounce", w.Config.Debounce)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watcher", "dir", absDir)
			w.stop()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.stop()
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.stop()
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
}

// Matches reports whether path is a file the watcher reacts to.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	// Office lock files and hidden temp files
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range w.Config.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Only process create and write events
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if !w.Matches(path) {
		return
	}

	// Debounce: editors write in several steps; wait for the file to settle.
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	op := event.Op.String()
	w.debounce[path] = time.AfterFunc(w.Config.Debounce, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.processFile(ctx, path, op)
	})
	w.mu.Unlock()
}

func (w *Watcher) processFile(ctx context.Context, path, operation string) {
	evt := Event{
		Time:      time.Now(),
		Path:      path,
		Operation: operation,
		Status:    "processed",
	}

	if w.Handler != nil {
		if err := w.Handler(ctx, path); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			logger.Error("could not process watched file", "path", path, "error", err)
		} else {
			logger.Debug("processed watched file", "path", path)
		}
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// GetStatus returns the current watcher status.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Status{
		Running:    w.running,
		Dir:        w.Config.Dir,
		EventCount: len(w.events),
	}
	if !w.startedAt.IsZero() {
		s.StartedAt = w.startedAt.Format(time.RFC3339)
	}
	return s
}

// GetEvents returns all recorded events.
func (w *Watcher) GetEvents() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
