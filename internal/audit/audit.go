// Package audit keeps an optional JSON-lines journal of processed files.
package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one journal record.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Machine    string    `json:"machine,omitempty"`
	Input      string    `json:"input"`
	Output     string    `json:"output,omitempty"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Font       string    `json:"font,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Logger appends entries to a journal file.
type Logger struct {
	FilePath string
	Enabled  bool

	mu      sync.Mutex
	machine string
}

// NewLogger creates a Logger. An empty path yields a disabled logger.
func NewLogger(filePath string) *Logger {
	host, _ := os.Hostname()
	return &Logger{
		FilePath: filePath,
		Enabled:  filePath != "",
		machine:  host,
	}
}

// Log appends a single entry. Best-effort: journal failures never fail a batch.
func (l *Logger) Log(_ context.Context, entry Entry) error {
	if l == nil || !l.Enabled || l.FilePath == "" {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Machine == "" {
		entry.Machine = l.machine
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	defer f.Close()

	_, _ = f.Write(data)
	return nil
}

// ReadEntries reads all entries from the journal file.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FilterEntries returns entries matching the given criteria. Zero values match everything.
func FilterEntries(entries []Entry, since, until time.Time, kind, status string) []Entry {
	var result []Entry
	for _, e := range entries {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && e.Timestamp.After(until) {
			continue
		}
		if kind != "" && e.Kind != kind {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		result = append(result, e)
	}
	return result
}

// LogSize returns the size of the journal in bytes, or 0 if not found.
func LogSize(filePath string) int64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Clear truncates the journal file.
func Clear(filePath string) error {
	return os.Truncate(filePath, 0)
}
