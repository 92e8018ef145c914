// Package fs lists batch input directories and sanitizes file names.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SupportedExtensions maps the extensions the batch rewrites to a format label.
var SupportedExtensions = map[string]string{
	".docx": "Word",
	".xlsx": "Excel",
}

// FileInfo represents one regular file found in an input directory.
type FileInfo struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Extension  string    `json:"extension"` // lowercased, with leading dot
	Format     string    `json:"format,omitempty"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Supported reports whether the file has an extension the batch handles.
func (f FileInfo) Supported() bool {
	return f.Format != ""
}

// ListDir returns the regular files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func ListDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("input directory not found: %s — check that the path is correct", dir)
		}
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		if !info.Mode().IsRegular() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(e.Name()))
		files = append(files, FileInfo{
			Path:       filepath.Join(dir, e.Name()),
			Name:       e.Name(),
			Extension:  ext,
			Format:     SupportedExtensions[ext],
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	return nil
}

// FormatSize returns a human-readable file size string.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
