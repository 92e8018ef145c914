// Package formats holds the types shared by the .docx and .xlsx font rewriters.
package formats

import (
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultFontName is the family applied when none is configured.
	DefaultFontName = "Times New Roman"
	// DefaultFontSize is the point size applied when none is configured.
	DefaultFontSize = 12.0

	// MinFontSize and MaxFontSize bound the point sizes Word and Excel accept.
	MinFontSize = 1.0
	MaxFontSize = 409.0
)

// FontSpec is the target font written to every text-bearing node.
type FontSpec struct {
	Name string  `json:"name" yaml:"name"`
	Size float64 `json:"size" yaml:"size"` // points
}

// DefaultFontSpec returns Times New Roman at 12pt.
func DefaultFontSpec() FontSpec {
	return FontSpec{Name: DefaultFontName, Size: DefaultFontSize}
}

// Validate reports whether s can be written to a document.
func (s FontSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("font name is empty — set font.name or pass --font")
	}
	if math.IsNaN(s.Size) || s.Size < MinFontSize || s.Size > MaxFontSize {
		return fmt.Errorf("invalid font size %v — expected %g to %g points", s.Size, MinFontSize, MaxFontSize)
	}
	return nil
}

// HalfPoints returns the size in the half-point units used by WordprocessingML.
func (s FontSpec) HalfPoints() int {
	return int(math.Round(s.Size * 2))
}

func (s FontSpec) String() string {
	return fmt.Sprintf("%s %gpt", s.Name, s.Size)
}

// LoadError means the source document could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError means the rewritten document could not be written.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("could not save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
