// Package batch rewrites the fonts of every Word and Excel file in an input
// directory into an output directory.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klytics/fontkit/internal/audit"
	"github.com/klytics/fontkit/internal/formats"
	"github.com/klytics/fontkit/internal/formats/docx"
	"github.com/klytics/fontkit/internal/formats/xlsx"
	"github.com/klytics/fontkit/internal/fs"
	"github.com/klytics/fontkit/internal/logger"
	"github.com/klytics/fontkit/internal/progress"
)

// Policy decides what a failed file does to the rest of the batch.
type Policy string

const (
	// PolicyAbort stops the batch and returns the error.
	PolicyAbort Policy = "abort"
	// PolicyContinue logs the error and moves on to the next file.
	PolicyContinue Policy = "continue"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAbort, PolicyContinue:
		return p, nil
	}
	return "", fmt.Errorf("unknown error policy %q — supported: abort, continue", s)
}

// Kind is the document family of an input file.
type Kind string

const (
	KindWord  Kind = "word"
	KindExcel Kind = "excel"
)

// KindOf maps a file name to its kind by extension, case-insensitively.
func KindOf(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return KindWord, true
	case ".xlsx":
		return KindExcel, true
	}
	return "", false
}

// fallbackStem names outputs whose sanitized stem is empty.
const fallbackStem = "document"

// OutputName returns the output file name for name: the stem, a "-word" or
// "-excel" suffix, then the original extension.
func OutputName(name string, kind Kind, sanitize bool) string {
	var stem, ext string
	if sanitize {
		stem, ext = fs.SanitizeStem(name, fallbackStem)
	} else {
		ext = filepath.Ext(name)
		stem = strings.TrimSuffix(name, ext)
	}
	return stem + "-" + string(kind) + ext
}

// Status values of a FileResult.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// FileResult is the outcome of one input file.
type FileResult struct {
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	Kind       Kind   `json:"kind,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Nodes      int    `json:"nodes"` // runs for Word, cells for Excel
	DurationMs int64  `json:"durationMs"`
}

// Summary is the outcome of a batch.
type Summary struct {
	Results   []FileResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
}

func (s *Summary) add(r FileResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusOK:
		s.Succeeded++
	case StatusError:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Options configures a Dispatcher. Zero values fall back to the defaults.
type Options struct {
	Font          formats.FontSpec
	WordPolicy    Policy
	ExcelPolicy   Policy
	Concurrency   int
	SanitizeNames bool
	Journal       *audit.Logger
	ShowProgress  bool
}

// DefaultOptions returns Times New Roman 12pt, Word errors abort, Excel
// errors continue, one worker, sanitized names.
func DefaultOptions() Options {
	return Options{
		Font:          formats.DefaultFontSpec(),
		WordPolicy:    PolicyAbort,
		ExcelPolicy:   PolicyContinue,
		Concurrency:   1,
		SanitizeNames: true,
	}
}

// Dispatcher routes input files to the matching font rewriter.
type Dispatcher struct {
	opts Options
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	def := DefaultOptions()
	if opts.Font.Name == "" && opts.Font.Size == 0 {
		opts.Font = def.Font
	}
	if opts.WordPolicy == "" {
		opts.WordPolicy = def.WordPolicy
	}
	if opts.ExcelPolicy == "" {
		opts.ExcelPolicy = def.ExcelPolicy
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Dispatcher{opts: opts}
}

// Options returns the effective options.
func (d *Dispatcher) Options() Options {
	return d.opts
}

// ProcessAll rewrites every .docx and .xlsx file directly inside inputDir
// into outputDir, creating both directories when missing. Other files are
// skipped. The returned error is the first failure of a kind whose policy
// is PolicyAbort; the summary covers every file handled before it.
func (d *Dispatcher) ProcessAll(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	if err := d.opts.Font.Validate(); err != nil {
		return nil, err
	}
	for _, dir := range []string{inputDir, outputDir} {
		if err := fs.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}

	files, err := fs.ListDir(inputDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(files) == 0 {
		logger.Info("no files found in the input directory", "dir", inputDir)
		return summary, nil
	}

	var work []fs.FileInfo
	for _, f := range files {
		if _, ok := KindOf(f.Name); !ok {
			summary.add(FileResult{Input: f.Path, Status: StatusSkipped})
			continue
		}
		work = append(work, f)
	}

	var bar *progress.Bar
	if d.opts.ShowProgress && len(work) > 1 {
		bar = progress.New("Rewriting fonts", len(work))
	}

	results, err := d.run(ctx, work, outputDir, bar)
	for _, r := range results {
		summary.add(r)
	}
	if bar != nil {
		bar.Finish(fmt.Sprintf("%d files processed", summary.Succeeded+summary.Failed))
	}
	return summary, err
}

// run processes work in order with up to Concurrency workers. An aborting
// failure cancels files that have not started yet.
func (d *Dispatcher) run(parent context.Context, work []fs.FileInfo, outputDir string, bar *progress.Bar) ([]FileResult, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		mu       sync.Mutex
		firstErr error
		done     = make([]bool, len(work))
		results  = make([]FileResult, len(work))
	)

	handle := func(i int) {
		r, err := d.ProcessFile(ctx, work[i].Path, outputDir)
		if bar != nil {
			bar.Step(work[i].Name, r.Status == StatusOK)
		}

		mu.Lock()
		defer mu.Unlock()
		results[i], done[i] = *r, true
		if err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	if d.opts.Concurrency <= 1 {
		for i := range work {
			if ctx.Err() != nil {
				break
			}
			handle(i)
		}
	} else {
		sem := make(chan struct{}, d.opts.Concurrency)
		var wg sync.WaitGroup

		for i := range work {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(idx)
			}(i)
		}
		wg.Wait()
	}

	var out []FileResult
	for i, ok := range done {
		if ok {
			out = append(out, results[i])
		}
	}
	if firstErr == nil {
		firstErr = parent.Err()
	}
	return out, firstErr
}

// ProcessFile rewrites a single file into outputDir. Unsupported files are
// reported as skipped. A failure is returned only when the kind's policy is
// PolicyAbort; otherwise it is logged and recorded in the result.
func (d *Dispatcher) ProcessFile(ctx context.Context, path, outputDir string) (*FileResult, error) {
	name := filepath.Base(path)
	kind, ok := KindOf(name)
	if !ok {
		return &FileResult{Input: path, Status: StatusSkipped}, nil
	}

	dst := filepath.Join(outputDir, OutputName(name, kind, d.opts.SanitizeNames))
	result := &FileResult{Input: path, Output: dst, Kind: kind, Status: StatusOK}

	start := time.Now()
	nodes, err := d.rewrite(kind, path, dst)
	result.DurationMs = time.Since(start).Milliseconds()
	result.Nodes = nodes

	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		result.Output = ""
	}
	d.journal(ctx, result)

	if err == nil {
		return result, nil
	}
	if d.policy(kind) == PolicyAbort {
		return result, fmt.Errorf("%s file %s: %w", kind, name, err)
	}
	logger.Error(fmt.Sprintf("error processing %s file", kindLabel(kind)), "path", path, "error", err)
	return result, nil
}

func (d *Dispatcher) rewrite(kind Kind, src, dst string) (int, error) {
	switch kind {
	case KindWord:
		res, err := docx.RewriteFontFile(src, dst, d.opts.Font)
		if err != nil {
			return 0, err
		}
		return res.Runs, nil
	case KindExcel:
		res, err := xlsx.RewriteFontFile(src, dst, d.opts.Font)
		if err != nil {
			return 0, err
		}
		return res.Cells, nil
	}
	return 0, fmt.Errorf("unsupported kind %q", kind)
}

func (d *Dispatcher) policy(kind Kind) Policy {
	if kind == KindWord {
		return d.opts.WordPolicy
	}
	return d.opts.ExcelPolicy
}

func (d *Dispatcher) journal(ctx context.Context, r *FileResult) {
	if d.opts.Journal == nil {
		return
	}
	d.opts.Journal.Log(ctx, audit.Entry{
		Input:      r.Input,
		Output:     r.Output,
		Kind:       string(r.Kind),
		Status:     r.Status,
		Error:      r.Error,
		Font:       d.opts.Font.String(),
		DurationMs: r.DurationMs,
	})
}

func kindLabel(k Kind) string {
	if k == KindWord {
		return "Word"
	}
	return "Excel"
}
