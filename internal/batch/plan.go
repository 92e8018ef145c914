package batch

import (
	"path/filepath"

	"github.com/klytics/fontkit/internal/fs"
)

// PlannedFile is one input file and the output a batch would write for it.
type PlannedFile struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Kind   Kind   `json:"kind,omitempty"`
	Size   int64  `json:"size"`
	// Collides is set when an earlier input maps to the same output path.
	Collides bool `json:"collides,omitempty"`
}

// Plan lists the files ProcessAll would visit in inputDir, in processing
// order, without reading or writing any of them. Unsupported files have an
// empty Kind.
func (d *Dispatcher) Plan(inputDir, outputDir string) ([]PlannedFile, error) {
	files, err := fs.ListDir(inputDir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	plan := make([]PlannedFile, 0, len(files))
	for _, f := range files {
		p := PlannedFile{Input: f.Path, Size: f.Size}
		if kind, ok := KindOf(f.Name); ok {
			p.Kind = kind
			p.Output = filepath.Join(outputDir, OutputName(f.Name, kind, d.opts.SanitizeNames))
			p.Collides = seen[p.Output]
			seen[p.Output] = true
		}
		plan = append(plan, p)
	}
	return plan, nil
}
