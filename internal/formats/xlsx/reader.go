package xlsx

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/fontkit/internal/formats"
)

// CellFont describes the font a populated cell renders with.
type CellFont struct {
	Sheet    string  `json:"sheet"`
	Cell     string  `json:"cell"`
	Value    string  `json:"value"`
	Family   string  `json:"family,omitempty"` // "" when the style inherits the workbook default
	Size     float64 `json:"size,omitempty"`
	StyleID  int     `json:"styleId"`
	RichText bool    `json:"richText,omitempty"`

	// Fonts declared by rich-text runs, in run order.
	RunFamilies []string `json:"runFamilies,omitempty"`
}

// Matches reports whether the cell (and every rich-text run) carries spec.
func (c CellFont) Matches(spec formats.FontSpec) bool {
	if c.Family != spec.Name || c.Size != spec.Size {
		return false
	}
	for _, f := range c.RunFamilies {
		if f != spec.Name {
			return false
		}
	}
	return true
}

// Report lists the populated cells of a workbook, sheet by sheet in row order.
type Report struct {
	Sheets []string   `json:"sheets"`
	Cells  []CellFont `json:"cells"`
}

// Mismatches returns the cells that do not carry spec.
func (r *Report) Mismatches(spec formats.FontSpec) []CellFont {
	var out []CellFont
	for _, c := range r.Cells {
		if !c.Matches(spec) {
			out = append(out, c)
		}
	}
	return out
}

// Families counts cells per font family.
func (r *Report) Families() map[string]int {
	counts := make(map[string]int)
	for _, c := range r.Cells {
		counts[c.Family]++
	}
	return counts
}

// ReadCellFontsFile reads the cell fonts of the .xlsx file at path.
func ReadCellFontsFile(path string) (*Report, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	return readCellFonts(f)
}

// ReadCellFonts reads the cell fonts of raw .xlsx bytes.
func ReadCellFonts(data []byte) (*Report, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return readCellFonts(f)
}

func readCellFonts(f *excelize.File) (*Report, error) {
	report := &Report{}

	for _, sheet := range f.GetSheetList() {
		report.Sheets = append(report.Sheets, sheet)

		cells, err := populatedCells(f, sheet)
		if err != nil {
			return nil, err
		}
		for _, cell := range cells {
			cf, err := cellFont(f, sheet, cell.name)
			if err != nil {
				return nil, err
			}
			cf.Value = cell.value
			report.Cells = append(report.Cells, cf)
		}
	}

	return report, nil
}

func cellFont(f *excelize.File, sheet, cell string) (CellFont, error) {
	cf := CellFont{Sheet: sheet, Cell: cell}

	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return cf, fmt.Errorf("could not read style of %s!%s: %w", sheet, cell, err)
	}
	cf.StyleID = styleID

	style, err := f.GetStyle(styleID)
	if err != nil {
		return cf, fmt.Errorf("could not read style %d: %w", styleID, err)
	}
	if style.Font != nil {
		cf.Family = style.Font.Family
		cf.Size = style.Font.Size
	}

	runs, err := f.GetCellRichText(sheet, cell)
	if err != nil {
		return cf, fmt.Errorf("could not read rich text of %s!%s: %w", sheet, cell, err)
	}
	if isRichText(runs) {
		cf.RichText = true
		for _, run := range runs {
			family := ""
			if run.Font != nil {
				family = run.Font.Family
			}
			cf.RunFamilies = append(cf.RunFamilies, family)
		}
	}
	return cf, nil
}
