// Package xlsx rewrites cell fonts in .xlsx (Excel) workbooks and provides
// helpers to inspect and generate such workbooks.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/fontkit/internal/formats"
	"github.com/klytics/fontkit/internal/logger"
)

// Result summarizes a rewrite.
type Result struct {
	Sheets        int    `json:"sheets"`
	Cells         int    `json:"cells"`
	RichTextCells int    `json:"richTextCells,omitempty"`
	OutputPath    string `json:"output,omitempty"`
}

// RewriteFontFile replaces the font of every non-empty cell of every sheet
// in src with spec and saves the workbook to dst. The rest of each cell
// style (fill, border, number format, alignment) is kept and empty cells are
// not touched. Values and formulas are never modified.
//
// Open and parse failures are *formats.LoadError, write failures
// *formats.SaveError. Callers decide whether a failure stops a batch.
func RewriteFontFile(src, dst string, spec formats.FontSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(src); err != nil {
		return nil, &formats.LoadError{Path: src, Err: err}
	}

	f, err := excelize.OpenFile(src)
	if err != nil {
		return nil, &formats.LoadError{Path: src, Err: fmt.Errorf("is this a valid .xlsx file? %w", err)}
	}
	defer f.Close()
	logger.Info("opened Excel file", "path", src)

	res, err := rewriteWorkbook(f, spec)
	if err != nil {
		return nil, &formats.LoadError{Path: src, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, &formats.SaveError{Path: dst, Err: err}
	}
	if err := f.SaveAs(dst); err != nil {
		return nil, &formats.SaveError{Path: dst, Err: err}
	}

	res.OutputPath = dst
	logger.Info("processed Excel file", "source", src, "path", dst, "cells", res.Cells)
	return res, nil
}

func rewriteWorkbook(f *excelize.File, spec formats.FontSpec) (*Result, error) {
	res := &Result{}
	rw := &styleRewriter{file: f, spec: spec, derived: make(map[int]int)}

	for _, sheet := range f.GetSheetList() {
		cells, err := populatedCells(f, sheet)
		if err != nil {
			return nil, err
		}
		res.Sheets++

		for _, cell := range cells {
			rich, err := rw.rewriteRichText(sheet, cell.name)
			if err != nil {
				return nil, fmt.Errorf("could not rewrite rich text in %s!%s: %w", sheet, cell.name, err)
			}
			if rich {
				res.RichTextCells++
			}

			if err := rw.rewriteCell(sheet, cell.name); err != nil {
				return nil, fmt.Errorf("could not restyle %s!%s: %w", sheet, cell.name, err)
			}
			res.Cells++
		}
	}
	return res, nil
}

// styleRewriter derives one new style per source style index so cells that
// shared a style keep sharing one.
type styleRewriter struct {
	file    *excelize.File
	spec    formats.FontSpec
	derived map[int]int
}

func (rw *styleRewriter) font() *excelize.Font {
	return &excelize.Font{Family: rw.spec.Name, Size: rw.spec.Size}
}

func (rw *styleRewriter) rewriteCell(sheet, cell string) error {
	styleID, err := rw.file.GetCellStyle(sheet, cell)
	if err != nil {
		return err
	}

	newID, ok := rw.derived[styleID]
	if !ok {
		style, err := rw.file.GetStyle(styleID)
		if err != nil {
			return fmt.Errorf("could not read style %d: %w", styleID, err)
		}
		style.Font = rw.font()
		newID, err = rw.file.NewStyle(style)
		if err != nil {
			return fmt.Errorf("could not create style: %w", err)
		}
		rw.derived[styleID] = newID
	}

	return rw.file.SetCellStyle(sheet, cell, cell, newID)
}

// rewriteRichText replaces the run fonts of a rich-text cell, which would
// otherwise override the cell font. Plain cells report false.
func (rw *styleRewriter) rewriteRichText(sheet, cell string) (bool, error) {
	runs, err := rw.file.GetCellRichText(sheet, cell)
	if err != nil {
		return false, err
	}
	if !isRichText(runs) {
		return false, nil
	}
	for i := range runs {
		runs[i].Font = rw.font()
	}
	return true, rw.file.SetCellRichText(sheet, cell, runs)
}

// isRichText reports whether runs carry formatting. A plain shared string
// comes back as a single run without a font.
func isRichText(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}
