package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/fontkit/internal/formats"
)

// Sheet is one worksheet of a generated workbook.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`

	// Formulas maps cell names to formulas, set after Rows.
	Formulas map[string]string `json:"formulas,omitempty"`

	// Font, when set, styles every populated cell of Rows.
	Font *formats.FontSpec `json:"font,omitempty"`

	// Filled lists cells that receive a solid fill style whether or not
	// they hold a value.
	Filled []string `json:"filled,omitempty"`
}

// Workbook is the input of WriteFile.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// WriteFile creates a new .xlsx file from the given workbook data.
// Empty strings in Rows leave the cell unset.
func WriteFile(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", sheetName, err)
			}
		}

		if err := writeSheet(f, sheetName, sheet); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	return nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet) error {
	fontStyle := 0
	if sheet.Font != nil {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Family: sheet.Font.Name, Size: sheet.Font.Size},
		})
		if err != nil {
			return fmt.Errorf("could not create font style: %w", err)
		}
		fontStyle = id
	}

	for rowIdx, row := range sheet.Rows {
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := f.SetCellValue(name, cellName, value); err != nil {
				return fmt.Errorf("could not set cell %s: %w", cellName, err)
			}
			if fontStyle != 0 {
				if err := f.SetCellStyle(name, cellName, cellName, fontStyle); err != nil {
					return fmt.Errorf("could not style cell %s: %w", cellName, err)
				}
			}
		}
	}

	for cellName, formula := range sheet.Formulas {
		if err := f.SetCellFormula(name, cellName, formula); err != nil {
			return fmt.Errorf("could not set formula in %s: %w", cellName, err)
		}
	}

	if len(sheet.Filled) > 0 {
		fill, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
		})
		if err != nil {
			return fmt.Errorf("could not create fill style: %w", err)
		}
		for _, cellName := range sheet.Filled {
			if err := f.SetCellStyle(name, cellName, cellName, fill); err != nil {
				return fmt.Errorf("could not style cell %s: %w", cellName, err)
			}
		}
	}
	return nil
}
