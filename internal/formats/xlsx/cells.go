package xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// populatedCell is a cell whose stored value is not empty.
type populatedCell struct {
	name  string
	value string // raw stored value
}

// populatedCells lists the non-empty cells of sheet in row-major order.
// Only cells present in the sheet data are visited. A cell is empty when its
// cached value is blank, a numeric zero or boolean FALSE; formulas without
// a cached result are empty too.
func populatedCells(f *excelize.File, sheet string) ([]populatedCell, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
	}

	var cells []populatedCell
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}

			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinates: %w", err)
			}

			empty, err := isFalsy(f, sheet, name, value)
			if err != nil {
				return nil, err
			}
			if empty {
				continue
			}
			cells = append(cells, populatedCell{name: name, value: value})
		}
	}
	return cells, nil
}

// isFalsy reports whether a stored value counts as empty: zero for numeric
// cells, FALSE for boolean cells. Text "0" is a value.
func isFalsy(f *excelize.File, sheet, name, value string) (bool, error) {
	if value != "0" && value != "FALSE" {
		if n, err := strconv.ParseFloat(value, 64); err != nil || n != 0 {
			return false, nil
		}
	}

	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false, fmt.Errorf("could not read type of %s!%s: %w", sheet, name, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return value == "0" || value == "FALSE", nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(value, 64)
		return err == nil && n == 0, nil
	}
	return false, nil
}
