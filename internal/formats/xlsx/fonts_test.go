package xlsx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/fontkit/internal/formats"
)

var target = formats.FontSpec{Name: "Times New Roman", Size: 12}

func writeWorkbook(t *testing.T, wb *Workbook) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.xlsx")
	if err := WriteFile(wb, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func styleOf(t *testing.T, f *excelize.File, sheet, cell string) (int, *excelize.Style) {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellStyle %s: %v", cell, err)
	}
	style, err := f.GetStyle(id)
	if err != nil {
		t.Fatalf("GetStyle %d: %v", id, err)
	}
	return id, style
}

func TestRewriteFontFileEveryCell(t *testing.T) {
	src := writeWorkbook(t, &Workbook{Sheets: []Sheet{
		{
			Name: "Stock",
			Rows: [][]string{
				{"Name", "Qty"},
				{"Apple", "3"},
				{"", "orphan"},
			},
			Font: &formats.FontSpec{Name: "Arial", Size: 10},
		},
		{
			Name: "ภาษาไทย",
			Rows: [][]string{{"สวัสดี", "ครับ"}},
		},
	}})
	dst := filepath.Join(t.TempDir(), "out", "in-excel.xlsx")

	res, err := RewriteFontFile(src, dst, target)
	if err != nil {
		t.Fatalf("RewriteFontFile: %v", err)
	}
	if res.Sheets != 2 || res.Cells != 7 {
		t.Errorf("expected 2 sheets and 7 cells, got %+v", res)
	}
	if res.OutputPath != dst {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, dst)
	}

	report, err := ReadCellFontsFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Cells) != 7 {
		t.Fatalf("expected 7 populated cells, got %d", len(report.Cells))
	}
	if bad := report.Mismatches(target); len(bad) != 0 {
		t.Errorf("cells not rewritten: %+v", bad)
	}

	// source untouched
	before, err := ReadCellFontsFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if before.Families()["Arial"] != 5 {
		t.Errorf("source fonts changed: %v", before.Families())
	}
}

func TestRewriteFontFileSkipsEmptyCells(t *testing.T) {
	src := writeWorkbook(t, &Workbook{Sheets: []Sheet{{
		Name:   "Sheet1",
		Rows:   [][]string{{"left", "", "right"}},
		Filled: []string{"B1"},
	}}})
	origID, orig := styleOf(t, openWorkbook(t, src), "Sheet1", "B1")

	dst := filepath.Join(t.TempDir(), "out.xlsx")
	res, err := RewriteFontFile(src, dst, target)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cells != 2 {
		t.Errorf("expected 2 rewritten cells, got %d", res.Cells)
	}

	f := openWorkbook(t, dst)
	id, style := styleOf(t, f, "Sheet1", "B1")
	if id != origID {
		t.Errorf("empty cell style changed from %d to %d", origID, id)
	}
	if style.Font != nil && style.Font.Family == target.Name {
		t.Error("empty cell received the target font")
	}
	if orig.Fill.Pattern != style.Fill.Pattern {
		t.Errorf("empty cell fill changed: %+v -> %+v", orig.Fill, style.Fill)
	}
	if v, _ := f.GetCellValue("Sheet1", "B1"); v != "" {
		t.Errorf("empty cell gained a value: %q", v)
	}
}

func TestRewriteFontFileKeepsOtherStyle(t *testing.T) {
	src := writeWorkbook(t, &Workbook{Sheets: []Sheet{{
		Name:   "Sheet1",
		Rows:   [][]string{{"highlighted"}},
		Filled: []string{"A1"},
	}}})
	dst := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := RewriteFontFile(src, dst, target); err != nil {
		t.Fatal(err)
	}

	_, style := styleOf(t, openWorkbook(t, dst), "Sheet1", "A1")
	if style.Font == nil || style.Font.Family != target.Name || style.Font.Size != target.Size {
		t.Errorf("unexpected font: %+v", style.Font)
	}
	if style.Fill.Pattern != 1 {
		t.Errorf("fill lost: %+v", style.Fill)
	}
}

func TestRewriteFontFileSharesDerivedStyles(t *testing.T) {
	src := writeWorkbook(t, &Workbook{Sheets: []Sheet{{
		Name: "Sheet1",
		Rows: [][]string{{"a", "b"}, {"c", "d"}},
		Font: &formats.FontSpec{Name: "Arial", Size: 9},
	}}})
	dst := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := RewriteFontFile(src, dst, target); err != nil {
		t.Fatal(err)
	}

	f := openWorkbook(t, dst)
	first, _ := styleOf(t, f, "Sheet1", "A1")
	for _, cell := range []string{"B1", "A2", "B2"} {
		if id, _ := styleOf(t, f, "Sheet1", cell); id != first {
			t.Errorf("%s has style %d, want shared style %d", cell, id, first)
		}
	}
}

func TestRewriteFontFileSkipsFalsyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "falsy.xlsx")
	f := excelize.NewFile()
	source, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Family: "Arial", Size: 10}})
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]interface{}{"A1": 0, "B1": false, "D1": "x", "E1": "0", "F1": 0.0, "G1": true}
	for cell, v := range values {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	// No cached result is stored for the formula.
	if err := f.SetCellFormula("Sheet1", "C1", "A1+1"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle("Sheet1", "A1", "G1", source); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dst := filepath.Join(t.TempDir(), "out.xlsx")
	res, err := RewriteFontFile(path, dst, target)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cells != 3 {
		t.Errorf("expected D1, E1 and G1 to be rewritten, got %d cells", res.Cells)
	}

	out := openWorkbook(t, dst)
	for _, cell := range []string{"A1", "B1", "C1", "F1"} {
		if id, _ := styleOf(t, out, "Sheet1", cell); id != source {
			t.Errorf("%s style changed from %d to %d", cell, source, id)
		}
	}
	for _, cell := range []string{"D1", "E1", "G1"} {
		if _, style := styleOf(t, out, "Sheet1", cell); style.Font == nil || style.Font.Family != target.Name {
			t.Errorf("%s font not rewritten: %+v", cell, style.Font)
		}
	}

	formula, err := out.GetCellFormula("Sheet1", "C1")
	if err != nil {
		t.Fatal(err)
	}
	if formula != "A1+1" {
		t.Errorf("formula changed: %q", formula)
	}
}

func TestRewriteFontFileSparseSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.xlsx")
	f := excelize.NewFile()
	for _, cell := range []string{"A1", "AZ20000"} {
		if err := f.SetCellValue("Sheet1", cell, "value"); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	start := time.Now()
	res, err := RewriteFontFile(path, filepath.Join(t.TempDir(), "out.xlsx"), target)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cells != 2 {
		t.Errorf("expected 2 cells, got %d", res.Cells)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("sparse sheet took %s", elapsed)
	}
}

func TestRewriteFontFileRichText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rich.xlsx")
	f := excelize.NewFile()
	err := f.SetCellRichText("Sheet1", "A1", []excelize.RichTextRun{
		{Text: "bold ", Font: &excelize.Font{Bold: true, Family: "Arial"}},
		{Text: "plain"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "A2", "simple"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dst := filepath.Join(t.TempDir(), "out.xlsx")
	res, err := RewriteFontFile(path, dst, target)
	if err != nil {
		t.Fatal(err)
	}
	if res.RichTextCells != 1 {
		t.Errorf("expected 1 rich text cell, got %d", res.RichTextCells)
	}

	report, err := ReadCellFontsFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range report.Cells {
		switch c.Cell {
		case "A1":
			if !c.RichText || len(c.RunFamilies) != 2 {
				t.Fatalf("A1 should stay rich text with 2 runs: %+v", c)
			}
			if c.Value != "bold plain" {
				t.Errorf("A1 text changed: %q", c.Value)
			}
		case "A2":
			if c.RichText {
				t.Error("plain cell A2 became rich text")
			}
		}
	}
	if bad := report.Mismatches(target); len(bad) != 0 {
		t.Errorf("cells not rewritten: %+v", bad)
	}
}

func TestRewriteFontFileLoadErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(corrupt, []byte("not a zip archive"), 0644); err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"missing": filepath.Join(dir, "nope.xlsx"),
		"corrupt": corrupt,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "out.xlsx")
			_, err := RewriteFontFile(src, dst, target)
			var loadErr *formats.LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected LoadError, got %v", err)
			}
			if loadErr.Path != src {
				t.Errorf("LoadError.Path = %q", loadErr.Path)
			}
			if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
				t.Error("output must not be written on load failure")
			}
		})
	}

	_, err := RewriteFontFile(cases["missing"], filepath.Join(dir, "x.xlsx"), target)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing source should wrap os.ErrNotExist: %v", err)
	}
}

func TestRewriteFontFileSaveError(t *testing.T) {
	src := writeWorkbook(t, &Workbook{Sheets: []Sheet{{Rows: [][]string{{"x"}}}}})

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("file, not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := RewriteFontFile(src, filepath.Join(blocker, "out.xlsx"), target)
	var saveErr *formats.SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected SaveError, got %v", err)
	}
	if !strings.Contains(err.Error(), "could not save") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRewriteFontFileInvalidSpec(t *testing.T) {
	src := writeWorkbook(t, &Workbook{Sheets: []Sheet{{Rows: [][]string{{"x"}}}}})
	_, err := RewriteFontFile(src, filepath.Join(t.TempDir(), "out.xlsx"), formats.FontSpec{Name: "", Size: 12})
	if err == nil {
		t.Fatal("expected error for empty font name")
	}
}

func TestReadCellFontsFileNotFound(t *testing.T) {
	_, err := ReadCellFontsFile("/nonexistent/file.xlsx")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWriteFileDefaultSheetNames(t *testing.T) {
	path := writeWorkbook(t, &Workbook{Sheets: []Sheet{
		{Rows: [][]string{{"a"}}},
		{Rows: [][]string{{"b"}}},
	}})
	report, err := ReadCellFontsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(report.Sheets, ",") != "Sheet1,Sheet2" {
		t.Errorf("unexpected sheets: %v", report.Sheets)
	}
}
