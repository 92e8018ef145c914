package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/fontkit/internal/batch"
	"github.com/klytics/fontkit/internal/formats"
	"github.com/klytics/fontkit/internal/formats/docx"
	"github.com/klytics/fontkit/internal/formats/xlsx"
)

var target = formats.FontSpec{Name: "TH Sarabun New", Size: 16}

func sampleDocx(b *testing.B, paragraphs int) []byte {
	b.Helper()
	nodes := []docx.Node{{Type: docx.NodeHeading, Text: "Benchmark Document", Level: 1}}
	for i := 0; i < paragraphs; i++ {
		nodes = append(nodes, docx.Node{Type: docx.NodeParagraph, Runs: []docx.Run{
			{Text: "Lorem ipsum dolor sit amet, ", Font: "Arial", Size: 11},
			{Text: "consectetur adipiscing elit.", Bold: true},
		}})
	}
	nodes = append(nodes, docx.Node{Type: docx.NodeTable, Children: []docx.Node{
		{Children: []docx.Node{{Text: "Quarter"}, {Text: "Revenue"}}},
		{Children: []docx.Node{{Text: "Q1"}, {Text: "1,250"}}},
	}})

	data, err := docx.WriteDocument(&docx.Document{Nodes: nodes})
	if err != nil {
		b.Fatal(err)
	}
	return data
}

func sampleXlsx(b *testing.B, path string, rows int) {
	b.Helper()
	data := make([][]string, rows)
	for i := range data {
		data[i] = []string{fmt.Sprintf("Item %d", i), fmt.Sprint(i * 3), "", "note"}
	}
	err := xlsx.WriteFile(&xlsx.Workbook{Sheets: []xlsx.Sheet{{
		Name: "Data",
		Rows: data,
		Font: &formats.FontSpec{Name: "Calibri", Size: 11},
	}}}, path)
	if err != nil {
		b.Fatal(err)
	}
}

// --- DOCX Benchmarks ---

func BenchmarkDocxRewrite(b *testing.B) {
	data := sampleDocx(b, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := docx.RewriteFontBytes(data, target); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDocxRewriteLarge(b *testing.B) {
	data := sampleDocx(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := docx.RewriteFontBytes(data, target); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDocxReadRunFonts(b *testing.B) {
	data := sampleDocx(b, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := docx.ReadRunFonts(data); err != nil {
			b.Fatal(err)
		}
	}
}

// --- XLSX Benchmarks ---

func BenchmarkXlsxRewrite(b *testing.B) {
	dir := b.TempDir()
	src := filepath.Join(dir, "in.xlsx")
	sampleXlsx(b, src, 200)
	dst := filepath.Join(dir, "out.xlsx")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.RewriteFontFile(src, dst, target); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXlsxReadCellFonts(b *testing.B) {
	src := filepath.Join(b.TempDir(), "in.xlsx")
	sampleXlsx(b, src, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadCellFontsFile(src); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Batch Benchmarks ---

func benchmarkBatch(b *testing.B, concurrency int) {
	in := b.TempDir()
	out := b.TempDir()
	data := sampleDocx(b, 50)
	for i := 0; i < 8; i++ {
		if err := os.WriteFile(filepath.Join(in, fmt.Sprintf("doc%d.docx", i)), data, 0644); err != nil {
			b.Fatal(err)
		}
		sampleXlsx(b, filepath.Join(in, fmt.Sprintf("sheet%d.xlsx", i)), 50)
	}

	opts := batch.DefaultOptions()
	opts.Font = target
	opts.Concurrency = concurrency
	d := batch.New(opts)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.ProcessAll(context.Background(), in, out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBatchSequential(b *testing.B) { benchmarkBatch(b, 1) }

func BenchmarkBatchConcurrent(b *testing.B) { benchmarkBatch(b, 4) }
