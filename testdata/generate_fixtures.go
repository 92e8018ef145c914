//go:build ignore

// This program fills a directory (default "uploads") with sample input files
// for trying fontkit by hand: go run testdata/generate_fixtures.go [dir]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klytics/fontkit/internal/formats"
	"github.com/klytics/fontkit/internal/formats/docx"
	"github.com/klytics/fontkit/internal/formats/xlsx"
)

func main() {
	dir := "uploads"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	if err := generateDocx(filepath.Join(dir, "Project Overview (draft).docx")); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating docx: %v\n", err)
		os.Exit(1)
	}
	if err := generateThaiDocx(filepath.Join(dir, "รายงาน ประจำปี.docx")); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating Thai docx: %v\n", err)
		os.Exit(1)
	}
	if err := generateXlsx(filepath.Join(dir, "revenue 2024.xlsx")); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating xlsx: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("fontkit skips this file.\n"), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing README.txt: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample inputs written to %s\n", dir)
}

func generateDocx(path string) error {
	doc := &docx.Document{
		Nodes: []docx.Node{
			{Type: docx.NodeHeading, Text: "Project Overview", Level: 1},
			{Type: docx.NodeParagraph, Runs: []docx.Run{
				{Text: "Mixed fonts: ", Font: "Arial", Size: 11},
				{Text: "Calibri bold, ", Font: "Calibri", Bold: true},
				{Text: "Courier 9pt", Font: "Courier New", Size: 9},
				{Text: " and a run without properties."},
			}},
			{Type: docx.NodeHeading, Text: "Milestones", Level: 2},
			{Type: docx.NodeTable, Children: []docx.Node{
				{Children: []docx.Node{{Text: "Phase"}, {Text: "Due"}}},
				{Children: []docx.Node{
					{Runs: []docx.Run{{Text: "Design", Italic: true, Font: "Georgia"}}},
					{Text: "Q1 2025"},
				}},
			}},
		},
	}

	data, err := docx.WriteDocument(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func generateThaiDocx(path string) error {
	doc := &docx.Document{
		Nodes: []docx.Node{
			{Type: docx.NodeHeading, Text: "รายงานประจำปี", Level: 1},
			{Type: docx.NodeParagraph, Runs: []docx.Run{
				{Text: "ยอดขายเพิ่มขึ้น ", Font: "Angsana New", Size: 14},
				{Text: "12%", Font: "Arial", Size: 10},
			}},
		},
	}

	data, err := docx.WriteDocument(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func generateXlsx(path string) error {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "Revenue",
				Rows: [][]string{
					{"Quarter", "Product", "Revenue"},
					{"Q1 2024", "Enterprise", "1250000"},
					{"Q2 2024", "Enterprise", "1380000"},
					{"Q3 2024", "", "0"},
					{"", "", ""},
					{"Total"},
				},
				Formulas: map[string]string{"C6": "SUM(C2:C4)"},
				Font:     &formats.FontSpec{Name: "Calibri", Size: 11},
				Filled:   []string{"B5"},
			},
			{
				Name: "สรุป",
				Rows: [][]string{
					{"ตัวชี้วัด", "ค่า"},
					{"รายได้รวม", "2630000"},
				},
			},
		},
	}

	return xlsx.WriteFile(wb, path)
}
