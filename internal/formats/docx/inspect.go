package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klytics/fontkit/internal/formats"
)

// RunFont describes the font declarations found on one run.
type RunFont struct {
	Location string `json:"location"` // e.g. "p[2]/r[0]" or "tbl[0]/tr[1]/tc[0]/p[0]/r[3]"
	Text     string `json:"text"`
	ASCII    string `json:"ascii,omitempty"`
	HAnsi    string `json:"hAnsi,omitempty"`
	CS       string `json:"cs,omitempty"`
	EastAsia string `json:"eastAsia,omitempty"`
	Size     int    `json:"size,omitempty"` // half-points, 0 when unset

	// Element counts, used to detect duplicated property nodes.
	PropsCount int `json:"propsCount"`
	FontsCount int `json:"fontsCount"`
	SizeCount  int `json:"sizeCount"`
}

// Matches reports whether the run declares spec on every rewritten slot.
func (r RunFont) Matches(spec formats.FontSpec) bool {
	return r.ASCII == spec.Name && r.HAnsi == spec.Name && r.CS == spec.Name &&
		r.Size == spec.HalfPoints()
}

// Report lists the run fonts of a document in rewrite order.
type Report struct {
	Paragraphs int       `json:"paragraphs"`
	Tables     int       `json:"tables"`
	Runs       []RunFont `json:"runs"`
}

// Mismatches returns the runs that do not carry spec.
func (r *Report) Mismatches(spec formats.FontSpec) []RunFont {
	var out []RunFont
	for _, run := range r.Runs {
		if !run.Matches(spec) {
			out = append(out, run)
		}
	}
	return out
}

// Families counts runs per declared ascii family ("" for runs without one).
func (r *Report) Families() map[string]int {
	counts := make(map[string]int)
	for _, run := range r.Runs {
		counts[run.ASCII]++
	}
	return counts
}

// OOXML internal types for unmarshalling

type xmlParagraph struct {
	Runs []xmlRun `xml:"r"`
}

type xmlRun struct {
	Properties []xmlRunProps `xml:"rPr"`
	Text       []xmlText     `xml:"t"`
}

type xmlRunProps struct {
	Fonts []xmlRunFonts `xml:"rFonts"`
	Size  []xmlStyleVal `xml:"sz"`
}

type xmlRunFonts struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

type xmlStyleVal struct {
	Val string `xml:"val,attr"`
}

type xmlText struct {
	Value string `xml:",chardata"`
}

type xmlTable struct {
	Rows []xmlTableRow `xml:"tr"`
}

type xmlTableRow struct {
	Cells []xmlTableCell `xml:"tc"`
}

type xmlTableCell struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

// ReadRunFontsFile reads the run fonts of the .docx file at path.
func ReadRunFontsFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading %s — check file permissions or close the file if it is open in another application", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return ReadRunFonts(data)
}

// ReadRunFonts reads the run fonts of raw .docx bytes. Runs are listed in the
// same order the rewriter visits them: body paragraphs first, then tables.
func ReadRunFonts(data []byte) (*Report, error) {
	reader, err := openPackage(data)
	if err != nil {
		return nil, err
	}
	content, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}

	paragraphs, tables, err := decodeBody(content)
	if err != nil {
		return nil, err
	}

	report := &Report{Tables: len(tables)}
	for i, p := range paragraphs {
		report.addParagraph(fmt.Sprintf("p[%d]", i), p)
	}
	for ti, t := range tables {
		for ri, row := range t.Rows {
			for ci, cell := range row.Cells {
				for pi, p := range cell.Paragraphs {
					report.addParagraph(fmt.Sprintf("tbl[%d]/tr[%d]/tc[%d]/p[%d]", ti, ri, ci, pi), p)
				}
			}
		}
	}
	return report, nil
}

func (r *Report) addParagraph(loc string, p xmlParagraph) {
	r.Paragraphs++
	for i, run := range p.Runs {
		r.Runs = append(r.Runs, toRunFont(loc+"/r["+strconv.Itoa(i)+"]", run))
	}
}

func toRunFont(loc string, r xmlRun) RunFont {
	var text strings.Builder
	for _, t := range r.Text {
		text.WriteString(t.Value)
	}

	rf := RunFont{
		Location:   loc,
		Text:       text.String(),
		PropsCount: len(r.Properties),
	}
	for _, props := range r.Properties {
		rf.FontsCount += len(props.Fonts)
		rf.SizeCount += len(props.Size)
	}
	if len(r.Properties) == 0 {
		return rf
	}

	props := r.Properties[0]
	if len(props.Fonts) > 0 {
		f := props.Fonts[0]
		rf.ASCII, rf.HAnsi, rf.CS, rf.EastAsia = f.ASCII, f.HAnsi, f.CS, f.EastAsia
	}
	if len(props.Size) > 0 {
		rf.Size, _ = strconv.Atoi(props.Size[0].Val)
	}
	return rf
}

func decodeBody(data []byte) ([]xmlParagraph, []xmlTable, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	// Find the body element
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, nil, fmt.Errorf("invalid .docx file — no body element found in document.xml")
		}
		if err != nil {
			return nil, nil, fmt.Errorf("XML parse error in document.xml: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			break
		}
	}

	var (
		paragraphs []xmlParagraph
		tables     []xmlTable
	)

	// Only direct children of body are decoded; nested elements are consumed
	// by DecodeElement or Skip.
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("XML parse error: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "p":
			var p xmlParagraph
			if err := decoder.DecodeElement(&p, &se); err != nil {
				return nil, nil, fmt.Errorf("could not parse paragraph: %w", err)
			}
			paragraphs = append(paragraphs, p)
		case "tbl":
			var t xmlTable
			if err := decoder.DecodeElement(&t, &se); err != nil {
				return nil, nil, fmt.Errorf("could not parse table: %w", err)
			}
			tables = append(tables, t)
		default:
			if err := decoder.Skip(); err != nil {
				return nil, nil, err
			}
		}
	}

	return paragraphs, tables, nil
}
