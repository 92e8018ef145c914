package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// NodeType identifies the kind of body block written by WriteDocument.
type NodeType int

const (
	// NodeParagraph represents a text paragraph.
	NodeParagraph NodeType = iota
	// NodeHeading represents a paragraph styled HeadingN.
	NodeHeading
	// NodeTable represents a table; Children are rows, row Children are cells.
	NodeTable
)

// Node is one block of a generated document.
type Node struct {
	Type     NodeType `json:"type"`
	Text     string   `json:"text,omitempty"`
	Level    int      `json:"level,omitempty"`
	Children []Node   `json:"children,omitempty"`
	Runs     []Run    `json:"runs,omitempty"`
}

// Run is a span of text with optional formatting.
type Run struct {
	Text   string  `json:"text"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Font   string  `json:"font,omitempty"`
	Size   float64 `json:"size,omitempty"` // points
}

// Document is the input of WriteDocument.
type Document struct {
	Nodes []Node `json:"nodes"`
}

// WriteDocument generates a minimal .docx package from doc, returning the raw bytes.
func WriteDocument(doc *Document) ([]byte, error) {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="` + wordprocessingNS + `">`)
	b.WriteString(`<w:body>`)
	for _, node := range doc.Nodes {
		writeNodeXML(&b, node)
	}
	b.WriteString(`</w:body>`)
	b.WriteString(`</w:document>`)

	return buildPackage(b.String())
}

// buildPackage wraps a document.xml part in the minimum set of package parts.
func buildPackage(documentXML string) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct{ name, body string }{
		{"[Content_Types].xml", xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
		{documentPart, documentXML},
	}

	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("could not write %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize .docx archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeNodeXML(b *strings.Builder, n Node) {
	switch n.Type {
	case NodeHeading:
		b.WriteString(`<w:p><w:pPr><w:pStyle w:val="`)
		b.WriteString(fmt.Sprintf("Heading%d", n.Level))
		b.WriteString(`"/></w:pPr>`)
		writeRunsXML(b, n)
		b.WriteString(`</w:p>`)
	case NodeParagraph:
		b.WriteString(`<w:p>`)
		writeRunsXML(b, n)
		b.WriteString(`</w:p>`)
	case NodeTable:
		b.WriteString(`<w:tbl>`)
		for _, row := range n.Children {
			b.WriteString(`<w:tr>`)
			for _, cell := range row.Children {
				b.WriteString(`<w:tc>`)
				if len(cell.Children) == 0 {
					// A cell must hold at least one paragraph.
					writeNodeXML(b, Node{Type: NodeParagraph, Text: cell.Text, Runs: cell.Runs})
				}
				for _, p := range cell.Children {
					writeNodeXML(b, p)
				}
				b.WriteString(`</w:tc>`)
			}
			b.WriteString(`</w:tr>`)
		}
		b.WriteString(`</w:tbl>`)
	}
}

func writeRunsXML(b *strings.Builder, n Node) {
	if len(n.Runs) == 0 {
		if n.Text == "" {
			return
		}
		// Write as a single unformatted run
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(n.Text))
		b.WriteString(`</w:t></w:r>`)
		return
	}
	for _, r := range n.Runs {
		b.WriteString(`<w:r>`)
		if r.Bold || r.Italic || r.Font != "" || r.Size > 0 {
			b.WriteString(`<w:rPr>`)
			if r.Font != "" {
				f := xmlEscape(r.Font)
				b.WriteString(`<w:rFonts w:ascii="` + f + `" w:hAnsi="` + f + `"/>`)
			}
			if r.Bold {
				b.WriteString(`<w:b/>`)
			}
			if r.Italic {
				b.WriteString(`<w:i/>`)
			}
			if r.Size > 0 {
				b.WriteString(fmt.Sprintf(`<w:sz w:val="%d"/>`, int(r.Size*2)))
			}
			b.WriteString(`</w:rPr>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(r.Text))
		b.WriteString(`</w:t></w:r>`)
	}
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
