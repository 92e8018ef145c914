// Package docx rewrites run-level fonts in .docx (OOXML) files and provides
// helpers to inspect and generate such files.
package docx

import (
	"fmt"
	"os"
	"strconv"

	"github.com/beevik/etree"

	"github.com/klytics/fontkit/internal/formats"
	"github.com/klytics/fontkit/internal/logger"
)

const (
	wordprocessingNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	strictWordprocessingNS = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

// fontAttrs are the rFonts script slots that receive the target family:
// default (ascii), high-ANSI and complex script.
var fontAttrs = []string{"ascii", "hAnsi", "cs"}

// rPrOrder is the CT_RPr child sequence. New children are inserted at their
// schema position so Word does not reject the part.
var rPrOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike",
	"dstrike", "outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid",
	"vanish", "webHidden", "color", "spacing", "w", "kern", "position", "sz",
	"szCs", "highlight", "u", "effect", "bdr", "shd", "fitText", "vertAlign",
	"rtl", "cs", "em", "lang", "eastAsianLayout", "specVanish", "oMath",
}

// runOrder puts rPr ahead of all run content.
var runOrder = []string{"rPr"}

// Result summarizes a rewrite.
type Result struct {
	Paragraphs int    `json:"paragraphs"`
	Tables     int    `json:"tables"`
	Runs       int    `json:"runs"`
	OutputPath string `json:"output,omitempty"`
}

// RewriteFontFile sets the font family and size of every run in the body
// paragraphs and table cells of src and writes the result to dst.
// Open and parse failures are *formats.LoadError, write failures
// *formats.SaveError.
func RewriteFontFile(src, dst string, spec formats.FontSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, &formats.LoadError{Path: src, Err: err}
	}

	out, res, err := RewriteFontBytes(data, spec)
	if err != nil {
		return nil, &formats.LoadError{Path: src, Err: err}
	}

	if err := writeFile(dst, out); err != nil {
		return nil, &formats.SaveError{Path: dst, Err: err}
	}

	res.OutputPath = dst
	logger.Info("processed Word file", "source", src, "path", dst, "runs", res.Runs)
	return res, nil
}

// RewriteFontBytes applies the font rewrite to raw .docx bytes.
func RewriteFontBytes(data []byte, spec formats.FontSpec) ([]byte, *Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}

	var res *Result
	out, err := transformPart(data, documentPart, func(content []byte) ([]byte, error) {
		rewritten, r, err := rewriteDocumentXML(content, spec)
		res = r
		return rewritten, err
	})
	if err != nil {
		return nil, nil, err
	}
	return out, res, nil
}

func rewriteDocumentXML(content []byte, spec formats.FontSpec) ([]byte, *Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, nil, fmt.Errorf("XML parse error in document.xml: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("invalid .docx file — document.xml has no root element")
	}

	w := newWordML(root)
	body := w.child(root, "body")
	if body == nil {
		return nil, nil, fmt.Errorf("invalid .docx file — no body element found in document.xml")
	}

	res := &Result{}
	res.Paragraphs, res.Tables = w.walkRuns(body, func(run *etree.Element) {
		w.applyFont(run, spec)
		res.Runs++
	})

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, nil, fmt.Errorf("could not serialize document.xml: %w", err)
	}
	return out, res, nil
}

// wordML resolves WordprocessingML names against the prefixes the document
// actually declares.
type wordML struct {
	elem string // element prefix, "" when WordprocessingML is the default namespace
	attr string // attribute prefix, never empty
}

func newWordML(root *etree.Element) wordML {
	w := wordML{elem: "w", attr: "w"}
	defaultNS := false
	for _, a := range root.Attr {
		if a.Value != wordprocessingNS && a.Value != strictWordprocessingNS {
			continue
		}
		if a.Space == "xmlns" {
			w.attr = a.Key
			if !defaultNS {
				w.elem = a.Key
			}
			return w
		}
		if a.Space == "" && a.Key == "xmlns" {
			defaultNS = true
			w.elem = ""
		}
	}
	if defaultNS {
		// Attributes cannot use the default namespace; bind one.
		root.CreateAttr("xmlns:w", wordprocessingNS)
	}
	return w
}

func (w wordML) is(e *etree.Element, local string) bool {
	return e.Space == w.elem && e.Tag == local
}

func (w wordML) name(local string) string {
	if w.elem == "" {
		return local
	}
	return w.elem + ":" + local
}

func (w wordML) child(parent *etree.Element, local string) *etree.Element {
	for _, c := range parent.ChildElements() {
		if w.is(c, local) {
			return c
		}
	}
	return nil
}

func (w wordML) children(parent *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if w.is(c, local) {
			out = append(out, c)
		}
	}
	return out
}

// walkRuns visits every run of every body paragraph, then every run of every
// paragraph in every table cell, in document order.
func (w wordML) walkRuns(body *etree.Element, visit func(run *etree.Element)) (paragraphs, tables int) {
	visitParagraph := func(p *etree.Element) {
		paragraphs++
		for _, r := range w.children(p, "r") {
			visit(r)
		}
	}

	for _, p := range w.children(body, "p") {
		visitParagraph(p)
	}

	for _, tbl := range w.children(body, "tbl") {
		tables++
		for _, tr := range w.children(tbl, "tr") {
			for _, tc := range w.children(tr, "tc") {
				for _, p := range w.children(tc, "p") {
					visitParagraph(p)
				}
			}
		}
	}
	return paragraphs, tables
}

// applyFont writes the family and size as run properties and declares the
// family for all three script slots of w:rFonts. Some renderers only honor
// the rFonts declarations, so both are always written.
func (w wordML) applyFont(run *etree.Element, spec formats.FontSpec) {
	rPr := w.ensureChild(run, "rPr", runOrder)

	rFonts := w.ensureChild(rPr, "rFonts", rPrOrder)
	for _, a := range fontAttrs {
		rFonts.CreateAttr(w.attr+":"+a, spec.Name)
	}

	sz := w.ensureChild(rPr, "sz", rPrOrder)
	sz.CreateAttr(w.attr+":val", strconv.Itoa(spec.HalfPoints()))
}

// ensureChild returns the first child named local, creating it at its
// position in order when absent.
func (w wordML) ensureChild(parent *etree.Element, local string, order []string) *etree.Element {
	if c := w.child(parent, local); c != nil {
		return c
	}

	el := etree.NewElement(w.name(local))
	rank := w.rank(local, order)
	for _, sibling := range parent.ChildElements() {
		if w.siblingRank(sibling, order) > rank {
			parent.InsertChildAt(sibling.Index(), el)
			return el
		}
	}
	parent.AddChild(el)
	return el
}

// siblingRank ranks elements from other namespaces after every known child.
func (w wordML) siblingRank(e *etree.Element, order []string) int {
	if e.Space != w.elem {
		return len(order)
	}
	return w.rank(e.Tag, order)
}

func (w wordML) rank(local string, order []string) int {
	for i, name := range order {
		if name == local {
			return i
		}
	}
	return len(order)
}
