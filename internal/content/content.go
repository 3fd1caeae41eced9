// Package content parses rich-text question HTML into a flat, ordered
// list of segments. Segments feed both the page renderer and the height
// measurer, so the walk must be deterministic and tolerant of the
// malformed markup editors tend to emit.
package content

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SegmentKind discriminates the three content shapes a question can hold.
type SegmentKind string

const (
	SegmentText    SegmentKind = "text"
	SegmentImage   SegmentKind = "image"
	SegmentFormula SegmentKind = "formula"
)

// Segment is one extracted unit of question content. For text the payload
// is the trimmed node text, for images the src attribute, and for formulas
// the verbatim outer HTML of the containing element.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Payload string      `json:"payload"`
}

// class fragments that mark an element as opaque math markup
var formulaClassMarkers = []string{"math-tex", "katex", "mathjax"}

// Extract parses html into an ordered segment list. Malformed input is
// tolerated best-effort and never produces an error. Empty or blank input
// yields exactly one empty text segment so callers can always index
// segment zero.
func Extract(raw string) []Segment {
	if strings.TrimSpace(raw) == "" {
		return []Segment{{Kind: SegmentText}}
	}

	doc, err := xhtml.Parse(strings.NewReader(raw))
	if err != nil {
		// the tokenizer only fails on reader errors, which a string
		// reader cannot produce; keep the fallback anyway
		return []Segment{{Kind: SegmentText, Payload: strings.TrimSpace(raw)}}
	}

	var segments []Segment
	walk(doc, &segments)

	if len(segments) == 0 {
		return []Segment{{Kind: SegmentText}}
	}
	return segments
}

func walk(n *xhtml.Node, out *[]Segment) {
	switch n.Type {
	case xhtml.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			*out = append(*out, Segment{Kind: SegmentText, Payload: text})
		}
		return
	case xhtml.ElementNode:
		switch n.DataAtom {
		case atom.Html, atom.Head, atom.Body:
			// wrappers synthesized by the parser around fragment input;
			// recurse through them without treating them as content
		case atom.Img:
			if src, ok := attr(n, "src"); ok && src != "" {
				*out = append(*out, Segment{Kind: SegmentImage, Payload: src})
			}
			return
		default:
			// a formula container, or anything holding one, is emitted as
			// a single opaque segment and never recursed into
			if containsFormula(n) {
				*out = append(*out, Segment{Kind: SegmentFormula, Payload: outerHTML(n)})
				return
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, out)
	}
}

// containsFormula reports whether n is a math container or has one as a
// descendant. Images inside a formula belong to the formula markup.
func containsFormula(n *xhtml.Node) bool {
	if isFormulaNode(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && containsFormula(c) {
			return true
		}
	}
	return false
}

func isFormulaNode(n *xhtml.Node) bool {
	if n.Type != xhtml.ElementNode {
		return false
	}
	if n.Data == "math" {
		return true
	}
	class, ok := attr(n, "class")
	if !ok {
		return false
	}
	class = strings.ToLower(class)
	for _, marker := range formulaClassMarkers {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return false
}

func attr(n *xhtml.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func outerHTML(n *xhtml.Node) string {
	var sb strings.Builder
	// Render only fails on writer errors; strings.Builder never does
	_ = xhtml.Render(&sb, n)
	return sb.String()
}

// SegmentsToHTML re-serializes a segment sequence. Text is escaped, image
// segments become bare img tags and formula payloads pass through verbatim.
// Extract(SegmentsToHTML(Extract(h))) reproduces the same sequence for any
// input made of the three recognized shapes.
func SegmentsToHTML(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentText:
			sb.WriteString(html.EscapeString(seg.Payload))
		case SegmentImage:
			sb.WriteString(`<img src="`)
			sb.WriteString(html.EscapeString(seg.Payload))
			sb.WriteString(`"/>`)
		case SegmentFormula:
			sb.WriteString(seg.Payload)
		}
	}
	return sb.String()
}
