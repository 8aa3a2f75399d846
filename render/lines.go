// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/lines.go
// Summary: Flattens render nodes into indented, styled text lines.

package render

import "strings"

// Style classifies a span so each front end can colour it.
type Style int

const (
	StylePlain Style = iota
	StyleLabel
	StylePlaceholder
	StyleYes
	StyleNo
	StyleCardTitle
	StyleMarker
)

// Span is a run of text with one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one display row. Indent counts nesting levels, not columns.
type Line struct {
	Indent int
	Spans  []Span
}

// Text returns the concatenated span text.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Lines flattens n. Scalars sit on the same line as their label; objects and
// cards open a nested block one level deeper.
func Lines(n Node) []Line {
	var out []Line
	appendLines(&out, n, 0)
	return out
}

func appendLines(out *[]Line, n Node, indent int) {
	switch n.Kind {
	case KindEntries:
		for _, e := range n.Entries {
			if isBlock(e.Node) {
				*out = append(*out, Line{Indent: indent, Spans: []Span{{Text: e.Label + ":", Style: StyleLabel}}})
				appendLines(out, e.Node, indent+1)
				continue
			}
			spans := append([]Span{{Text: e.Label + ": ", Style: StyleLabel}}, inlineSpans(e.Node)...)
			*out = append(*out, Line{Indent: indent, Spans: spans})
		}
	case KindCards:
		for _, card := range n.Entries {
			*out = append(*out, Line{Indent: indent, Spans: []Span{{Text: card.Label, Style: StyleCardTitle}}})
			appendLines(out, card.Node, indent+1)
		}
	default:
		*out = append(*out, Line{Indent: indent, Spans: inlineSpans(n)})
	}
}

func isBlock(n Node) bool {
	return n.Kind == KindEntries || n.Kind == KindCards
}

func inlineSpans(n Node) []Span {
	switch n.Kind {
	case KindNotProvided, KindNone:
		return []Span{{Text: n.Text, Style: StylePlaceholder}}
	case KindFlag:
		if n.Flag {
			return []Span{{Text: n.Text, Style: StyleYes}}
		}
		return []Span{{Text: n.Text, Style: StyleNo}}
	case KindTruncated:
		return []Span{{Text: n.Text, Style: StyleMarker}}
	}
	return []Span{{Text: n.Text, Style: StylePlain}}
}

// PlainText renders lines with two spaces per indent level.
func PlainText(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", l.Indent))
		b.WriteString(l.Text())
	}
	return b.String()
}
