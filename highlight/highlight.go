// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/highlight.go
// Summary: Chroma syntax highlighting for JSON documents.
// Usage: Lines feeds the TUI raw view; Write feeds the CLI when stdout is a terminal.

package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "catppuccin-mocha"

// Segment is a run of text sharing one screen style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Line is one source line split into styled segments.
type Line []Segment

// Text returns the line without styling.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Lines tokenises JSON source and returns it as styled lines. Lexing never
// fails hard; unknown input comes back in the base style.
func Lines(src, styleName string) []Line {
	style := resolveStyle(styleName)
	base := style.Get(chroma.Text).Colour

	lexer := chroma.Coalesce(jsonLexer())
	iter, err := lexer.Tokenise(nil, src)
	if err != nil {
		return plainLines(src)
	}

	out := []Line{{}}
	for _, tok := range iter.Tokens() {
		if tok.Type == chroma.EOFType {
			break
		}
		ts := tokenStyle(style.Get(tok.Type), base)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, Line{})
			}
			if part != "" {
				last := &out[len(out)-1]
				*last = append(*last, Segment{Text: part, Style: ts})
			}
		}
	}
	// A trailing newline does not start a visible line.
	if len(out) > 1 && len(out[len(out)-1]) == 0 && strings.HasSuffix(src, "\n") {
		out = out[:len(out)-1]
	}
	return out
}

// Write highlights src as ANSI for a 256-colour terminal.
func Write(w io.Writer, src, styleName string) error {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return quick.Highlight(w, src, "json", "terminal256", styleName)
}

func jsonLexer() chroma.Lexer {
	if l := lexers.Get("json"); l != nil {
		return l
	}
	return lexers.Fallback
}

func resolveStyle(name string) *chroma.Style {
	if name == "" {
		name = DefaultStyle
	}
	return styles.Get(name)
}

func tokenStyle(entry chroma.StyleEntry, base chroma.Colour) tcell.Style {
	st := tcell.StyleDefault
	if entry.Colour.IsSet() && entry.Colour != base {
		st = st.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()),
			int32(entry.Colour.Green()),
			int32(entry.Colour.Blue()),
		))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func plainLines(src string) []Line {
	var out []Line
	for _, l := range strings.Split(strings.TrimSuffix(src, "\n"), "\n") {
		out = append(out, Line{{Text: l, Style: tcell.StyleDefault}})
	}
	return out
}
