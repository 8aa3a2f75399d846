// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/deckreview/output.go
// Summary: Styled terminal output for the one-shot commands.
// Notes: Colour and wrapping only apply when stdout is a terminal; piped
// output stays plain so it can be scripted. ui.color=false turns colour off
// on terminals too.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/framegrace/deckreview/highlight"
	"github.com/framegrace/deckreview/render"
	"github.com/framegrace/deckreview/tree"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", f)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

type printer struct {
	w      io.Writer
	tty    bool
	colour bool
	width  int

	title  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	spans  map[render.Style]lipgloss.Style
}

func (c *cli) printer() *printer {
	r := lipgloss.NewRenderer(c.out)
	p := &printer{w: c.out, tty: c.tty()}
	if p.tty {
		p.width = terminalWidth(c.out)
	}
	p.colour = p.tty && c.settings.Color
	if !p.colour {
		r.SetColorProfile(termenv.Ascii)
	}
	p.title = r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	p.header = r.NewStyle().Bold(true).Underline(true)
	p.label = r.NewStyle().Bold(true)
	p.muted = r.NewStyle().Faint(true)
	p.good = r.NewStyle().Foreground(lipgloss.Color("10"))
	p.warn = r.NewStyle().Foreground(lipgloss.Color("11"))
	p.bad = r.NewStyle().Foreground(lipgloss.Color("9"))
	p.spans = map[render.Style]lipgloss.Style{
		render.StylePlain:       r.NewStyle(),
		render.StyleLabel:       p.label,
		render.StylePlaceholder: r.NewStyle().Faint(true).Italic(true),
		render.StyleYes:         p.good,
		render.StyleNo:          p.bad,
		render.StyleCardTitle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		render.StyleMarker:      p.muted,
	}
	return p
}

func (p *printer) println(s string) {
	if p.width > 0 {
		s = lipgloss.NewStyle().MaxWidth(p.width).Render(s)
	}
	fmt.Fprintln(p.w, s)
}

func (p *printer) section(title string) {
	fmt.Fprintln(p.w)
	p.println(p.header.Render(title))
}

// field prints "Label: value".
func (p *printer) field(label, value string) {
	p.println(p.label.Render(label+":") + " " + value)
}

// lines prints renderer output, two spaces per indent level.
func (p *printer) lines(lines []render.Line, indent int) {
	for _, l := range lines {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", indent+l.Indent))
		for _, sp := range l.Spans {
			b.WriteString(p.spans[sp.Style].Render(sp.Text))
		}
		p.println(b.String())
	}
}

func (p *printer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.label.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if p.width > 0 {
		t = t.Width(p.width)
	}
	fmt.Fprintln(p.w, t.Render())
}

// value writes v as indented JSON or YAML. JSON is colourised on a terminal.
func (p *printer) value(format string, v tree.Value) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		var buf bytes.Buffer
		if err := tree.EncodeIndent(&buf, v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		if p.colour {
			return highlight.Write(p.w, buf.String(), highlight.DefaultStyle)
		}
		_, err := p.w.Write(buf.Bytes())
		return err
	}
}

// data writes plain Go values, used for derived rows such as summaries.
func (p *printer) data(format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	var buf bytes.Buffer
	if err := json.MarshalWrite(&buf, v, jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	buf.WriteByte('\n')
	if p.colour {
		return highlight.Write(p.w, buf.String(), highlight.DefaultStyle)
	}
	_, err := p.w.Write(buf.Bytes())
	return err
}
