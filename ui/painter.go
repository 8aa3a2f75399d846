// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/painter.go
// Summary: Clipped, width-aware drawing onto a tcell surface.

package ui

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset shrinks r by n cells on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Surface is the part of tcell.Screen the painter needs.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Painter draws onto a surface, discarding anything outside its clip.
type Painter struct {
	s    Surface
	clip Rect
}

// NewPainter returns a painter clipped to clip.
func NewPainter(s Surface, clip Rect) *Painter {
	return &Painter{s: s, clip: clip}
}

// Clip returns the drawable area.
func (p *Painter) Clip() Rect { return p.clip }

// Sub returns a painter restricted to r within the current clip.
func (p *Painter) Sub(r Rect) *Painter {
	return &Painter{s: p.s, clip: p.clip.Intersect(r)}
}

// SetCell draws one rune.
func (p *Painter) SetCell(x, y int, ch rune, style tcell.Style) {
	if !p.clip.Contains(x, y) {
		return
	}
	p.s.SetContent(x, y, ch, nil, style)
}

// Fill paints every cell of r.
func (p *Painter) Fill(r Rect, ch rune, style tcell.Style) {
	r = p.clip.Intersect(r)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.s.SetContent(x, y, ch, nil, style)
		}
	}
}

// DrawText writes text starting at (x, y) and returns the columns used.
// Wide runes take two columns; a wide rune that would straddle the clip
// edge is dropped.
func (p *Painter) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > p.clip.X+p.clip.W {
			break
		}
		if p.clip.Contains(col, y) {
			p.s.SetContent(col, y, r, nil, style)
		}
		col += w
	}
	return col - x
}

// DrawTextWidth writes text into width columns, truncating with an
// ellipsis when it does not fit.
func (p *Painter) DrawTextWidth(x, y, width int, text string, style tcell.Style) int {
	if width <= 0 {
		return 0
	}
	return p.DrawText(x, y, Truncate(text, width), style)
}

// DrawBox draws a single-line border around r with an optional title.
func (p *Painter) DrawBox(r Rect, title string, style tcell.Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		p.SetCell(x, r.Y, tcell.RuneHLine, style)
		p.SetCell(x, bottom, tcell.RuneHLine, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		p.SetCell(r.X, y, tcell.RuneVLine, style)
		p.SetCell(right, y, tcell.RuneVLine, style)
	}
	p.SetCell(r.X, r.Y, tcell.RuneULCorner, style)
	p.SetCell(right, r.Y, tcell.RuneURCorner, style)
	p.SetCell(r.X, bottom, tcell.RuneLLCorner, style)
	p.SetCell(right, bottom, tcell.RuneLRCorner, style)
	if title != "" && r.W > 4 {
		p.DrawTextWidth(r.X+2, r.Y, r.W-4, " "+title+" ", style.Bold(true))
	}
}

// Truncate shortens s to at most width columns.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Wrap breaks s into lines of at most width columns, preferring spaces.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range splitLines(s) {
		line, lineW := "", 0
		for _, word := range splitWords(para) {
			ww := runewidth.StringWidth(word)
			switch {
			case lineW == 0:
				line, lineW = word, ww
			case lineW+1+ww <= width:
				line += " " + word
				lineW += 1 + ww
			default:
				out = append(out, line)
				line, lineW = word, ww
			}
			for lineW > width {
				head := runewidth.Truncate(line, width, "")
				if head == "" {
					_, size := utf8.DecodeRuneInString(line)
					head = line[:size]
				}
				out = append(out, head)
				line = line[len(head):]
				lineW = runewidth.StringWidth(line)
			}
		}
		out = append(out, line)
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func splitWords(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
