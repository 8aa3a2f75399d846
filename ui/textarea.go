// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/textarea.go
// Summary: Multi-line text editor with a vertical viewport.

package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TextArea edits several lines of text. Enter inserts a newline.
type TextArea struct {
	BaseWidget
	Placeholder string
	Rows        int
	lines       [][]rune
	cx, cy      int
	offY        int
}

// NewTextArea returns a text area showing rows lines.
func NewTextArea(text, placeholder string, rows int) *TextArea {
	if rows < 1 {
		rows = 1
	}
	t := &TextArea{Placeholder: placeholder, Rows: rows}
	t.SetValue(text)
	return t
}

// Value joins the lines with newlines.
func (t *TextArea) Value() string {
	parts := make([]string, len(t.lines))
	for i, l := range t.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// SetValue replaces the content and puts the caret at the end.
func (t *TextArea) SetValue(s string) {
	t.lines = nil
	for _, l := range strings.Split(s, "\n") {
		t.lines = append(t.lines, []rune(l))
	}
	t.cy = len(t.lines) - 1
	t.cx = len(t.lines[t.cy])
	t.offY = 0
	t.ensureVisible()
}

// Caret returns the caret column and line.
func (t *TextArea) Caret() (int, int) { return t.cx, t.cy }

func (t *TextArea) Height(int) int { return t.Rows }

func (t *TextArea) HandleKey(ev *tcell.EventKey) bool {
	line := t.lines[t.cy]
	switch ev.Key() {
	case tcell.KeyRune:
		t.lines[t.cy] = append(line[:t.cx], append([]rune{ev.Rune()}, line[t.cx:]...)...)
		t.cx++
	case tcell.KeyEnter:
		tail := append([]rune(nil), line[t.cx:]...)
		t.lines[t.cy] = line[:t.cx]
		t.lines = append(t.lines[:t.cy+1], append([][]rune{tail}, t.lines[t.cy+1:]...)...)
		t.cy++
		t.cx = 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		switch {
		case t.cx > 0:
			t.lines[t.cy] = append(line[:t.cx-1], line[t.cx:]...)
			t.cx--
		case t.cy > 0:
			prev := t.lines[t.cy-1]
			t.cx = len(prev)
			t.lines[t.cy-1] = append(prev, line...)
			t.lines = append(t.lines[:t.cy], t.lines[t.cy+1:]...)
			t.cy--
		}
	case tcell.KeyDelete:
		switch {
		case t.cx < len(line):
			t.lines[t.cy] = append(line[:t.cx], line[t.cx+1:]...)
		case t.cy < len(t.lines)-1:
			t.lines[t.cy] = append(line, t.lines[t.cy+1]...)
			t.lines = append(t.lines[:t.cy+1], t.lines[t.cy+2:]...)
		}
	case tcell.KeyLeft:
		if t.cx > 0 {
			t.cx--
		} else if t.cy > 0 {
			t.cy--
			t.cx = len(t.lines[t.cy])
		}
	case tcell.KeyRight:
		if t.cx < len(line) {
			t.cx++
		} else if t.cy < len(t.lines)-1 {
			t.cy++
			t.cx = 0
		}
	case tcell.KeyUp:
		if t.cy == 0 {
			return false
		}
		t.cy--
		t.clampX()
	case tcell.KeyDown:
		if t.cy == len(t.lines)-1 {
			return false
		}
		t.cy++
		t.clampX()
	case tcell.KeyHome, tcell.KeyCtrlA:
		t.cx = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		t.cx = len(line)
	default:
		return false
	}
	t.ensureVisible()
	return true
}

func (t *TextArea) clampX() {
	if n := len(t.lines[t.cy]); t.cx > n {
		t.cx = n
	}
}

func (t *TextArea) ensureVisible() {
	if t.cy < t.offY {
		t.offY = t.cy
	}
	if t.cy >= t.offY+t.Rows {
		t.offY = t.cy - t.Rows + 1
	}
}

func (t *TextArea) Draw(p *Painter, r Rect, th Theme) {
	style := th.Input
	if t.Focused() {
		style = th.InputFocus
	}
	p.Fill(r, ' ', style)
	if len(t.lines) == 1 && len(t.lines[0]) == 0 && !t.Focused() {
		p.DrawTextWidth(r.X, r.Y, r.W, t.Placeholder, th.Placeholder)
		return
	}
	for row := 0; row < r.H; row++ {
		li := t.offY + row
		if li >= len(t.lines) {
			break
		}
		col := r.X
		for i, ch := range t.lines[li] {
			w := runewidth.RuneWidth(ch)
			if col+w > r.X+r.W {
				break
			}
			st := style
			if t.Focused() && li == t.cy && i == t.cx {
				st = th.Caret
			}
			p.SetCell(col, r.Y+row, ch, st)
			col += w
		}
		if t.Focused() && li == t.cy && t.cx == len(t.lines[li]) && col < r.X+r.W {
			p.SetCell(col, r.Y+row, ' ', th.Caret)
		}
	}
}
