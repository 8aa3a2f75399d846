// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/input.go
// Summary: Single-line text input.

package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Input edits one line of text.
type Input struct {
	BaseWidget
	Placeholder string
	// Mask replaces every rune when drawing, if set.
	Mask  rune
	runes []rune
	caret int
	off   int
}

// NewInput returns an input holding text with the caret at the end.
func NewInput(text, placeholder string) *Input {
	in := &Input{Placeholder: placeholder}
	in.SetValue(text)
	return in
}

// Value returns the current text.
func (in *Input) Value() string { return string(in.runes) }

// SetValue replaces the text and moves the caret to the end.
func (in *Input) SetValue(s string) {
	in.runes = []rune(s)
	in.caret = len(in.runes)
	in.off = 0
}

// Caret returns the caret position in runes.
func (in *Input) Caret() int { return in.caret }

func (in *Input) Height(int) int { return 1 }

func (in *Input) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		in.runes = append(in.runes[:in.caret], append([]rune{r}, in.runes[in.caret:]...)...)
		in.caret++
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if in.caret == 0 {
			return true
		}
		in.runes = append(in.runes[:in.caret-1], in.runes[in.caret:]...)
		in.caret--
	case tcell.KeyDelete:
		if in.caret < len(in.runes) {
			in.runes = append(in.runes[:in.caret], in.runes[in.caret+1:]...)
		}
	case tcell.KeyLeft:
		if in.caret > 0 {
			in.caret--
		}
	case tcell.KeyRight:
		if in.caret < len(in.runes) {
			in.caret++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		in.caret = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		in.caret = len(in.runes)
	case tcell.KeyCtrlU:
		in.runes = in.runes[in.caret:]
		in.caret = 0
	default:
		return false
	}
	return true
}

func (in *Input) Draw(p *Painter, r Rect, th Theme) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	style := th.Input
	if in.Focused() {
		style = th.InputFocus
	}
	p.Fill(Rect{X: r.X, Y: r.Y, W: r.W, H: 1}, ' ', style)
	if len(in.runes) == 0 && !in.Focused() {
		p.DrawTextWidth(r.X, r.Y, r.W, in.Placeholder, th.Placeholder)
		return
	}

	shown := in.runes
	if in.Mask != 0 {
		shown = make([]rune, len(in.runes))
		for i := range shown {
			shown[i] = in.Mask
		}
	}
	in.scrollTo(shown, r.W)
	col := r.X
	for i := in.off; i < len(shown); i++ {
		w := runewidth.RuneWidth(shown[i])
		if col+w > r.X+r.W {
			break
		}
		st := style
		if in.Focused() && i == in.caret {
			st = th.Caret
		}
		p.SetCell(col, r.Y, shown[i], st)
		col += w
	}
	if in.Focused() && in.caret == len(shown) && col < r.X+r.W {
		p.SetCell(col, r.Y, ' ', th.Caret)
	}
}

// scrollTo keeps the caret inside a viewport of width columns.
func (in *Input) scrollTo(shown []rune, width int) {
	if in.caret < in.off {
		in.off = in.caret
	}
	for in.off < in.caret && runewidth.StringWidth(string(shown[in.off:in.caret]))+1 > width {
		in.off++
	}
}
