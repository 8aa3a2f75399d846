// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/view.go
// Summary: Shared drawing helpers for reviewer screens.

package reviewer

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/highlight"
	"github.com/framegrace/deckreview/render"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/ui"
)

func statusStyle(th ui.Theme, s application.Status) tcell.Style {
	switch s {
	case application.StatusCompleted:
		return th.Success
	case application.StatusSubmitted:
		return th.Focus
	case application.StatusIncomplete:
		return th.Warning
	}
	return th.Muted
}

func statusIcon(s application.Status) rune {
	switch s {
	case application.StatusCompleted:
		return '✔'
	case application.StatusSubmitted:
		return '◷'
	}
	return '!'
}

func bandStyle(th ui.Theme, score float64) tcell.Style {
	switch application.BandOf(score) {
	case application.BandStrong:
		return th.Success
	case application.BandModerate:
		return th.Warning
	}
	return th.Error
}

func spanStyle(th ui.Theme, s render.Style) tcell.Style {
	switch s {
	case render.StyleLabel:
		return th.Label
	case render.StylePlaceholder:
		return th.Muted.Italic(true)
	case render.StyleYes:
		return th.Success
	case render.StyleNo:
		return th.Error
	case render.StyleCardTitle:
		return th.Accent.Bold(true)
	case render.StyleMarker:
		return th.Muted
	}
	return th.Base
}

// drawLines paints rendered tree lines from row off and returns the rows used.
func drawLines(p *ui.Painter, r ui.Rect, th ui.Theme, lines []render.Line, off int) int {
	y := r.Y
	for i := off; i < len(lines) && y < r.Y+r.H; i++ {
		x := r.X + 2*lines[i].Indent
		for _, sp := range lines[i].Spans {
			if x >= r.X+r.W {
				break
			}
			x += p.DrawTextWidth(x, y, r.X+r.W-x, sp.Text, spanStyle(th, sp.Style))
		}
		y++
	}
	return y - r.Y
}

// drawHighlighted paints chroma-coloured lines from row off.
func drawHighlighted(p *ui.Painter, r ui.Rect, lines []highlight.Line, off int) {
	y := r.Y
	for i := off; i < len(lines) && y < r.Y+r.H; i++ {
		x := r.X
		for _, seg := range lines[i] {
			if x >= r.X+r.W {
				break
			}
			x += p.DrawTextWidth(x, y, r.X+r.W-x, seg.Text, seg.Style)
		}
		y++
	}
}

// drawCentered writes text in the middle of r.
func drawCentered(p *ui.Painter, r ui.Rect, y int, text string, style tcell.Style) {
	w := runewidth.StringWidth(text)
	x := r.X + (r.W-w)/2
	if x < r.X {
		x = r.X
	}
	p.DrawTextWidth(x, y, r.W, text, style)
}

// confidenceText renders a 0..100 confidence value.
func confidenceText(f float64) string {
	return tree.FormatNumber(f) + "% confidence"
}

// progressBar renders a 0..10 score as a bar of width cells.
func progressBar(score float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(score / 10 * float64(width))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// clampScroll keeps sel visible inside a window of n rows starting at off.
func clampScroll(off, sel, n int) int {
	if n <= 0 {
		return 0
	}
	if sel < off {
		return sel
	}
	if sel >= off+n {
		return sel - n + 1
	}
	return off
}

func isRune(ev *tcell.EventKey, r rune) bool {
	return ev.Key() == tcell.KeyRune && ev.Rune() == r && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0
}

// typeInto feeds pasted text to a widget one key at a time.
func typeInto(w ui.Widget, text string) {
	for _, r := range text {
		switch r {
		case '\r':
			continue
		case '\n':
			w.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
		default:
			w.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
		}
	}
}
