// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/choice.go
// Summary: Cycling selector over a fixed option list.

package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Choice selects one of Options. Left/Right and Space cycle.
type Choice struct {
	BaseWidget
	Options []string
	index   int
}

// NewChoice selects current if present, else the first option.
func NewChoice(options []string, current string) *Choice {
	c := &Choice{Options: options}
	for i, o := range options {
		if o == current {
			c.index = i
		}
	}
	return c
}

// Value returns the selected option.
func (c *Choice) Value() string {
	if len(c.Options) == 0 {
		return ""
	}
	return c.Options[c.index]
}

func (c *Choice) Height(int) int { return 1 }

func (c *Choice) HandleKey(ev *tcell.EventKey) bool {
	n := len(c.Options)
	if n == 0 {
		return false
	}
	switch {
	case ev.Key() == tcell.KeyLeft:
		c.index = (c.index + n - 1) % n
	case ev.Key() == tcell.KeyRight, ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
		c.index = (c.index + 1) % n
	default:
		return false
	}
	return true
}

func (c *Choice) Draw(p *Painter, r Rect, th Theme) {
	var sb strings.Builder
	for i, o := range c.Options {
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == c.index {
			sb.WriteString("(•) ")
		} else {
			sb.WriteString("( ) ")
		}
		sb.WriteString(o)
	}
	style := th.Base
	if c.Focused() {
		style = th.Focus
	}
	p.DrawTextWidth(r.X, r.Y, r.W, sb.String(), style)
}
