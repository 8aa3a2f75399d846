// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/widget.go
// Summary: Minimal widget contract shared by form controls.

package ui

import "github.com/gdamore/tcell/v2"

// Widget is a focusable control that draws into a rectangle.
type Widget interface {
	// Height is the number of rows the widget wants at the given width.
	Height(width int) int
	Draw(p *Painter, r Rect, th Theme)
	HandleKey(ev *tcell.EventKey) bool
	Focus()
	Blur()
	Focused() bool
}

// BaseWidget provides focus bookkeeping.
type BaseWidget struct {
	focused bool
}

func (b *BaseWidget) Focus()                            { b.focused = true }
func (b *BaseWidget) Blur()                             { b.focused = false }
func (b *BaseWidget) Focused() bool                     { return b.focused }
func (b *BaseWidget) HandleKey(ev *tcell.EventKey) bool { return false }
