// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/form.go
// Summary: Vertical form of labelled widgets with focus traversal.
// Notes: Tab/Shift-Tab always move focus; Up/Down move focus only when
// the focused widget does not use them.

package ui

import "github.com/gdamore/tcell/v2"

// Valuer is implemented by widgets holding text.
type Valuer interface {
	Value() string
}

// FormField is one labelled control.
type FormField struct {
	Name   string
	Label  string
	Widget Widget
	Error  string
	// Depth indents nested fields.
	Depth int
	// Static fields draw but never take focus.
	Static bool
}

// Form lays fields out top to bottom.
type Form struct {
	Fields []*FormField
	focus  int
	off    int
}

// NewForm builds a form and focuses the first focusable field.
func NewForm(fields ...*FormField) *Form {
	f := &Form{Fields: fields, focus: -1}
	f.move(1)
	return f
}

// Field returns the field called name, or nil.
func (f *Form) Field(name string) *FormField {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd
		}
	}
	return nil
}

// Value returns the text of the named field's widget.
func (f *Form) Value(name string) string {
	if fd := f.Field(name); fd != nil {
		if v, ok := fd.Widget.(Valuer); ok {
			return v.Value()
		}
	}
	return ""
}

// Focused returns the field with focus, or nil.
func (f *Form) Focused() *FormField {
	if f.focus < 0 || f.focus >= len(f.Fields) {
		return nil
	}
	return f.Fields[f.focus]
}

// FocusName moves focus to the named field.
func (f *Form) FocusName(name string) bool {
	for i, fd := range f.Fields {
		if fd.Name == name && !fd.Static {
			f.setFocus(i)
			return true
		}
	}
	return false
}

// SetErrors replaces all field errors and focuses the first failing field
// in form order.
func (f *Form) SetErrors(errs map[string]string) {
	for _, fd := range f.Fields {
		fd.Error = errs[fd.Name]
	}
	for _, fd := range f.Fields {
		if fd.Error != "" {
			f.FocusName(fd.Name)
			return
		}
	}
}

// HandleKey routes a key to the focused widget or moves focus.
func (f *Form) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyTab:
		return f.move(1)
	case tcell.KeyBacktab:
		return f.move(-1)
	}
	if fd := f.Focused(); fd != nil && fd.Widget.HandleKey(ev) {
		return true
	}
	switch ev.Key() {
	case tcell.KeyDown:
		return f.move(1)
	case tcell.KeyUp:
		return f.move(-1)
	}
	return false
}

func (f *Form) move(dir int) bool {
	n := len(f.Fields)
	if n == 0 {
		return false
	}
	i := f.focus
	for step := 0; step < n; step++ {
		i = (i + dir + n) % n
		if !f.Fields[i].Static {
			f.setFocus(i)
			return true
		}
	}
	return false
}

func (f *Form) setFocus(i int) {
	if cur := f.Focused(); cur != nil {
		cur.Widget.Blur()
	}
	f.focus = i
	f.Fields[i].Widget.Focus()
}

func (f *Form) fieldHeight(fd *FormField, width int) int {
	h := 1 + fd.Widget.Height(width)
	if fd.Error != "" {
		h++
	}
	return h + 1
}

// Draw renders the fields, scrolling so the focused one is visible.
func (f *Form) Draw(p *Painter, r Rect, th Theme) {
	heights := make([]int, len(f.Fields))
	for i, fd := range f.Fields {
		heights[i] = f.fieldHeight(fd, r.W-2*fd.Depth)
	}
	f.scroll(heights, r.H)

	y := r.Y
	for i := f.off; i < len(f.Fields) && y < r.Y+r.H; i++ {
		fd := f.Fields[i]
		x, w := r.X+2*fd.Depth, r.W-2*fd.Depth
		label := th.Label
		if i == f.focus {
			label = th.Focus
		}
		p.DrawTextWidth(x, y, w, fd.Label, label)
		y++
		wh := fd.Widget.Height(w)
		fd.Widget.Draw(p.Sub(Rect{X: x, Y: y, W: w, H: wh}), Rect{X: x, Y: y, W: w, H: wh}, th)
		y += wh
		if fd.Error != "" {
			p.DrawTextWidth(x, y, w, fd.Error, th.Error)
			y++
		}
		y++
	}
}

func (f *Form) scroll(heights []int, avail int) {
	if f.focus < 0 {
		return
	}
	if f.focus < f.off {
		f.off = f.focus
	}
	for f.off < f.focus {
		total := 0
		for i := f.off; i <= f.focus; i++ {
			total += heights[i]
		}
		if total <= avail {
			break
		}
		f.off++
	}
}

// Label is a read-only widget used for static rows in a form.
type Label struct {
	BaseWidget
	Text string
}

func (l *Label) Height(int) int { return 1 }

func (l *Label) Draw(p *Painter, r Rect, th Theme) {
	p.DrawTextWidth(r.X, r.Y, r.W, l.Text, th.Muted)
}
