// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/edit.go
// Summary: Form over one raw data section backed by the section controller.
// Notes: Changed field values are applied to the working copy only on save,
// then the commit runs in the background while the form stays read-only.

package reviewer

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/editor"
	"github.com/framegrace/deckreview/render"
	"github.com/framegrace/deckreview/section"
	"github.com/framegrace/deckreview/ui"
)

const maxAreaRows = 8

type editScreen struct {
	app    *App
	ctrl   *section.Controller
	key    string
	fields []editor.Field
	form   *ui.Form
	saving bool
}

// newEditScreen opens an edit session on key. It fails when another
// section is already being edited.
func newEditScreen(a *App, ctrl *section.Controller, key string) (*editScreen, error) {
	if err := ctrl.BeginEdit(key); err != nil {
		return nil, err
	}
	working, _ := ctrl.WorkingCopy()
	root := editor.Build(working, nil)

	s := &editScreen{app: a, ctrl: ctrl, key: key}
	var rows []*ui.FormField
	for _, e := range editor.Flatten(root) {
		f := e.Field
		depth := e.Depth
		if len(f.Path) == 0 {
			if !f.Editable() {
				continue
			}
			f.Label = render.Label(key)
		} else if !root.Editable() {
			depth--
		}
		rows = append(rows, s.formField(f, depth))
		if f.Editable() {
			s.fields = append(s.fields, f)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, &ui.FormField{Name: "empty", Label: render.NoneText, Widget: &ui.Label{}, Static: true})
	}
	s.form = ui.NewForm(rows...)
	return s, nil
}

func fieldName(f editor.Field) string {
	if len(f.Path) == 0 {
		return "."
	}
	return f.Path.String()
}

func (s *editScreen) formField(f editor.Field, depth int) *ui.FormField {
	ff := &ui.FormField{Name: fieldName(f), Label: f.Label, Depth: depth}
	switch f.Kind {
	case editor.KindLines:
		rows := min(maxAreaRows, max(3, f.Rows))
		ff.Widget = ui.NewTextArea(f.Text, "One item per line", rows)
	case editor.KindChoice:
		ff.Widget = ui.NewChoice(f.Options, f.Text)
	case editor.KindNumber:
		ff.Widget = ui.NewInput(f.Text, "0")
	case editor.KindText:
		ff.Widget = ui.NewInput(f.Text, f.Placeholder)
	default:
		text := ""
		if len(f.Children) == 0 {
			text = render.NoneText
		}
		ff.Widget = &ui.Label{Text: text}
		ff.Static = true
	}
	return ff
}

func (s *editScreen) title() string { return "Edit " + render.Label(s.key) }

func (s *editScreen) hints() string {
	if s.saving {
		return "Saving..."
	}
	return "Tab/↑/↓ move · Ctrl-S save · Esc cancel"
}

func (s *editScreen) handleKey(ev *tcell.EventKey) bool {
	if s.saving {
		return true
	}
	switch ev.Key() {
	case tcell.KeyCtrlS:
		s.save()
		return true
	case tcell.KeyEscape:
		s.cancel()
		return true
	}
	s.form.HandleKey(ev)
	return true
}

func (s *editScreen) paste(text string) {
	if fd := s.form.Focused(); fd != nil && !s.saving {
		typeInto(fd.Widget, text)
	}
}

func (s *editScreen) cancel() {
	if err := s.ctrl.CancelEdit(); err != nil {
		s.app.fail("Error", apperrors.Message(err))
	}
	s.app.pop()
}

// save pushes the fields the user changed into the working copy and
// commits it. Untouched fields keep their value exactly, nulls included.
func (s *editScreen) save() {
	for _, f := range s.fields {
		input := s.form.Value(fieldName(f))
		if input == f.Text {
			continue
		}
		if err := editor.Apply(s.ctrl, f, input); err != nil {
			s.form.SetErrors(map[string]string{fieldName(f): err.Error()})
			return
		}
	}
	s.saving = true
	a := s.app
	a.async(func(ctx context.Context) func() {
		// The controller reports the outcome through the notifier.
		_ = s.ctrl.CommitEdit(ctx)
		return func() {
			s.saving = false
			if a.top() == s {
				a.pop()
			}
		}
	})
}

func (s *editScreen) draw(p *ui.Painter, r ui.Rect) {
	th := s.app.theme
	box := ui.Rect{X: r.X + 1, Y: r.Y, W: r.W - 2, H: r.H}
	title := "Editing " + render.Label(s.key)
	if s.saving {
		title += " (saving)"
	}
	p.DrawBox(box, title, th.Focus)
	inner := box.Inset(1)
	inner.X++
	inner.W -= 2
	s.form.Draw(p.Sub(inner), inner, th)
}
