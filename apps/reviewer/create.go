// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/create.go
// Summary: New application form with client-side validation.

package reviewer

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/ui"
	"github.com/framegrace/deckreview/validate"
)

const (
	createSuccessText = "Application created successfully"
	createFailedText  = "Failed to create application. Please try again."
)

type createScreen struct {
	app     *App
	form    *ui.Form
	done    func()
	pending bool
}

func newCreateScreen(a *App, done func()) *createScreen {
	s := &createScreen{app: a, done: done}
	s.form = ui.NewForm(
		&ui.FormField{Name: validate.FieldStartupName, Label: "Startup Name *", Widget: ui.NewInput("", "Enter startup name")},
		&ui.FormField{Name: validate.FieldContactName, Label: "Contact Name *", Widget: ui.NewInput("", "Enter contact person name")},
		&ui.FormField{Name: validate.FieldContactEmail, Label: "Contact Email *", Widget: ui.NewInput("", "Enter contact email")},
		&ui.FormField{Name: validate.FieldWebsiteURL, Label: "Website URL *", Widget: ui.NewInput("", "Enter website URL")},
		&ui.FormField{Name: validate.FieldFile, Label: "Pitch Deck (PDF) *", Widget: ui.NewInput("", "Path to a PDF file, max 10MB")},
	)
	return s
}

func (s *createScreen) title() string { return "Add New Application" }

func (s *createScreen) hints() string {
	if s.pending {
		return "Creating..."
	}
	return "Tab/↑/↓ move · Ctrl-S create · Esc cancel"
}

func (s *createScreen) handleKey(ev *tcell.EventKey) bool {
	if s.pending {
		return true
	}
	switch ev.Key() {
	case tcell.KeyCtrlS:
		s.submit()
		return true
	case tcell.KeyEnter:
		if s.form.Focused() != nil && s.form.Focused().Name == validate.FieldFile {
			s.submit()
		} else {
			s.form.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
		}
		return true
	case tcell.KeyEscape:
		return false
	}
	s.form.HandleKey(ev)
	return true
}

func (s *createScreen) paste(text string) {
	if fd := s.form.Focused(); fd != nil {
		typeInto(fd.Widget, text)
	}
}

func (s *createScreen) values() (validate.NewApplication, string) {
	return validate.NewApplication{
		StartupName:  s.form.Value(validate.FieldStartupName),
		ContactName:  s.form.Value(validate.FieldContactName),
		ContactEmail: s.form.Value(validate.FieldContactEmail),
		WebsiteURL:   s.form.Value(validate.FieldWebsiteURL),
	}, s.form.Value(validate.FieldFile)
}

func (s *createScreen) submit() {
	a := s.app
	form, path := s.values()
	if path != "" {
		deck, err := a.readFile(path)
		if err != nil {
			s.form.SetErrors(map[string]string{validate.FieldFile: apperrors.Message(err)})
			return
		}
		form.Deck = &deck
	}
	if errs := validate.Application(form); len(errs) > 0 {
		s.form.SetErrors(errs)
		return
	}
	s.form.SetErrors(nil)
	s.pending = true
	a.async(func(ctx context.Context) func() {
		_, err := a.backend.CreateApplication(ctx, form.Trimmed())
		log := klog.FromContext(ctx)
		if err != nil {
			log.Error(err, "Creating application failed", "startup", form.StartupName)
		} else {
			log.Info("Application created", "startup", form.StartupName)
		}
		return func() {
			s.pending = false
			if err != nil {
				a.fail("Error", createFailedText)
				return
			}
			a.info("Success", createSuccessText)
			if a.top() == s {
				a.pop()
			}
			if s.done != nil {
				s.done()
			}
		}
	})
}

func (s *createScreen) draw(p *ui.Painter, r ui.Rect) {
	th := s.app.theme
	w := min(70, r.W-2)
	box := ui.Rect{X: r.X + (r.W-w)/2, Y: r.Y, W: w, H: r.H}
	p.DrawBox(box, "Add New Application", th.Focus)
	p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, "Create a new pitch deck application", th.Muted)
	inner := ui.Rect{X: box.X + 2, Y: box.Y + 3, W: box.W - 4, H: box.H - 4}
	s.form.Draw(p.Sub(inner), inner, th)
}
