// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/login.go
// Summary: Username gate shown until a session is stored.

package reviewer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/ui"
)

type loginScreen struct {
	app  *App
	form *ui.Form
	user *ui.Input
}

func newLoginScreen(a *App) *loginScreen {
	s := &loginScreen{app: a, user: ui.NewInput("", "Enter username")}
	s.form = ui.NewForm(&ui.FormField{Name: "username", Label: "Username", Widget: s.user})
	return s
}

func (s *loginScreen) title() string { return "Sign in" }
func (s *loginScreen) hints() string { return "Enter sign in · Ctrl-C quit" }

func (s *loginScreen) draw(p *ui.Painter, r ui.Rect) {
	th := s.app.theme
	w := min(50, r.W-4)
	box := ui.Rect{X: r.X + (r.W-w)/2, Y: r.Y + max(1, r.H/2-4), W: w, H: 7}
	p.DrawBox(box, "Sign in", th.Border)
	inner := box.Inset(1)
	inner.X++
	inner.W -= 2
	s.form.Draw(p.Sub(inner), inner, th)
}

func (s *loginScreen) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEnter {
		s.submit()
		return true
	}
	s.form.HandleKey(ev)
	// Nothing escapes the login form except Ctrl-C.
	return true
}

func (s *loginScreen) paste(text string) { typeInto(s.user, text) }

func (s *loginScreen) submit() {
	a := s.app
	if err := a.session.Login(a.ctx, s.user.Value()); err != nil {
		if fields := apperrors.Fields(err); fields != nil {
			s.form.SetErrors(fields)
			return
		}
		a.fail("Error", apperrors.Message(err))
		return
	}
	user, _, _ := a.session.Current(a.ctx)
	a.login(user)
}
