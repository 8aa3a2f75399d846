// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/app.go
// Summary: Terminal reviewer workstation: screen stack, async work and toasts.
// Usage: Construct with New and hand to runner.Run.
// Notes: Every method runs on the event loop goroutine. Network work runs
// in goroutines started by App.async and hands a closure back through post.

package reviewer

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/backend"
	"github.com/framegrace/deckreview/internal/runner"
	"github.com/framegrace/deckreview/notify"
	"github.com/framegrace/deckreview/prefs"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/ui"
	"github.com/framegrace/deckreview/validate"
)

// Compile-time interface checks
var _ runner.App = (*App)(nil)
var _ runner.Waker = (*App)(nil)
var _ runner.Paster = (*App)(nil)

// Backend is the part of the evaluation backend the reviewer talks to.
type Backend interface {
	ListApplications(ctx context.Context, opts backend.ListOptions) (tree.Value, error)
	GetApplication(ctx context.Context, id string) (tree.Value, error)
	SaveRaw(ctx context.Context, id string, raw tree.Value) error
	UploadDeck(ctx context.Context, id string, deck validate.Deck) (tree.Value, error)
	Trigger(ctx context.Context, id string, action application.Action) (tree.Value, error)
	CreateApplication(ctx context.Context, form validate.NewApplication) (tree.Value, error)
}

// Options configures an App.
type Options struct {
	Backend Backend
	// Store backs filters and the login session.
	Store prefs.Store
	// Notifier receives every toast in addition to the on-screen queue.
	Notifier notify.Notifier
	Theme    *ui.Theme
	Now      func() time.Time
	// ReadFile loads pitch decks picked by path; defaults to validate.ReadDeck.
	ReadFile func(path string) (validate.Deck, error)
	// ToastLifetime is how long notifications stay visible.
	ToastLifetime time.Duration
}

// screen is one page of the stack.
type screen interface {
	title() string
	hints() string
	draw(p *ui.Painter, r ui.Rect)
	// handleKey returns false to let the app apply its defaults.
	handleKey(ev *tcell.EventKey) bool
}

type paster interface {
	paste(text string)
}

// App is the reviewer terminal application.
type App struct {
	ctx      context.Context
	backend  Backend
	filters  *prefs.Filters
	session  *prefs.Session
	toasts   *notify.Queue
	notifier notify.Notifier
	theme    ui.Theme
	now      func() time.Time
	readFile func(path string) (validate.Deck, error)

	post          func(fn func())
	stack         []screen
	user          string
	width, height int
	quit          bool
	inflight      sync.WaitGroup
}

// New builds the app. ctx bounds every background request.
func New(ctx context.Context, opts Options) *App {
	a := &App{
		ctx:      ctx,
		backend:  opts.Backend,
		filters:  prefs.NewFilters(opts.Store),
		session:  prefs.NewSession(opts.Store),
		toasts:   notify.NewQueue(opts.ToastLifetime),
		theme:    ui.DefaultTheme(),
		now:      opts.Now,
		readFile: opts.ReadFile,
		post:     func(fn func()) { fn() },
	}
	if opts.Theme != nil {
		a.theme = *opts.Theme
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.readFile == nil {
		a.readFile = validate.ReadDeck
	}
	a.notifier = a.toasts
	if opts.Notifier != nil {
		a.notifier = notify.Multi{a.toasts, opts.Notifier}
	}
	return a
}

// Start shows the dashboard for a stored session, otherwise the login form.
func (a *App) Start(post func(fn func())) {
	a.post = post
	user, ok, err := a.session.Current(a.ctx)
	if err != nil {
		klog.FromContext(a.ctx).Error(err, "Reading session failed")
	}
	if !ok {
		a.setRoot(newLoginScreen(a))
		return
	}
	a.user = user
	a.setRoot(newDashboard(a))
}

func (a *App) Resize(cols, rows int) {
	a.width, a.height = cols, rows
}

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool { return a.quit }

// NextWake is when the oldest toast expires.
func (a *App) NextWake() (time.Time, bool) { return a.toasts.NextExpiry() }

// HandlePaste forwards pasted text to the top screen's focused input.
func (a *App) HandlePaste(text string) {
	if p, ok := a.top().(paster); ok {
		p.paste(text)
	}
}

// Wait blocks until no background request is outstanding.
func (a *App) Wait() { a.inflight.Wait() }

func (a *App) HandleKey(ev *tcell.EventKey) {
	top := a.top()
	if top != nil && top.handleKey(ev) {
		return
	}
	switch {
	case ev.Key() == tcell.KeyEscape:
		if len(a.toasts.Active()) > 0 {
			a.toasts.Dismiss()
			return
		}
		a.pop()
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'q' && len(a.stack) <= 1:
		a.quit = true
	}
}

func (a *App) Draw(p *ui.Painter) {
	th := a.theme
	full := ui.Rect{W: a.width, H: a.height}
	p.Fill(full, ' ', th.Base)
	top := a.top()
	if top == nil || a.height < 3 {
		return
	}

	p.Fill(ui.Rect{W: a.width, H: 1}, ' ', th.Selected)
	p.DrawTextWidth(1, 0, a.width-2, "Pitch Deck Review · "+top.title(), th.Selected)
	if a.user != "" {
		who := "Signed in as " + a.user
		p.DrawText(max(1, a.width-runewidth.StringWidth(who)-1), 0, who, th.Selected)
	}

	body := ui.Rect{X: 0, Y: 1, W: a.width, H: a.height - 2}
	top.draw(p.Sub(body), body)

	p.DrawTextWidth(1, a.height-1, a.width-2, top.hints(), th.Muted)
	a.drawToasts(p)
}

func (a *App) drawToasts(p *ui.Painter) {
	th := a.theme
	w := min(48, a.width-2)
	y := 1
	for _, n := range a.toasts.Active() {
		lines := ui.Wrap(n.Description, w-4)
		h := len(lines) + 3
		r := ui.Rect{X: a.width - w - 1, Y: y, W: w, H: h}
		style := th.Success
		if n.Severity == notify.SeverityError {
			style = th.Error
		}
		p.Fill(r, ' ', th.Input)
		p.DrawBox(r, n.Title, style.Background(ui.ColorSurface))
		for i, line := range lines {
			p.DrawTextWidth(r.X+2, r.Y+1+i, w-4, line, th.Input)
		}
		y += h
		if y >= a.height-1 {
			return
		}
	}
}

func (a *App) top() screen {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

func (a *App) push(s screen) { a.stack = append(a.stack, s) }

func (a *App) pop() {
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
}

func (a *App) setRoot(s screen) { a.stack = []screen{s} }

// async runs work off the event loop and applies the closure it returns
// back on the loop.
func (a *App) async(work func(ctx context.Context) func()) {
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		done := work(a.ctx)
		if done != nil {
			a.post(done)
		}
	}()
}

func (a *App) info(title, description string) {
	notify.Info(a.notifier, title, description)
}

func (a *App) fail(title, description string) {
	notify.Error(a.notifier, title, description)
}

func (a *App) login(user string) {
	a.user = user
	a.setRoot(newDashboard(a))
}

func (a *App) logout() {
	if err := a.session.Logout(a.ctx); err != nil {
		klog.FromContext(a.ctx).Error(err, "Logout failed")
	}
	a.user = ""
	a.setRoot(newLoginScreen(a))
}
