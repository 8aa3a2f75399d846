// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/runner.go
// Summary: Drives a terminal app on a tcell screen.
// Notes: All app methods run on the event loop goroutine. Background work
// hands results back through the post function passed to Start.

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/deckreview/ui"
)

// App is a full-screen program driven by Run.
type App interface {
	// Start is called once before the first draw. post schedules fn on the
	// event loop and is safe to call from any goroutine.
	Start(post func(fn func()))
	Resize(cols, rows int)
	Draw(p *ui.Painter)
	HandleKey(ev *tcell.EventKey)
	// Quit reports whether the app wants the loop to stop.
	Quit() bool
}

// Waker apps ask to be redrawn at a point in time, e.g. to expire toasts.
type Waker interface {
	NextWake() (time.Time, bool)
}

// Paster apps receive bracketed paste as one string.
type Paster interface {
	HandlePaste(text string)
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

type quitEvent struct{}

// Run executes app inside a tcell screen until the app quits, Ctrl-C is
// pressed, or ctx is cancelled.
func Run(ctx context.Context, app App) error {
	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnablePaste()

	post := func(fn func()) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(fn))
	}

	stop := context.AfterFunc(ctx, func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
	})
	defer stop()

	width, height := screen.Size()
	app.Resize(width, height)
	app.Start(post)

	var wake *time.Timer
	defer func() {
		if wake != nil {
			wake.Stop()
		}
	}()
	draw := func() {
		screen.Clear()
		app.Draw(ui.NewPainter(screen, ui.Rect{W: width, H: height}))
		screen.Show()

		w, ok := app.(Waker)
		if !ok {
			return
		}
		if at, ok := w.NextWake(); ok {
			if wake != nil {
				wake.Stop()
			}
			wake = time.AfterFunc(time.Until(at), func() { post(nil) })
		}
	}

	draw()

	var paste []rune
	var inPaste bool

	for !app.Quit() {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch tev := ev.(type) {
		case *tcell.EventInterrupt:
			switch data := tev.Data().(type) {
			case quitEvent:
				return nil
			case func():
				if data != nil {
					data()
				}
			}
			draw()
		case *tcell.EventResize:
			width, height = tev.Size()
			app.Resize(width, height)
			screen.Sync()
			draw()
		case *tcell.EventPaste:
			if tev.Start() {
				inPaste = true
				paste = nil
			} else if tev.End() {
				inPaste = false
				if p, ok := app.(Paster); ok && len(paste) > 0 {
					p.HandlePaste(string(paste))
					draw()
				}
				paste = nil
			}
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if inPaste {
				if tev.Key() == tcell.KeyRune {
					paste = append(paste, tev.Rune())
				} else if tev.Key() == tcell.KeyEnter || tev.Key() == 10 {
					paste = append(paste, '\n')
				}
				continue
			}
			app.HandleKey(tev)
			draw()
		}
	}
	return nil
}
