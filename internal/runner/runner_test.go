// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/runner_test.go
// Summary: Exercises the event loop so the terminal harness stays reliable.

package runner_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/deckreview/internal/runner"
	"github.com/framegrace/deckreview/ui"
)

type stubApp struct {
	mu      sync.Mutex
	draws   int
	resizes [][2]int
	keys    []*tcell.EventKey
	pastes  []string
	post    func(func())
	started chan struct{}
	quit    bool
	wakeAt  time.Time
	posted  int
}

func newStubApp() *stubApp {
	return &stubApp{started: make(chan struct{})}
}

func (a *stubApp) Start(post func(func())) {
	a.mu.Lock()
	a.post = post
	a.mu.Unlock()
	close(a.started)
}

func (a *stubApp) Resize(cols, rows int) {
	a.mu.Lock()
	a.resizes = append(a.resizes, [2]int{cols, rows})
	a.mu.Unlock()
}

func (a *stubApp) Draw(p *ui.Painter) {
	a.mu.Lock()
	a.draws++
	a.mu.Unlock()
	p.DrawText(0, 0, "X", tcell.StyleDefault)
}

func (a *stubApp) HandleKey(ev *tcell.EventKey) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = append(a.keys, ev)
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
		a.quit = true
	}
}

func (a *stubApp) HandlePaste(text string) {
	a.mu.Lock()
	a.pastes = append(a.pastes, text)
	a.mu.Unlock()
}

func (a *stubApp) Quit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quit
}

func (a *stubApp) NextWake() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wakeAt, !a.wakeAt.IsZero()
}

func (a *stubApp) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-a.started:
	case <-time.After(time.Second):
		t.Fatal("app.Start was not invoked")
	}
}

func (a *stubApp) drawCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draws
}

func (a *stubApp) lastResize() (int, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.resizes) == 0 {
		return 0, 0, false
	}
	last := a.resizes[len(a.resizes)-1]
	return last[0], last[1], true
}

func (a *stubApp) recordedKeys() []*tcell.EventKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*tcell.EventKey, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a *stubApp) postedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.posted
}

func start(t *testing.T, app *stubApp, ctx context.Context) (tcell.SimulationScreen, chan error) {
	t.Helper()
	t.Cleanup(func() { runner.SetScreenFactory(nil) })

	screen := tcell.NewSimulationScreen("UTF-8")
	runner.SetScreenFactory(func() (tcell.Screen, error) {
		return screen, nil
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.Run(ctx, app)
	}()
	app.waitStarted(t)
	return screen, errCh
}

func waitExit(t *testing.T, errCh chan error, msg string) {
	t.Helper()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not exit after %s", msg)
	}
}

func TestRunHandlesInputPostAndShutdown(t *testing.T) {
	app := newStubApp()
	screen, errCh := start(t, app, context.Background())

	waitFor(func() bool { return app.drawCalls() > 0 }, 500*time.Millisecond, t, "initial draw")

	// Work posted from another goroutine runs on the loop and redraws.
	before := app.drawCalls()
	go app.post(func() {
		app.mu.Lock()
		app.posted++
		app.mu.Unlock()
	})
	waitFor(func() bool { return app.postedCount() == 1 && app.drawCalls() > before },
		500*time.Millisecond, t, "posted work to run")

	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', 0))
	waitFor(func() bool {
		keys := app.recordedKeys()
		return len(keys) > 0 && keys[0].Rune() == 'x'
	}, 500*time.Millisecond, t, "key press to be handled")

	screen.PostEvent(tcell.NewEventResize(50, 12))
	waitFor(func() bool {
		w, h, ok := app.lastResize()
		return ok && w == 50 && h == 12
	}, 500*time.Millisecond, t, "resize event to be handled")

	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, 0))
	waitExit(t, errCh, "Ctrl-C")
}

func TestRunStopsWhenAppQuits(t *testing.T) {
	app := newStubApp()
	screen, errCh := start(t, app, context.Background())
	screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', 0))
	waitExit(t, errCh, "the app asked to quit")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	app := newStubApp()
	_, errCh := start(t, app, ctx)
	cancel()
	waitExit(t, errCh, "cancel")
}

func TestRunRedrawsAtWakeTime(t *testing.T) {
	app := newStubApp()
	app.wakeAt = time.Now().Add(50 * time.Millisecond)
	screen, errCh := start(t, app, context.Background())

	waitFor(func() bool { return app.drawCalls() >= 2 }, time.Second, t, "wake redraw")

	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, 0))
	waitExit(t, errCh, "Ctrl-C")
}

func TestRunCollectsPaste(t *testing.T) {
	app := newStubApp()
	screen, errCh := start(t, app, context.Background())

	screen.PostEvent(tcell.NewEventPaste(true))
	for _, r := range "ab" {
		screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, 0))
	}
	screen.PostEvent(tcell.NewEventPaste(false))
	waitFor(func() bool {
		app.mu.Lock()
		defer app.mu.Unlock()
		return len(app.pastes) == 1 && app.pastes[0] == "ab"
	}, 500*time.Millisecond, t, "paste to be delivered")
	if len(app.recordedKeys()) != 0 {
		t.Fatal("pasted runes must not reach HandleKey")
	}

	screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, 0))
	waitExit(t, errCh, "Ctrl-C")
}

func waitFor(cond func() bool, timeout time.Duration, t *testing.T, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}
