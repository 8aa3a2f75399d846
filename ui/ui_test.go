// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y, w int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func typeText(w Widget, s string) {
	for _, r := range s {
		w.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestPainterClipsAndTruncates(t *testing.T) {
	s := newScreen(t, 20, 3)
	p := NewPainter(s, Rect{X: 0, Y: 0, W: 10, H: 2})

	p.DrawText(0, 0, "abcdefghijklmnop", tcell.StyleDefault)
	p.DrawTextWidth(0, 1, 6, "Zeron Cybersecurity", tcell.StyleDefault)
	p.DrawText(0, 2, "outside", tcell.StyleDefault)

	assert.Equal(t, "abcdefghij", rowText(s, 0, 20))
	assert.Equal(t, "Zeron…", rowText(s, 1, 20))
	assert.Equal(t, "", rowText(s, 2, 20))
}

func TestPainterWideRunes(t *testing.T) {
	s := newScreen(t, 10, 1)
	p := NewPainter(s, Rect{W: 3, H: 1})
	used := p.DrawText(0, 0, "日本", tcell.StyleDefault)
	assert.Equal(t, 2, used, "second wide rune would straddle the clip")
}

func TestRectIntersect(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}.Intersect(Rect{X: 5, Y: 8, W: 10, H: 10})
	assert.Equal(t, Rect{X: 5, Y: 8, W: 5, H: 2}, r)
	empty := Rect{W: 2, H: 2}.Intersect(Rect{X: 5, Y: 5, W: 1, H: 1})
	assert.Zero(t, empty.W)
	assert.Equal(t, Rect{X: 1, Y: 1, W: 8, H: 0}, Rect{W: 10, H: 1}.Inset(1))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"Strong", "technical", "team"}, Wrap("Strong technical team", 9))
	assert.Equal(t, []string{"abcd", "ef"}, Wrap("abcdef", 4))
	assert.Equal(t, []string{"a", "", "b"}, Wrap("a\n\nb", 10))
}

func TestInputEditing(t *testing.T) {
	in := NewInput("Acme", "")
	typeText(in, " AI")
	assert.Equal(t, "Acme AI", in.Value())

	in.HandleKey(key(tcell.KeyHome))
	typeText(in, ">")
	assert.Equal(t, ">Acme AI", in.Value())
	assert.Equal(t, 1, in.Caret())

	in.HandleKey(key(tcell.KeyBackspace2))
	in.HandleKey(key(tcell.KeyDelete))
	assert.Equal(t, "cme AI", in.Value())

	in.HandleKey(key(tcell.KeyEnd))
	in.HandleKey(key(tcell.KeyLeft))
	in.HandleKey(key(tcell.KeyBackspace))
	assert.Equal(t, "cme I", in.Value())
	assert.False(t, in.HandleKey(key(tcell.KeyEnter)))
}

func TestInputDrawsPlaceholderAndMask(t *testing.T) {
	th := DefaultTheme()
	s := newScreen(t, 20, 2)
	p := NewPainter(s, Rect{W: 20, H: 2})

	NewInput("", "Enter username").Draw(p, Rect{W: 20, H: 1}, th)
	assert.Equal(t, "Enter username", rowText(s, 0, 20))

	secret := NewInput("abc", "")
	secret.Mask = '*'
	secret.Draw(p, Rect{Y: 1, W: 20, H: 1}, th)
	assert.Equal(t, "***", rowText(s, 1, 20))
}

func TestInputScrollsToCaret(t *testing.T) {
	th := DefaultTheme()
	s := newScreen(t, 5, 1)
	in := NewInput("abcdefghij", "")
	in.Focus()
	in.Draw(NewPainter(s, Rect{W: 5, H: 1}), Rect{W: 5, H: 1}, th)
	assert.Equal(t, "ghij", rowText(s, 0, 5))
}

func TestTextAreaLines(t *testing.T) {
	ta := NewTextArea("Node.js", "", 3)
	ta.HandleKey(key(tcell.KeyEnter))
	typeText(ta, "React")
	assert.Equal(t, "Node.js\nReact", ta.Value())

	ta.HandleKey(key(tcell.KeyHome))
	ta.HandleKey(key(tcell.KeyBackspace2))
	assert.Equal(t, "Node.jsReact", ta.Value())
	x, y := ta.Caret()
	assert.Equal(t, 7, x)
	assert.Equal(t, 0, y)

	ta.HandleKey(key(tcell.KeyEnter))
	ta.HandleKey(key(tcell.KeyUp))
	ta.HandleKey(key(tcell.KeyEnd))
	ta.HandleKey(key(tcell.KeyDelete))
	assert.Equal(t, "Node.jsReact", ta.Value())
	assert.False(t, ta.HandleKey(key(tcell.KeyUp)), "up on the first line is left to the form")
}

func TestTextAreaDraw(t *testing.T) {
	s := newScreen(t, 10, 3)
	ta := NewTextArea("one\ntwo\nthree\nfour", "", 2)
	ta.Focus()
	ta.HandleKey(key(tcell.KeyUp))
	ta.Draw(NewPainter(s, Rect{W: 10, H: 2}), Rect{W: 10, H: 2}, DefaultTheme())
	assert.Equal(t, "three", rowText(s, 0, 10))
	assert.Equal(t, "four", rowText(s, 1, 10))
}

func TestChoiceCycles(t *testing.T) {
	c := NewChoice([]string{"Yes", "No"}, "No")
	assert.Equal(t, "No", c.Value())
	c.HandleKey(key(tcell.KeyRight))
	assert.Equal(t, "Yes", c.Value())
	c.HandleKey(key(tcell.KeyLeft))
	assert.Equal(t, "No", c.Value())
	c.HandleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	assert.Equal(t, "Yes", c.Value())
}

func TestFormFocusAndErrors(t *testing.T) {
	name := NewInput("", "")
	prompt := NewTextArea("", "", 2)
	f := NewForm(
		&FormField{Name: "note", Label: "Weights", Widget: &Label{Text: "static"}, Static: true},
		&FormField{Name: "name", Label: "Name", Widget: name},
		&FormField{Name: "customPrompt", Label: "Custom Prompt", Widget: prompt},
	)
	assert.Equal(t, "name", f.Focused().Name, "static fields are skipped")
	assert.True(t, name.Focused())

	f.HandleKey(key(tcell.KeyTab))
	assert.Equal(t, "customPrompt", f.Focused().Name)
	assert.False(t, name.Focused())

	f.HandleKey(key(tcell.KeyTab))
	assert.Equal(t, "name", f.Focused().Name, "focus wraps")

	typeText(name, "Deep tech")
	assert.Equal(t, "Deep tech", f.Value("name"))

	f.HandleKey(key(tcell.KeyDown))
	assert.Equal(t, "customPrompt", f.Focused().Name, "inputs leave Down to the form")

	f.SetErrors(map[string]string{"name": "Filter name is required"})
	assert.Equal(t, "name", f.Focused().Name)
	assert.Equal(t, "", f.Field("customPrompt").Error)

	s := newScreen(t, 30, 12)
	f.Draw(NewPainter(s, Rect{W: 30, H: 12}), Rect{W: 30, H: 12}, DefaultTheme())
	assert.Equal(t, "Weights", rowText(s, 0, 30))
	assert.Equal(t, "static", rowText(s, 1, 30))
	assert.Equal(t, "Name", rowText(s, 3, 30))
	assert.Equal(t, "Deep tech", rowText(s, 4, 30))
	assert.Equal(t, "Filter name is required", rowText(s, 5, 30))
}
