// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/filters.go
// Summary: Evaluation filter presets: list, toggle, delete and create.
// Notes: Presets live in the local preference store, so calls are made
// directly on the event loop.

package reviewer

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/prefs"
	"github.com/framegrace/deckreview/ui"
	"github.com/framegrace/deckreview/validate"
)

const (
	filterCreatedText = "Filter created successfully"
	filterFailedText  = "Failed to create filter. Please try again."
	noFiltersText     = "No filters created yet"
)

type filtersScreen struct {
	app      *App
	list     []prefs.Filter
	selected string
	sel      int
	err      error
}

func newFiltersScreen(a *App) *filtersScreen {
	s := &filtersScreen{app: a}
	s.reload()
	return s
}

func (s *filtersScreen) reload() {
	a := s.app
	list, err := a.filters.List(a.ctx)
	if err != nil {
		klog.FromContext(a.ctx).Error(err, "Loading filters failed")
		s.err = err
		return
	}
	s.err = nil
	s.list = list
	s.selected = ""
	if f, ok, err := a.filters.Selected(a.ctx); err == nil && ok {
		s.selected = f.ID
	}
	s.sel = min(s.sel, max(0, len(s.list)-1))
}

func (s *filtersScreen) title() string { return "Filters" }

func (s *filtersScreen) hints() string {
	return "↑/↓ select · Enter/Space toggle · n new filter · d delete · Esc back"
}

func (s *filtersScreen) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyUp || isRune(ev, 'k'):
		s.sel = max(0, s.sel-1)
	case ev.Key() == tcell.KeyDown || isRune(ev, 'j'):
		s.sel = min(max(0, len(s.list)-1), s.sel+1)
	case ev.Key() == tcell.KeyEnter || isRune(ev, ' '):
		s.toggle()
	case isRune(ev, 'n'):
		s.app.push(newFilterForm(s.app, s.reload))
	case isRune(ev, 'd'):
		s.remove()
	default:
		return false
	}
	return true
}

func (s *filtersScreen) toggle() {
	if s.sel >= len(s.list) {
		return
	}
	a := s.app
	f, selected, err := a.filters.Toggle(a.ctx, s.list[s.sel].ID)
	if err != nil {
		a.fail("Error", apperrors.Message(err))
		return
	}
	a.info(prefs.ToggleMessage(f, selected))
	s.reload()
}

func (s *filtersScreen) remove() {
	if s.sel >= len(s.list) {
		return
	}
	a := s.app
	f := s.list[s.sel]
	if err := a.filters.Delete(a.ctx, f.ID); err != nil {
		a.fail("Error", apperrors.Message(err))
		return
	}
	a.info("Filter Deleted", strconv.Quote(f.Name)+" was removed")
	s.reload()
}

func (s *filtersScreen) draw(p *ui.Painter, r ui.Rect) {
	th := s.app.theme
	listW := min(40, r.W/2)
	box := ui.Rect{X: r.X + 1, Y: r.Y, W: listW, H: r.H}
	p.DrawBox(box, "Filters", th.Border)
	y := box.Y + 1
	switch {
	case s.err != nil:
		p.DrawTextWidth(box.X+2, y, box.W-4, apperrors.Message(s.err), th.Error)
	case len(s.list) == 0:
		p.DrawTextWidth(box.X+2, y, box.W-4, noFiltersText, th.Muted)
	}
	for i, f := range s.list {
		if y >= box.Y+box.H-1 {
			break
		}
		style := th.Base
		if i == s.sel {
			style = th.Selected
			p.Fill(ui.Rect{X: box.X + 1, Y: y, W: box.W - 2, H: 1}, ' ', style)
		}
		p.DrawTextWidth(box.X+2, y, box.W-6, f.Name, style)
		if f.ID == s.selected {
			p.DrawText(box.X+box.W-3, y, "✓", style.Foreground(ui.ColorGreen))
		}
		y++
	}

	if s.sel >= len(s.list) {
		return
	}
	f := s.list[s.sel]
	pane := ui.Rect{X: box.X + box.W + 1, Y: r.Y, W: r.W - box.W - 3, H: r.H}
	p.DrawBox(pane, f.Name, th.Border)
	y = pane.Y + 1
	x := pane.X + 2
	w := pane.W - 4
	p.DrawText(x, y, "Custom Prompt", th.Label)
	y++
	for _, line := range ui.Wrap(f.CustomPrompt, w) {
		p.DrawTextWidth(x, y, w, line, th.Base)
		y++
	}
	y++
	p.DrawText(x, y, "Dimension Importance (0-100)", th.Label)
	y++
	for _, dim := range prefs.DimensionNames {
		weight := f.Dimensions.Get(dim)
		p.DrawTextWidth(x, y, 12, capitalize(dim), th.Base)
		p.DrawText(x+12, y, progressBar(float64(weight)/10, 20), th.Accent)
		p.DrawText(x+34, y, strconv.Itoa(weight), th.Base)
		y++
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// filterForm creates a new preset.
type filterForm struct {
	app  *App
	form *ui.Form
	done func()
}

func weightField(dim string) string { return "weight." + dim }

func newFilterForm(a *App, done func()) *filterForm {
	s := &filterForm{app: a, done: done}
	fields := []*ui.FormField{
		{Name: validate.FieldFilterName, Label: "Filter Name *", Widget: ui.NewInput("", "Enter filter name")},
		{Name: validate.FieldCustomPrompt, Label: "Custom Prompt *", Widget: ui.NewTextArea("", "Enter your custom evaluation prompt...", 4)},
		{Name: validate.FieldDimensions, Label: "Dimension Importance (0-100)", Widget: &ui.Label{Text: "0 = Not important at all • 50 = Moderately important • 100 = Extremely important"}, Static: true},
	}
	defaults := prefs.DefaultDimensions()
	for _, dim := range prefs.DimensionNames {
		fields = append(fields, &ui.FormField{
			Name:   weightField(dim),
			Label:  capitalize(dim),
			Widget: ui.NewInput(strconv.Itoa(defaults.Get(dim)), "0-100"),
			Depth:  1,
		})
	}
	s.form = ui.NewForm(fields...)
	return s
}

func (s *filterForm) title() string { return "Create New Filter" }

func (s *filterForm) hints() string {
	return "Tab/↑/↓ move · Ctrl-R reset weights · Ctrl-S create · Esc cancel"
}

func (s *filterForm) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlS:
		s.submit()
		return true
	case tcell.KeyCtrlR:
		s.resetWeights()
		return true
	case tcell.KeyEscape:
		return false
	}
	s.form.HandleKey(ev)
	return true
}

func (s *filterForm) paste(text string) {
	if fd := s.form.Focused(); fd != nil {
		typeInto(fd.Widget, text)
	}
}

func (s *filterForm) resetWeights() {
	defaults := prefs.DefaultDimensions()
	for _, dim := range prefs.DimensionNames {
		if in, ok := s.form.Field(weightField(dim)).Widget.(*ui.Input); ok {
			in.SetValue(strconv.Itoa(defaults.Get(dim)))
		}
	}
}

// weights reads the weight inputs. Non-numeric input is reported per field.
func (s *filterForm) weights() (prefs.Dimensions, map[string]string) {
	var dims prefs.Dimensions
	errs := map[string]string{}
	for _, dim := range prefs.DimensionNames {
		name := weightField(dim)
		n, err := strconv.Atoi(strings.TrimSpace(s.form.Value(name)))
		if err != nil {
			errs[name] = "Enter a whole number between 0 and 100"
			continue
		}
		if n < validate.MinWeight || n > validate.MaxWeight {
			errs[name] = "Weight for " + dim + " must be between 0 and 100"
			continue
		}
		_ = dims.Set(dim, n)
	}
	return dims, errs
}

func (s *filterForm) submit() {
	a := s.app
	dims, errs := s.weights()
	if len(errs) > 0 {
		s.form.SetErrors(errs)
		return
	}
	name := s.form.Value(validate.FieldFilterName)
	prompt := s.form.Value(validate.FieldCustomPrompt)
	if _, err := a.filters.Create(a.ctx, name, prompt, dims); err != nil {
		if fields := apperrors.Fields(err); fields != nil {
			s.form.SetErrors(fields)
			return
		}
		klog.FromContext(a.ctx).Error(err, "Creating filter failed")
		a.fail("Error", filterFailedText)
		return
	}
	a.info("Success", filterCreatedText)
	if a.top() == s {
		a.pop()
	}
	if s.done != nil {
		s.done()
	}
}

func (s *filterForm) draw(p *ui.Painter, r ui.Rect) {
	th := s.app.theme
	w := min(80, r.W-2)
	box := ui.Rect{X: r.X + (r.W-w)/2, Y: r.Y, W: w, H: r.H}
	p.DrawBox(box, "Create New Filter", th.Focus)
	p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, "Set up a custom evaluation filter. Rate each dimension from 0-100 based on importance.", th.Muted)
	inner := ui.Rect{X: box.X + 2, Y: box.Y + 3, W: box.W - 4, H: box.H - 4}
	s.form.Draw(p.Sub(inner), inner, th)
}
