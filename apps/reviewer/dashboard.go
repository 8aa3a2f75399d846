// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/dashboard.go
// Summary: Application list with metrics, recent submissions and a searchable table.

package reviewer

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/backend"
	"github.com/framegrace/deckreview/ui"
)

// Dashboard texts.
const (
	loadFailedText = "Failed to load applications. Please check if the API is available."
	noAppsTitle    = "No applications"
	noAppsText     = "No pitch deck applications found."
)

type dashboard struct {
	app *App

	loading bool
	err     error
	rows    []application.Summary
	// seq discards responses from superseded fetches.
	seq int

	search    *ui.Input
	searching bool
	status    int
	sel       int
	off       int
}

func newDashboard(a *App) *dashboard {
	d := &dashboard{app: a, search: ui.NewInput("", "Search companies or founders...")}
	d.load()
	return d
}

func (d *dashboard) statusFilter() application.Status {
	return application.StatusFilters[d.status]
}

func (d *dashboard) load() {
	d.loading = true
	d.seq++
	seq := d.seq
	opts := backend.ListOptions{Status: d.statusFilter(), Search: d.search.Value()}
	a := d.app
	a.async(func(ctx context.Context) func() {
		list, err := a.backend.ListApplications(ctx, opts)
		var rows []application.Summary
		if err == nil {
			rows, err = application.SummarizeAll(list, a.now())
		}
		if err != nil {
			klog.FromContext(ctx).Error(err, "Fetching applications failed", "status", opts.Status, "search", opts.Search)
		}
		return func() {
			if seq != d.seq {
				return
			}
			d.loading = false
			d.err = err
			if err == nil {
				d.rows = rows
			}
			d.sel = min(d.sel, max(0, len(d.rows)-1))
		}
	})
}

func (d *dashboard) title() string { return "Dashboard" }

func (d *dashboard) hints() string {
	if d.searching {
		return "Enter search · Esc cancel"
	}
	return "↑/↓ select · Enter open · / search · s status · n new · f filters · r refresh · L logout · q quit"
}

func (d *dashboard) handleKey(ev *tcell.EventKey) bool {
	if d.searching {
		switch ev.Key() {
		case tcell.KeyEnter:
			d.searching = false
			d.search.Blur()
			d.load()
		case tcell.KeyEscape:
			d.searching = false
			d.search.Blur()
		default:
			d.search.HandleKey(ev)
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyUp:
		d.sel = max(0, d.sel-1)
		return true
	case tcell.KeyDown:
		d.sel = min(max(0, len(d.rows)-1), d.sel+1)
		return true
	case tcell.KeyEnter:
		if d.sel < len(d.rows) && d.err == nil {
			d.app.push(newDetail(d.app, d.rows[d.sel].ID))
		}
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch {
	case isRune(ev, 'k'):
		d.sel = max(0, d.sel-1)
	case isRune(ev, 'j'):
		d.sel = min(max(0, len(d.rows)-1), d.sel+1)
	case isRune(ev, '/'):
		d.searching = true
		d.search.Focus()
	case isRune(ev, 's'):
		d.status = (d.status + 1) % len(application.StatusFilters)
		d.sel = 0
		d.load()
	case isRune(ev, 'r'):
		d.load()
	case isRune(ev, 'n'):
		d.app.push(newCreateScreen(d.app, d.load))
	case isRune(ev, 'f'):
		d.app.push(newFiltersScreen(d.app))
	case isRune(ev, 'L'):
		d.app.logout()
	default:
		return false
	}
	return true
}

func (d *dashboard) paste(text string) {
	if d.searching {
		typeInto(d.search, text)
	}
}

func (d *dashboard) draw(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	r = ui.Rect{X: r.X + 1, Y: r.Y, W: r.W - 2, H: r.H}
	y := r.Y

	p.DrawText(r.X, y, "Dashboard", th.Title)
	switch {
	case d.loading && d.rows == nil && d.err == nil:
		indicator := "Loading..."
		p.DrawText(r.X+r.W-len(indicator), y, indicator, th.Muted)
	case d.err != nil:
		p.DrawText(r.X+r.W-len("● API Error"), y, "● API Error", th.Error)
	default:
		p.DrawText(r.X+r.W-len("● Live Data"), y, "● Live Data", th.Success)
	}
	y++
	p.DrawTextWidth(r.X, y, r.W, "Overview of pitch deck applications and evaluation status", th.Muted)
	y += 2

	if d.err != nil {
		box := ui.Rect{X: r.X, Y: y, W: r.W, H: 4}
		p.DrawBox(box, "Error", th.Error)
		p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, loadFailedText, th.Error)
		p.DrawTextWidth(box.X+2, box.Y+2, box.W-4, "Press r to retry.", th.Muted)
		y += box.H + 1
	}

	y = d.drawMetrics(p, r, y)

	if d.err != nil {
		return
	}
	if d.loading && d.rows == nil {
		drawCentered(p, r, y+1, "Loading applications...", th.Muted)
		return
	}
	if len(d.rows) == 0 && d.search.Value() == "" && d.statusFilter() == application.StatusAll {
		box := ui.Rect{X: r.X, Y: y, W: r.W, H: 4}
		p.DrawBox(box, "", th.Border)
		drawCentered(p, box, box.Y+1, noAppsTitle, th.Title)
		drawCentered(p, box, box.Y+2, noAppsText, th.Muted)
		return
	}

	if len(d.rows) > 0 {
		y = d.drawRecent(p, r, y)
	}
	d.drawTable(p, ui.Rect{X: r.X, Y: y, W: r.W, H: r.Y + r.H - y})
}

func (d *dashboard) drawMetrics(p *ui.Painter, r ui.Rect, y int) int {
	th := d.app.theme
	m := application.ComputeMetrics(d.rows)
	cards := []struct {
		title, sub string
		n          int
	}{
		{"Total Applications", "All submitted applications", m.Total},
		{"Pending Review", "Awaiting evaluation", m.Submitted},
		{"Completed", "Evaluation completed", m.Completed},
	}
	w := (r.W - 2) / 3
	for i, c := range cards {
		box := ui.Rect{X: r.X + i*(w+1), Y: y, W: w, H: 4}
		p.DrawBox(box, c.title, th.Border)
		p.DrawText(box.X+2, box.Y+1, fmt.Sprint(c.n), th.Title)
		p.DrawTextWidth(box.X+2, box.Y+2, box.W-4, c.sub, th.Muted)
	}
	return y + 5
}

func (d *dashboard) drawRecent(p *ui.Painter, r ui.Rect, y int) int {
	th := d.app.theme
	recent := application.Recent(d.rows)
	box := ui.Rect{X: r.X, Y: y, W: r.W, H: 3 + 2*len(recent)}
	p.DrawBox(box, "Recent Applications", th.Border)
	p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, "Latest pitch deck submissions and their evaluation status", th.Muted)
	row := box.Y + 2
	for _, s := range recent {
		x := box.X + 2
		p.SetCell(x, row, statusIcon(s.Status), statusStyle(th, s.Status))
		x += 2
		right := "[" + s.Status.Label() + "]"
		if s.Score != 0 {
			right = "Score: " + s.ScoreText() + " " + right
		}
		rw := len([]rune(right))
		p.DrawTextWidth(x, row, box.W-6-rw-1, s.CompanyName, th.Base.Bold(true))
		p.DrawText(box.X+box.W-2-rw, row, right, statusStyle(th, s.Status))
		p.DrawTextWidth(x, row+1, box.W-6, "Contact: "+s.Contact()+" • "+s.Email()+" · Submitted: "+s.SubmittedAt, th.Muted)
		row += 2
	}
	return y + box.H + 1
}

var tableColumns = []struct {
	title string
	width int
}{
	{"Company", 24},
	{"Contact Name", 18},
	{"Contact Email", 26},
	{"Status", 11},
	{"Score", 7},
	{"Submission Date", 15},
}

func (d *dashboard) drawTable(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	if r.H < 5 {
		return
	}
	p.DrawBox(r, "All Applications", th.Border)
	inner := ui.Rect{X: r.X + 2, Y: r.Y + 1, W: r.W - 4, H: r.H - 2}
	y := inner.Y
	p.DrawTextWidth(inner.X, y, inner.W, "Complete list of pitch deck submissions with search and filter", th.Muted)
	y++

	searchW := min(40, inner.W/2)
	p.DrawText(inner.X, y, "Search:", th.Label)
	d.search.Draw(p, ui.Rect{X: inner.X + 8, Y: y, W: searchW, H: 1}, th)
	filter := "Filter by status: " + d.statusFilter().Label()
	p.DrawTextWidth(inner.X+8+searchW+2, y, inner.W-searchW-10, filter, th.Label)
	y += 2

	x := inner.X
	for _, c := range tableColumns {
		p.DrawTextWidth(x, y, c.width-1, c.title, th.Label)
		x += c.width
	}
	y++

	if len(d.rows) == 0 {
		p.DrawTextWidth(inner.X, y, inner.W, "No applications match the current search.", th.Muted)
		return
	}

	visible := inner.Y + inner.H - y
	d.off = clampScroll(d.off, d.sel, visible)
	for i := d.off; i < len(d.rows) && y < inner.Y+inner.H; i++ {
		s := d.rows[i]
		base := th.Base
		if i == d.sel {
			base = th.Selected
			p.Fill(ui.Rect{X: inner.X, Y: y, W: inner.W, H: 1}, ' ', base)
		}
		cells := []struct {
			text  string
			style tcell.Style
		}{
			{s.CompanyName, base.Foreground(ui.ColorBlue)},
			{s.Contact(), base},
			{s.Email(), base},
			{s.Status.Label(), base.Foreground(fgOf(statusStyle(th, s.Status)))},
			{s.ScoreText(), base},
			{s.SubmittedAt, base},
		}
		x := inner.X
		for j, c := range tableColumns {
			p.DrawTextWidth(x, y, min(c.width-1, inner.X+inner.W-x), cells[j].text, cells[j].style)
			x += c.width
		}
		y++
	}
}

func fgOf(s tcell.Style) tcell.Color {
	fg, _, _ := s.Decompose()
	return fg
}
