// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/reviewer/detail.go
// Summary: One application: header, actions, deck upload and tabbed content.

package reviewer

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/highlight"
	"github.com/framegrace/deckreview/render"
	"github.com/framegrace/deckreview/section"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/ui"
	"github.com/framegrace/deckreview/validate"
)

// Detail screen texts.
const (
	notFoundText      = "Application not found"
	loadErrorTitle    = "Error Loading Application"
	noEnrichedText    = "No enhanced data available. Please trigger data enhancement."
	noRawText         = "No raw data available. Please trigger data extraction."
	noIssuesText      = "No issues or action items"
	uploadSuccessText = "Pitch deck updated successfully. Refreshing data..."
	uploadFailedText  = "Failed to upload pitch deck"
)

type tab int

const (
	tabOverview tab = iota
	tabEnriched
	tabRaw
	tabNotes
	tabCount
)

func (t tab) label(d *application.Detail) string {
	switch t {
	case tabOverview:
		return "Overview & Scores"
	case tabEnriched:
		return "Enriched Data"
	case tabRaw:
		return "Raw Extracted Data"
	}
	if d != nil && len(d.Issues) > 0 {
		return fmt.Sprintf("Notes (%d)", len(d.Issues))
	}
	return "Notes"
}

type detailScreen struct {
	app *App
	id  string

	loading  bool
	notFound bool
	err      error
	detail   *application.Detail
	raw      *section.Controller

	tab        tab
	scroll     int
	rawSel     int
	rawJSON    bool
	processing application.Action
	uploading  bool
	upload     *ui.Input
}

func newDetail(a *App, id string) *detailScreen {
	d := &detailScreen{app: a, id: id}
	d.load()
	return d
}

func (d *detailScreen) load() {
	d.loading = true
	a := d.app
	id := d.id
	a.async(func(ctx context.Context) func() {
		v, err := a.backend.GetApplication(ctx, id)
		var det application.Detail
		if err == nil {
			det, err = application.ParseDetail(v)
		}
		if err != nil {
			klog.FromContext(ctx).Error(err, "Fetching application failed", "id", id)
		}
		return func() { d.loaded(det, err) }
	})
}

func (d *detailScreen) loaded(det application.Detail, err error) {
	d.loading = false
	switch {
	case apperrors.Is(err, apperrors.KindNotFound):
		d.notFound = true
		d.detail = nil
		d.raw = nil
		return
	case err != nil && d.detail != nil:
		// Keep what is on screen; a failed refresh is only reported.
		d.app.fail("Error", apperrors.Message(err))
		return
	case err != nil:
		d.err = err
		return
	}
	d.err = nil
	d.notFound = false
	d.detail = &det
	if d.raw == nil {
		d.raw = section.New(det.Raw, d.persistRaw, section.WithNotifier(d.app.notifier))
	} else {
		d.raw.Replace(det.Raw)
	}
	d.rawSel = min(d.rawSel, max(0, len(d.raw.Sections())-1))
}

func (d *detailScreen) persistRaw(ctx context.Context, doc tree.Value) error {
	return d.app.backend.SaveRaw(ctx, d.id, doc)
}

func (d *detailScreen) title() string {
	if d.detail != nil && d.detail.StartupName != "" {
		return d.detail.StartupName
	}
	return "Application"
}

func (d *detailScreen) hints() string {
	if d.uploading {
		return "Enter upload · Esc cancel"
	}
	if d.detail == nil {
		return "Esc back · r retry"
	}
	h := "Tab/1-4 switch tab · x extract · h enhance · v evaluate · u upload deck · r refresh"
	if d.tab == tabRaw {
		h += " · ↑/↓ section · e edit · j JSON"
	} else {
		h += " · PgUp/PgDn scroll"
	}
	return h + " · Esc back"
}

func (d *detailScreen) handleKey(ev *tcell.EventKey) bool {
	if d.uploading {
		switch ev.Key() {
		case tcell.KeyEnter:
			d.submitUpload()
		case tcell.KeyEscape:
			d.uploading = false
		default:
			d.upload.HandleKey(ev)
		}
		return true
	}
	if d.processing != "" {
		// Actions are exclusive; only leaving the screen is allowed.
		return ev.Key() != tcell.KeyEscape
	}
	if isRune(ev, 'r') {
		d.load()
		return true
	}
	if d.detail == nil {
		return false
	}

	switch ev.Key() {
	case tcell.KeyTab, tcell.KeyRight:
		d.setTab((d.tab + 1) % tabCount)
		return true
	case tcell.KeyBacktab, tcell.KeyLeft:
		d.setTab((d.tab + tabCount - 1) % tabCount)
		return true
	case tcell.KeyPgDn:
		d.scroll += 5
		return true
	case tcell.KeyPgUp:
		d.scroll = max(0, d.scroll-5)
		return true
	case tcell.KeyUp:
		if d.tab == tabRaw {
			d.rawSel = max(0, d.rawSel-1)
			d.scroll = 0
		} else {
			d.scroll = max(0, d.scroll-1)
		}
		return true
	case tcell.KeyDown:
		if d.tab == tabRaw {
			d.rawSel = min(max(0, len(d.raw.Sections())-1), d.rawSel+1)
			d.scroll = 0
		} else {
			d.scroll++
		}
		return true
	case tcell.KeyEnter:
		if d.tab == tabRaw {
			d.edit()
		}
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch {
	case ev.Rune() >= '1' && ev.Rune() <= '4':
		d.setTab(tab(ev.Rune() - '1'))
	case isRune(ev, 'x'):
		d.trigger(application.ActionExtract)
	case isRune(ev, 'h'):
		d.trigger(application.ActionEnhance)
	case isRune(ev, 'v'):
		d.trigger(application.ActionEvaluate)
	case isRune(ev, 'u'):
		d.uploading = true
		d.upload = ui.NewInput("", "Path to a PDF pitch deck")
		d.upload.Focus()
	case isRune(ev, 'e') && d.tab == tabRaw:
		d.edit()
	case isRune(ev, 'j') && d.tab == tabRaw:
		d.rawJSON = !d.rawJSON
		d.scroll = 0
	default:
		return false
	}
	return true
}

func (d *detailScreen) paste(text string) {
	if d.uploading {
		typeInto(d.upload, text)
	}
}

func (d *detailScreen) setTab(t tab) {
	d.tab = t
	d.scroll = 0
}

func (d *detailScreen) selectedSection() (string, bool) {
	keys := d.raw.Sections()
	if d.rawSel >= len(keys) {
		return "", false
	}
	return keys[d.rawSel], true
}

func (d *detailScreen) edit() {
	key, ok := d.selectedSection()
	if !ok {
		return
	}
	s, err := newEditScreen(d.app, d.raw, key)
	if err != nil {
		d.app.fail("Error", apperrors.Message(err))
		return
	}
	d.app.push(s)
}

func (d *detailScreen) trigger(action application.Action) {
	if d.processing != "" {
		return
	}
	d.processing = action
	a := d.app
	id := d.id
	a.async(func(ctx context.Context) func() {
		_, err := a.backend.Trigger(ctx, id, action)
		log := klog.FromContext(ctx)
		if err != nil {
			log.Error(err, "Action failed", "id", id, "action", action)
		} else {
			log.Info("Action completed", "id", id, "action", action)
		}
		return func() {
			d.processing = ""
			if err != nil {
				a.fail("Error", action.Failed())
				return
			}
			a.info("Success", action.Completed())
			d.load()
		}
	})
}

func (d *detailScreen) submitUpload() {
	a := d.app
	path := d.upload.Value()
	if path == "" {
		return
	}
	d.uploading = false
	id := d.id
	a.async(func(ctx context.Context) func() {
		deck, err := a.readFile(path)
		if msg := validate.DeckError(&deck); err == nil && msg != "" {
			err = validate.Errors{validate.FieldFile: msg}.Err("upload pitch deck")
		}
		if err == nil {
			_, err = a.backend.UploadDeck(ctx, id, deck)
		}
		if err != nil {
			klog.FromContext(ctx).Error(err, "Uploading pitch deck failed", "id", id, "path", path)
		}
		return func() {
			if err != nil {
				msg := uploadFailedText
				if m := apperrors.Fields(err)[validate.FieldFile]; m != "" {
					msg = uploadFailedText + ": " + m
				}
				a.fail("Error", msg)
				return
			}
			a.info("Success", uploadSuccessText)
			d.load()
		}
	})
}

func (d *detailScreen) draw(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	r = ui.Rect{X: r.X + 1, Y: r.Y, W: r.W - 2, H: r.H}

	switch {
	case d.notFound:
		drawCentered(p, r, r.Y+r.H/2, notFoundText, th.Muted)
		return
	case d.detail == nil && d.err != nil:
		box := ui.Rect{X: r.X, Y: r.Y + 1, W: r.W, H: 4}
		p.DrawBox(box, loadErrorTitle, th.Error)
		p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, apperrors.Message(d.err), th.Error)
		p.DrawTextWidth(box.X+2, box.Y+2, box.W-4, "Press r to retry or Esc to go back.", th.Muted)
		return
	case d.detail == nil:
		drawCentered(p, r, r.Y+r.H/2, "Loading application...", th.Muted)
		return
	}

	y := d.drawHeader(p, r)
	y = d.drawActions(p, r, y)
	y = d.drawTabs(p, r, y)
	body := ui.Rect{X: r.X, Y: y, W: r.W, H: r.Y + r.H - y}

	if d.processing != "" {
		drawCentered(p, body, body.Y+body.H/2, d.processing.Progress(), th.Accent)
		return
	}

	switch d.tab {
	case tabOverview:
		d.drawOverview(p, body)
	case tabEnriched:
		d.drawEnriched(p, body)
	case tabRaw:
		d.drawRaw(p, body)
	case tabNotes:
		d.drawNotes(p, body)
	}

	if d.uploading {
		w := min(60, r.W-4)
		box := ui.Rect{X: r.X + (r.W-w)/2, Y: r.Y + r.H/2 - 2, W: w, H: 4}
		p.Fill(box, ' ', th.Base)
		p.DrawBox(box, "Upload Pitch Deck", th.Focus)
		d.upload.Draw(p, ui.Rect{X: box.X + 2, Y: box.Y + 1, W: box.W - 4, H: 1}, th)
		p.DrawTextWidth(box.X+2, box.Y+2, box.W-4, "Upload a new version of the pitch deck (PDF format only)", th.Muted)
	}
}

func (d *detailScreen) drawHeader(p *ui.Painter, r ui.Rect) int {
	th := d.app.theme
	det := d.detail
	y := r.Y
	score := "Score: " + det.ScoreText()
	p.DrawTextWidth(r.X, y, r.W-len(score)-2, det.StartupName, th.Title)
	p.DrawText(r.X+r.W-len(score), y, score, th.Accent.Bold(true))
	y++
	meta := []struct{ label, value string }{
		{"Contact Name", det.Contact()},
		{"Contact Email", det.Email()},
		{"Website", det.Website()},
	}
	x := r.X
	for _, m := range meta {
		x += p.DrawText(x, y, m.label+": ", th.Label)
		x += p.DrawText(x, y, m.value, th.Base) + 3
	}
	y++
	x = r.X
	x += p.DrawText(x, y, "Status: ", th.Label)
	x += p.DrawText(x, y, det.Status.Label(), statusStyle(th, det.Status)) + 3
	x += p.DrawText(x, y, "Last updated: ", th.Label)
	p.DrawText(x, y, det.LastUpdatedText(d.app.now()), th.Muted)
	return y + 2
}

func (d *detailScreen) drawActions(p *ui.Painter, r ui.Rect, y int) int {
	th := d.app.theme
	keys := map[application.Action]string{
		application.ActionExtract:  "x",
		application.ActionEnhance:  "h",
		application.ActionEvaluate: "v",
	}
	x := r.X
	for _, act := range application.Actions {
		label := "[" + keys[act] + "] " + act.Label()
		style := th.Focus
		switch {
		case d.processing == act:
			label = "[" + keys[act] + "] " + act.Busy()
			style = th.Accent
		case d.processing != "":
			style = th.Muted
		}
		x += p.DrawText(x, y, label, style) + 3
	}
	return y + 2
}

func (d *detailScreen) drawTabs(p *ui.Painter, r ui.Rect, y int) int {
	th := d.app.theme
	x := r.X
	for t := tabOverview; t < tabCount; t++ {
		style := th.Muted
		if t == d.tab {
			style = th.Selected
		}
		x += p.DrawText(x, y, " "+t.label(d.detail)+" ", style) + 1
	}
	p.Fill(ui.Rect{X: r.X, Y: y + 1, W: r.W, H: 1}, tcell.RuneHLine, th.Border)
	return y + 2
}

func (d *detailScreen) drawOverview(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	det := d.detail
	y := r.Y - d.scroll

	summary := ui.Wrap(det.SummaryText(), r.W-4)
	box := ui.Rect{X: r.X, Y: y, W: r.W, H: len(summary) + 3}
	p.DrawBox(box, "Summary", th.Border)
	p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, "AI-generated evaluation summary", th.Muted)
	for i, line := range summary {
		p.DrawText(box.X+2, box.Y+2+i, line, th.Base)
	}
	y += box.H

	cols := 3
	if r.W < 60 {
		cols = 1
	} else if r.W < 90 {
		cols = 2
	}
	w := (r.W - (cols - 1)) / cols
	const cardH = 7
	for i, dim := range application.Dimensions {
		card := ui.Rect{X: r.X + (i%cols)*(w+1), Y: y + (i/cols)*cardH, W: w, H: cardH}
		d.drawScoreCard(p, card, dim)
	}
}

func (d *detailScreen) drawScoreCard(p *ui.Painter, box ui.Rect, dim string) {
	th := d.app.theme
	p.DrawBox(box, application.DimensionTitle(dim), th.Border)
	inner := box.W - 4
	res, ok := d.detail.Result(dim)
	if !ok {
		p.DrawText(box.X+2, box.Y+1, application.NotComputedText, th.Muted.Bold(true))
		p.DrawText(box.X+2, box.Y+2, progressBar(0, inner), th.Muted)
		p.DrawTextWidth(box.X+2, box.Y+3, inner, application.EvaluationPendingText, th.Muted)
		p.DrawText(box.X+2, box.Y+4, confidenceText(0), th.Label)
		return
	}
	style := bandStyle(th, res.Score)
	p.DrawText(box.X+2, box.Y+1, tree.FormatNumber(res.Score), style.Bold(true))
	p.DrawText(box.X+2, box.Y+2, progressBar(res.Score, inner), style)
	bucket := res.Bucket
	if bucket == "" {
		bucket = "No summary available"
	}
	p.DrawTextWidth(box.X+2, box.Y+3, inner, bucket, th.Muted)
	p.DrawText(box.X+2, box.Y+4, confidenceText(res.ConfidenceScore), th.Label)
	if res.ManualCheck {
		p.DrawTextWidth(box.X+2, box.Y+5, inner, "Manual check required", th.Warning)
	}
}

// enrichedLines flattens every enriched section into one scrollable list.
func (d *detailScreen) enrichedLines() []render.Line {
	var out []render.Line
	for _, dim := range application.EnrichedOrder {
		v, ok := d.detail.Enriched.Lookup(dim)
		if !ok || v.IsNull() {
			continue
		}
		out = append(out,
			render.Line{Spans: []render.Span{{Text: render.Label(dim) + " (Enriched)", Style: render.StyleCardTitle}}},
			render.Line{Spans: []render.Span{{Text: "AI-enhanced " + dim + " intelligence", Style: render.StylePlaceholder}}},
		)
		for _, l := range render.Lines(render.Render(v)) {
			l.Indent++
			out = append(out, l)
		}
		out = append(out, render.Line{})
	}
	return out
}

func (d *detailScreen) drawEnriched(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	if !d.detail.HasEnriched() {
		drawCentered(p, r, r.Y+2, noEnrichedText, th.Muted)
		return
	}
	lines := d.enrichedLines()
	d.scroll = min(d.scroll, max(0, len(lines)-1))
	drawLines(p, r, th, lines, d.scroll)
}

func (d *detailScreen) drawRaw(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	keys := d.raw.Sections()
	if len(keys) == 0 {
		drawCentered(p, r, r.Y+2, noRawText, th.Muted)
		return
	}

	listW := 22
	for i, k := range keys {
		style := th.Base
		prefix := "  "
		if i == d.rawSel {
			style = th.Selected
			prefix = "▸ "
		}
		p.Fill(ui.Rect{X: r.X, Y: r.Y + i, W: listW - 1, H: 1}, ' ', style)
		p.DrawTextWidth(r.X, r.Y+i, listW-1, prefix+render.Label(k), style)
	}

	key := keys[d.rawSel]
	v, _ := d.raw.Section(key)
	pane := ui.Rect{X: r.X + listW, Y: r.Y, W: r.W - listW, H: r.H}
	title := render.Label(key)
	if d.rawJSON {
		title += " (JSON)"
	}
	p.DrawBox(pane, title, th.Border)
	inner := pane.Inset(1)
	inner.X++
	inner.W -= 2
	p.DrawTextWidth(inner.X, inner.Y, inner.W, "Raw extracted data for "+key, th.Muted)
	content := ui.Rect{X: inner.X, Y: inner.Y + 1, W: inner.W, H: inner.H - 1}

	if d.rawJSON {
		lines := highlight.Lines(v.Indented(), highlight.DefaultStyle)
		d.scroll = min(d.scroll, max(0, len(lines)-1))
		drawHighlighted(p, content, lines, d.scroll)
		return
	}
	lines := render.Lines(render.Render(v))
	d.scroll = min(d.scroll, max(0, len(lines)-1))
	drawLines(p, content, th, lines, d.scroll)
}

func (d *detailScreen) drawNotes(p *ui.Painter, r ui.Rect) {
	th := d.app.theme
	issues := d.detail.Issues
	var lines []string
	for _, issue := range issues {
		for i, l := range ui.Wrap(issue, r.W-8) {
			prefix := "  "
			if i == 0 {
				prefix = "! "
			}
			lines = append(lines, prefix+l)
		}
	}
	h := min(r.H, len(lines)+4)
	if len(issues) == 0 {
		h = 5
	}
	box := ui.Rect{X: r.X, Y: r.Y, W: r.W, H: h}
	p.DrawBox(box, "Issues & Action Items", th.Border)
	p.DrawTextWidth(box.X+2, box.Y+1, box.W-4, "Identified issues and manual action items during processing", th.Muted)
	if len(issues) == 0 {
		drawCentered(p, box, box.Y+3, noIssuesText, th.Muted)
		return
	}
	d.scroll = min(d.scroll, max(0, len(lines)-1))
	y := box.Y + 3
	for i := d.scroll; i < len(lines) && y < box.Y+box.H-1; i++ {
		style := th.Base
		if lines[i][0] == '!' {
			style = th.Warning
		}
		p.DrawTextWidth(box.X+2, y, box.W-4, lines[i], style)
		y++
	}
}
