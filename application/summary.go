// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: application/summary.go
// Summary: Dashboard list rows and status metrics derived from backend data.

package application

import (
	"strings"
	"time"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/tree"
)

// Status of an application in the review pipeline.
type Status string

const (
	StatusAll        Status = "all"
	StatusSubmitted  Status = "submitted"
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

// StatusFilters are the choices offered by the dashboard status filter.
var StatusFilters = []Status{StatusAll, StatusSubmitted, StatusCompleted}

// Label capitalises the status for display.
func (s Status) Label() string {
	if s == "" {
		return "Unknown"
	}
	if s == StatusAll {
		return "All Status"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// NotProvided is shown for missing contact details.
const NotProvided = "Not provided"

// RecentCount is how many applications the dashboard lists as recent.
const RecentCount = 4

// Summary is one dashboard row.
type Summary struct {
	ID           string  `json:"id"`
	CompanyName  string  `json:"companyName"`
	ContactName  string  `json:"contact_name,omitempty"`
	ContactEmail string  `json:"contact_email,omitempty"`
	Status       Status  `json:"status"`
	Score        float64 `json:"overallScore,omitempty"`
	SubmittedAt  string  `json:"submittedAt"`
	Industry     string  `json:"industry"`
}

// Contact returns the contact name or the not-provided marker.
func (s Summary) Contact() string { return orNotProvided(s.ContactName) }

// Email returns the contact email or the not-provided marker.
func (s Summary) Email() string { return orNotProvided(s.ContactEmail) }

// ScoreText renders the overall score as "7.2/10", or "-" when unscored.
func (s Summary) ScoreText() string {
	if s.Score == 0 {
		return "-"
	}
	return tree.FormatNumber(s.Score) + "/10"
}

func orNotProvided(s string) string {
	if s == "" {
		return NotProvided
	}
	return s
}

// Summarize maps one backend application record to a dashboard row.
func Summarize(app tree.Value, now time.Time) Summary {
	s := Summary{
		ID:           text(app.Field("id")),
		CompanyName:  text(app.Field("startup_name")),
		ContactName:  text(app.Field("contact_name")),
		ContactEmail: text(app.Field("contact_email")),
		Status:       Status(text(app.Field("status"))),
		Score:        app.Field("score").AsNumber(),
		Industry:     text(app.Field("industry")),
	}
	if s.CompanyName == "" {
		s.CompanyName = "Unknown Company"
	}
	if s.Status == "" {
		s.Status = StatusSubmitted
	}
	if s.Industry == "" {
		s.Industry = "Unknown"
	}
	s.SubmittedAt = dateOnly(text(app.Field("created_at")), now)
	return s
}

// SummarizeAll maps a backend list response.
func SummarizeAll(list tree.Value, now time.Time) ([]Summary, error) {
	if list.Kind() != tree.KindList {
		return nil, apperrors.Newf(apperrors.KindParse, "summarize applications", "expected a list of applications, got %s", list.Kind())
	}
	items := list.Items()
	out := make([]Summary, len(items))
	for i, item := range items {
		out[i] = Summarize(item, now)
	}
	return out, nil
}

// Recent returns the first RecentCount rows.
func Recent(rows []Summary) []Summary {
	if len(rows) > RecentCount {
		return rows[:RecentCount]
	}
	return rows
}

// Metrics counts applications per status.
type Metrics struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Completed int `json:"completed"`
}

// ComputeMetrics counts dashboard rows.
func ComputeMetrics(rows []Summary) Metrics {
	m := Metrics{Total: len(rows)}
	for _, r := range rows {
		m.count(r.Status)
	}
	return m
}

// RawMetrics counts backend records by their literal status field.
func RawMetrics(list tree.Value) Metrics {
	m := Metrics{Total: list.Len()}
	for _, item := range list.Items() {
		m.count(Status(item.Field("status").AsString()))
	}
	return m
}

func (m *Metrics) count(s Status) {
	switch s {
	case StatusSubmitted:
		m.Submitted++
	case StatusCompleted:
		m.Completed++
	}
}

// text returns the display text of a scalar, "" for absent or non-scalar
// values.
func text(v tree.Value) string {
	switch v.Kind() {
	case tree.KindString, tree.KindNumber, tree.KindBool:
		return v.Text()
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp shapes the backend emits.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateOnly renders a timestamp as YYYY-MM-DD in UTC, falling back to now's
// date when absent.
func dateOnly(s string, now time.Time) string {
	if s == "" {
		return now.UTC().Format("2006-01-02")
	}
	if t, ok := parseTime(s); ok {
		return t.UTC().Format("2006-01-02")
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}
