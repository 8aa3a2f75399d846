// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: application/detail.go
// Summary: Detail view model with defaults for partially processed records.

package application

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/tree"
)

// Dimensions are the scored evaluation dimensions in overview order.
var Dimensions = []string{"founders", "market", "product", "traction", "vision", "investors"}

// EnrichedOrder is the order enriched sections are shown in.
var EnrichedOrder = []string{"market", "vision", "product", "founders", "traction", "investors"}

// NotEvaluatedScore marks a dimension the backend has not scored.
const NotEvaluatedScore = -1

// Texts for a dimension card without a score.
const (
	NotComputedText       = "Not Computed"
	EvaluationPendingText = "Evaluation pending"
)

// DimensionResult is the evaluation outcome for one dimension.
type DimensionResult struct {
	Score           float64
	Bucket          string
	ConfidenceScore float64
	Issues          []string
	ManualCheck     bool
	Breakdown       tree.Value
}

// Band classifies a score for colouring.
type Band int

const (
	BandWeak Band = iota
	BandModerate
	BandStrong
)

// BandOf buckets a 0..10 score.
func BandOf(score float64) Band {
	switch {
	case score >= 8:
		return BandStrong
	case score >= 6:
		return BandModerate
	}
	return BandWeak
}

// Detail is an application as shown on its detail screen.
type Detail struct {
	ID              string
	StartupName     string
	ContactName     string
	ContactEmail    string
	WebsiteURL      string
	Status          Status
	Score           float64
	ConfidenceScore float64
	CreatedAt       string
	LastUpdatedAt   string
	Country         string
	Stage           string
	Issues          []string
	Raw             tree.Value
	Enriched        tree.Value
	Results         map[string]DimensionResult
}

// ParseDetail builds a Detail from a backend record, filling defaults for
// anything the pipeline has not produced yet.
func ParseDetail(v tree.Value) (Detail, error) {
	if v.Kind() != tree.KindObject {
		return Detail{}, apperrors.Newf(apperrors.KindParse, "parse application", "expected an object, got %s", v.Kind())
	}
	d := Detail{
		ID:              text(v.Field("id")),
		StartupName:     text(v.Field("startup_name")),
		ContactName:     text(v.Field("contact_name")),
		ContactEmail:    text(v.Field("contact_email")),
		WebsiteURL:      text(v.Field("website_url")),
		Status:          Status(text(v.Field("status"))),
		Score:           v.Field("score").AsNumber(),
		ConfidenceScore: v.Field("confidence_score").AsNumber(),
		CreatedAt:       text(v.Field("created_at")),
		LastUpdatedAt:   text(v.Field("last_updated_at")),
		Country:         text(v.Field("country")),
		Stage:           text(v.Field("stage")),
		Issues:          []string{},
		Results:         map[string]DimensionResult{},
	}

	d.Raw = v.Field("raw")
	if d.Raw.IsNull() {
		d.Raw = DefaultRaw()
	}
	d.Enriched = v.Field("enriched")
	if d.Enriched.IsNull() {
		d.Enriched = tree.Object()
	}
	for _, issue := range v.Field("issues").Items() {
		d.Issues = append(d.Issues, issueText(issue))
	}
	for _, m := range v.Field("results").Members() {
		d.Results[m.Key] = parseResult(m.Value)
	}
	return d, nil
}

func parseResult(v tree.Value) DimensionResult {
	r := DimensionResult{
		Score:           NotEvaluatedScore,
		Bucket:          text(v.Field("bucket")),
		ConfidenceScore: v.Field("confidenceScore").AsNumber(),
		ManualCheck:     v.Field("manualCheck").AsBool(),
		Breakdown:       v.Field("breakdown"),
	}
	if score, ok := v.Lookup("score"); ok && score.Kind() == tree.KindNumber {
		r.Score = score.AsNumber()
	}
	for _, issue := range v.Field("issues").Items() {
		r.Issues = append(r.Issues, issueText(issue))
	}
	return r
}

// issueText accepts plain strings and legacy issue objects.
func issueText(v tree.Value) string {
	if v.Kind() == tree.KindObject {
		if desc := text(v.Field("description")); desc != "" {
			return desc
		}
		return v.Indented()
	}
	return v.Text()
}

// Result returns the evaluation of a dimension. A missing result or a score
// of -1 is reported as not evaluated.
func (d Detail) Result(dimension string) (DimensionResult, bool) {
	r, ok := d.Results[dimension]
	if !ok || r.Score == NotEvaluatedScore {
		return DimensionResult{}, false
	}
	return r, true
}

// Evaluated reports whether any results exist.
func (d Detail) Evaluated() bool { return len(d.Results) > 0 }

// SummaryText is the overview summary line.
func (d Detail) SummaryText() string {
	if d.Evaluated() {
		return "Evaluation completed with detailed scoring across all dimensions."
	}
	return "No summary available. Please trigger an evaluation."
}

// ScoreText is the header score, "Pending" until a positive score exists.
func (d Detail) ScoreText() string {
	if d.Score <= 0 {
		return "Pending"
	}
	return tree.FormatNumber(d.Score)
}

// Website returns the website or the not-provided marker.
func (d Detail) Website() string { return orNotProvided(d.WebsiteURL) }

// Contact returns the contact name or the not-provided marker.
func (d Detail) Contact() string { return orNotProvided(d.ContactName) }

// Email returns the contact email or the not-provided marker.
func (d Detail) Email() string { return orNotProvided(d.ContactEmail) }

// HasEnriched reports whether any enriched section exists.
func (d Detail) HasEnriched() bool { return d.Enriched.Len() > 0 }

// LastUpdatedText renders the last update time with a relative hint.
func (d Detail) LastUpdatedText(now time.Time) string {
	t, ok := parseTime(d.LastUpdatedAt)
	if !ok {
		if d.LastUpdatedAt == "" {
			return "Unknown"
		}
		return d.LastUpdatedAt
	}
	return t.Local().Format("2006-01-02 15:04") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}

// DimensionTitle capitalises a dimension name.
func DimensionTitle(dimension string) string {
	if dimension == "" {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}

// DefaultRaw is the raw data skeleton shown before extraction has run.
func DefaultRaw() tree.Value {
	return tree.Object(
		tree.Entry("market", tree.Object(
			tree.Entry("sam", tree.String("")),
			tree.Entry("som", tree.String("")),
			tree.Entry("tam", tree.String("")),
			tree.Entry("target_geography", tree.String("")),
			tree.Entry("problem_statement", tree.String("")),
			tree.Entry("regulatory_domain", tree.List()),
			tree.Entry("competitive_landscape", tree.String("")),
		)),
		tree.Entry("vision", tree.Object(
			tree.Entry("vision", tree.String("")),
			tree.Entry("mission", tree.String("")),
			tree.Entry("differentiation", tree.String("")),
			tree.Entry("resilience_signal", tree.String("")),
		)),
		tree.Entry("product", tree.Object(
			tree.Entry("tech_stack", tree.List()),
			tree.Entry("description", tree.String("")),
			tree.Entry("is_scalable", tree.Bool(false)),
			tree.Entry("innovation_or_ip", tree.String("")),
			tree.Entry("product_market_fit", tree.String("")),
		)),
		tree.Entry("founders", tree.List()),
		tree.Entry("traction", tree.Object(
			tree.Entry("gmv", tree.Number(0)),
			tree.Entry("users", tree.Number(0)),
			tree.Entry("revenue", tree.Number(0)),
			tree.Entry("growth_rate", tree.String("")),
			tree.Entry("revenue_model", tree.String("")),
			tree.Entry("business_model", tree.String("")),
			tree.Entry("current_customers", tree.List()),
			tree.Entry("retention_metrics", tree.String("")),
		)),
		tree.Entry("investors", tree.Object(
			tree.Entry("advisors", tree.List()),
			tree.Entry("co_investors", tree.List()),
		)),
		tree.Entry("contact_info", tree.Object(
			tree.Entry("emails", tree.List()),
			tree.Entry("phone_numbers", tree.List()),
		)),
		tree.Entry("company_website", tree.String("")),
	)
}
