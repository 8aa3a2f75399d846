// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: validate/validate.go
// Summary: Field rules for the create-application and filter forms.
// Notes: Rules run in field order and report the first failure per field.

package validate

import (
	"net/http"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/framegrace/deckreview/apperrors"
)

// Form field names, shared with the multipart encoding.
const (
	FieldStartupName  = "startup_name"
	FieldContactName  = "contact_name"
	FieldContactEmail = "contact_email"
	FieldWebsiteURL   = "website_url"
	FieldFile         = "file"

	FieldFilterName   = "name"
	FieldCustomPrompt = "customPrompt"
	FieldDimensions   = "dimensions"
)

// MaxDeckSize is the upload limit for pitch decks.
const MaxDeckSize = 10 * 1024 * 1024

// PDFContentType is the only accepted deck type.
const PDFContentType = "application/pdf"

var (
	startupNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-&.]+$`)
	contactNamePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	websitePattern     = regexp.MustCompile(`^[a-zA-Z0-9\-._~:/?#\[\]@$&'()*+,;=%]+$`)
)

// Errors maps field names to messages. Empty means valid.
type Errors map[string]string

// Err converts e into a validation error, or nil when e is empty.
func (e Errors) Err(op string) error {
	if len(e) == 0 {
		return nil
	}
	return apperrors.Validation(op, e)
}

// Deck is an uploaded pitch deck file.
type Deck struct {
	Name string
	Data []byte
}

// ContentType sniffs the file content.
func (d Deck) ContentType() string {
	ct := http.DetectContentType(d.Data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// Size returns the file size in bytes.
func (d Deck) Size() int64 { return int64(len(d.Data)) }

// NewApplication is the create-application form.
type NewApplication struct {
	StartupName  string
	ContactName  string
	ContactEmail string
	WebsiteURL   string
	Deck         *Deck
}

// Trimmed returns a copy with surrounding whitespace removed from text
// fields, as submitted to the backend.
func (a NewApplication) Trimmed() NewApplication {
	a.StartupName = strings.TrimSpace(a.StartupName)
	a.ContactName = strings.TrimSpace(a.ContactName)
	a.ContactEmail = strings.TrimSpace(a.ContactEmail)
	a.WebsiteURL = strings.TrimSpace(a.WebsiteURL)
	return a
}

// Application validates the create form.
func Application(a NewApplication) Errors {
	errs := Errors{}
	check(errs, FieldStartupName, a.StartupName, "Startup name is required",
		100, "Startup name must be less than 100 characters",
		startupNamePattern, "Startup name contains invalid characters")
	check(errs, FieldContactName, a.ContactName, "Contact name is required",
		50, "Contact name must be less than 50 characters",
		contactNamePattern, "Contact name contains invalid characters")
	check(errs, FieldContactEmail, a.ContactEmail, "Contact email is required",
		100, "Email must be less than 100 characters",
		emailPattern, "Please enter a valid email address")
	check(errs, FieldWebsiteURL, a.WebsiteURL, "Website URL is required",
		200, "Website URL must be less than 200 characters",
		websitePattern, "Please enter a valid website URL")
	if msg := DeckError(a.Deck); msg != "" {
		errs[FieldFile] = msg
	}
	return errs
}

// DeckError returns the validation message for an uploaded deck, or "".
func DeckError(d *Deck) string {
	switch {
	case d == nil:
		return "Pitch deck file is required"
	case d.ContentType() != PDFContentType:
		return "Only PDF files are allowed"
	case d.Size() > MaxDeckSize:
		return "File size must be less than 10MB"
	}
	return ""
}

// SizeText renders the deck size for display, e.g. "2.1 MB".
func (d Deck) SizeText() string {
	return humanize.Bytes(uint64(d.Size()))
}

func check(errs Errors, field, value, required string, max int, tooLong string, pattern *regexp.Regexp, invalid string) {
	switch {
	case strings.TrimSpace(value) == "":
		errs[field] = required
	case max > 0 && utf8.RuneCountInString(value) > max:
		errs[field] = tooLong
	case pattern != nil && !pattern.MatchString(value):
		errs[field] = invalid
	}
}

// Filter dimension weight bounds.
const (
	MinWeight = 0
	MaxWeight = 100
)

// Filter validates a filter preset form.
func Filter(name, customPrompt string, weights map[string]int) Errors {
	errs := Errors{}
	check(errs, FieldFilterName, name, "Filter name is required",
		50, "Name must be less than 50 characters", nil, "")
	check(errs, FieldCustomPrompt, customPrompt, "Custom prompt is required",
		500, "Custom prompt must be less than 500 characters", nil, "")
	dims := make([]string, 0, len(weights))
	for dim := range weights {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		if w := weights[dim]; w < MinWeight || w > MaxWeight {
			errs[FieldDimensions] = "Weight for " + dim + " must be between 0 and 100"
			break
		}
	}
	return errs
}
