// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apperrors/errors.go
// Summary: Kind-tagged error wrapper shared by the client, proxy and UI.

package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the high level class of an error.
type Kind string

const (
	// KindNetwork covers transport failures and unexpected HTTP statuses.
	KindNetwork Kind = "network"
	// KindNotFound means the requested application or path does not exist.
	KindNotFound Kind = "not_found"
	// KindValidation means user input failed field validation.
	KindValidation Kind = "validation"
	// KindParse means a response or document could not be decoded.
	KindParse Kind = "parse"
	// KindConflict means an operation clashed with current state.
	KindConflict Kind = "conflict"
	// KindInternal is everything else.
	KindInternal Kind = "internal"
)

// Error wraps an underlying error with a Kind and an optional user-facing
// message.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "get application".
	Op string
	// Message is shown to users in place of the raw error text.
	Message string
	// Status is the HTTP status that caused the failure, if any.
	Status int
	// Fields maps form field names to validation messages.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case len(e.Fields) > 0:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s: %s", k, e.Fields[k])
		}
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(string(e.Kind))
	}
	return b.String()
}

// Unwrap allows errors.Is/As to reach the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op string, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, Op: op, Message: msg, Err: errors.New(msg)}
}

// Validation creates a validation error carrying per-field messages.
func Validation(op string, fields map[string]string) error {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Error{Kind: KindValidation, Op: op, Fields: copied}
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Unclassified errors are KindInternal; nil yields "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// Fields returns the validation messages carried by err, or nil.
func Fields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// StatusOf returns the HTTP status recorded in err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
