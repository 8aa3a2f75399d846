// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/field.go
// Summary: Builds editable field trees from values and parses field input.
// Usage: Build a section's working copy, then Apply input through an Updater.

package editor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/framegrace/deckreview/render"
	"github.com/framegrace/deckreview/tree"
)

// Kind selects the input control for a field.
type Kind int

const (
	// KindLines is a multi-line text area backing a list of strings.
	KindLines Kind = iota
	// KindItems holds one sub-form per element of a non-string list.
	KindItems
	// KindGroup holds one field per object member.
	KindGroup
	// KindChoice is a Yes/No choice backing a boolean.
	KindChoice
	// KindNumber is a numeric input.
	KindNumber
	// KindText is a single-line text input.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLines:
		return "lines"
	case KindItems:
		return "items"
	case KindGroup:
		return "group"
	case KindChoice:
		return "choice"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Choice labels.
const (
	ChoiceYes = "Yes"
	ChoiceNo  = "No"
)

var (
	// ErrInvalidChoice is returned when choice input is neither Yes nor No.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrNotEditable is returned when parsing input for a container field.
	ErrNotEditable = errors.New("field has no direct input")
)

// Field is one node of the editable projection of a value.
type Field struct {
	Path        tree.Path
	Key         string
	Label       string
	Kind        Kind
	Text        string
	Placeholder string
	Rows        int
	Options     []string
	Children    []Field
}

// Build projects v, located at path inside the working copy, into fields.
func Build(v tree.Value, path tree.Path) Field {
	label := ""
	key := ""
	if last, ok := path.Last(); ok {
		if last.IsIndex() {
			key = strconv.Itoa(last.Pos())
			label = render.CardTitle(last.Pos())
		} else {
			key = last.Name()
			label = render.Label(key)
		}
	}
	return build(v, path, key, label)
}

func build(v tree.Value, path tree.Path, key, label string) Field {
	f := Field{Path: path, Key: key, Label: label}
	switch {
	case v.IsStringList():
		items := v.StringItems()
		f.Kind = KindLines
		f.Text = strings.Join(items, "\n")
		f.Rows = len(items) + 1
	case v.Kind() == tree.KindList:
		f.Kind = KindItems
		for i, item := range v.Items() {
			f.Children = append(f.Children, build(item, path.Append(tree.Index(i)), strconv.Itoa(i), render.CardTitle(i)))
		}
	case v.Kind() == tree.KindObject:
		f.Kind = KindGroup
		for _, m := range v.Members() {
			f.Children = append(f.Children, build(m.Value, path.Append(tree.Key(m.Key)), m.Key, render.Label(m.Key)))
		}
	case v.Kind() == tree.KindBool:
		f.Kind = KindChoice
		f.Options = []string{ChoiceYes, ChoiceNo}
		f.Text = ChoiceNo
		if v.AsBool() {
			f.Text = ChoiceYes
		}
	case v.Kind() == tree.KindNumber:
		f.Kind = KindNumber
		f.Text = tree.FormatNumber(v.AsNumber())
	default:
		f.Kind = KindText
		if v.IsAbsent() {
			f.Placeholder = render.NotProvidedText
		} else {
			f.Text = v.Text()
		}
	}
	return f
}

// Parse converts raw input for f into the value stored at f.Path.
func (f Field) Parse(input string) (tree.Value, error) {
	switch f.Kind {
	case KindLines:
		return tree.Strings(SplitLines(input)...), nil
	case KindChoice:
		switch strings.TrimSpace(input) {
		case ChoiceYes, "true":
			return tree.Bool(true), nil
		case ChoiceNo, "false":
			return tree.Bool(false), nil
		}
		return tree.Value{}, fmt.Errorf("%w %q for %s", ErrInvalidChoice, input, f.Path)
	case KindNumber:
		return tree.Number(ParseNumber(input)), nil
	case KindText:
		return tree.String(input), nil
	}
	return tree.Value{}, fmt.Errorf("%w: %s (%s)", ErrNotEditable, f.Path, f.Kind)
}

// SplitLines splits text on newlines, trims each line and drops empty ones.
func SplitLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseNumber parses a float, yielding 0 for anything unparsable or
// non-finite.
func ParseNumber(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Editable reports whether the field takes direct input.
func (f Field) Editable() bool {
	return f.Kind != KindItems && f.Kind != KindGroup
}

// Flatten lists f and its descendants in display order along with their
// nesting depth relative to f.
func Flatten(f Field) []Entry {
	var out []Entry
	flatten(&out, f, 0)
	return out
}

// Entry is a flattened field with its depth.
type Entry struct {
	Field Field
	Depth int
}

func flatten(out *[]Entry, f Field, depth int) {
	*out = append(*out, Entry{Field: f, Depth: depth})
	for _, child := range f.Children {
		flatten(out, child, depth+1)
	}
}

// Find returns the field addressed by path.
func Find(f Field, path tree.Path) (Field, bool) {
	if f.Path.Equal(path) {
		return f, true
	}
	for _, child := range f.Children {
		if found, ok := Find(child, path); ok {
			return found, true
		}
	}
	return Field{}, false
}
