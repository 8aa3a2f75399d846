// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/render.go
// Summary: Read-only display projection of arbitrary tree values.
// Usage: Render a value, then flatten it with Lines for a terminal or CLI.
// Notes: Dispatch order matters; absent values win over every other rule.

package render

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/framegrace/deckreview/tree"
)

// MaxDepth stops rendering of pathologically nested values.
const MaxDepth = 64

// Placeholder texts.
const (
	NotProvidedText = "Not provided"
	NoneText        = "None"
	YesText         = "Yes"
	NoText          = "No"
	TruncatedText   = "…"
)

// Kind tells how a Node is displayed.
type Kind int

const (
	KindNotProvided Kind = iota
	KindNone
	KindCards
	KindInline
	KindFlag
	KindEntries
	KindText
	KindTruncated
)

// Node is the display projection of one value.
type Node struct {
	Kind Kind
	// Text holds the display text of scalar, inline and flag nodes.
	Text string
	// Flag is the boolean behind a KindFlag node.
	Flag bool
	// Entries are object members, or cards for KindCards.
	Entries []Entry
}

// Entry is one labelled child of an object node or one card.
type Entry struct {
	Key   string
	Label string
	Node  Node
}

// Render projects v for display.
func Render(v tree.Value) Node {
	return render(v, 0)
}

func render(v tree.Value, depth int) Node {
	if depth > MaxDepth {
		return Node{Kind: KindTruncated, Text: TruncatedText}
	}
	if v.IsAbsent() {
		return Node{Kind: KindNotProvided, Text: NotProvidedText}
	}
	switch v.Kind() {
	case tree.KindList:
		if v.Len() == 0 {
			return Node{Kind: KindNone, Text: NoneText}
		}
		if v.IsObjectList() {
			items := v.Items()
			cards := make([]Entry, len(items))
			for i, item := range items {
				cards[i] = Entry{
					Key:   strconv.Itoa(i),
					Label: CardTitle(i),
					Node:  render(item, depth+1),
				}
			}
			return Node{Kind: KindCards, Entries: cards}
		}
		items := v.Items()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = inlineText(item)
		}
		return Node{Kind: KindInline, Text: strings.Join(parts, ", ")}
	case tree.KindBool:
		text := NoText
		if v.AsBool() {
			text = YesText
		}
		return Node{Kind: KindFlag, Text: text, Flag: v.AsBool()}
	case tree.KindObject:
		members := v.Members()
		entries := make([]Entry, len(members))
		for i, m := range members {
			entries[i] = Entry{Key: m.Key, Label: Label(m.Key), Node: render(m.Value, depth+1)}
		}
		return Node{Kind: KindEntries, Entries: entries}
	}
	return Node{Kind: KindText, Text: v.Text()}
}

// inlineText stringifies a list item for comma-joined display.
func inlineText(v tree.Value) string {
	switch v.Kind() {
	case tree.KindList:
		items := v.Items()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = inlineText(item)
		}
		return strings.Join(parts, ",")
	case tree.KindObject:
		return "[object Object]"
	case tree.KindNull:
		return ""
	}
	return v.Text()
}

// Label turns a snake_case key into a display label: split on underscores
// and upper-case the first letter of each word.
func Label(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CardTitle names the i-th element of a list of objects.
func CardTitle(i int) string {
	return "Item " + strconv.Itoa(i+1)
}
