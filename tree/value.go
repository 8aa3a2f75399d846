// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/value.go
// Summary: Closed tagged variant for JSON-shaped application data.
// Usage: Built by Parse or the constructors; read through accessors only.

package tree

import (
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is one key/value entry of an object. Object members keep the order
// they were decoded or constructed in.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON-shaped datum. The zero Value is null. Lists and objects
// own their children by value, so a Value never contains itself.
type Value struct {
	kind    Kind
	b       bool
	num     float64
	str     string
	list    []Value
	members []Member
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List builds a list from items. The slice is copied.
func List(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindList, list: out}
}

// Strings builds a list of string values.
func Strings(items ...string) Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = String(s)
	}
	return Value{kind: KindList, list: out}
}

// Entry is shorthand for a Member literal.
func Entry(key string, v Value) Member { return Member{Key: key, Value: v} }

// Object builds an object from members in the given order. A repeated key
// keeps its first position and its last value.
func Object(members ...Member) Value {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		replaced := false
		for i := range out {
			if out[i].Key == m.Key {
				out[i].Value = m.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, m)
		}
	}
	return Value{kind: KindObject, members: out}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsAbsent reports whether v should be shown as "not provided": null or the
// literal string "null".
func (v Value) IsAbsent() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == "null")
}

// AsBool returns the boolean payload, false for other kinds.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsNumber returns the numeric payload, 0 for other kinds.
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.num
}

// AsString returns the string payload, "" for other kinds.
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Len returns the number of list items or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Items returns a copy of the list items.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out
}

// Item returns the i-th list item.
func (v Value) Item(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// Members returns a copy of the object members in order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Member, len(v.members))
	copy(out, v.members)
	return out
}

// Keys returns the object keys in order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Lookup returns the member stored under key.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Field returns the member under key, or null when missing.
func (v Value) Field(key string) Value {
	out, _ := v.Lookup(key)
	return out
}

// IsStringList reports whether v is a list whose items are all strings. The
// empty list counts as a string list.
func (v Value) IsStringList() bool {
	if v.kind != KindList {
		return false
	}
	for _, item := range v.list {
		if item.kind != KindString {
			return false
		}
	}
	return true
}

// IsObjectList reports whether v is a non-empty list whose first item is an
// object.
func (v Value) IsObjectList() bool {
	return v.kind == KindList && len(v.list) > 0 && v.list[0].kind == KindObject
}

// StringItems returns the string payloads of a list, skipping other kinds.
func (v Value) StringItems() []string {
	if v.kind != KindList {
		return nil
	}
	out := make([]string, 0, len(v.list))
	for _, item := range v.list {
		if item.kind == KindString {
			out = append(out, item.str)
		}
	}
	return out
}

// Text returns the display form of a scalar. Lists and objects yield "".
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return FormatNumber(v.num)
	case KindString:
		return v.str
	}
	return ""
}

// FormatNumber renders f in its shortest round-tripping form, without an
// exponent for ordinary magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		out := make([]Value, len(v.list))
		for i, item := range v.list {
			out[i] = item.Clone()
		}
		return Value{kind: KindList, list: out}
	case KindObject:
		out := make([]Member, len(v.members))
		for i, m := range v.members {
			out[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
		return Value{kind: KindObject, members: out}
	}
	return v
}

// Equal reports deep equality. Object member order is significant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
