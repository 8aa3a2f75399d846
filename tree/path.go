// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/path.go
// Summary: Path addressing and clone-then-assign updates.

package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPathNotFound is returned when a path does not resolve.
	ErrPathNotFound = errors.New("path not found")
	// ErrBadPath is returned by ParsePath for malformed input.
	ErrBadPath = errors.New("malformed path")
)

// Segment is one step of a Path: an object key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a key segment.
func Key(k string) Segment { return Segment{key: k} }

// Index returns an index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the key of a key segment.
func (s Segment) Name() string { return s.key }

// Pos returns the index of an index segment.
func (s Segment) Pos() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// Path addresses a location inside a Value.
type Path []Segment

// Append returns a new path extended by segs. The receiver is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, len(p), len(p)+len(segs))
	copy(out, p)
	return append(out, segs...)
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal reports whether p and q address the same location.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the path as founders[0].name. Keys that would not parse
// back are written in quoted bracket form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch {
		case seg.isIndex:
			b.WriteString(seg.String())
		case plainKey(seg.key):
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.key)
		default:
			b.WriteString("[")
			b.WriteString(strconv.Quote(seg.key))
			b.WriteString("]")
		}
	}
	return b.String()
}

func plainKey(k string) bool {
	if k == "" {
		return false
	}
	return !strings.ContainsAny(k, ".[]\"")
}

// ParsePath parses the String form of a Path. The empty string is the root.
func ParsePath(s string) (Path, error) {
	var path Path
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			if i == 0 || i == len(s)-1 || s[i+1] == '.' || s[i+1] == '[' {
				return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
			}
			i++
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: %q: unterminated bracket", ErrBadPath, s)
			}
			inner := s[i+1 : i+end]
			if strings.HasPrefix(inner, "\"") {
				// Quoted keys may contain ']', so find the closing quote first.
				key, rest, err := unquotePrefix(s[i+1:])
				if err != nil || !strings.HasPrefix(rest, "]") {
					return nil, fmt.Errorf("%w: %q: bad quoted key", ErrBadPath, s)
				}
				path = append(path, Key(key))
				i = len(s) - len(rest) + 1
				continue
			}
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: %q: bad index %q", ErrBadPath, s, inner)
			}
			path = append(path, Index(n))
			i += end + 1
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			path = append(path, Key(s[i:j]))
			i = j
		}
	}
	return path, nil
}

func unquotePrefix(s string) (string, string, error) {
	for j := 1; j < len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if s[j] == '"' {
			key, err := strconv.Unquote(s[:j+1])
			return key, s[j+1:], err
		}
	}
	return "", "", ErrBadPath
}

// Get returns the value at path.
func (v Value) Get(path Path) (Value, bool) {
	cur := v
	for _, seg := range path {
		var ok bool
		if seg.isIndex {
			cur, ok = cur.Item(seg.index)
		} else {
			cur, ok = cur.Lookup(seg.key)
		}
		if !ok {
			return Value{}, false
		}
	}
	return cur, true
}

// With deep-clones v and assigns nv at path in the clone. An empty path
// replaces the whole value. A missing final object key is appended, and a
// final index equal to the list length appends an item. Any other
// unresolvable path returns ErrPathNotFound and the zero Value.
func (v Value) With(path Path, nv Value) (Value, error) {
	out := v.Clone()
	if err := out.assign(path, nv.Clone()); err != nil {
		return Value{}, err
	}
	return out, nil
}

func (v *Value) assign(path Path, nv Value) error {
	if len(path) == 0 {
		*v = nv
		return nil
	}
	cur := v
	for i, seg := range path[:len(path)-1] {
		next := cur.child(seg)
		if next == nil {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path[:i+1])
		}
		cur = next
	}
	last := path[len(path)-1]
	switch {
	case !last.isIndex && cur.kind == KindObject:
		for i := range cur.members {
			if cur.members[i].Key == last.key {
				cur.members[i].Value = nv
				return nil
			}
		}
		cur.members = append(cur.members, Member{Key: last.key, Value: nv})
		return nil
	case last.isIndex && cur.kind == KindList:
		switch {
		case last.index >= 0 && last.index < len(cur.list):
			cur.list[last.index] = nv
			return nil
		case last.index == len(cur.list):
			cur.list = append(cur.list, nv)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPathNotFound, path)
}

func (v *Value) child(seg Segment) *Value {
	if seg.isIndex {
		if v.kind != KindList || seg.index < 0 || seg.index >= len(v.list) {
			return nil
		}
		return &v.list[seg.index]
	}
	if v.kind != KindObject {
		return nil
	}
	for i := range v.members {
		if v.members[i].Key == seg.key {
			return &v.members[i].Value
		}
	}
	return nil
}
