// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/json.go
// Summary: Order-preserving JSON decoding and encoding.

package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// MaxDepth bounds nesting for decoding and conversion from Go values.
const MaxDepth = 512

// ErrTooDeep is returned when input nests deeper than MaxDepth.
var ErrTooDeep = errors.New("value nested too deeply")

// Parse decodes a single JSON document. Object member order is preserved.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads exactly one JSON document from r.
func Decode(r io.Reader) (Value, error) {
	dec := jsontext.NewDecoder(r)
	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

func decodeValue(dec *jsontext.Decoder, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, ErrTooDeep
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return Value{}, err
	}
	switch tok.Kind() {
	case 'n':
		return Null(), nil
	case 't', 'f':
		return Bool(tok.Bool()), nil
	case '"':
		return String(tok.String()), nil
	case '0':
		return Number(tok.Float()), nil
	case '[':
		items := []Value{}
		for dec.PeekKind() != ']' {
			item, err := decodeValue(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		if _, err := dec.ReadToken(); err != nil {
			return Value{}, err
		}
		return Value{kind: KindList, list: items}, nil
	case '{':
		members := []Member{}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return Value{}, err
			}
			// The token is voided by the next decoder call.
			key := name.String()
			item, err := decodeValue(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: key, Value: item})
		}
		if _, err := dec.ReadToken(); err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, members: members}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok.Kind())
}

// Encode writes v as compact JSON.
func Encode(w io.Writer, v Value) error {
	return v.encode(jsontext.NewEncoder(w))
}

// EncodeIndent writes v as JSON indented by two spaces.
func EncodeIndent(w io.Writer, v Value) error {
	return v.encode(jsontext.NewEncoder(w, jsontext.WithIndent("  ")))
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	out, err := Parse(data)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// Indented returns v as indented JSON text.
func (v Value) Indented() string {
	var buf bytes.Buffer
	if err := EncodeIndent(&buf, v); err != nil {
		return ""
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func (v Value) encode(enc *jsontext.Encoder) error {
	switch v.kind {
	case KindNull:
		return enc.WriteToken(jsontext.Null)
	case KindBool:
		return enc.WriteToken(jsontext.Bool(v.b))
	case KindNumber:
		return enc.WriteToken(jsontext.Float(v.num))
	case KindString:
		return enc.WriteToken(jsontext.String(v.str))
	case KindList:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, item := range v.list {
			if err := item.encode(enc); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case KindObject:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, m := range v.members {
			if err := enc.WriteToken(jsontext.String(m.Key)); err != nil {
				return err
			}
			if err := m.Value.encode(enc); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	}
	return fmt.Errorf("encode json: unknown kind %v", v.kind)
}
