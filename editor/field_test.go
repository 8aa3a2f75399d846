// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"errors"
	"testing"

	"github.com/framegrace/deckreview/tree"
)

func TestBuildFieldKinds(t *testing.T) {
	root := tree.Path{tree.Key("market")}
	cases := []struct {
		name string
		in   tree.Value
		want Kind
	}{
		{"strings", tree.Strings("GDPR"), KindLines},
		{"empty list", tree.List(), KindLines},
		{"objects", tree.List(tree.Object(tree.Entry("name", tree.String("x")))), KindItems},
		{"numbers", tree.List(tree.Number(1)), KindItems},
		{"object", tree.Object(tree.Entry("tam", tree.String("5B"))), KindGroup},
		{"bool", tree.Bool(false), KindChoice},
		{"number", tree.Number(3), KindNumber},
		{"string", tree.String("x"), KindText},
		{"null", tree.Null(), KindText},
	}
	for _, tc := range cases {
		if got := Build(tc.in, root).Kind; got != tc.want {
			t.Fatalf("%s: expected %v field, got %v", tc.name, tc.want, got)
		}
	}
}

func TestBuildAddressesChildren(t *testing.T) {
	v := tree.Object(
		tree.Entry("founders", tree.List(
			tree.Object(tree.Entry("name", tree.String("Ada")), tree.Entry("linkedin", tree.String("null"))),
			tree.String("stray"),
		)),
		tree.Entry("is_scalable", tree.Bool(true)),
	)
	f := Build(v, tree.Path{tree.Key("product")})
	if f.Label != "Product" {
		t.Fatalf("expected label Product, got %q", f.Label)
	}

	name, ok := Find(f, tree.Path{tree.Key("product"), tree.Key("founders"), tree.Index(0), tree.Key("name")})
	if !ok || name.Text != "Ada" || name.Label != "Name" {
		t.Fatalf("unexpected name field %#v", name)
	}
	link, ok := Find(f, tree.Path{tree.Key("product"), tree.Key("founders"), tree.Index(0), tree.Key("linkedin")})
	if !ok || link.Text != "" || link.Placeholder != "Not provided" {
		t.Fatalf("absent value should show an empty input with placeholder, got %#v", link)
	}
	stray, ok := Find(f, tree.Path{tree.Key("product"), tree.Key("founders"), tree.Index(1)})
	if !ok || stray.Kind != KindText || stray.Label != "Item 2" {
		t.Fatalf("non-object item should be a single field, got %#v", stray)
	}
	flag, _ := Find(f, tree.Path{tree.Key("product"), tree.Key("is_scalable")})
	if flag.Text != ChoiceYes {
		t.Fatalf("expected Yes, got %q", flag.Text)
	}

	entries := Flatten(f)
	if len(entries) != 7 {
		t.Fatalf("expected 7 flattened fields, got %d", len(entries))
	}
	if entries[3].Depth != 3 {
		t.Fatalf("expected depth 3 for founders[0].name, got %d", entries[3].Depth)
	}
}

func TestLinesRoundTrip(t *testing.T) {
	for _, items := range [][]string{{}, {"GDPR"}, {"GDPR", "PSD2", "AML"}} {
		f := Build(tree.Strings(items...), tree.Path{tree.Key("x")})
		if f.Rows != len(items)+1 {
			t.Fatalf("expected %d rows, got %d", len(items)+1, f.Rows)
		}
		v, err := f.Parse(f.Text)
		if err != nil {
			t.Fatal(err)
		}
		if !tree.Equal(v, tree.Strings(items...)) {
			t.Fatalf("round trip changed %v into %v", items, v.StringItems())
		}
	}
}

func TestLinesParseTrimsAndDropsEmpty(t *testing.T) {
	f := Build(tree.Strings("GDPR", "PSD2"), tree.Path{tree.Key("regulatory_domain")})
	v, err := f.Parse("GDPR\n\n  PSD2  \nAML\n")
	if err != nil {
		t.Fatal(err)
	}
	if !tree.Equal(v, tree.Strings("GDPR", "PSD2", "AML")) {
		t.Fatalf("unexpected list %v", v.StringItems())
	}
}

func TestNumberAndChoiceParsing(t *testing.T) {
	num := Build(tree.Number(12), nil)
	for in, want := range map[string]float64{"abc": 0, " 4.5 ": 4.5, "": 0, "NaN": 0, "-3": -3} {
		v, _ := num.Parse(in)
		if v.AsNumber() != want {
			t.Fatalf("Parse(%q) = %v, want %v", in, v.AsNumber(), want)
		}
	}

	choice := Build(tree.Bool(false), nil)
	v, err := choice.Parse(ChoiceYes)
	if err != nil || !v.AsBool() {
		t.Fatalf("expected true from Yes, got %v %v", v, err)
	}
	if _, err := choice.Parse("maybe"); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}

	text := Build(tree.Null(), nil)
	v, _ = text.Parse("")
	if v.Kind() != tree.KindString || v.AsString() != "" {
		t.Fatalf("typing nothing should store an empty string, got %v", v.Kind())
	}

	group := Build(tree.Object(), nil)
	if _, err := group.Parse("x"); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
}

func TestApplyRoutesToUpdater(t *testing.T) {
	var gotPath tree.Path
	var gotValue tree.Value
	u := UpdaterFunc(func(p tree.Path, v tree.Value) error {
		gotPath, gotValue = p, v
		return nil
	})
	f := Build(tree.Bool(false), tree.Path{tree.Key("product"), tree.Key("is_scalable")})
	if err := Apply(u, f, ChoiceYes); err != nil {
		t.Fatal(err)
	}
	if gotPath.String() != "product.is_scalable" || !gotValue.AsBool() {
		t.Fatalf("unexpected update %s=%v", gotPath, gotValue.AsBool())
	}
}
