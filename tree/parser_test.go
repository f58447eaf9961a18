// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package tree_test

import (
	"errors"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/fernwood/jvalue"
	"github.com/fernwood/jvalue/tree"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		tests := []struct {
			input string
			want  tree.Value
		}{
			{`null`, tree.Null{}},
			{`true`, tree.Bool(true)},
			{`false`, tree.Bool(false)},
			{`0`, tree.Number(0)},
			{`-2.5e3`, tree.Number(-2500)},
			{`""`, tree.String("")},
			{`"hello"`, tree.String("hello")},
		}
		for _, test := range tests {
			got, err := tree.ParseString(test.input)
			if err != nil {
				t.Errorf("Input: %#q: unexpected error: %v", test.input, err)
				continue
			}
			if got != test.want {
				t.Errorf("Input: %#q: got %v, want %v", test.input, got, test.want)
			}
		}
	})

	t.Run("Composite", func(t *testing.T) {
		v, err := tree.ParseString(`{"name": "Aloysius", "tags": ["a", "b"], "meta": {"n": 3}}`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		o, ok := v.(*tree.Object)
		if !ok {
			t.Fatalf("Root: got %T, want *tree.Object", v)
		}
		if got := o.Get("name"); got != tree.String("Aloysius") {
			t.Errorf(`Get("name"): got %v`, got)
		}
		tags, ok := o.Get("tags").(*tree.Array)
		if !ok || tags.Len() != 2 || tags.At(0) != tree.String("a") {
			t.Errorf(`Get("tags"): got %+v`, o.Get("tags"))
		}
		meta, ok := o.Get("meta").(*tree.Object)
		if !ok || meta.Get("n") != tree.Number(3) {
			t.Errorf(`Get("meta"): got %+v`, o.Get("meta"))
		}
	})

	t.Run("EmptyContainers", func(t *testing.T) {
		v := tree.MustParse(`[{}, []]`)
		a := v.(*tree.Array)
		if a.Len() != 2 {
			t.Fatalf("Len: got %d, want 2", a.Len())
		}
		if o := a.At(0).(*tree.Object); o.Len() != 0 {
			t.Errorf("First element: got %+v, want empty object", o)
		}
		if b := a.At(1).(*tree.Array); b.Len() != 0 {
			t.Errorf("Second element: got %+v, want empty array", b)
		}
	})
}

// Parsed objects keep their members in document order, unlike the
// front-inserting Set.
func TestParseMemberOrder(t *testing.T) {
	v := tree.MustParse(`{"z": 1, "a": 2, "m": 3}`)
	got := keysOf(v.(*tree.Object))
	if diff := cmp.Diff([]string{"z", "a", "m"}, got); diff != "" {
		t.Errorf("Keys: (-want, +got)\n%s", diff)
	}
}

// A duplicate key replaces the value of its first occurrence in place.
func TestParseDuplicateKeys(t *testing.T) {
	v := tree.MustParse(`{"a": 1, "b": 2, "a": 3}`)
	o := v.(*tree.Object)
	if diff := cmp.Diff([]string{"a", "b"}, keysOf(o)); diff != "" {
		t.Errorf("Keys: (-want, +got)\n%s", diff)
	}
	if got := o.Get("a"); got != tree.Number(3) {
		t.Errorf(`Get("a"): got %v, want 3`, got)
	}
}

func TestParseStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"A\n"`, "A\n"},
		{`"\"\\\/"`, `"\/`},
		{`"\b\f\t\r"`, "\b\f\t\r"},
		{`"é"`, "é"},

		// A surrogate pair decodes to a single code point.
		{`"\ud83d\ude00"`, "😀"},
		{`"\ud834\udd1e"`, "\U0001D11E"},
		{`"😀"`, "😀"}, // non-BMP text is also fine unescaped
	}
	for _, test := range tests {
		v, err := tree.ParseString(test.input)
		if err != nil {
			t.Errorf("Input: %#q: unexpected error: %v", test.input, err)
			continue
		}
		if got := v.(tree.String); string(got) != test.want {
			t.Errorf("Input: %#q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestParseNumberRange(t *testing.T) {
	// A literal that overflows float64 is rejected rather than silently
	// becoming an infinity.
	_, err := tree.ParseString(`1e999`)
	var e *jvalue.Error
	if !errors.As(err, &e) || e.Code != jvalue.CodeNonFiniteNumber {
		t.Errorf("Parse 1e999: got %v, want non-finite number error", err)
	}

	// Large but representable values are fine.
	v, err := tree.ParseString(`1e308`)
	if err != nil {
		t.Errorf("Parse 1e308 failed: %v", err)
	} else if v != tree.Number(1e308) {
		t.Errorf("Parse 1e308: got %v", v)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		``,
		`{`,
		`[1, 2,]`,
		`{"a":}`,
		`{} {}`,
		`bogus`,
	}
	for _, input := range tests {
		v, err := tree.ParseString(input)
		if err == nil {
			t.Errorf("Input: %#q: got %v, want error", input, v)
			continue
		}
		var e *jvalue.Error
		if !errors.As(err, &e) {
			t.Errorf("Input: %#q: error has type %T, want *jvalue.Error", input, err)
		}
	}
}

func TestMustParse(t *testing.T) {
	if got := tree.MustParse(`[true]`); got.(*tree.Array).At(0) != tree.Bool(true) {
		t.Errorf("MustParse: got %v", got)
	}
	mtest.MustPanic(t, func() { tree.MustParse(`{oops`) })
}
