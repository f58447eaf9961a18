// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue_test

import (
	"testing"

	"github.com/fernwood/jvalue"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"a b c", `"a b c"`},
		{"a\nb", `"a\nb"`},
		{`say "cheese"`, `"say \"cheese\""`},
		{`back\slash`, `"back\\slash"`},
		{"\b\f\r\t", `"\b\f\r\t"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"héllo 😀", `"héllo 😀"`}, // multibyte text passes through verbatim
	}
	for _, test := range tests {
		if got := jvalue.Quote(test.input); got != test.want {
			t.Errorf("Quote(%q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`""`, ""},
		{`"a b c"`, "a b c"},
		{`"a\nb"`, "a\nb"},
		{`"say \"cheese\""`, `say "cheese"`},
		{`"solidus \/ escape"`, "solidus / escape"},
		{`"Aé"`, "Aé"},
		{`"😀"`, "😀"},
	}
	for _, test := range tests {
		got, err := jvalue.Unquote([]byte(test.input))
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", test.input, err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("Unquote(%#q): got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	tests := []string{
		``,          // no quotes at all
		`"`,         // too short
		`"open`,     // missing closing quote
		`close"`,    // missing opening quote
		`"a\"`,      // escape swallows the closing quote
		`"\q"`,      // unknown escape
		`"\u12"`,    // short Unicode escape
		`"\uwxyz"`,  // non-hex digits
		`"\ud800"`,  // unpaired high surrogate
		`"\udc00"`,  // unpaired low surrogate
		`"\ud800A"`, // high surrogate with a non-surrogate partner
	}
	for _, input := range tests {
		if got, err := jvalue.Unquote([]byte(input)); err == nil {
			t.Errorf("Unquote(%#q): got %q, want error", input, got)
		}
	}
}

// Quote and Unquote are inverses over decoded text.
func TestQuoteRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"with \"quotes\" and \\slashes\\",
		"control \x01 and \x7f",
		"newline\nand tab\t",
		"😀 and 𝄞",
	}
	for _, input := range inputs {
		dec, err := jvalue.Unquote([]byte(jvalue.Quote(input)))
		if err != nil {
			t.Errorf("Input %q: unexpected error: %v", input, err)
			continue
		}
		if string(dec) != input {
			t.Errorf("Round trip of %q: got %q", input, dec)
		}
	}
}
