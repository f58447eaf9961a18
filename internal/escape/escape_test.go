// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package escape_test

import (
	"strings"
	"testing"

	"github.com/fernwood/jvalue/internal/escape"
	"go4.org/mem"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{``, ""},
		{`no escapes here`, "no escapes here"},
		{`tab\there`, "tab\there"},
		{`\b\f\n\r\t`, "\b\f\n\r\t"},
		{`\"\\\/`, `"\/`},
		{`Aé中`, "Aé中"},
		{`ends with escape\n`, "ends with escape\n"},
		{`\nstarts with escape`, "\nstarts with escape"},

		// Surrogate pairs combine into a single code point.
		{`\ud83d\ude00`, "\U0001F600"},
		{`\ud834\udd1e`, "\U0001D11E"},
		{`x\ud800\udc00y`, "x\U00010000y"},
		{`\udbff\udfff`, "\U0010FFFF"},
	}
	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
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
	tests := []struct {
		input string
		etext string
	}{
		{`\`, "incomplete escape sequence"},
		{`\q`, "invalid escape"},
		{`\u`, "incomplete Unicode escape"},
		{`\u01`, "incomplete Unicode escape"},
		{`\uqrst`, "invalid hex digit"},
		{`\udc00`, "unpaired low surrogate DC00"},
		{`\ud800`, "unpaired high surrogate D800"},
		{`\ud800z`, "unpaired high surrogate D800"},
		{`\ud800\n`, "unpaired high surrogate D800"},
		{`\ud800\uqqqq`, "invalid hex digit"},
		{`\ud800A`, "unpaired high surrogate D800"},
		{`\ud800\u0041`, "expected low surrogate after D800, got 0041"},
		{`\ud800\ud801`, "expected low surrogate after D800, got D801"},
	}
	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err == nil {
			t.Errorf("Unquote(%#q): got %q, want error", test.input, got)
			continue
		}
		if !strings.Contains(err.Error(), test.etext) {
			t.Errorf("Unquote(%#q): error %q does not contain %q", test.input, err, test.etext)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"nothing to do", "nothing to do"},
		{"a\tb", `a\tb`},
		{"\b\f\n\r\t", `\b\f\n\r\t`},
		{`"quoted"`, `\"quoted\"`},
		{`a\b`, `a\\b`},
		{"\x00\x01\x1f", `\u0000\u0001\u001f`},
		{"é中😀", "é中😀"},
	}
	for _, test := range tests {
		if got := string(escape.Quote(mem.S(test.input))); got != test.want {
			t.Errorf("Quote(%q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

// Unquote must invert Quote for any decoded text.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"ordinary text",
		"mixed \"quotes\" with \\ and \n control \x02",
		"😀𝄞\U0010FFFF",
	}
	for _, input := range inputs {
		enc := escape.Quote(mem.S(input))
		dec, err := escape.Unquote(mem.B(enc))
		if err != nil {
			t.Errorf("Input %q: unexpected error: %v", input, err)
			continue
		}
		if string(dec) != input {
			t.Errorf("Round trip of %q: got %q", input, dec)
		}
	}
}
