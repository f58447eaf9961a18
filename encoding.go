// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue

import (
	"errors"

	"github.com/fernwood/jvalue/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	out := escape.Quote(mem.S(src))
	return `"` + string(out) + `"`
}

// Unquote decodes a JSON string token. Double quotation marks are removed,
// escape sequences are replaced with their unescaped equivalents, and UTF-16
// surrogate pairs are combined into UTF-8.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : len(src)-1]))
}
