// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and UTF-16
// surrogate pairs are combined into a single code point. Unquote reports an
// error for an invalid or incomplete escape sequence, and for a surrogate
// escape with no valid partner.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putRune := func(r rune) {
		var buf [4]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			dec = append(dec, byte(r))
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			v, err := parseHex(src.SliceTo(4))
			if err != nil {
				return nil, err
			}
			src = src.SliceFrom(4)
			switch {
			case isLowSurrogate(v):
				return nil, fmt.Errorf("unpaired low surrogate %04X", v)
			case isHighSurrogate(v):
				lo, rest, err := pairedLowSurrogate(src, v)
				if err != nil {
					return nil, err
				}
				src = rest
				putRune(combineSurrogates(v, lo))
			default:
				putRune(rune(v))
			}
		default:
			return nil, fmt.Errorf("invalid escape %q", r)
		}

		// Look for the next escape sequence, and if one is not found we can
		// blit the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// pairedLowSurrogate consumes the "\uXXXX" escape that must follow the high
// surrogate hi, returning the low surrogate value and the unconsumed
// remainder of src.
func pairedLowSurrogate(src mem.RO, hi int64) (int64, mem.RO, error) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, src, fmt.Errorf("unpaired high surrogate %04X", hi)
	}
	lo, err := parseHex(src.SliceFrom(2).SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	if !isLowSurrogate(lo) {
		return 0, src, fmt.Errorf("expected low surrogate after %04X, got %04X", hi, lo)
	}
	return lo, src.SliceFrom(6), nil
}

// combineSurrogates maps a UTF-16 surrogate pair to its code point.
func combineSurrogates(hi, lo int64) rune {
	return rune(0x10000 + ((hi - 0xD800) << 10) + (lo - 0xDC00))
}

func isHighSurrogate(v int64) bool { return v >= 0xD800 && v <= 0xDBFF }
func isLowSurrogate(v int64) bool  { return v >= 0xDC00 && v <= 0xDFFF }

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
