// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// contextBytes is the number of bytes of source text captured on either side
// of a failure point in Error.Context.
const contextBytes = 20

// A Scanner reads lexical tokens from an input stream. Each call to Next
// advances the scanner to the next token, or reports an error. The scanner
// accepts only strict JSON: no comments, and strings must pair any UTF-16
// surrogate escapes.
type Scanner struct {
	r    *bufio.Reader
	buf  bytes.Buffer // current token
	tail []byte       // recently consumed input, for error context
	tok  Token
	err  error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Line and column offsets, 1-based.
	pline, pcol int // start of current token
	rline, rcol int // start of last-read rune
	eline, ecol int // next unread byte
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br, eline: 1, ecol: 1, pline: 1, pcol: 1, rline: 1, rcol: 1}
}

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid

	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.setErr(err)
		} else if err != nil {
			return s.failAt(CodeIO, err, "read: %v", err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 1
			}
			continue
		}

		// The token begins at the rune just read.
		s.pos = s.end - s.last
		s.pline, s.pcol = s.rline, s.rcol

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle constants: true, false, null
		var want mem.RO
		switch ch {
		case 't':
			s.tok = True
			want = mem.S("true")
			err = s.scanName(ch)
		case 'f':
			s.tok = False
			want = mem.S("false")
			err = s.scanName(ch)
		case 'n':
			s.tok = Null
			want = mem.S("null")
			err = s.scanName(ch)
		default:
			return s.fail(CodeUnexpectedChar, "unexpected %q", ch)
		}
		if err != nil {
			return err
		} else if got := mem.B(s.buf.Bytes()); !got.Equal(want) {
			s.tok = Invalid
			return s.failToken(CodeInvalidValue, "unknown constant %q", got.StringCopy())
		}
		return nil // OK, token is already set
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The return value is
// only valid until the next call of Next. The caller must copy the contents
// of the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return append([]byte(nil), s.buf.Bytes()...) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline, Column: s.pcol},
		Last:  LineCol{Line: s.eline, Column: s.ecol},
	}
}

func (s *Scanner) scanString(open rune) error {
	s.buf.WriteRune(open)
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failToken(CodeUnterminatedString, "unterminated string")
		} else if err != nil {
			return s.failAt(CodeIO, err, "read: %v", err)
		}
		switch {
		case ch == open:
			s.buf.WriteRune(ch)
			s.tok = String
			return nil
		case ch == '\\':
			s.buf.WriteRune(ch)
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch < ' ':
			return s.fail(CodeInvalidStringChar, "unescaped control %q", ch)
		case ch > unicode.MaxRune:
			return s.fail(CodeInvalidStringChar, "invalid Unicode rune %q", ch)
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape consumes the remainder of a \-escape sequence, whose backslash
// has already been consumed. A Unicode escape encoding a UTF-16 high
// surrogate must be immediately followed by an escape encoding a low
// surrogate; a lone low surrogate is rejected outright.
func (s *Scanner) scanEscape() error {
	ch, err := s.rune()
	if err != nil {
		return s.failToken(CodeUnterminatedString, "unexpected end of input after escape")
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteByte(byte(ch))
		return nil
	case 'u':
		s.buf.WriteByte(byte(ch))
		v, err := s.readHex4()
		if err != nil {
			return err
		}
		if isLowSurrogate(v) {
			return s.fail(CodeInvalidUnicode, "unpaired low surrogate %04X", v)
		}
		if isHighSurrogate(v) {
			return s.scanLowSurrogate(v)
		}
		return nil
	default:
		return s.fail(CodeInvalidEscape, "invalid %q after escape", ch)
	}
}

// scanLowSurrogate consumes the "\uXXXX" escape that must complete the high
// surrogate hi.
func (s *Scanner) scanLowSurrogate(hi int64) error {
	ch, err := s.rune()
	if err != nil || ch != '\\' {
		if err == nil {
			s.unrune()
		}
		return s.fail(CodeInvalidUnicode, "unpaired high surrogate %04X", hi)
	}
	s.buf.WriteRune(ch)
	ch, err = s.rune()
	if err != nil || ch != 'u' {
		if err == nil {
			s.unrune()
		}
		return s.fail(CodeInvalidUnicode, "unpaired high surrogate %04X", hi)
	}
	s.buf.WriteRune(ch)
	v, err := s.readHex4()
	if err != nil {
		return err
	}
	if !isLowSurrogate(v) {
		return s.fail(CodeInvalidUnicode, "expected low surrogate after %04X, got %04X", hi, v)
	}
	return nil
}

func (s *Scanner) scanNumber(start rune) error {
	s.buf.WriteRune(start)

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		ch, err := s.require(isDigit, "digit")
		if err != nil {
			return err
		}
		s.buf.WriteRune(ch)
	}

	// Consume the remainder of the integer part.
	_, ch, err := s.readWhile(isDigit)
	if err == io.EOF {
		if hasExtraLeadingZeroes(s.buf.Bytes()) {
			return s.failToken(CodeInvalidNumber, "extra leading zeroes")
		}
		s.tok = Number
		return nil
	} else if err != nil {
		return s.failAt(CodeIO, err, "read: %v", err)
	}

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failToken(CodeInvalidNumber, "extra leading zeroes")
	}

	// If a decimal point follows, consume a fractional part.
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if nr == 0 {
			return s.fail(CodeInvalidNumber, "no digits after decimal point")
		} else if err == io.EOF {
			s.tok = Number
			return nil
		} else if err != nil {
			return s.failAt(CodeIO, err, "read: %v", err)
		}
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		s.tok = Number
		return nil
	}

	s.buf.WriteRune(ch)
	ch, err = s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	s.buf.WriteRune(ch)
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.fail(CodeInvalidNumber, "missing exponent digits")
	} else if err == io.EOF {
		s.tok = Number
		return nil
	} else if err != nil {
		return s.failAt(CodeIO, err, "read: %v", err)
	}
	s.unrune()
	s.tok = Number
	return nil
}

func (s *Scanner) scanName(first rune) error {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return s.failAt(CodeIO, err, "read: %v", err)
	}
	s.unrune()
	return nil
}

func (s *Scanner) rune() (rune, error) {
	s.rline, s.rcol = s.eline, s.ecol
	ch, nb, err := s.r.ReadRune()
	if err != nil {
		s.last = 0
		return ch, err
	}
	s.last = nb
	s.end += nb
	s.ecol += nb
	s.tail = append(s.tail, string(ch)...)
	if len(s.tail) > 2*contextBytes {
		s.tail = append(s.tail[:0], s.tail[len(s.tail)-contextBytes:]...)
	}
	return ch, nil
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.tail = s.tail[:len(s.tail)-s.last]
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or reports an error
// mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, err := s.rune()
	if err != nil {
		return 0, s.fail(CodeInvalidNumber, "want %s, got error: %v", label, err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.fail(CodeInvalidNumber, "got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes runes matching f from the input until EOF or until a
// rune not matching f is found. The first non-matching rune (if any) is
// returned. It is the caller's responsibility to unread this rune, if
// desired. The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input and returns
// their value.
func (s *Scanner) readHex4() (int64, error) {
	var v int64
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err != nil {
			return 0, s.failToken(CodeUnterminatedString, "unexpected end of input in Unicode escape")
		} else if !isHexDigit(ch) {
			return 0, s.fail(CodeInvalidUnicode, "not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
		v = v<<4 + int64(hexValue(ch))
	}
	return v, nil
}

// context captures the source text surrounding the current input position,
// with "..." marking truncation at either end.
func (s *Scanner) context() string {
	var sb strings.Builder
	before := s.tail
	if len(before) > contextBytes {
		before = before[len(before)-contextBytes:]
	}
	if s.end > len(before) {
		sb.WriteString("...")
	}
	sb.Write(before)
	after, _ := s.r.Peek(contextBytes + 1)
	if len(after) > contextBytes {
		sb.Write(after[:contextBytes])
		sb.WriteString("...")
	} else {
		sb.Write(after)
	}
	return sb.String()
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

// fail reports an error located at the most recently read rune.
func (s *Scanner) fail(code Code, msg string, args ...any) error {
	return s.setErr(&Error{
		Code:    code,
		Line:    s.rline,
		Column:  s.rcol,
		Message: fmt.Sprintf(msg, args...),
		Context: s.context(),
	})
}

// failToken reports an error located at the start of the current token.
func (s *Scanner) failToken(code Code, msg string, args ...any) error {
	return s.setErr(&Error{
		Code:    code,
		Line:    s.pline,
		Column:  s.pcol,
		Message: fmt.Sprintf(msg, args...),
		Context: s.context(),
	})
}

func (s *Scanner) failAt(code Code, cause error, msg string, args ...any) error {
	return s.setErr(&Error{
		Code:    code,
		Line:    s.rline,
		Column:  s.rcol,
		Message: fmt.Sprintf(msg, args...),
		Context: s.context(),
		err:     cause,
	})
}

// endError constructs an error located at the current end of input.
func (s *Scanner) endError(code Code, msg string, args ...any) *Error {
	return &Error{
		Code:    code,
		Line:    s.eline,
		Column:  s.ecol,
		Message: fmt.Sprintf(msg, args...),
		Context: s.context(),
	}
}

// tokenError constructs an error located at the start of the current token.
// It is used by the stream parser for structural errors.
func (s *Scanner) tokenError(code Code, msg string, args ...any) *Error {
	return &Error{
		Code:    code,
		Line:    s.pline,
		Column:  s.pcol,
		Message: fmt.Sprintf(msg, args...),
		Context: s.context(),
	}
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

func isHighSurrogate(v int64) bool { return v >= 0xD800 && v <= 0xDBFF }
func isLowSurrogate(v int64) bool  { return v >= 0xDC00 && v <= 0xDFFF }

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the JSON grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
