// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// MaxNestingDepth is the maximum depth of nested arrays and objects a Stream
// will accept. Each container level costs one recursive call, so the limit
// bounds native stack use as well as structural nesting.
const MaxNestingDepth = 32

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the raw (undecoded) text of the anchor
	Copy() []byte       // Returns a copy of the raw text of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input stream. If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced and nested
// within the depth limit.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc. The text of the key is
	// still quoted; the handler is responsible for unescaping key values if
	// the plain string is required (see Unquote).
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input. It accepts strict
// JSON only: trailing commas are rejected, and nesting beyond
// MaxNestingDepth is an error.
//
// Exactly one grammar walk serves every consumer of the package: handlers
// that build trees and handlers that discard everything see the same
// accept/reject boundary by construction.
type Stream struct {
	s     *Scanner
	depth int
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{s: NewScanner(r)} }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{s: s} }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *Error:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the input stream and delivers events to h until either an
// error occurs or the input is exhausted. The input may comprise any number
// of back-to-back top-level values. In case of a syntax error, the returned
// error has type [*Error].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)

	for {
		if err := s.s.Next(); err == io.EOF {
			h.EndOfInput(s.s)
			return nil
		} else if err != nil {
			s.fail(err)
		}
		s.parseElement(h)
	}
}

// ParseOne parses a single value from the input stream and delivers events
// to h until the value is complete or an error occurs. If no further value
// is available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*Error].
func (s *Stream) ParseOne(h Handler) (err error) {
	defer s.recoverParseError(&err)

	if err := s.s.Next(); err == io.EOF {
		h.EndOfInput(s.s)
		return err
	} else if err != nil {
		s.fail(err)
	}
	s.parseElement(h)
	return nil
}

// ParseSingle parses exactly one value from the input stream: the value must
// be present, and nothing but whitespace may follow it. In case of a syntax
// error, the returned error has type [*Error].
func (s *Stream) ParseSingle(h Handler) (err error) {
	defer s.recoverParseError(&err)

	if err := s.s.Next(); err == io.EOF {
		h.EndOfInput(s.s)
		return s.s.endError(CodeUnexpectedChar, "unexpected end of input")
	} else if err != nil {
		s.fail(err)
	}
	s.parseElement(h)

	if err := s.s.Next(); err == nil {
		panic(s.s.tokenError(CodeUnexpectedChar, "unexpected content after value"))
	} else if err != io.EOF {
		s.fail(err)
	}
	h.EndOfInput(s.s)
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.checkError(h.EndObject(s.s))
		s.depth--
	case LSquare:
		s.enter()
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.checkError(h.EndArray(s.s))
		s.depth--
	case Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	case RBrace, RSquare, Comma, Colon:
		panic(s.s.tokenError(CodeUnexpectedChar, "unexpected %v", tok))
	default:
		panic(s.s.tokenError(CodeInvalidValue, "unknown token %v", tok))
	}
}

// enter records one level of container nesting, or fails once the depth
// limit is reached. The error is located at the opening bracket.
func (s *Stream) enter() {
	s.depth++
	if s.depth > MaxNestingDepth {
		panic(s.s.tokenError(CodeMaxDepth, "maximum nesting depth %d exceeded", MaxNestingDepth))
	}
}

// parseMembers consumes zero or more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	tok := s.advance(h, CodeExpectedKey, RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.BeginMember(s.s))
		s.advance(h, CodeExpectedColon, Colon)
		s.advance(h, CodeInvalidValue)
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(h, CodeExpectedCommaOrBrace, RBrace, Comma)
		s.checkError(h.EndMember(s.s))
		if tok == RBrace {
			return // end of object
		}

		// A closing brace directly after the comma is a trailing comma,
		// which strict JSON forbids.
		next := s.advance(h, CodeExpectedKey)
		if next == RBrace {
			panic(s.s.tokenError(CodeUnexpectedChar, "trailing comma not allowed in object"))
		} else if next != String {
			panic(s.s.tokenError(CodeExpectedKey, "expected object key, got %v", next))
		}
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.advance(h, CodeInvalidValue); tok == RSquare {
		return // end of array
	}
	s.parseElement(h)
	for {
		tok := s.advance(h, CodeExpectedCommaOrBracket, RSquare, Comma)
		if tok == RSquare {
			return // end of array
		}

		// A closing bracket directly after the comma is a trailing comma.
		if next := s.advance(h, CodeInvalidValue); next == RSquare {
			panic(s.s.tokenError(CodeUnexpectedChar, "trailing comma not allowed in array"))
		}
		s.parseElement(h)
	}
}

// advance fetches the next token, failing with code if the input ends or the
// token is not among tokens. With no tokens, any token is accepted.
func (s *Stream) advance(h Handler, code Code, tokens ...Token) Token {
	if err := s.s.Next(); err == io.EOF {
		panic(s.s.endError(code, "unexpected end of input"))
	} else if err != nil {
		s.fail(err)
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !tokOneOf(tok, tokens) {
		panic(s.s.tokenError(code, "%s", tokLabel(tokens, tok)))
	}
	return tok
}

// fail converts a scanner or I/O error into a panic unwound by
// recoverParseError.
func (s *Stream) fail(err error) {
	if e, ok := err.(*Error); ok {
		panic(e)
	}
	panic(s.s.endError(CodeIO, "read: %v", err))
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens []Token) bool {
	return slices.Contains(tokens, cur)
}
