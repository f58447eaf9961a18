// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue

import (
	"io"
	"strings"
)

// Valid checks whether r contains a single syntactically valid JSON
// document, without building any result data. It returns nil for valid
// input; otherwise the returned error has type [*Error] and locates the
// first failure in the input.
//
// Valid and the tree-building parser share one grammar walk, so an input is
// valid exactly when it parses.
func Valid(r io.Reader) error {
	return NewStream(r).ParseSingle(discard{})
}

// ValidString is shorthand for Valid on a string.
func ValidString(s string) error { return Valid(strings.NewReader(s)) }

// discard is a Handler that ignores every event.
type discard struct{}

func (discard) BeginObject(Anchor) error { return nil }
func (discard) EndObject(Anchor) error   { return nil }
func (discard) BeginArray(Anchor) error  { return nil }
func (discard) EndArray(Anchor) error    { return nil }
func (discard) BeginMember(Anchor) error { return nil }
func (discard) EndMember(Anchor) error   { return nil }
func (discard) Value(Anchor) error       { return nil }
func (discard) EndOfInput(Anchor)        {}
