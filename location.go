// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A LineCol describes the line number and column offset of a location in
// source text. Both are 1-based.
type LineCol struct {
	Line   int
	Column int
}

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}
