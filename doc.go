// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

// Package jvalue implements a strict JSON scanner, an event-driven grammar
// walker, and a validator.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. Construct a
// scanner from an io.Reader and call its Next method to iterate over the
// stream. Next advances to the next input token and returns nil, or reports
// an error:
//
//	s := jvalue.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other
// error indicates an I/O or lexical error in the input, and has concrete
// type *jvalue.Error carrying the error code, the 1-based line and column of
// the failure, and a snippet of the surrounding source text.
//
// # Streaming
//
// The Stream type implements an event-driven grammar walker for JSON. The
// walker calls methods on a Handler value to report the structure of the
// input. The same walk serves every consumer: the tree package builds values
// with one Handler, and Valid checks acceptance with a Handler that discards
// everything, so the two can never disagree about what is valid JSON.
//
// Construct a Stream from an io.Reader and call ParseSingle to consume
// exactly one complete document (trailing content is an error), ParseOne to
// consume the next of several back-to-back documents (io.EOF when none
// remain), or Parse to consume them all.
//
// The walker enforces strict JSON: no comments, no trailing commas, paired
// UTF-16 surrogate escapes, and at most MaxNestingDepth levels of container
// nesting.
//
// # Validation
//
// Valid reports whether an input is a single well-formed JSON document
// without allocating any result data:
//
//	if err := jvalue.Valid(input); err != nil {
//	   log.Fatalf("Invalid input: %v", err)
//	}
package jvalue
