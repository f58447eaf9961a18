// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jvalue

import "fmt"

// Code identifies the category of a failure reported by an Error.
type Code int

// Constants defining the valid Code values.
const (
	CodeUnknown                Code = iota // unclassified failure
	CodeUnexpectedChar                     // unexpected character in the input
	CodeInvalidNumber                      // malformed number literal
	CodeUnterminatedString                 // string with no closing quote
	CodeInvalidStringChar                  // raw control character inside a string
	CodeInvalidEscape                      // unknown \-escape sequence
	CodeInvalidUnicode                     // malformed \uXXXX escape or bad surrogate pairing
	CodeExpectedKey                        // object member key is not a string
	CodeExpectedColon                      // missing ":" after an object key
	CodeExpectedCommaOrBracket             // missing "," or "]" after an array element
	CodeExpectedCommaOrBrace               // missing "," or "}" after an object member
	CodeInvalidValue                       // token does not begin a value
	CodeMaxDepth                           // maximum nesting depth exceeded
	CodeNonFiniteNumber                    // NaN or infinity where a finite number is required
	CodeInvalidConfig                      // invalid formatter configuration
	CodeIO                                 // file or stream I/O failure
)

var codeStr = [...]string{
	CodeUnknown:                "unknown error",
	CodeUnexpectedChar:         "unexpected character",
	CodeInvalidNumber:          "invalid number",
	CodeUnterminatedString:     "unterminated string",
	CodeInvalidStringChar:      "invalid character in string",
	CodeInvalidEscape:          "invalid escape sequence",
	CodeInvalidUnicode:         "invalid Unicode escape",
	CodeExpectedKey:            "expected object key",
	CodeExpectedColon:          "expected colon",
	CodeExpectedCommaOrBracket: "expected comma or bracket",
	CodeExpectedCommaOrBrace:   "expected comma or brace",
	CodeInvalidValue:           "invalid value",
	CodeMaxDepth:               "maximum nesting depth exceeded",
	CodeNonFiniteNumber:        "non-finite number",
	CodeInvalidConfig:          "invalid configuration",
	CodeIO:                     "I/O error",
}

func (c Code) String() string {
	if int(c) >= len(codeStr) {
		return codeStr[CodeUnknown]
	}
	return codeStr[c]
}

// An Error describes a failure in parsing, validating, formatting, or file
// handling. Line and Column locate the failure in the source text (both
// 1-based); they are zero for failures with no source location. Context
// holds up to 20 bytes of input on either side of the failure point, with
// "..." marking truncation at either end.
type Error struct {
	Code    Code
	Line    int
	Column  int
	Message string
	Context string

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

// WrapIO returns a CodeIO error wrapping err, labelled with the failed
// operation.
func WrapIO(op string, err error) *Error {
	return &Error{Code: CodeIO, Message: op + ": " + err.Error(), err: err}
}
