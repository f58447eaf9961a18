// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

// Package format renders value trees as JSON text under a configurable
// layout: indentation, line termination, spacing, numeric notation, inline
// rendering of scalar-only arrays, and format-time key sorting.
//
// Formatting is numerically strict: a tree containing a NaN or infinite
// number is rejected with an error rather than silently altered.
package format

import (
	"bytes"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fernwood/jvalue"
	"github.com/fernwood/jvalue/tree"
)

// NumberFormat selects the notation used to render numbers.
type NumberFormat int

// Constants defining the valid NumberFormat values.
const (
	Auto       NumberFormat = iota // by magnitude: exponent below 1e-4 and at or above 1e5
	Decimal                        // fixed-point with the configured precision
	Scientific                     // exponent notation
)

// A Config carries the layout settings for rendering a value tree. The zero
// value renders compact single-line output with Auto numbers at precision 0;
// most callers want one of the canned configurations instead.
type Config struct {
	Indent             string       // written once per nesting level at the start of a line
	LineEnd            string       // line terminator; empty keeps everything on one line
	SpacesAfterColon   int          // spaces between an object key's colon and its value
	SpacesAfterComma   int          // spaces after commas in inline arrays
	NumberFormat       NumberFormat // notation for numbers
	Precision          int          // digits after the decimal point
	InlineSimpleArrays bool         // render scalar-only arrays on one line
	SortObjectKeys     bool         // sort keys bytewise at format time; stored order is untouched
}

// Canned configurations.
var (
	// Default renders two-space indentation with inline simple arrays and
	// keys in stored order.
	Default = Config{
		Indent:             "  ",
		LineEnd:            "\n",
		SpacesAfterColon:   1,
		SpacesAfterComma:   1,
		NumberFormat:       Auto,
		Precision:          6,
		InlineSimpleArrays: true,
	}

	// Compact renders the smallest output: no indentation, no line breaks,
	// no spacing.
	Compact = Config{
		NumberFormat:       Auto,
		Precision:          6,
		InlineSimpleArrays: true,
	}

	// Pretty renders four-space indentation with keys sorted.
	Pretty = Config{
		Indent:             "    ",
		LineEnd:            "\n",
		SpacesAfterColon:   1,
		SpacesAfterComma:   1,
		NumberFormat:       Auto,
		Precision:          6,
		InlineSimpleArrays: true,
		SortObjectKeys:     true,
	}
)

func (c *Config) check() error {
	if c.SpacesAfterColon < 0 || c.SpacesAfterComma < 0 || c.Precision < 0 {
		return &jvalue.Error{Code: jvalue.CodeInvalidConfig, Message: "negative spacing or precision"}
	}
	if c.NumberFormat < Auto || c.NumberFormat > Scientific {
		return &jvalue.Error{Code: jvalue.CodeInvalidConfig, Message: "unknown number format"}
	}
	return nil
}

// Format renders v to w under cfg. When cfg.LineEnd is nonempty, the output
// ends with one final line terminator. In case of error, the returned error
// has type [*jvalue.Error] and nothing is written to w.
func Format(w io.Writer, v tree.Value, cfg Config) error {
	text, err := appendValue(v, cfg)
	if err != nil {
		return err
	}
	n, err := w.Write(text)
	if err == nil && n < len(text) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return jvalue.WrapIO("write", err)
	}
	return nil
}

// String renders v to a string under cfg.
func String(v tree.Value, cfg Config) (string, error) {
	text, err := appendValue(v, cfg)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func appendValue(v tree.Value, cfg Config) ([]byte, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	p := &printer{cfg: cfg}
	if err := p.value(v); err != nil {
		return nil, err
	}
	if cfg.LineEnd != "" {
		p.buf.WriteString(cfg.LineEnd)
	}
	return p.buf.Bytes(), nil
}

type printer struct {
	buf   bytes.Buffer
	cfg   Config
	depth int
}

func (p *printer) value(v tree.Value) error {
	switch t := v.(type) {
	case nil:
		p.buf.WriteString("null")
	case tree.Null:
		p.buf.WriteString("null")
	case tree.Bool:
		if t {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}
	case tree.Number:
		return p.number(float64(t))
	case tree.String:
		p.buf.WriteString(jvalue.Quote(string(t)))
	case *tree.Array:
		return p.array(t)
	case *tree.Object:
		return p.object(t)
	default:
		return &jvalue.Error{Code: jvalue.CodeInvalidValue, Message: "unknown value kind"}
	}
	return nil
}

func (p *printer) number(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &jvalue.Error{Code: jvalue.CodeNonFiniteNumber, Message: "cannot format non-finite number"}
	}
	verb := byte('f')
	switch p.cfg.NumberFormat {
	case Scientific:
		verb = 'e'
	case Decimal:
		// fixed-point regardless of magnitude
	default:
		if abs := math.Abs(f); abs < 1e-4 || abs >= 1e5 {
			verb = 'e'
		}
	}
	p.buf.WriteString(strconv.FormatFloat(f, verb, p.cfg.Precision, 64))
	return nil
}

func (p *printer) array(a *tree.Array) error {
	if len(a.Values) == 0 {
		p.buf.WriteString("[]")
		return nil
	}
	if p.cfg.InlineSimpleArrays && isSimple(a) {
		p.buf.WriteByte('[')
		for i, elt := range a.Values {
			if i > 0 {
				p.buf.WriteByte(',')
				p.pad(p.cfg.SpacesAfterComma)
			}
			if err := p.value(elt); err != nil {
				return err
			}
		}
		p.buf.WriteByte(']')
		return nil
	}

	p.buf.WriteByte('[')
	p.buf.WriteString(p.cfg.LineEnd)
	p.depth++
	for i, elt := range a.Values {
		p.indent()
		if err := p.value(elt); err != nil {
			return err
		}
		if i < len(a.Values)-1 {
			p.buf.WriteByte(',')
		}
		p.buf.WriteString(p.cfg.LineEnd)
	}
	p.depth--
	p.indent()
	p.buf.WriteByte(']')
	return nil
}

func (p *printer) object(o *tree.Object) error {
	if len(o.Members) == 0 {
		p.buf.WriteString("{}")
		return nil
	}

	// Sorting is a view over a copy; the stored member order of o is never
	// disturbed.
	members := o.Members
	if p.cfg.SortObjectKeys {
		members = slices.Clone(members)
		slices.SortStableFunc(members, func(a, b *tree.Member) int {
			return strings.Compare(a.Key, b.Key)
		})
	}

	p.buf.WriteByte('{')
	p.buf.WriteString(p.cfg.LineEnd)
	p.depth++
	for i, m := range members {
		p.indent()
		p.buf.WriteString(jvalue.Quote(m.Key))
		p.buf.WriteByte(':')
		p.pad(p.cfg.SpacesAfterColon)
		if err := p.value(m.Value); err != nil {
			return err
		}
		if i < len(members)-1 {
			p.buf.WriteByte(',')
		}
		p.buf.WriteString(p.cfg.LineEnd)
	}
	p.depth--
	p.indent()
	p.buf.WriteByte('}')
	return nil
}

// isSimple reports whether a contains no nested containers, making it
// eligible for single-line rendering.
func isSimple(a *tree.Array) bool {
	for _, elt := range a.Values {
		switch elt.(type) {
		case *tree.Array, *tree.Object:
			return false
		}
	}
	return true
}

func (p *printer) indent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(p.cfg.Indent)
	}
}

func (p *printer) pad(n int) {
	for i := 0; i < n; i++ {
		p.buf.WriteByte(' ')
	}
}
