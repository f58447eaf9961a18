// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package tree

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fernwood/jvalue"
)

// Parse parses a single complete JSON document from r and returns its tree.
// Content other than whitespace following the document is an error. In case
// of error the returned error has type [*jvalue.Error] and describes the
// first failure encountered in the input.
func Parse(r io.Reader) (Value, error) {
	h := new(parseHandler)
	if err := jvalue.NewStream(r).ParseSingle(h); err != nil {
		return nil, err
	}
	if len(h.stk) != 1 {
		return nil, errors.New("incomplete value")
	}
	v, ok := h.stk[0].(Value)
	if !ok {
		return nil, errors.New("incomplete value")
	}
	return v, nil
}

// ParseBytes is shorthand for Parse on a byte slice.
func ParseBytes(data []byte) (Value, error) { return Parse(bytes.NewReader(data)) }

// ParseString is shorthand for Parse on a string.
func ParseString(s string) (Value, error) { return Parse(strings.NewReader(s)) }

// MustParse parses s or panics. It is intended for static fixtures whose
// validity the caller vouches for.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic("tree: invalid fixture: " + err.Error())
	}
	return v
}

// A parseHandler implements the jvalue.Handler interface to construct value
// trees. Members are kept in document order, so a parsed object enumerates
// its keys as they appear in the source; a duplicate key replaces the value
// of its first occurrence in place, matching Object.Set.
type parseHandler struct {
	stk []any // *Object, *Array, *Member, or a completed Value
}

func (h *parseHandler) reduce() error {
	if len(h.stk) > 1 {
		return h.attach(h.pop())
	}
	return nil
}

// attach delivers a completed node to its parent atop the stack, or makes it
// the root when the stack is empty.
func (h *parseHandler) attach(v any) error {
	if len(h.stk) == 0 {
		h.stk = append(h.stk, v)
		return nil
	}
	switch prev := h.stk[len(h.stk)-1].(type) {
	case *Member:
		prev.Value = v.(Value)
	case *Object:
		// members are linked into the object when they begin
	case *Array:
		prev.Values = append(prev.Values, v.(Value))
	}
	return nil
}

func (h *parseHandler) top() any { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() any {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(v any) { h.stk = append(h.stk, v) }

func (h *parseHandler) BeginObject(loc jvalue.Anchor) error {
	h.push(new(Object))
	return nil
}

func (h *parseHandler) EndObject(loc jvalue.Anchor) error { return h.reduce() }

func (h *parseHandler) BeginArray(loc jvalue.Anchor) error {
	h.push(new(Array))
	return nil
}

func (h *parseHandler) EndArray(loc jvalue.Anchor) error { return h.reduce() }

func (h *parseHandler) BeginMember(loc jvalue.Anchor) error {
	key, err := decodeString(loc)
	if err != nil {
		return err
	}

	// The object this member belongs to is atop the stack. A duplicate key
	// reuses the existing member, so the later value replaces the earlier
	// one without moving it; otherwise the member is appended in document
	// order.
	obj := h.top().(*Object)
	m := obj.Find(key)
	if m == nil {
		m = &Member{Key: key}
		obj.Members = append(obj.Members, m)
	}
	h.push(m)
	return nil
}

func (h *parseHandler) EndMember(loc jvalue.Anchor) error { return h.reduce() }

func (h *parseHandler) Value(loc jvalue.Anchor) error {
	switch loc.Token() {
	case jvalue.String:
		s, err := decodeString(loc)
		if err != nil {
			return err
		}
		return h.attach(String(s))
	case jvalue.Number:
		f, err := decodeNumber(loc)
		if err != nil {
			return err
		}
		return h.attach(Number(f))
	case jvalue.True:
		return h.attach(Bool(true))
	case jvalue.False:
		return h.attach(Bool(false))
	case jvalue.Null:
		return h.attach(Null{})
	default:
		return errAt(loc, jvalue.CodeInvalidValue, "unknown value "+loc.Token().String())
	}
}

func (h *parseHandler) EndOfInput(loc jvalue.Anchor) {}

// decodeString unescapes the string token at loc.
func decodeString(loc jvalue.Anchor) (string, error) {
	dec, err := jvalue.Unquote(loc.Text())
	if err != nil {
		return "", errAt(loc, jvalue.CodeInvalidUnicode, err.Error())
	}
	return string(dec), nil
}

// decodeNumber converts the number token at loc to a float64. The grammar
// cannot spell NaN or infinity, but a conversion may still overflow to an
// infinity; such values are rejected as a post-condition.
func decodeNumber(loc jvalue.Anchor) (float64, error) {
	f, err := strconv.ParseFloat(string(loc.Text()), 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return 0, errAt(loc, jvalue.CodeNonFiniteNumber, "number out of range")
		}
		return 0, errAt(loc, jvalue.CodeInvalidNumber, err.Error())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errAt(loc, jvalue.CodeNonFiniteNumber, "non-finite number")
	}
	return f, nil
}

func errAt(loc jvalue.Anchor, code jvalue.Code, msg string) error {
	first := loc.Location().First
	return &jvalue.Error{
		Code:    code,
		Line:    first.Line,
		Column:  first.Column,
		Message: msg,
	}
}
