// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

// Package tree defines a mutable tree representation of JSON values, and a
// parser that constructs trees from JSON source.
//
// A Value is one of the six JSON kinds: Null, Bool, Number, String, *Array,
// or *Object. Scalars are plain value types; containers are pointers and are
// mutated through their methods. An Object keeps its members in a stable
// enumeration order with a deliberate quirk inherited from the library this
// package descends from: Set places a new key at the front of the order, so
// enumeration runs last-inserted-first, while updating an existing key never
// moves it.
package tree

import (
	"fmt"
	"slices"
)

// Kind identifies the JSON type of a Value.
type Kind int

// Constants defining the valid Kind values.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindStr = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid"
	}
	return kindStr[k]
}

// A Value is a node of a JSON document tree.
type Value interface{ Kind() Kind }

// Null represents the JSON null constant.
type Null struct{}

// Kind satisfies the Value interface.
func (Null) Kind() Kind { return KindNull }

// A Bool is a JSON boolean value.
type Bool bool

// Kind satisfies the Value interface.
func (Bool) Kind() Kind { return KindBool }

// A Number is a JSON number, represented as a 64-bit float.
type Number float64

// Kind satisfies the Value interface.
func (Number) Kind() Kind { return KindNumber }

// A String is a JSON string value, holding decoded UTF-8 text.
type String string

// Kind satisfies the Value interface.
func (String) Kind() Kind { return KindString }

// An Array is an ordered, growable sequence of values. Elements keep strict
// insertion order and contiguous indices [0, Len).
type Array struct {
	Values []Value
}

// Kind satisfies the Value interface.
func (*Array) Kind() Kind { return KindArray }

// Len reports the number of elements in a.
func (a *Array) Len() int { return len(a.Values) }

// Append adds vs to the end of a.
func (a *Array) Append(vs ...Value) { a.Values = append(a.Values, vs...) }

// At returns the element of a at index i, or nil if i is out of range.
func (a *Array) At(i int) Value {
	if i < 0 || i >= len(a.Values) {
		return nil
	}
	return a.Values[i]
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// An Object is a collection of key-value members with unique keys.
type Object struct {
	Members []*Member
}

// Kind satisfies the Value interface.
func (*Object) Kind() Kind { return KindObject }

// Len reports the number of members of o.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Get returns the value stored under key, or nil if no such member exists.
// The lookup is a linear scan by exact key match.
func (o *Object) Get(key string) Value {
	if m := o.Find(key); m != nil {
		return m.Value
	}
	return nil
}

// Set stores value under key. An existing key keeps its position in the
// enumeration order and has its value replaced in place; a new key is
// inserted at the front of the order, ahead of every previously-set key.
func (o *Object) Set(key string, value Value) {
	if m := o.Find(key); m != nil {
		m.Value = value
		return
	}
	o.Members = slices.Insert(o.Members, 0, &Member{Key: key, Value: value})
}

// ToValue converts a plain Go value into a tree Value. It accepts nil, bool,
// string, the built-in numeric types, []any, map[string]any, and values that
// already implement Value. It panics for any other type.
//
// Map keys are added in sorted order, so the resulting Object enumerates its
// keys in reverse-sorted order per the Set front-insertion rule.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case bool:
		return Bool(t)
	case int:
		return Number(t)
	case int32:
		return Number(t)
	case int64:
		return Number(t)
	case float32:
		return Number(t)
	case float64:
		return Number(t)
	case string:
		return String(t)
	case []any:
		arr := new(Array)
		for _, elt := range t {
			arr.Append(ToValue(elt))
		}
		return arr
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		obj := new(Object)
		for _, key := range keys {
			obj.Set(key, ToValue(t[key]))
		}
		return obj
	case Value:
		return t
	default:
		panic(fmt.Sprintf("cannot convert %T to a Value", v))
	}
}

// Equal reports whether a and b are structurally equal: the same kind, equal
// scalar values, arrays equal elementwise in order, and objects with equal
// key sets and equal per-key values. Object enumeration order is ignored.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch t := a.(type) {
	case Null:
		return true
	case Bool:
		return t == b.(Bool)
	case Number:
		return t == b.(Number)
	case String:
		return t == b.(String)
	case *Array:
		u := b.(*Array)
		if len(t.Values) != len(u.Values) {
			return false
		}
		for i, elt := range t.Values {
			if !Equal(elt, u.Values[i]) {
				return false
			}
		}
		return true
	case *Object:
		u := b.(*Object)
		if len(t.Members) != len(u.Members) {
			return false
		}
		for _, m := range t.Members {
			om := u.Find(m.Key)
			if om == nil || !Equal(m.Value, om.Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
