// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is the dynamic value every message, argument and result is expressed in.
//
// Values are shared by reference. They carry no internal lock: a Value handed
// to another process through a mailbox must not be mutated by the sender afterwards.
// A nil *Value behaves as Undef for every read operation.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	d     float64
	t     time.Time
	s     string
	bytes []byte
	list  []*Value
	m     map[string]*Value
	ptr   *pointer
	fn    *closure
}

// NewUndef creates an undefined value
func NewUndef() *Value {
	return &Value{kind: Undef}
}

// NewBool creates a boolean value
func NewBool(b bool) *Value {
	return &Value{kind: Bool, b: b}
}

// NewInt creates an integer value
func NewInt(i int64) *Value {
	return &Value{kind: Int, i: i}
}

// NewDouble creates a float value
func NewDouble(d float64) *Value {
	return &Value{kind: Double, d: d}
}

// NewDateTime creates a datetime value truncated to the second
func NewDateTime(t time.Time) *Value {
	return &Value{kind: DateTime, t: t.Truncate(time.Second)}
}

// NewString creates a string value
func NewString(s string) *Value {
	return &Value{kind: String, s: s}
}

// NewBytes creates a byte-string value holding a copy of b
func NewBytes(b []byte) *Value {
	return &Value{kind: Bytes, bytes: append([]byte(nil), b...)}
}

// NewList creates a list value holding the given items.
// Nil items are stored as Undef.
func NewList(items ...*Value) *Value {
	v := &Value{kind: List, list: make([]*Value, 0, len(items))}
	for _, item := range items {
		v.list = append(v.list, orUndef(item))
	}
	return v
}

// NewMap creates an empty map value
func NewMap() *Value {
	return &Value{kind: Map, m: make(map[string]*Value)}
}

// Of converts a Go value into a Value.
//
// Supported inputs are nil, *Value, bool, the integer and float types, string,
// []byte, time.Time, []any, []*Value, []string, []int, []int64, []float64,
// map[string]any, map[string]*Value, Callable and func(args, state *Value) (*Value, error).
// Anything else becomes a weak Pointer typed by its Go type.
func Of(in any) *Value {
	switch x := in.(type) {
	case nil:
		return NewUndef()
	case *Value:
		return orUndef(x)
	case bool:
		return NewBool(x)
	case int:
		return NewInt(int64(x))
	case int8:
		return NewInt(int64(x))
	case int16:
		return NewInt(int64(x))
	case int32:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case uint:
		return NewInt(int64(x))
	case uint8:
		return NewInt(int64(x))
	case uint16:
		return NewInt(int64(x))
	case uint32:
		return NewInt(int64(x))
	case uint64:
		return NewInt(int64(x))
	case float32:
		return NewDouble(float64(x))
	case float64:
		return NewDouble(x)
	case string:
		return NewString(x)
	case []byte:
		return NewBytes(x)
	case time.Time:
		return NewDateTime(x)
	case []*Value:
		return NewList(x...)
	case []any:
		list := NewList()
		for _, item := range x {
			list.Push(Of(item))
		}
		return list
	case []string:
		list := NewList()
		for _, item := range x {
			list.Push(NewString(item))
		}
		return list
	case []int:
		list := NewList()
		for _, item := range x {
			list.Push(NewInt(int64(item)))
		}
		return list
	case []int64:
		list := NewList()
		for _, item := range x {
			list.Push(NewInt(item))
		}
		return list
	case []float64:
		list := NewList()
		for _, item := range x {
			list.Push(NewDouble(item))
		}
		return list
	case map[string]any:
		m := NewMap()
		for k, item := range x {
			m.SetKey(k, Of(item))
		}
		return m
	case map[string]*Value:
		m := NewMap()
		for k, item := range x {
			m.SetKey(k, item)
		}
		return m
	case func(args, state *Value) (*Value, error):
		return NewClosure(CallableFunc(x), nil)
	case Callable:
		return NewClosure(x, nil)
	default:
		return NewPointer(in, fmt.Sprintf("%T", in), AsWeak())
	}
}

// Kind returns the variant held by the value
func (v *Value) Kind() Kind {
	if v == nil {
		return Undef
	}
	return v.kind
}

// IsUndef reports whether the value is undefined
func (v *Value) IsUndef() bool { return v.Kind() == Undef }

// IsDefined reports whether the value is not undefined
func (v *Value) IsDefined() bool { return v.Kind() != Undef }

// IsList reports whether the value is a list
func (v *Value) IsList() bool { return v.Kind() == List }

// IsMap reports whether the value is a map
func (v *Value) IsMap() bool { return v.Kind() == Map }

// IsPointer reports whether the value is an opaque pointer
func (v *Value) IsPointer() bool { return v.Kind() == Pointer }

// IsClosure reports whether the value is a closure
func (v *Value) IsClosure() bool { return v.Kind() == Closure }

// String returns the string coercion of the value. It never fails.
func (v *Value) String() string {
	switch v.Kind() {
	case Undef:
		return ""
	case Bool:
		if v.b {
			return "1"
		}
		return ""
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Double:
		return formatDouble(v.d)
	case DateTime:
		return FormatDateTime(v.t)
	case String:
		return v.s
	case Bytes:
		return string(v.bytes)
	case Pointer:
		return v.ptr.String()
	case Closure:
		return v.fn.result().String()
	default:
		return Dump(v)
	}
}

// Int returns the integer coercion of the value. It never fails.
func (v *Value) Int() int64 {
	switch v.Kind() {
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Int:
		return v.i
	case Double:
		return truncate(v.d)
	case DateTime:
		return v.t.Unix()
	case String:
		return parseInt(v.s)
	case Bytes:
		return parseInt(string(v.bytes))
	case Pointer:
		return int64(v.ptr.address())
	case Closure:
		return v.fn.result().Int()
	default:
		return 0
	}
}

// Double returns the float coercion of the value. It never fails.
func (v *Value) Double() float64 {
	switch v.Kind() {
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Int:
		return float64(v.i)
	case Double:
		return v.d
	case DateTime:
		return float64(v.t.Unix())
	case String:
		return parseDouble(v.s)
	case Bytes:
		return parseDouble(string(v.bytes))
	case Pointer:
		return float64(v.ptr.address())
	case Closure:
		return v.fn.result().Double()
	default:
		return 0
	}
}

// Bool returns the boolean coercion of the value. It never fails.
func (v *Value) Bool() bool {
	switch v.Kind() {
	case Undef:
		return false
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Double:
		return v.d != 0
	case DateTime:
		return !v.t.IsZero()
	case String:
		return v.s != ""
	case Bytes:
		return len(v.bytes) > 0
	case Pointer:
		return v.ptr.handle != nil
	case Closure:
		return v.fn.result().Bool()
	default:
		return true
	}
}

// Time returns the datetime coercion of the value.
// Integers and floats are read as unix seconds, strings are parsed with
// the datetime layout. Anything else yields the zero time.
func (v *Value) Time() time.Time {
	switch v.Kind() {
	case DateTime:
		return v.t
	case Int:
		return time.Unix(v.i, 0)
	case Double:
		return time.Unix(truncate(v.d), 0)
	case String, Bytes:
		t, err := ParseDateTime(v.String(), DateTimeLayout)
		if err != nil {
			return time.Time{}
		}
		return t
	case Closure:
		return v.fn.result().Time()
	default:
		return time.Time{}
	}
}

// Raw returns the underlying bytes of a Bytes value, or the string
// coercion as bytes for any other kind.
func (v *Value) Raw() []byte {
	if v.Kind() == Bytes {
		return v.bytes
	}
	return []byte(v.String())
}

// Len returns the number of elements of a list or map and the length of a
// string or byte-string. It returns 0 for all other kinds.
func (v *Value) Len() int {
	switch v.Kind() {
	case List:
		return len(v.list)
	case Map:
		return len(v.m)
	case String:
		return len(v.s)
	case Bytes:
		return len(v.bytes)
	default:
		return 0
	}
}

func orUndef(v *Value) *Value {
	if v == nil {
		return NewUndef()
	}
	return v
}

func formatDouble(d float64) string {
	return strconv.FormatFloat(d, 'f', 6, 64)
}

func truncate(d float64) int64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return int64(d)
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if d, err := strconv.ParseFloat(s, 64); err == nil {
		return truncate(d)
	}
	return 0
}

func parseDouble(s string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return d
}
