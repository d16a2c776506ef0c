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
	"bytes"
	"maps"
	"slices"
)

// Clone returns a shallow copy of the value.
//
// Lists and maps get a new container whose elements are the same references
// as the original. Scalars are copied. Pointers share the handle and take a
// new reference. Closures share the callable and the captured state.
func (v *Value) Clone() *Value {
	if v == nil {
		return NewUndef()
	}
	clone := *v
	switch v.kind {
	case Bytes:
		clone.bytes = slices.Clone(v.bytes)
	case List:
		clone.list = slices.Clone(v.list)
	case Map:
		clone.m = maps.Clone(v.m)
		if clone.m == nil {
			clone.m = make(map[string]*Value)
		}
	case Pointer:
		v.ptr.refs.Inc()
	}
	return &clone
}

// Equal reports whether a and b are structurally equal.
//
// Scalars compare by kind and value, lists element-wise, maps by their sorted
// keys and values. Pointers compare their handle and type name. Closures are never equal.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case Undef:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Double:
		return a.d == b.d
	case DateTime:
		return a.t.Equal(b.t)
	case String:
		return a.s == b.s
	case Bytes:
		return bytes.Equal(a.bytes, b.bytes)
	case List:
		return slices.EqualFunc(a.list, b.list, Equal)
	case Map:
		if len(a.m) != len(b.m) {
			return false
		}
		for _, k := range a.Keys() {
			other, ok := b.m[k]
			if !ok || !Equal(a.m[k], other) {
				return false
			}
		}
		return true
	case Pointer:
		return a.ptr.sameHandle(b.ptr)
	default:
		return false
	}
}
