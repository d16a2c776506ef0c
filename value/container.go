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
	"iter"
	"slices"
	"strconv"
)

// Push appends items to a list. An undefined value becomes a list first.
func (v *Value) Push(items ...*Value) {
	if !v.asList() {
		return
	}
	for _, item := range items {
		v.list = append(v.list, orUndef(item))
	}
}

// Pop removes and returns the last element of a list, or Undef when there is none
func (v *Value) Pop() *Value {
	if v.Kind() != List || len(v.list) == 0 {
		return NewUndef()
	}
	last := len(v.list) - 1
	item := v.list[last]
	v.list[last] = nil
	v.list = v.list[:last]
	return item
}

// Unshift prepends an item to a list. An undefined value becomes a list first.
func (v *Value) Unshift(item *Value) {
	if !v.asList() {
		return
	}
	v.list = slices.Insert(v.list, 0, orUndef(item))
}

// Shift removes and returns the first element of a list, or Undef when there is none
func (v *Value) Shift() *Value {
	if v.Kind() != List || len(v.list) == 0 {
		return NewUndef()
	}
	item := v.list[0]
	v.list[0] = nil
	v.list = v.list[1:]
	return item
}

// Set stores item at index i of a list, extending the list with Undef as needed.
// On a map the item is stored under the key strconv.Itoa(i). Negative indexes are ignored.
func (v *Value) Set(i int, item *Value) {
	if v.Kind() == Map {
		v.SetKey(strconv.Itoa(i), item)
		return
	}
	if i < 0 || !v.asList() {
		return
	}
	for len(v.list) <= i {
		v.list = append(v.list, NewUndef())
	}
	v.list[i] = orUndef(item)
}

// Index returns element i of a list, or the entry under strconv.Itoa(i) of a map.
// Undef is returned when there is no such element.
func (v *Value) Index(i int) *Value {
	switch v.Kind() {
	case List:
		if i < 0 || i >= len(v.list) {
			return NewUndef()
		}
		return v.list[i]
	case Map:
		return v.Key(strconv.Itoa(i))
	default:
		return NewUndef()
	}
}

// Items returns a copy of the elements of a list. Maps yield their values in key order.
func (v *Value) Items() []*Value {
	switch v.Kind() {
	case List:
		return slices.Clone(v.list)
	case Map:
		items := make([]*Value, 0, len(v.m))
		for _, k := range v.Keys() {
			items = append(items, v.m[k])
		}
		return items
	default:
		return nil
	}
}

// SetKey stores item under key in a map. An undefined value becomes a map first.
// On a list a numeric key addresses the element at that index.
func (v *Value) SetKey(key string, item *Value) {
	switch v.Kind() {
	case List:
		if i, err := strconv.Atoi(key); err == nil {
			v.Set(i, item)
		}
		return
	case Undef:
		if v == nil {
			return
		}
		*v = Value{kind: Map, m: make(map[string]*Value)}
	case Map:
	default:
		return
	}
	v.m[key] = orUndef(item)
}

// Key returns the entry stored under key in a map, or element key of a list
// when key is numeric. Undef is returned when there is no such entry.
func (v *Value) Key(key string) *Value {
	switch v.Kind() {
	case Map:
		if item, ok := v.m[key]; ok {
			return item
		}
	case List:
		if i, err := strconv.Atoi(key); err == nil {
			return v.Index(i)
		}
	}
	return NewUndef()
}

// Has reports whether a map holds key, or whether a list has a numeric index key
func (v *Value) Has(key string) bool {
	switch v.Kind() {
	case Map:
		_, ok := v.m[key]
		return ok
	case List:
		i, err := strconv.Atoi(key)
		return err == nil && i >= 0 && i < len(v.list)
	default:
		return false
	}
}

// Delete removes key from a map
func (v *Value) Delete(key string) {
	if v.Kind() == Map {
		delete(v.m, key)
	}
}

// Keys returns the keys of a map in sorted byte order.
// Lists yield their indexes as strings.
func (v *Value) Keys() []string {
	switch v.Kind() {
	case Map:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return keys
	case List:
		keys := make([]string, len(v.list))
		for i := range v.list {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	default:
		return nil
	}
}

// Range calls fn for each entry of a map in sorted key order, or for each
// element of a list with its index as key. Iteration stops when fn returns false.
func (v *Value) Range(fn func(key string, item *Value) bool) {
	for k, item := range v.All() {
		if !fn(k, item) {
			return
		}
	}
}

// All returns an iterator over the entries of a map in sorted key order,
// or over the elements of a list keyed by index.
// A defined scalar yields itself once under "0", an undefined value yields nothing.
func (v *Value) All() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		switch v.Kind() {
		case Map:
			for _, k := range v.Keys() {
				item, ok := v.m[k]
				if !ok {
					continue
				}
				if !yield(k, item) {
					return
				}
			}
		case List:
			for i, item := range slices.Clone(v.list) {
				if !yield(strconv.Itoa(i), item) {
					return
				}
			}
		case Undef:
		default:
			yield("0", v)
		}
	}
}

func (v *Value) asList() bool {
	switch v.Kind() {
	case List:
		return true
	case Undef:
		if v == nil {
			return false
		}
		*v = Value{kind: List}
		return true
	default:
		return false
	}
}
