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
	"io"

	jsoniter "github.com/json-iterator/go"

	gerrors "github.com/tochemey/mailport/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// FromJSON parses a JSON document into a Value.
// Objects become maps, arrays lists, integral numbers Int and other numbers Double.
func FromJSON(text string) (*Value, error) {
	if !jsonAPI.Valid([]byte(text)) {
		return nil, gerrors.ErrInvalidJSON
	}
	iter := jsoniter.ParseString(jsonAPI, text)
	v := readJSON(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, fmt.Errorf("failed to parse json: %w", iter.Error)
	}
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue {
		return nil, fmt.Errorf("failed to parse json: unexpected trailing %s value", kindOfJSON(next))
	}
	return v, nil
}

// ToJSON renders the value as JSON. Pointers and closures render as their
// string form, bytes as upper case hex and datetimes in DateTimeLayout.
func ToJSON(v *Value) (string, error) {
	return jsonAPI.MarshalToString(toNative(v))
}

func readJSON(iter *jsoniter.Iterator) *Value {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		m := NewMap()
		iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			m.SetKey(key, readJSON(it))
			return it.Error == nil
		})
		return m
	case jsoniter.ArrayValue:
		list := NewList()
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			list.Push(readJSON(it))
			return it.Error == nil
		})
		return list
	case jsoniter.StringValue:
		return NewString(iter.ReadString())
	case jsoniter.NumberValue:
		number := iter.ReadNumber()
		if i, err := number.Int64(); err == nil {
			return NewInt(i)
		}
		d, _ := number.Float64()
		return NewDouble(d)
	case jsoniter.BoolValue:
		return NewBool(iter.ReadBool())
	case jsoniter.NilValue:
		iter.ReadNil()
		return NewUndef()
	default:
		iter.ReportError("FromJSON", "unexpected token")
		return NewUndef()
	}
}

func toNative(v *Value) any {
	switch v.Kind() {
	case Undef:
		return nil
	case Bool:
		return v.b
	case Int:
		return v.i
	case Double:
		return v.d
	case Bytes:
		return v.Hex()
	case List:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = toNative(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = toNative(item)
		}
		return out
	default:
		return v.String()
	}
}

func kindOfJSON(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.ObjectValue:
		return "object"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.BoolValue:
		return "bool"
	default:
		return "null"
	}
}
