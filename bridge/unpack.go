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

package bridge

import "github.com/tochemey/mailport/value"

// NativeFunc is a native function receiving its positional arguments and the closure state
type NativeFunc func(args []*value.Value, state *value.Value) (*value.Value, error)

// Unpack returns the first n elements of args. Missing arguments are Undef.
// A non-list args is taken as a single argument.
func Unpack(args *value.Value, n int) []*value.Value {
	if !args.IsList() {
		args = value.NewList(args)
	}
	out := make([]*value.Value, n)
	for i := range out {
		out[i] = args.Index(i)
	}
	return out
}

// Native builds a Callable that unpacks n arguments, calls fn and always returns a value
func Native(n int, fn NativeFunc) value.Callable {
	return value.CallableFunc(func(args, state *value.Value) (*value.Value, error) {
		result, err := fn(Unpack(args, n), state)
		if err != nil {
			return value.NewUndef(), err
		}
		if result == nil {
			result = value.NewUndef()
		}
		return result, nil
	})
}
