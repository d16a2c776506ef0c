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

// Package bridge holds the boundary between the runtime and an embedded language.
//
// An interpreter binding converts its native data with a Converter, calls its own
// functions through an Invoker and exposes the runtime natives found in a Library.
package bridge

import (
	"github.com/tochemey/mailport/value"
)

// Converter converts between a native representation N and values
type Converter[N any] interface {
	ToValue(native N) (*value.Value, error)
	FromValue(v *value.Value) (N, error)
}

// ConverterFuncs adapts a pair of functions to Converter
type ConverterFuncs[N any] struct {
	To   func(native N) (*value.Value, error)
	From func(v *value.Value) (N, error)
}

// ToValue implements Converter
func (c ConverterFuncs[N]) ToValue(native N) (*value.Value, error) {
	return c.To(native)
}

// FromValue implements Converter
func (c ConverterFuncs[N]) FromValue(v *value.Value) (N, error) {
	return c.From(v)
}

// JSON converts JSON documents
var JSON Converter[string] = ConverterFuncs[string]{
	To:   value.FromJSON,
	From: value.ToJSON,
}

// Invoker calls a foreign callable with a list of arguments
type Invoker interface {
	Invoke(fn, args *value.Value) (*value.Value, error)
}

// InvokerFunc adapts an ordinary function to Invoker
type InvokerFunc func(fn, args *value.Value) (*value.Value, error)

// Invoke implements Invoker
func (f InvokerFunc) Invoke(fn, args *value.Value) (*value.Value, error) {
	return f(fn, args)
}

// ClosureInvoker invokes closure values in place
var ClosureInvoker Invoker = InvokerFunc(func(fn, args *value.Value) (*value.Value, error) {
	return fn.CallList(args)
})
