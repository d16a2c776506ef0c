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
	"errors"

	gerrors "github.com/tochemey/mailport/errors"
)

// Callable is a native function carried by a Closure value.
// args is always a List; state is the captured state of the closure, possibly Undef.
type Callable interface {
	Call(args, state *Value) (*Value, error)
}

// CallableFunc adapts an ordinary function to Callable
type CallableFunc func(args, state *Value) (*Value, error)

// Call implements Callable
func (f CallableFunc) Call(args, state *Value) (*Value, error) {
	return f(args, state)
}

type closure struct {
	callable Callable
	state    *Value
}

// NewClosure creates a closure value over callable with an optional captured state
func NewClosure(callable Callable, state *Value) *Value {
	return &Value{kind: Closure, fn: &closure{callable: callable, state: orUndef(state)}}
}

// State returns the captured state of a closure, or Undef for other kinds
func (v *Value) State() *Value {
	if v.Kind() != Closure {
		return NewUndef()
	}
	return v.fn.state
}

// Call invokes a closure with the given arguments.
// Errors and panics raised by the callable are reported as *errors.ForeignCallError.
// Calling a value that is not a closure is a ForeignCallError as well.
func (v *Value) Call(args ...*Value) (*Value, error) {
	return v.CallList(NewList(args...))
}

// CallList invokes a closure with an argument list
func (v *Value) CallList(args *Value) (*Value, error) {
	if v.Kind() != Closure {
		return NewUndef(), gerrors.NewForeignCallError(gerrors.NewTypeMismatchError(Closure.String(), v.Kind().String()))
	}
	if !args.IsList() {
		args = NewList(args)
	}
	return v.fn.call(args)
}

func (c *closure) call(args *Value) (result *Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = NewUndef()
			err = gerrors.NewForeignCallError(gerrors.FromRecovered(r, 2))
		}
	}()

	if c.callable == nil {
		return NewUndef(), nil
	}

	result, err = c.callable.Call(args, c.state)
	if err != nil {
		var foreign *gerrors.ForeignCallError
		if !errors.As(err, &foreign) {
			err = gerrors.NewForeignCallError(err)
		}
		return NewUndef(), err
	}
	return orUndef(result), nil
}

// result calls the closure with no arguments for scalar coercions
func (c *closure) result() *Value {
	result, err := c.call(NewList())
	if err != nil {
		return NewUndef()
	}
	return result
}
