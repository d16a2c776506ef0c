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

package errors

import (
	"fmt"
	"runtime"
)

// FromRecovered turns a value returned by recover into a *PanicError.
// The location of the panicking frame is included when it can be resolved.
// skip counts the frames between the recover call and the panic site, as for runtime.Caller.
func FromRecovered(recovered any, skip int) *PanicError {
	var cause error
	switch r := recovered.(type) {
	case *PanicError:
		return r
	case error:
		cause = r
	default:
		cause = fmt.Errorf("%v", r)
	}

	if pc, file, line, ok := runtime.Caller(skip + 1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			cause = fmt.Errorf("%w at %s:%d (%s)", cause, file, line, fn.Name())
		}
	}
	return NewPanicError(cause)
}
