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

import "time"

// SetInt stores i coerced to the current kind of the value.
// An undefined value becomes an Int. Container, pointer and closure values are left untouched.
func (v *Value) SetInt(i int64) { v.assign(NewInt(i)) }

// SetDouble stores d coerced to the current kind of the value.
func (v *Value) SetDouble(d float64) { v.assign(NewDouble(d)) }

// SetString stores s coerced to the current kind of the value.
// On a DateTime the string is parsed with DateTimeLayout.
func (v *Value) SetString(s string) { v.assign(NewString(s)) }

// SetBool stores b coerced to the current kind of the value.
func (v *Value) SetBool(b bool) { v.assign(NewBool(b)) }

// SetTime stores t coerced to the current kind of the value.
// On an Int the unix seconds are stored.
func (v *Value) SetTime(t time.Time) { v.assign(NewDateTime(t)) }

func (v *Value) assign(from *Value) {
	if v == nil {
		return
	}
	switch v.kind {
	case Undef:
		*v = *from
	case Bool:
		v.b = from.Bool()
	case Int:
		v.i = from.Int()
	case Double:
		v.d = from.Double()
	case DateTime:
		v.t = from.Time().Truncate(time.Second)
	case String:
		v.s = from.String()
	case Bytes:
		v.bytes = from.Raw()
	}
}
