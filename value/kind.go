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

// Kind identifies the variant held by a Value
type Kind uint8

const (
	// Undef is the kind of the undefined value
	Undef Kind = iota
	// Bool is the boolean kind
	Bool
	// Int is the 64-bit integer kind
	Int
	// Double is the 64-bit float kind
	Double
	// DateTime is the calendar time kind, stored with second precision
	DateTime
	// String is the text kind
	String
	// Bytes is the byte-string kind
	Bytes
	// List is the ordered sequence kind
	List
	// Map is the string keyed map kind
	Map
	// Pointer is the opaque foreign handle kind
	Pointer
	// Closure is the native callable kind
	Closure
)

var kindNames = [...]string{
	Undef:    "undef",
	Bool:     "bool",
	Int:      "int",
	Double:   "double",
	DateTime: "datetime",
	String:   "string",
	Bytes:    "bytes",
	List:     "list",
	Map:      "map",
	Pointer:  "pointer",
	Closure:  "closure",
}

// String returns the kind name
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
