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
	"strconv"
	"strings"
)

// Dump renders the value in its readable text form:
//
//	nil true 12 34.560000 "text" [1 2 3] {key: 1 "10" 2}
//
// Map keys that could not be read back as a bare symbol are quoted and
// written without the trailing colon.
func Dump(v *Value) string {
	var sb strings.Builder
	dump(&sb, v)
	return sb.String()
}

// DumpAll renders each value with Dump and joins them with commas
func DumpAll(values ...*Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Dump(v)
	}
	return strings.Join(parts, ",")
}

func dump(sb *strings.Builder, v *Value) {
	switch v.Kind() {
	case Undef:
		sb.WriteString("nil")
	case Bool:
		sb.WriteString(strconv.FormatBool(v.b))
	case Int, Double, Pointer:
		sb.WriteString(v.String())
	case DateTime:
		sb.WriteString("#<datetime:")
		sb.WriteString(v.String())
		sb.WriteByte('>')
	case String:
		quote(sb, v.s)
	case Bytes:
		sb.WriteString("#<bytes:")
		sb.WriteString(v.Hex())
		sb.WriteByte('>')
	case Closure:
		sb.WriteString("#<closure>")
	case List:
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteByte(' ')
			}
			dump(sb, item)
		}
		sb.WriteByte(']')
	case Map:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if needsQuote(k) {
				quote(sb, k)
				sb.WriteByte(' ')
			} else {
				sb.WriteString(k)
				sb.WriteString(": ")
			}
			dump(sb, v.m[k])
		}
		sb.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

func quote(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			sb.WriteString(`\x`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
}

func needsQuote(key string) bool {
	if key == "" || (key[0] >= '0' && key[0] <= '9') {
		return true
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c <= ' ' || c >= 0x7f {
			return true
		}
		switch c {
		case '"', '\\', ':', ';', '(', ')', '[', ']', '{', '}', ',':
			return true
		}
	}
	return false
}
