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
	"encoding/hex"
	"strings"
)

// Hex returns the upper case hexadecimal form of the raw bytes of the value
func (v *Value) Hex() string {
	return strings.ToUpper(hex.EncodeToString(v.Raw()))
}

// FromHex decodes a hexadecimal string into a Bytes value.
// A pair that is not valid hexadecimal decodes to '?'; a trailing odd digit is ignored.
func FromHex(text string) *Value {
	out := make([]byte, 0, len(text)/2)
	for i := 0; i+1 < len(text); i += 2 {
		var b [1]byte
		if _, err := hex.Decode(b[:], []byte(text[i:i+2])); err != nil {
			out = append(out, '?')
			continue
		}
		out = append(out, b[0])
	}
	return &Value{kind: Bytes, bytes: out}
}
