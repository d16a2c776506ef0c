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

package port

import "github.com/tochemey/mailport/value"

// envelope stamps payload with the sender pid and the message token.
// A list becomes [pid, token, items...], a map gets "pid" and "token" keys set in place
// and any other value becomes [pid, token, payload].
func envelope(payload *value.Value, pid, token int64) *value.Value {
	switch payload.Kind() {
	case value.List:
		msg := value.NewList(value.NewInt(pid), value.NewInt(token))
		msg.Push(payload.Items()...)
		return msg
	case value.Map:
		payload.SetKey("pid", value.NewInt(pid))
		payload.SetKey("token", value.NewInt(token))
		return payload
	default:
		return value.NewList(value.NewInt(pid), value.NewInt(token), payload)
	}
}
