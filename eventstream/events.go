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

package eventstream

import (
	"time"

	"github.com/tochemey/mailport/value"
)

const (
	// LifecycleTopic carries ProcessStarted and ProcessExited events
	LifecycleTopic = "mailport.lifecycle"
	// DeadlettersTopic carries Deadletter events
	DeadlettersTopic = "mailport.deadletters"
)

// ProcessStarted is published when a process program starts running
type ProcessStarted struct {
	PID       int64
	Name      string
	StartedAt time.Time
}

// ProcessExited is published after a process program returned.
// Status is "ok" or "exception"; Result holds the return value or the error description.
type ProcessExited struct {
	PID      int64
	Name     string
	Status   string
	Result   *value.Value
	ExitedAt time.Time
}

// Deadletter is published when a message is addressed to a pid that is not registered
type Deadletter struct {
	Sender   int64
	Receiver int64
	Message  *value.Value
	SentAt   time.Time
}
