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

package testkit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
	"github.com/tochemey/mailport/process"
	"github.com/tochemey/mailport/value"
)

const (
	// DefaultTimeout bounds the Expect calls that take no duration
	DefaultTimeout time.Duration = 3 * time.Second
	// noMessageTimeout bounds ExpectNoMessage
	noMessageTimeout time.Duration = 100 * time.Millisecond
)

// Probe defines the probe interface that helps perform some assertions
// when implementing unit tests with processes
type Probe interface {
	// ExpectMessage asserts that the payload of the next message is the expected one.
	// The envelope pid and token are not compared.
	ExpectMessage(expected *value.Value)
	// ExpectMessageWithin asserts that the payload of the next message is the expected one within a time duration
	ExpectMessageWithin(duration time.Duration, expected *value.Value)
	// ExpectCommand asserts that the next message carries the given command and returns it
	ExpectCommand(command string) *value.Value
	// ExpectCommandWithin asserts that the next message carries the given command within a time duration
	ExpectCommandWithin(duration time.Duration, command string) *value.Value
	// ExpectNoMessage asserts that no message is expected
	ExpectNoMessage()
	// ExpectAnyMessage asserts that any message is expected
	ExpectAnyMessage() *value.Value
	// ExpectAnyMessageWithin asserts that any message within a time duration
	ExpectAnyMessageWithin(duration time.Duration) *value.Value
	// Send sends a payload from the probe to the process with pid and returns its token
	Send(pid int64, payload *value.Value) int64
	// Sender returns the pid of the sender of the last received message
	Sender() int64
	// Token returns the token of the last received message
	Token() int64
	// PID returns the pid of the probe
	PID() int64
	// Stop stops the test probe
	Stop()
}

type probe struct {
	pt *testing.T

	port           *port.Port
	lastMessage    *value.Value
	defaultTimeout time.Duration
}

// ensure that probe implements Probe
var _ Probe = (*probe)(nil)

// newProbe creates an instance of probe
func newProbe(t *testing.T, registry port.Registry) *probe {
	return &probe{
		pt:             t,
		port:           port.New(port.WithRegistry(registry), port.WithLogger(log.DiscardLogger)),
		defaultTimeout: DefaultTimeout,
	}
}

// ExpectMessage assert message expectation
func (x *probe) ExpectMessage(expected *value.Value) {
	x.expectMessage(x.defaultTimeout, expected)
}

// ExpectMessageWithin expects message within a time duration
func (x *probe) ExpectMessageWithin(duration time.Duration, expected *value.Value) {
	x.expectMessage(duration, expected)
}

// ExpectCommand expects a message carrying command
func (x *probe) ExpectCommand(command string) *value.Value {
	return x.expectCommand(x.defaultTimeout, command)
}

// ExpectCommandWithin expects a message carrying command within a time duration
func (x *probe) ExpectCommandWithin(duration time.Duration, command string) *value.Value {
	return x.expectCommand(duration, command)
}

// ExpectNoMessage expects no message
func (x *probe) ExpectNoMessage() {
	received := x.receiveOne(noMessageTimeout)
	require.Nil(x.pt, received, fmt.Sprintf("received unexpected message %s", dump(received)))
}

// ExpectAnyMessage expects any message
func (x *probe) ExpectAnyMessage() *value.Value {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin expects any message within a time duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) *value.Value {
	return x.expectAnyMessage(duration)
}

// Send sends a payload to the process to be tested
func (x *probe) Send(pid int64, payload *value.Value) int64 {
	token, err := x.port.EmitMessage(payload, pid)
	require.NoError(x.pt, err)
	return token
}

// Sender returns the last sender
func (x *probe) Sender() int64 {
	return envelopeField(x.lastMessage, 0, "pid")
}

// Token returns the last token
func (x *probe) Token() int64 {
	return envelopeField(x.lastMessage, 1, "token")
}

// PID returns the pid of the probe
func (x *probe) PID() int64 {
	return x.port.PID()
}

// Stop stops the test probe
func (x *probe) Stop() {
	x.port.Close()
}

// receiveOne receives one message within a maximum time duration
func (x *probe) receiveOne(max time.Duration) *value.Value {
	msg, ok := x.port.Mailbox().PopWaiting(max)
	if !ok {
		return nil
	}
	x.lastMessage = msg
	return msg
}

// expectMessage assert the expectation of a message within a maximum time duration
func (x *probe) expectMessage(max time.Duration, expected *value.Value) {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %s", max, dump(expected)))
	payload := payloadOf(received, expected)
	require.True(x.pt, value.Equal(expected, payload), fmt.Sprintf("expected %s, found %s", dump(expected), dump(payload)))
}

// expectCommand asserts the command of the next message
func (x *probe) expectCommand(max time.Duration, command string) *value.Value {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectCommand while waiting for %s", max, command))
	require.True(x.pt, process.Matches(received, value.NewString(command)), fmt.Sprintf("expected command %s, found %s", command, dump(received)))
	return received
}

// expectAnyMessage asserts that any message is expected
func (x *probe) expectAnyMessage(max time.Duration) *value.Value {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}

// payloadOf strips the envelope of msg in the shape of expected
func payloadOf(msg, expected *value.Value) *value.Value {
	switch {
	case msg.IsMap():
		payload := msg.Clone()
		payload.Delete("pid")
		payload.Delete("token")
		return payload
	case expected.IsList():
		return value.NewList(msg.Items()[min(2, msg.Len()):]...)
	default:
		return msg.Index(2)
	}
}

func envelopeField(msg *value.Value, index int, key string) int64 {
	if msg == nil {
		return -1
	}
	if msg.IsMap() {
		return msg.Key(key).Int()
	}
	return msg.Index(index).Int()
}

func dump(v *value.Value) string {
	if v == nil {
		return "<none>"
	}
	return value.Dump(v)
}
