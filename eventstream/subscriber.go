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
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/mailport/mailbox"
)

// Subscriber defines the Subscriber Interface
type Subscriber interface {
	// ID returns the subscriber id
	ID() string
	// Active reports whether the subscriber still receives messages
	Active() bool
	// Topics returns the topics the subscriber is subscribed to
	Topics() []string
	// Iterator drains the pending messages into a closed channel
	Iterator() chan *Message
	// Wait returns the next message, waiting up to timeout
	Wait(timeout time.Duration) (*Message, bool)
	// Shutdown stops the subscriber from receiving messages
	Shutdown()
	signal(message *Message)
	subscribe(topic string)
	unsubscribe(topic string)
}

type subscriber struct {
	id       string
	sem      sync.Mutex
	messages *mailbox.Queue[*Message]
	topics   map[string]bool
	active   *atomic.Bool
}

var _ Subscriber = &subscriber{}

func newSubscriber() *subscriber {
	return &subscriber{
		id:       uuid.NewString(),
		messages: mailbox.New[*Message](),
		topics:   make(map[string]bool),
		active:   atomic.NewBool(true),
	}
}

// ID return consumer id
func (x *subscriber) ID() string {
	return x.id
}

// Active checks whether the consumer is active
func (x *subscriber) Active() bool {
	return x.active.Load()
}

// Topics returns the list of topics the consumer has subscribed to
func (x *subscriber) Topics() []string {
	x.sem.Lock()
	defer x.sem.Unlock()
	topics := make([]string, 0, len(x.topics))
	for topic := range x.topics {
		topics = append(topics, topic)
	}
	return topics
}

// Shutdown shutdowns the consumer
func (x *subscriber) Shutdown() {
	x.active.Store(false)
}

// Iterator returns the pending messages in arrival order
func (x *subscriber) Iterator() chan *Message {
	pending := x.messages.Len()
	out := make(chan *Message, pending)
	for i := 0; i < pending && x.active.Load(); i++ {
		msg, ok := x.messages.PopNow()
		if !ok {
			break
		}
		out <- msg
	}
	close(out)
	return out
}

// Wait returns the next message, waiting up to timeout
func (x *subscriber) Wait(timeout time.Duration) (*Message, bool) {
	if !x.active.Load() {
		return nil, false
	}
	return x.messages.PopWaiting(timeout)
}

func (x *subscriber) signal(message *Message) {
	if x.active.Load() {
		x.messages.Push(message)
	}
}

func (x *subscriber) subscribe(topic string) {
	x.sem.Lock()
	x.topics[topic] = true
	x.sem.Unlock()
}

func (x *subscriber) unsubscribe(topic string) {
	x.sem.Lock()
	delete(x.topics, topic)
	x.sem.Unlock()
}
