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

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/internal/metric"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/mailbox"
	"github.com/tochemey/mailport/value"
)

// Stats holds the runtime counters shared by ports and processes
type Stats = metric.Counters

// NewStats creates zeroed runtime counters
func NewStats() *Stats {
	return metric.NewCounters()
}

type slot[F any] struct {
	id uint64
	fn F
}

// Port is the addressable mailbox of a process.
// It owns the pid, the token counter and the message queue.
type Port struct {
	pid         int64
	tokens      *atomic.Int64
	queue       *mailbox.Queue[*value.Value]
	interceptor Interceptor
	logging     *atomic.Bool
	closed      *atomic.Bool

	registry Registry
	logger   log.Logger
	events   eventstream.Stream
	stats    *Stats

	slotsMu     sync.RWMutex
	slotSeq     uint64
	parentSlots []slot[func(*value.Value)]
	arrivals    []slot[func()]
}

// New creates a Port, allocates its pid and registers it
func New(opts ...Option) *Port {
	p := &Port{
		tokens:   atomic.NewInt64(0),
		logging:  atomic.NewBool(false),
		closed:   atomic.NewBool(false),
		registry: DefaultRegistry(),
		logger:   log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(p)
	}

	p.queue = mailbox.New[*value.Value](mailbox.WithNotifier(p.notifyArrived))
	p.pid = p.registry.NextPID()
	p.registry.Register(p)
	return p
}

// PID returns the port identifier
func (p *Port) PID() int64 {
	return p.pid
}

// Mailbox returns the port message queue
func (p *Port) Mailbox() *mailbox.Queue[*value.Value] {
	return p.queue
}

// Registry returns the registry the port is registered with
func (p *Port) Registry() Registry {
	return p.registry
}

// Logger returns the port logger
func (p *Port) Logger() log.Logger {
	return p.logger
}

// NewToken returns the next token of the port. The first token is 0.
func (p *Port) NewToken() int64 {
	return p.tokens.Inc() - 1
}

// SetMessageLogging toggles message tracing
func (p *Port) SetMessageLogging(enabled bool) {
	p.logging.Store(enabled)
}

// MessageLogging reports whether message tracing is on
func (p *Port) MessageLogging() bool {
	return p.logging.Load()
}

// Close unregisters the port. Messages addressed to its pid fail afterwards.
func (p *Port) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.registry.Unregister(p)
	}
}

// EmitMessage wraps payload into an envelope carrying the port pid and a fresh token, then delivers it.
// With a non-negative destination the envelope goes to that pid, otherwise to the parent emitter slots.
// The token is returned even when delivery fails.
func (p *Port) EmitMessage(payload *value.Value, dest ...int64) (int64, error) {
	token := p.NewToken()
	msg := envelope(payload, p.pid, token)
	p.stats.MessageEmitted()

	if len(dest) == 0 || dest[0] < 0 {
		if p.logging.Load() {
			p.logger.Debugf("(%d) emit: %s", p.pid, value.Dump(msg))
		}
		p.emitToParent(msg)
		return token, nil
	}

	to := dest[0]
	if p.logging.Load() {
		p.logger.Debugf("(%d) emit(->%d): %s", p.pid, to, value.Dump(msg))
	}

	if to == p.pid {
		p.Handle(msg)
		return token, nil
	}

	target, ok := p.registry.Lookup(to)
	if !ok {
		p.deadletter(to, msg)
		return token, gerrors.NewErrDestinationNotFound(to)
	}

	target.Handle(msg)
	return token, nil
}

// Handle delivers an already enveloped message to this port
func (p *Port) Handle(msg *value.Value) {
	if p.logging.Load() {
		p.logger.Debugf("(%d) handle: %s", p.pid, value.Dump(msg))
	}

	if p.interceptor != nil && p.interceptor(msg) {
		return
	}

	p.stats.MessageHandled()
	p.queue.Push(msg)
}

// OnParentEmit adds a slot receiving the messages emitted without destination.
// The returned function removes the slot.
func (p *Port) OnParentEmit(fn func(msg *value.Value)) func() {
	p.slotsMu.Lock()
	defer p.slotsMu.Unlock()
	p.slotSeq++
	id := p.slotSeq
	p.parentSlots = append(p.parentSlots, slot[func(*value.Value)]{id: id, fn: fn})
	return func() {
		p.slotsMu.Lock()
		defer p.slotsMu.Unlock()
		p.parentSlots = removeSlot(p.parentSlots, id)
	}
}

// OnMessageArrived adds a slot invoked on the pushing goroutine after each message is queued.
// The returned function removes the slot.
func (p *Port) OnMessageArrived(fn func()) func() {
	p.slotsMu.Lock()
	defer p.slotsMu.Unlock()
	p.slotSeq++
	id := p.slotSeq
	p.arrivals = append(p.arrivals, slot[func()]{id: id, fn: fn})
	return func() {
		p.slotsMu.Lock()
		defer p.slotsMu.Unlock()
		p.arrivals = removeSlot(p.arrivals, id)
	}
}

func (p *Port) emitToParent(msg *value.Value) {
	p.slotsMu.RLock()
	slots := make([]slot[func(*value.Value)], len(p.parentSlots))
	copy(slots, p.parentSlots)
	p.slotsMu.RUnlock()

	for _, s := range slots {
		s.fn(msg)
	}
}

func (p *Port) notifyArrived() {
	p.slotsMu.RLock()
	slots := make([]slot[func()], len(p.arrivals))
	copy(slots, p.arrivals)
	p.slotsMu.RUnlock()

	for _, s := range slots {
		s.fn()
	}
}

func (p *Port) deadletter(to int64, msg *value.Value) {
	p.stats.Deadletter()
	p.logger.Warnf("(%d) no port registered under pid=%d, message dropped", p.pid, to)
	if p.events != nil {
		p.events.Publish(eventstream.DeadlettersTopic, &eventstream.Deadletter{
			Sender:   p.pid,
			Receiver: to,
			Message:  msg,
			SentAt:   time.Now(),
		})
	}
}

func removeSlot[F any](slots []slot[F], id uint64) []slot[F] {
	for i, s := range slots {
		if s.id == id {
			return append(slots[:i:i], slots[i+1:]...)
		}
	}
	return slots
}
