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

package mailbox

import (
	"context"
	"sync"
	"time"
)

// minQueueLen is the smallest capacity that queue may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue is an unbounded thread-safe FIFO backed by a ring buffer.
//
// Any number of goroutines may push and pop concurrently; every pushed item
// is returned by exactly one pop. Pops come in blocking, timed, context bound
// and non-blocking flavours.
type Queue[T any] struct {
	mu       sync.Mutex
	nodes    []T
	head     int
	tail     int
	count    int
	minCap   int
	arrival  chan struct{}
	notifier func()
}

// New creates an empty Queue
func New[T any](opts ...Option) *Queue[T] {
	cfg := &config{initialSize: minQueueLen}
	for _, opt := range opts {
		opt.Apply(cfg)
	}

	size := minQueueLen
	for size < cfg.initialSize {
		size <<= 1
	}

	return &Queue[T]{
		nodes:    make([]T, size),
		minCap:   size,
		arrival:  make(chan struct{}),
		notifier: cfg.notifier,
	}
}

// Push adds an item to the back of the queue, wakes pending consumers and
// invokes the notifier.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	if q.count == len(q.nodes) {
		q.resize(len(q.nodes) << 1)
	}
	q.nodes[q.tail] = item
	// bitwise modulus
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
	close(q.arrival)
	q.arrival = make(chan struct{})
	notifier := q.notifier
	q.mu.Unlock()

	if notifier != nil {
		notifier()
	}
}

// PopNow removes and returns the oldest item without blocking.
// The boolean is false when the queue is empty.
func (q *Queue[T]) PopNow() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// PopBlocking waits until an item is available and returns the oldest one
func (q *Queue[T]) PopBlocking() T {
	item, _ := q.wait(nil, nil)
	return item
}

// PopWaiting waits up to timeout for an item. Only one item is consumed.
// The boolean is false when the timeout elapsed first.
// A non-positive timeout behaves as PopNow.
func (q *Queue[T]) PopWaiting(timeout time.Duration) (T, bool) {
	if timeout <= 0 {
		return q.PopNow()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return q.wait(timer.C, nil)
}

// PopContext waits for an item until ctx is done
func (q *Queue[T]) PopContext(ctx context.Context) (T, error) {
	item, ok := q.wait(nil, ctx.Done())
	if !ok {
		return item, ctx.Err()
	}
	return item, nil
}

// Clear discards all pending items. Items already handed to a consumer are not affected.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	clear(q.nodes)
	q.head = 0
	q.tail = 0
	q.count = 0
	if len(q.nodes) > q.minCap {
		q.nodes = make([]T, q.minCap)
	}
	q.mu.Unlock()
}

// IsEmpty reports whether the queue is empty.
// The result is advisory under concurrent access.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the current length of the queue
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	l := q.count
	q.mu.Unlock()
	return l
}

// SetNotifier replaces the function invoked after every push. A nil function removes it.
func (q *Queue[T]) SetNotifier(fn func()) {
	q.mu.Lock()
	q.notifier = fn
	q.mu.Unlock()
}

// wait blocks until an item is popped, timeout fires or done is closed.
// Nil channels never fire.
func (q *Queue[T]) wait(timeout <-chan time.Time, done <-chan struct{}) (T, bool) {
	for {
		q.mu.Lock()
		if item, ok := q.pop(); ok {
			q.mu.Unlock()
			return item, true
		}
		arrival := q.arrival
		q.mu.Unlock()

		select {
		case <-arrival:
		case <-timeout:
			return q.PopNow()
		case <-done:
			var zero T
			return zero, false
		}
	}
}

// pop removes the oldest item. Callers must hold the lock.
func (q *Queue[T]) pop() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}
	item := q.nodes[q.head]
	q.nodes[q.head] = zero
	// bitwise modulus
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--
	// Resize down if buffer 1/4 full.
	if len(q.nodes) > q.minCap && (q.count<<2) == len(q.nodes) {
		q.resize(len(q.nodes) >> 1)
	}
	return item, true
}

// resize moves the items into a buffer of the given power of two size
func (q *Queue[T]) resize(size int) {
	nodes := make([]T, size)
	if q.count > 0 {
		if q.tail > q.head {
			copy(nodes, q.nodes[q.head:q.tail])
		} else {
			n := copy(nodes, q.nodes[q.head:])
			copy(nodes[n:], q.nodes[:q.tail])
		}
	}
	q.tail = q.count & (size - 1)
	q.head = 0
	q.nodes = nodes
}
