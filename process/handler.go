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

package process

import (
	"context"
	"strconv"
	"sync"
	"time"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/mailbox"
	"github.com/tochemey/mailport/value"
)

// Handler receives the messages no wait call claimed
type Handler interface {
	Handle(msg, extra *value.Value) error
}

// HandlerFunc adapts an ordinary function to Handler
type HandlerFunc func(msg, extra *value.Value) error

// Handle implements Handler
func (f HandlerFunc) Handle(msg, extra *value.Value) error {
	return f(msg, extra)
}

type defaultHandler struct {
	token   int64
	handler Handler
}

// MessageHandler implements the wait protocol over a mailbox.
// Messages popped while waiting that do not match the requested tokens are
// dispatched to the default handlers and then discarded.
type MessageHandler struct {
	queue  *mailbox.Queue[*value.Value]
	logger log.Logger

	mu       sync.RWMutex
	handlers []defaultHandler
}

// NewMessageHandler creates a MessageHandler reading from queue
func NewMessageHandler(queue *mailbox.Queue[*value.Value], logger log.Logger) *MessageHandler {
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &MessageHandler{queue: queue, logger: logger}
}

// Matches reports whether msg is selected by tokens.
//
// A nil or undefined tokens value matches everything. A map message is matched on its
// "command" entry, any other message on its element at index 2. A list of tokens matches
// when any of its elements does, and the empty string is a wildcard.
func Matches(msg, tokens *value.Value) bool {
	if tokens.IsUndef() {
		return true
	}

	var command string
	if msg.IsMap() {
		command = msg.Key("command").String()
	} else {
		command = msg.Index(2).String()
	}

	if tokens.IsList() {
		for _, token := range tokens.Items() {
			if s := token.String(); s == "" || s == command {
				return true
			}
		}
		return false
	}

	s := tokens.String()
	return s == "" || s == command
}

// CheckAvailable drains the mailbox without blocking until a message matches tokens.
// Non-matching messages go to the default handlers. It returns false when the mailbox emptied first.
func (h *MessageHandler) CheckAvailable(tokens *value.Value) (*value.Value, bool) {
	for {
		msg, ok := h.queue.PopNow()
		if !ok {
			return value.NewUndef(), false
		}
		if h.match(msg, tokens) {
			return msg, true
		}
	}
}

// Wait waits up to timeout for a message matching tokens.
// Every non-matching message shrinks the remaining time, so the overall wait never exceeds timeout
// by more than the handling of the last message. A timeout <= 0 only looks at queued messages.
func (h *MessageHandler) Wait(tokens *value.Value, timeout time.Duration) (*value.Value, bool) {
	deadline := time.Now().Add(timeout)
	remaining := timeout
	for {
		msg, ok := h.queue.PopWaiting(max(remaining, 0))
		if !ok {
			return value.NewUndef(), false
		}
		if h.match(msg, tokens) {
			return msg, true
		}
		remaining = time.Until(deadline)
	}
}

// WaitInfinite blocks until a message matching tokens arrives
func (h *MessageHandler) WaitInfinite(tokens *value.Value) *value.Value {
	for {
		msg := h.queue.PopBlocking()
		if h.match(msg, tokens) {
			return msg
		}
	}
}

// WaitContext blocks until a message matching tokens arrives or ctx is done
func (h *MessageHandler) WaitContext(ctx context.Context, tokens *value.Value) (*value.Value, error) {
	for {
		msg, err := h.queue.PopContext(ctx)
		if err != nil {
			return value.NewUndef(), err
		}
		if h.match(msg, tokens) {
			return msg, nil
		}
	}
}

// ProcessMessagesNow hands every queued message to the default handlers
func (h *MessageHandler) ProcessMessagesNow() {
	for {
		msg, ok := h.queue.PopNow()
		if !ok {
			return
		}
		h.dispatch(msg, value.NewUndef())
	}
}

// AddDefaultHandler appends handler under token. Handlers are called in insertion order.
func (h *MessageHandler) AddDefaultHandler(token int64, handler Handler) {
	if handler == nil {
		return
	}
	h.mu.Lock()
	h.handlers = append(h.handlers, defaultHandler{token: token, handler: handler})
	h.mu.Unlock()
}

// RemoveDefaultHandler removes every handler registered under token
func (h *MessageHandler) RemoveDefaultHandler(token int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.handlers[:0]
	for _, registered := range h.handlers {
		if registered.token != token {
			kept = append(kept, registered)
		}
	}
	clear(h.handlers[len(kept):])
	h.handlers = kept
}

// ClearDefaultHandlers removes all default handlers
func (h *MessageHandler) ClearDefaultHandlers() {
	h.mu.Lock()
	h.handlers = nil
	h.mu.Unlock()
}

// DefaultHandlersCount returns the number of installed default handlers
func (h *MessageHandler) DefaultHandlersCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers)
}

func (h *MessageHandler) match(msg, tokens *value.Value) bool {
	if Matches(msg, tokens) {
		return true
	}
	h.dispatch(msg, value.NewUndef())
	return false
}

// dispatch works on a snapshot so handlers may add or remove handlers while being called
func (h *MessageHandler) dispatch(msg, extra *value.Value) {
	h.mu.RLock()
	snapshot := make([]defaultHandler, len(h.handlers))
	copy(snapshot, h.handlers)
	h.mu.RUnlock()

	for _, registered := range snapshot {
		if err := h.call(registered, msg, extra); err != nil {
			h.logger.Error(gerrors.NewHandlerError(strconv.FormatInt(registered.token, 10), err))
		}
	}
}

func (h *MessageHandler) call(registered defaultHandler, msg, extra *value.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = gerrors.FromRecovered(r, 2)
		}
	}()
	return registered.handler.Handle(msg, extra)
}
