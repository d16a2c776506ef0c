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
	"bytes"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/value"
)

func TestRegistry(t *testing.T) {
	t.Run("With pid allocation", func(t *testing.T) {
		registry := NewRegistry()
		require.EqualValues(t, 0, registry.NextPID())
		require.EqualValues(t, 1, registry.NextPID())
		require.EqualValues(t, 2, registry.NextPID())
	})

	t.Run("With register and unregister", func(t *testing.T) {
		registry := NewRegistry()
		p := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		require.Equal(t, 1, registry.Len())

		found, ok := registry.Lookup(p.PID())
		require.True(t, ok)
		assert.Same(t, p, found)

		p.Close()
		p.Close()
		_, ok = registry.Lookup(p.PID())
		assert.False(t, ok)
		assert.Zero(t, registry.Len())
	})

	t.Run("With default registry", func(t *testing.T) {
		assert.Same(t, DefaultRegistry(), DefaultRegistry())
		p := New(WithLogger(log.DiscardLogger))
		defer p.Close()
		found, ok := DefaultRegistry().Lookup(p.PID())
		require.True(t, ok)
		assert.Same(t, p, found)
	})
}

func TestPort(t *testing.T) {
	t.Run("With distinct pids", func(t *testing.T) {
		registry := NewRegistry()
		first := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		second := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		assert.EqualValues(t, 0, first.PID())
		assert.EqualValues(t, 1, second.PID())
		assert.Same(t, registry, first.Registry())
	})

	t.Run("With tokens strictly increasing", func(t *testing.T) {
		p := New(WithRegistry(NewRegistry()), WithLogger(log.DiscardLogger))
		require.EqualValues(t, 0, p.NewToken())
		require.EqualValues(t, 1, p.NewToken())
		require.EqualValues(t, 2, p.NewToken())
	})

	t.Run("With tokens distinct under concurrency", func(t *testing.T) {
		p := New(WithRegistry(NewRegistry()), WithLogger(log.DiscardLogger))
		const workers = 8
		const perWorker = 500

		var mu sync.Mutex
		tokens := make([]int64, 0, workers*perWorker)
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				local := make([]int64, 0, perWorker)
				for range perWorker {
					local = append(local, p.NewToken())
				}
				mu.Lock()
				tokens = append(tokens, local...)
				mu.Unlock()
			}()
		}
		wg.Wait()

		sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
		for i, token := range tokens {
			require.EqualValues(t, i, token)
		}
	})

	t.Run("With list envelope", func(t *testing.T) {
		registry := NewRegistry()
		sender := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		receiver := New(WithRegistry(registry), WithLogger(log.DiscardLogger))

		token, err := sender.EmitMessage(value.NewList(value.NewString("ping"), value.NewInt(42)), receiver.PID())
		require.NoError(t, err)

		msg, ok := receiver.Mailbox().PopNow()
		require.True(t, ok)
		require.Equal(t, 4, msg.Len())
		assert.Equal(t, sender.PID(), msg.Index(0).Int())
		assert.Equal(t, token, msg.Index(1).Int())
		assert.Equal(t, "ping", msg.Index(2).String())
		assert.EqualValues(t, 42, msg.Index(3).Int())
	})

	t.Run("With map envelope", func(t *testing.T) {
		registry := NewRegistry()
		sender := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		receiver := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		sender.NewToken()

		payload := value.NewMap()
		payload.SetKey("command", value.NewString("query"))
		token, err := sender.EmitMessage(payload, receiver.PID())
		require.NoError(t, err)
		require.EqualValues(t, 1, token)

		msg, ok := receiver.Mailbox().PopNow()
		require.True(t, ok)
		assert.Same(t, payload, msg)
		assert.Equal(t, sender.PID(), msg.Key("pid").Int())
		assert.Equal(t, token, msg.Key("token").Int())
		assert.Equal(t, "query", msg.Key("command").String())
	})

	t.Run("With scalar envelope", func(t *testing.T) {
		p := New(WithRegistry(NewRegistry()), WithLogger(log.DiscardLogger))
		_, err := p.EmitMessage(value.NewString("hello"), p.PID())
		require.NoError(t, err)
		_, err = p.EmitMessage(nil, p.PID())
		require.NoError(t, err)

		msg, ok := p.Mailbox().PopNow()
		require.True(t, ok)
		require.Equal(t, 3, msg.Len())
		assert.Equal(t, "hello", msg.Index(2).String())

		msg, ok = p.Mailbox().PopNow()
		require.True(t, ok)
		require.Equal(t, 3, msg.Len())
		assert.True(t, msg.Index(2).IsUndef())
	})

	t.Run("With destination not found", func(t *testing.T) {
		stream := eventstream.New()
		t.Cleanup(stream.Close)
		subscriber := stream.AddSubscriber()
		stream.Subscribe(subscriber, eventstream.DeadlettersTopic)

		stats := NewStats()
		p := New(
			WithRegistry(NewRegistry()),
			WithLogger(log.DiscardLogger),
			WithEventsStream(stream),
			WithMetrics(stats),
		)

		token, err := p.EmitMessage(value.NewList(value.NewString("x")), 9999)
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrDestinationNotFound)
		assert.EqualValues(t, 0, token)
		assert.EqualValues(t, 1, stats.Deadletters())
		assert.EqualValues(t, 1, stats.Emitted())

		event, ok := subscriber.Wait(time.Second)
		require.True(t, ok)
		deadletter, ok := event.Payload().(*eventstream.Deadletter)
		require.True(t, ok)
		assert.Equal(t, p.PID(), deadletter.Sender)
		assert.EqualValues(t, 9999, deadletter.Receiver)
		assert.Equal(t, "x", deadletter.Message.Index(2).String())
	})

	t.Run("With closed destination", func(t *testing.T) {
		registry := NewRegistry()
		sender := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		receiver := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		receiver.Close()

		_, err := sender.EmitMessage(value.NewString("late"), receiver.PID())
		assert.ErrorIs(t, err, gerrors.ErrDestinationNotFound)
		assert.True(t, receiver.Mailbox().IsEmpty())
	})

	t.Run("With self delivery after unregistering", func(t *testing.T) {
		p := New(WithRegistry(NewRegistry()), WithLogger(log.DiscardLogger))
		p.Close()
		_, err := p.EmitMessage(value.NewString("self"), p.PID())
		require.NoError(t, err)
		assert.Equal(t, 1, p.Mailbox().Len())
	})

	t.Run("With parent emitter", func(t *testing.T) {
		registry := NewRegistry()
		parent := New(WithRegistry(registry), WithLogger(log.DiscardLogger))
		child := New(WithRegistry(registry), WithLogger(log.DiscardLogger))

		unsubscribe := child.OnParentEmit(parent.Handle)
		token, err := child.EmitMessage(value.NewList(value.NewString("up")))
		require.NoError(t, err)

		msg, ok := parent.Mailbox().PopNow()
		require.True(t, ok)
		assert.Equal(t, child.PID(), msg.Index(0).Int())
		assert.Equal(t, token, msg.Index(1).Int())

		unsubscribe()
		_, err = child.EmitMessage(value.NewList(value.NewString("lost")), -1)
		require.NoError(t, err)
		assert.True(t, parent.Mailbox().IsEmpty())
	})

	t.Run("With interceptor", func(t *testing.T) {
		stats := NewStats()
		var intercepted []*value.Value
		p := New(
			WithRegistry(NewRegistry()),
			WithLogger(log.DiscardLogger),
			WithMetrics(stats),
			WithInterceptor(func(msg *value.Value) bool {
				intercepted = append(intercepted, msg)
				return msg.Index(2).String() == "claimed"
			}),
		)

		p.Handle(value.NewList(value.NewInt(0), value.NewInt(0), value.NewString("claimed")))
		p.Handle(value.NewList(value.NewInt(0), value.NewInt(1), value.NewString("queued")))

		require.Len(t, intercepted, 2)
		require.Equal(t, 1, p.Mailbox().Len())
		msg, _ := p.Mailbox().PopNow()
		assert.Equal(t, "queued", msg.Index(2).String())
		assert.EqualValues(t, 1, stats.Handled())
	})

	t.Run("With arrival notification", func(t *testing.T) {
		p := New(WithRegistry(NewRegistry()), WithLogger(log.DiscardLogger))
		var arrived int
		remove := p.OnMessageArrived(func() { arrived++ })

		p.Handle(value.NewList())
		p.Handle(value.NewList())
		require.Equal(t, 2, arrived)

		remove()
		p.Handle(value.NewList())
		assert.Equal(t, 2, arrived)
	})

	t.Run("With message logging", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		p := New(WithRegistry(NewRegistry()), WithLogger(log.NewZap(log.DebugLevel, buffer)))
		require.False(t, p.MessageLogging())

		_, err := p.EmitMessage(value.NewString("quiet"), p.PID())
		require.NoError(t, err)
		require.Empty(t, buffer.String())

		p.SetMessageLogging(true)
		require.True(t, p.MessageLogging())
		_, err = p.EmitMessage(value.NewString("traced"), p.PID())
		require.NoError(t, err)

		assert.Contains(t, buffer.String(), "(0) emit(->0): [0 1 \\\"traced\\\"]")
		assert.Contains(t, buffer.String(), "(0) handle: [0 1 \\\"traced\\\"]")
	})

	t.Run("With message logging option", func(t *testing.T) {
		p := New(WithRegistry(NewRegistry()), WithLogger(log.DiscardLogger), WithMessageLogging())
		assert.True(t, p.MessageLogging())
		assert.Equal(t, log.DiscardLogger, p.Logger())
	})
}
