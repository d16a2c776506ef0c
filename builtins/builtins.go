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

// Package builtins registers the runtime natives of a process into a bridge.Library.
//
// Three namespaces are installed: proc (the process itself), mp (message passing)
// and lal (data helpers). Every native captures a weak reference to its process.
package builtins

import (
	"errors"
	"time"

	"github.com/tochemey/mailport/bridge"
	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/process"
	"github.com/tochemey/mailport/value"
)

const (
	// ProcNamespace holds the process natives
	ProcNamespace = "proc"
	// MessagingNamespace holds the message passing natives
	MessagingNamespace = "mp"
	// DataNamespace holds the data helpers
	DataNamespace = "lal"

	processType = "Process"
)

const procPidDoc = `proc.pid()

Returns the pid of the port of this process.
This is 0 for the first process of a registry.`

const procTerminatedDoc = `proc.terminatedQ()

Returns true when the process should stop its work and return.
Long running programs poll it between units of work.`

const procSpawnDoc = `proc.spawn(program, [args])

Creates and starts a child process running program with args.
Messages the child sends without a destination arrive at this process.
Returns the pid of the child.`

const mpSendDoc = `mp.send(pid, message)
mp.send(message)

Sends message to the process with pid and returns the unique token of the message.
Without pid the message is emitted to the parent process.
Returns nil when no process is registered under pid.

    token = mp.send(0, ["ping"])
    reply = mp.waitInfinite("pong")`

const mpWaitDoc = `mp.wait(tokens, ms)

Waits at most ms milliseconds for a matching message and returns it, or nil.
tokens is a token or a list of tokens matched against the third element of a list
message or the "command" key of a map message. nil or "" matches any message.

Messages have one of two layouts:
    - list: [<source pid> <unique token> <command> <arg>*]
    - map:  {command: <command> pid: <source pid> token: <unique token>}
The pid and the token can be used to reply to a message.
Messages that do not match are passed to the default handlers.

See also mp.waitInfinite and mp.checkAvailable.`

const mpWaitInfiniteDoc = `mp.waitInfinite(tokens)

Waits until a matching message arrived and returns it.
tokens is matched like in mp.wait.`

const mpCheckAvailableDoc = `mp.checkAvailable(tokens)

Returns the first queued matching message without waiting, or nil if none is available.
tokens is matched like in mp.wait.`

const mpAddDefaultHandlerDoc = `mp.addDefaultHandler([priority], callback)

Installs callback as default handler for the messages no wait claimed.
The callback receives the message and an extra value.
A callback that is not a function is logged and skipped for every message.
Handlers are called in installation order, priority is accepted and ignored.
Returns the token to pass to mp.removeDefaultHandler.`

const mpRemoveDefaultHandlerDoc = `mp.removeDefaultHandler(token)

Uninstalls the default handler registered under token.`

const mpSetDebugLoggingDoc = `mp.setDebugLogging(enabled)

Enables or disables the tracing of every message emitted and handled by this process.`

const mpTokenDoc = `mp.token()

Returns a new unique token, usable to correlate requests and replies.`

const lalDumpDoc = `lal.dump(data...)

Returns the serialized text form of data.`

// Register installs the natives bound to proc into library
func Register(library *bridge.Library, proc *process.Process, opts ...Option) {
	register(library, proc, newConfig(opts...))
}

// CallOrEmit calls fn with args when fn is a closure.
// Any other fn is emitted to the process itself as the list [fn, args...]
// and the token of that message is returned.
func CallOrEmit(proc *process.Process, invoker bridge.Invoker, fn, args *value.Value) (*value.Value, error) {
	if fn.IsClosure() {
		return invoker.Invoke(fn, args)
	}

	msg := value.NewList(fn)
	msg.Push(args.Items()...)
	token, err := proc.Port().EmitMessage(msg, proc.PID())
	return value.NewInt(token), err
}

func register(library *bridge.Library, proc *process.Process, cfg *config) {
	state := value.NewList(value.NewPointer(proc, processType, value.AsWeak()))

	library.Register(ProcNamespace, "pid", procPidDoc, bound(0, func(proc *process.Process, _ []*value.Value) (*value.Value, error) {
		return value.NewInt(proc.PID()), nil
	}), state)

	library.Register(ProcNamespace, "terminatedQ", procTerminatedDoc, bound(0, func(proc *process.Process, _ []*value.Value) (*value.Value, error) {
		return value.NewBool(proc.IsTerminated()), nil
	}), state)

	library.Register(ProcNamespace, "spawn", procSpawnDoc, bound(2, func(proc *process.Process, args []*value.Value) (*value.Value, error) {
		program, err := cfg.load(args[0])
		if err != nil {
			return nil, err
		}
		child, err := proc.SpawnChild(program, args[1])
		if err != nil {
			return nil, err
		}
		return value.NewInt(child.PID()), nil
	}), state)

	library.Register(MessagingNamespace, "send", mpSendDoc, variadic(func(proc *process.Process, args *value.Value) (*value.Value, error) {
		var (
			token int64
			err   error
		)
		if args.Len() == 2 {
			token, err = proc.Port().EmitMessage(args.Index(1), args.Index(0).Int())
		} else {
			token, err = proc.Port().EmitMessage(args.Index(0))
		}
		// the port already logged the dropped message
		if errors.Is(err, gerrors.ErrDestinationNotFound) {
			return value.NewUndef(), nil
		}
		return value.NewInt(token), err
	}), state)

	library.Register(MessagingNamespace, "wait", mpWaitDoc, bound(2, func(proc *process.Process, args []*value.Value) (*value.Value, error) {
		timeout := time.Duration(max(args[1].Int(), 0)) * time.Millisecond
		msg, _ := proc.Handler().Wait(args[0], timeout)
		return msg, nil
	}), state)

	library.Register(MessagingNamespace, "waitInfinite", mpWaitInfiniteDoc, bound(1, func(proc *process.Process, args []*value.Value) (*value.Value, error) {
		return proc.Handler().WaitInfinite(args[0]), nil
	}), state)

	library.Register(MessagingNamespace, "checkAvailable", mpCheckAvailableDoc, bound(1, func(proc *process.Process, args []*value.Value) (*value.Value, error) {
		msg, _ := proc.Handler().CheckAvailable(args[0])
		return msg, nil
	}), state)

	library.Register(MessagingNamespace, "addDefaultHandler", mpAddDefaultHandlerDoc, variadic(func(proc *process.Process, args *value.Value) (*value.Value, error) {
		callback := args.Index(args.Len() - 1)
		token := proc.AddDefaultHandler(process.HandlerFunc(func(msg, extra *value.Value) error {
			// re-emitting unclaimed messages to self would never drain the mailbox
			if !callback.IsClosure() {
				return gerrors.NewTypeMismatchError(value.Closure.String(), callback.TypeName())
			}
			_, err := cfg.invoker.Invoke(callback, value.NewList(msg, extra))
			return err
		}))
		return value.NewInt(token), nil
	}), state)

	library.Register(MessagingNamespace, "removeDefaultHandler", mpRemoveDefaultHandlerDoc, bound(1, func(proc *process.Process, args []*value.Value) (*value.Value, error) {
		proc.RemoveDefaultHandler(args[0].Int())
		return nil, nil
	}), state)

	library.Register(MessagingNamespace, "setDebugLogging", mpSetDebugLoggingDoc, bound(1, func(proc *process.Process, args []*value.Value) (*value.Value, error) {
		proc.Port().SetMessageLogging(args[0].Bool())
		return nil, nil
	}), state)

	library.Register(MessagingNamespace, "token", mpTokenDoc, bound(0, func(proc *process.Process, _ []*value.Value) (*value.Value, error) {
		return value.NewInt(proc.Port().NewToken()), nil
	}), state)

	library.Register(DataNamespace, "dump", lalDumpDoc, value.CallableFunc(func(args, _ *value.Value) (*value.Value, error) {
		return value.NewString(value.DumpAll(args.Items()...)), nil
	}), nil)
}

// load resolves the program of proc.spawn.
// Closures run with two arguments: the spawn arguments and the natives of the child.
func (c *config) load(program *value.Value) (process.Program, error) {
	if c.loader != nil {
		return c.loader(program)
	}
	if !program.IsClosure() {
		return nil, gerrors.NewTypeMismatchError(value.Closure.String(), program.TypeName())
	}
	return process.ProgramFunc(func(child *process.Process, args *value.Value) (*value.Value, error) {
		library := bridge.NewLibrary()
		register(library, child, c)
		return c.invoker.Invoke(program, value.NewList(args, library.Export()))
	}), nil
}

// bound builds a native receiving n positional arguments and the process captured in its state
func bound(n int, fn func(proc *process.Process, args []*value.Value) (*value.Value, error)) value.Callable {
	return bridge.Native(n, func(args []*value.Value, state *value.Value) (*value.Value, error) {
		proc, err := processOf(state)
		if err != nil {
			return nil, err
		}
		return fn(proc, args)
	})
}

// variadic builds a native receiving the raw argument list
func variadic(fn func(proc *process.Process, args *value.Value) (*value.Value, error)) value.Callable {
	return value.CallableFunc(func(args, state *value.Value) (*value.Value, error) {
		proc, err := processOf(state)
		if err != nil {
			return nil, err
		}
		result, err := fn(proc, args)
		if result == nil {
			result = value.NewUndef()
		}
		return result, err
	})
}

func processOf(state *value.Value) (*process.Process, error) {
	return value.TypedAs[*process.Process](state.Index(0), processType)
}
