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

package bridge

import (
	"slices"
	"strings"
	"sync"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/value"
)

// Entry is a native function registered in a Library
type Entry struct {
	Namespace string
	Name      string
	Doc       string
	Closure   *value.Value
}

type entryKey struct {
	namespace string
	name      string
}

// Library holds native functions keyed by namespace and name together with their documentation.
// It is safe for concurrent use.
type Library struct {
	mu      sync.RWMutex
	entries map[entryKey]*Entry
}

// NewLibrary creates an empty Library
func NewLibrary() *Library {
	return &Library{entries: make(map[entryKey]*Entry)}
}

// Register adds callable under namespace.name as a closure capturing state.
// Registering an existing key replaces it.
func (l *Library) Register(namespace, name, doc string, callable value.Callable, state *value.Value) {
	entry := &Entry{
		Namespace: namespace,
		Name:      name,
		Doc:       doc,
		Closure:   value.NewClosure(callable, state),
	}

	l.mu.Lock()
	l.entries[entryKey{namespace, name}] = entry
	l.mu.Unlock()
}

// Unregister removes namespace.name
func (l *Library) Unregister(namespace, name string) {
	l.mu.Lock()
	delete(l.entries, entryKey{namespace, name})
	l.mu.Unlock()
}

// Lookup returns the entry registered under namespace.name
func (l *Library) Lookup(namespace, name string) (*Entry, error) {
	l.mu.RLock()
	entry, ok := l.entries[entryKey{namespace, name}]
	l.mu.RUnlock()
	if !ok {
		return nil, gerrors.NewErrFunctionNotFound(namespace, name)
	}
	return entry, nil
}

// Call invokes namespace.name with args
func (l *Library) Call(namespace, name string, args ...*value.Value) (*value.Value, error) {
	entry, err := l.Lookup(namespace, name)
	if err != nil {
		return value.NewUndef(), err
	}
	return entry.Closure.Call(args...)
}

// Doc returns the documentation of namespace.name
func (l *Library) Doc(namespace, name string) (string, bool) {
	entry, err := l.Lookup(namespace, name)
	if err != nil {
		return "", false
	}
	return entry.Doc, true
}

// Entries returns every entry sorted by namespace then name
func (l *Library) Entries() []*Entry {
	l.mu.RLock()
	entries := make([]*Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, entry)
	}
	l.mu.RUnlock()

	slices.SortFunc(entries, func(a, b *Entry) int {
		if c := strings.Compare(a.Namespace, b.Namespace); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// Namespaces returns the sorted namespaces holding at least one entry
func (l *Library) Namespaces() []string {
	var namespaces []string
	for _, entry := range l.Entries() {
		if len(namespaces) == 0 || namespaces[len(namespaces)-1] != entry.Namespace {
			namespaces = append(namespaces, entry.Namespace)
		}
	}
	return namespaces
}

// Export returns the library as a map of namespaces, each a map of names to closures.
// This is the shape an interpreter binding installs as global tables.
func (l *Library) Export() *value.Value {
	out := value.NewMap()
	for _, entry := range l.Entries() {
		namespace := out.Key(entry.Namespace)
		if !namespace.IsMap() {
			namespace = value.NewMap()
			out.SetKey(entry.Namespace, namespace)
		}
		namespace.SetKey(entry.Name, entry.Closure)
	}
	return out
}

// Docs renders the documentation of every entry, one block per function
func (l *Library) Docs() string {
	var sb strings.Builder
	for _, entry := range l.Entries() {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(entry.Namespace)
		sb.WriteString(".")
		sb.WriteString(entry.Name)
		sb.WriteString("\n")
		if entry.Doc != "" {
			sb.WriteString(entry.Doc)
			if !strings.HasSuffix(entry.Doc, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
