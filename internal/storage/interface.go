/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package storage defines the backend capability interface shared by every
// event store (append-only file, sqlite, mysql, postgres) and the process-
// wide registry backends use to advertise themselves at init time.
package storage

import (
	"sync"

	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
)

// Options gates which code paths a Backend instance exercises: the PAM
// daemon sets NoFirewall, the firewall daemon sets NoPamLogging.
type Options struct {
	NoPamLogging bool
	NoFirewall   bool
}

// Cursor walks the block-list projection one IP entity at a time. Next
// returns false once exhausted or on error; Err reports which. The callback
// that receives a Cursor from ToggleAsyncNotify must not retain it past the
// call.
type Cursor interface {
	Next() (string, bool)
	Err() error
	Close() error
}

// NotifyFunc is invoked from the backend's private notification goroutine
// every time the backend observes a block-list change. The mutex is not held
// during the call; ToggleAsyncNotify takes it and cancels and joins that
// goroutine, so no callback is still running once a toggle returns.
type NotifyFunc func(cur Cursor)

// Backend is the vtable every storage engine registers: connection
// lifecycle, event persistence, block-list enumeration, and optional
// change-notification.
type Backend interface {
	// HasValidConfiguration performs deep validation of the backend's own
	// configuration; returns true unconditionally when no deep validation
	// applies.
	HasValidConfiguration() (bool, liberr.Error)

	// SummarizeToLog emits a one-line configuration summary through log,
	// masking secrets (passwords, DSNs).
	SummarizeToLog(log func(format string, args ...interface{}))

	// Open establishes the connection and prepares any statements dictated
	// by Options. Idempotent after the first success.
	Open() liberr.Error

	// Close tears down in reverse of Open. Idempotent.
	Close() liberr.Error

	// LogOneEvent persists one record. Only invoked when Options.NoPamLogging
	// is unset.
	LogOneEvent(r librec.Record) liberr.Error

	// BlocklistEnumOpen returns a cursor over the block-list projection.
	// Only invoked when Options.NoFirewall is unset.
	BlocklistEnumOpen() (Cursor, liberr.Error)

	// ToggleAsyncNotify starts a private notification listener when cb is
	// non-nil, or stops (cancels and joins) the existing one when cb is nil.
	// Backends that don't support native notification return
	// ErrorUnsupportedOperation.
	ToggleAsyncNotify(cb NotifyFunc) liberr.Error

	// LastError returns the trimmed text of the most recent backend error.
	LastError() string
}

// Factory builds a Backend instance from a structured configuration subtree
// and the caller's options; it returns nil (no error) on a deliberately
// disabled configuration and an error on a malformed one.
type Factory func(doc map[string]interface{}, opts Options) (Backend, liberr.Error)

var (
	regMu sync.RWMutex
	reg   = map[string]Factory{}
)

// Register installs f under name at process start. Re-registering the same
// name is an error — backends register exactly once, from their package's
// init.
func Register(name string, f Factory) liberr.Error {
	regMu.Lock()
	defer regMu.Unlock()

	if _, ok := reg[name]; ok {
		return ErrorAlreadyRegistered.Error()
	}

	reg[name] = f

	return nil
}

// Registered lists every backend name registered so far.
func Registered() []string {
	regMu.RLock()
	defer regMu.RUnlock()

	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}

	return names
}

// IsRegistered reports whether name has a registered factory.
func IsRegistered(name string) bool {
	regMu.RLock()
	defer regMu.RUnlock()

	_, ok := reg[name]

	return ok
}

// New builds a Backend from the factory registered under name.
func New(name string, doc map[string]interface{}, opts Options) (Backend, liberr.Error) {
	regMu.RLock()
	f, ok := reg[name]
	regMu.RUnlock()

	if !ok {
		return nil, ErrorUnknownBackend.Error()
	}

	return f(doc, opts)
}
