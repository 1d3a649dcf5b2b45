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

// Package startStop provides a reusable start/stop/restart lifecycle wrapper
// around a pair of caller-supplied functions, tracking running state and uptime.
package startStop

import (
	"context"
	"time"
)

// StartStop drives one background worker through Start/Stop/Restart transitions.
// It is safe for concurrent use: IsRunning and Uptime may be polled from any
// goroutine while Start/Stop/Restart run from the owning goroutine.
type StartStop interface {
	// Start invokes the registered start function if not already running.
	Start(ctx context.Context) error

	// Stop invokes the registered stop function if currently running.
	Stop(ctx context.Context) error

	// Restart stops then starts the worker, propagating the first error.
	Restart(ctx context.Context) error

	// IsRunning reports whether Start has succeeded without a matching Stop.
	IsRunning() bool

	// Uptime returns the duration since the last successful Start, or zero
	// when not running.
	Uptime() time.Duration
}

// FuncStart is called by Start. A nil value makes Start a no-op returning nil.
type FuncStart func(ctx context.Context) error

// FuncStop is called by Stop. A nil value makes Stop a no-op returning nil.
type FuncStop func(ctx context.Context) error

// New returns a StartStop wrapping the given start/stop functions. Either may
// be nil.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		start: start,
		stop:  stop,
	}
}
