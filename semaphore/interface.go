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

// Package semaphore bounds the number of goroutines running concurrently for a
// batch of worker tasks, with optional progress reporting.
package semaphore

import "context"

// Bar tracks progress for one named batch of workers inside a Semaphore created
// with progress enabled.
type Bar interface {
	// NewWorker blocks until a slot is available, then acquires it.
	NewWorker() error

	// NewWorkerTry attempts to acquire a slot without blocking.
	NewWorkerTry() bool

	// DeferWorker releases a slot and advances the bar by one unit.
	DeferWorker()
}

// Semaphore bounds concurrent access to a weighted resource pool of a fixed
// size, and embeds a context.Context for cancellation-aware callers.
type Semaphore interface {
	context.Context

	// New returns a fresh Semaphore sharing this one's context, weight and
	// progress-reporting mode.
	New() Semaphore

	// NewWorker blocks until a slot is available, then acquires it.
	NewWorker() error

	// NewWorkerTry attempts to acquire a slot without blocking.
	NewWorkerTry() bool

	// DeferWorker releases a previously acquired slot.
	DeferWorker()

	// DeferMain waits for every acquired slot to be released then cancels the
	// semaphore's internal context. Meant to be deferred by the owner.
	DeferMain()

	// WaitAll blocks until every acquired slot has been released.
	WaitAll() error

	// Weighted returns the maximum number of concurrent slots.
	Weighted() int64

	// BarNumber starts a named progress bar of the given size sharing this
	// semaphore's slot pool.
	BarNumber(title, unit string, total int64, showRate bool, extra interface{}) Bar
}

// New returns a Semaphore allowing up to max concurrent workers. A non-positive
// max disables the limit (every NewWorker call succeeds immediately). When
// progress is true, BarNumber bars report incremental completion; otherwise
// DeferWorker is a plain release.
func New(ctx context.Context, max int64, progress bool) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}

	c, cancel := context.WithCancel(ctx)

	return &sem{
		Context:  c,
		cancel:   cancel,
		max:      max,
		progress: progress,
	}
}
