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

// Package queue implements the elastic bounded FIFO that sits between the
// connection listener and the storage backend: an unbounded-time, back-
// pressured push paired with a condition-blocking pop.
package queue

import (
	"context"
	"sync"
	"time"

	liberr "github.com/udel-rci/iptracking/errors"
	libsem "github.com/udel-rci/iptracking/semaphore"
	librec "github.com/udel-rci/iptracking/internal/record"
)

// Stats is the debug/summary snapshot returned by (*Queue).Stats: current
// pool capacity, records in use, and a defensive copy of the head-to-tail
// record list. Taking it does not disturb queue state.
type Stats struct {
	Capacity int
	Used     int
	Records  []librec.Record
}

// Queue is the pool-growth FIFO described by the elastic bounded queue
// contract: push grows the pool on demand up to a ceiling, then back-
// pressures with a growing sleep/retry schedule; pop blocks on a data-ready
// condition and can be released early by InterruptPop for orderly shutdown.
type Queue struct {
	cfg Config

	mu   sync.Mutex
	cond *sync.Cond

	items       []librec.Record
	cap         int
	interrupted bool

	sem libsem.Semaphore
}

// New validates cfg and returns a ready Queue whose pool starts at
// cfg.RecordsMin and whose ceiling is cfg.RecordsMax.
func New(cfg Config) (*Queue, liberr.Error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	q := &Queue{
		cfg: cfg,
		cap: cfg.RecordsMin,
		sem: libsem.New(context.Background(), int64(cfg.RecordsMax), false),
	}
	q.cond = sync.NewCond(&q.mu)

	return q, nil
}

// Push stores a copy of r, growing the pool up to cfg.RecordsMax as needed.
// Once the ceiling is reached it sleeps and retries indefinitely, stretching
// the sleep interval every PushWaitSecondsGrowAt consecutive failed
// attempts, up to PushWaitSecondsMax. It returns false only if the queue has
// been interrupted, either before the call or while waiting.
func (q *Queue) Push(r librec.Record) bool {
	waitSec := q.cfg.PushWaitSecondsMin
	streak := 0

	for {
		if q.Interrupted() {
			return false
		}

		if q.sem.NewWorkerTry() {
			q.mu.Lock()
			q.items = append(q.items, r)
			q.growLocked(len(q.items))
			q.mu.Unlock()
			q.cond.Signal()

			return true
		}

		time.Sleep(waitSec)
		streak++

		if streak >= q.cfg.PushWaitSecondsGrowAt {
			waitSec += q.cfg.PushWaitSecondsDelta
			if waitSec > q.cfg.PushWaitSecondsMax {
				waitSec = q.cfg.PushWaitSecondsMax
			}

			streak = 0
		}
	}
}

// growLocked raises the pool's recorded capacity to at least need, in steps
// of RecordsDelta, never past RecordsMax and never back down. Must be called
// with mu held.
func (q *Queue) growLocked(need int) {
	for q.cap < need && q.cap < q.cfg.RecordsMax {
		step := q.cfg.RecordsDelta
		if q.cap+step > q.cfg.RecordsMax {
			step = q.cfg.RecordsMax - q.cap
		}

		if step <= 0 {
			break
		}

		q.cap += step
	}

	if q.cap < need {
		q.cap = need
	}
}

// Pop removes and returns the head record, blocking while the queue is
// empty. It drains every record already enqueued before honoring an
// InterruptPop — it returns false only once the queue is both interrupted
// and empty, never dropping pending records out from under a shutdown.
func (q *Queue) Pop() (librec.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if len(q.items) > 0 {
			break
		}

		if q.interrupted {
			return librec.Record{}, false
		}

		q.cond.Wait()
	}

	r := q.items[0]
	q.items = q.items[1:]
	q.sem.DeferWorker()

	return r, true
}

// InterruptPop releases every blocked Pop (and every Pop called from now on)
// without enqueuing anything. Used during orderly shutdown.
func (q *Queue) InterruptPop() {
	q.mu.Lock()
	q.interrupted = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Interrupted reports whether InterruptPop has been called.
func (q *Queue) Interrupted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.interrupted
}

// Stats returns a point-in-time snapshot of pool capacity, records in use,
// and a defensive copy of the queued records in FIFO order.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	cp := make([]librec.Record, len(q.items))
	copy(cp, q.items)

	return Stats{
		Capacity: q.cap,
		Used:     len(q.items),
		Records:  cp,
	}
}
