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

// Package listener is the domain adapter binding the general-purpose
// socket/server package to a Unix-domain accept loop: every accepted
// connection is read as exactly one 128-byte wire record and, if valid,
// pushed onto the event queue.
package listener

import (
	"context"
	"io"
	"sync"

	liberr "github.com/udel-rci/iptracking/errors"
	libq "github.com/udel-rci/iptracking/internal/queue"
	librec "github.com/udel-rci/iptracking/internal/record"
	libptc "github.com/udel-rci/iptracking/network/protocol"
	libsck "github.com/udel-rci/iptracking/socket"
	sckcfg "github.com/udel-rci/iptracking/socket/config"
	scksrv "github.com/udel-rci/iptracking/socket/server"
)

// Stats counts records the listener has seen, for the same debug surface
// the queue's Stats() serves.
type Stats struct {
	Accepted    uint64
	Valid       uint64
	Invalid     uint64
	ShortReads  uint64
}

// Listener binds a Unix stream socket and feeds valid records into a Queue.
type Listener struct {
	cfg   sckcfg.Server
	queue *libq.Queue
	srv   libsck.Server

	mu    sync.Mutex
	stats Stats
	onLog func(format string, args ...interface{})
}

// New validates cfg (forced to the Unix network) and returns a Listener
// ready to Listen against q.
func New(cfg sckcfg.Server, q *libq.Queue, onLog func(format string, args ...interface{})) (*Listener, liberr.Error) {
	if q == nil || cfg.Address == "" {
		return nil, ErrorInvalidConfig.Error()
	}

	cfg.Network = libptc.NetworkUnix

	if onLog == nil {
		onLog = func(string, ...interface{}) {}
	}

	l := &Listener{cfg: cfg, queue: q, onLog: onLog}

	srv, err := scksrv.New(nil, l.handle, cfg)
	if err != nil {
		return nil, ErrorInvalidConfig.Error(err)
	}

	l.srv = srv

	return l, nil
}

// Listen runs the accept loop until ctx is cancelled or Close is called.
func (l *Listener) Listen(ctx context.Context) liberr.Error {
	if err := l.srv.Listen(ctx); err != nil {
		return ErrorListen.Error(err)
	}

	return nil
}

// Close shuts down the listener and unlinks the socket file.
func (l *Listener) Close() error {
	return l.srv.Close()
}

// Stats returns a point-in-time snapshot of accept/validity counters.
func (l *Listener) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.stats
}

// handle reads exactly 128 bytes with wait-all semantics from an accepted
// connection, decodes it, validates it, and pushes it onto the queue. A
// short read is logged and the record discarded; an invalid record is
// counted and dropped. Each accepted connection is served on its own
// goroutine, so counters are mutex-protected.
func (l *Listener) handle(c libsck.Context) {
	defer func() { _ = c.Close() }()

	l.mu.Lock()
	l.stats.Accepted++
	l.mu.Unlock()

	buf := make([]byte, librec.Size)

	if _, err := io.ReadFull(c, buf); err != nil {
		l.mu.Lock()
		l.stats.ShortReads++
		l.mu.Unlock()
		l.onLog("listener: short read from %s: %v", c.RemoteAddr(), err)
		return
	}

	r, derr := librec.Decode(buf)
	if derr != nil || !r.Valid() {
		l.mu.Lock()
		l.stats.Invalid++
		l.mu.Unlock()
		l.onLog("listener: discarding invalid record from %s", c.RemoteAddr())
		return
	}

	l.mu.Lock()
	l.stats.Valid++
	l.mu.Unlock()

	l.queue.Push(r)
}
