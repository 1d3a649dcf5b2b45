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

// Package daemon composes the domain packages (internal/queue,
// internal/listener, internal/storage, internal/ipset) into the pamd and
// firewalld process lifecycles described by spec.md §4.F and §4.G.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	liberr "github.com/udel-rci/iptracking/errors"
	libcfg "github.com/udel-rci/iptracking/internal/appconfig"
	liblsn "github.com/udel-rci/iptracking/internal/listener"
	libq "github.com/udel-rci/iptracking/internal/queue"
	libstg "github.com/udel-rci/iptracking/internal/storage"
	libptc "github.com/udel-rci/iptracking/network/protocol"
	sckcfg "github.com/udel-rci/iptracking/socket/config"
)

// backendOpenRetry is the fixed retry interval spec.md §4.F prescribes for
// the consumer thread's initial store-open loop.
const backendOpenRetry = 5 * time.Second

// LogFunc matches internal/listener and internal/storage's own plain
// logging signature; cmd/pamd adapts a logger.Logger down to this shape the
// same way logger/hooksyslog adapts Logger.Write for a socket/client sink.
type LogFunc func(format string, args ...interface{})

// Pamd composes the accept thread, consumer thread and shutdown thread of
// spec.md §4.F.
type Pamd struct {
	cfg   libcfg.PamdConfig
	onLog LogFunc

	queue    *libq.Queue
	listener *liblsn.Listener

	mu      sync.Mutex
	backend libstg.Backend
}

// NewPamd builds the queue and listener from cfg; the storage backend is
// opened lazily by the consumer thread inside Run, per §4.F's retry rule.
func NewPamd(cfg libcfg.PamdConfig, onLog LogFunc) (*Pamd, liberr.Error) {
	if onLog == nil {
		onLog = func(string, ...interface{}) {}
	}

	if !libstg.IsRegistered(cfg.Database.DriverName) {
		return nil, ErrorUnknownBackend.Error()
	}

	q, err := libq.New(cfg.LogPool.ToQueueConfig())
	if err != nil {
		return nil, err
	}

	scfg := sckcfg.Server{
		Network: libptc.NetworkUnix,
		Address: cfg.SocketFile,
	}

	l, err := liblsn.New(scfg, q, onLog)
	if err != nil {
		return nil, ErrorListenerInit.Error(err)
	}

	return &Pamd{cfg: cfg, onLog: onLog, queue: q, listener: l}, nil
}

// Run executes the accept/consumer/shutdown threads and blocks until all
// three have returned, in that order, per §4.F's joining-order rule. It
// traps SIGHUP, SIGINT and SIGTERM; any of the three broadcasts shutdown.
func (p *Pamd) Run(ctx context.Context) liberr.Error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	acceptDone := make(chan struct{})
	consumerDone := make(chan struct{})
	shutdownDone := make(chan struct{})

	go func() {
		defer close(acceptDone)

		if err := p.listener.Listen(runCtx); err != nil {
			p.onLog("pamd: accept thread exited: %v", err)
		}
	}()

	go func() {
		defer close(consumerDone)
		p.consume(runCtx)
	}()

	go func() {
		defer close(shutdownDone)

		select {
		case s := <-sig:
			p.onLog("pamd: received signal %v, shutting down", s)
		case <-runCtx.Done():
		}

		p.queue.InterruptPop()
		cancel()
		_ = p.listener.Close()
	}()

	<-acceptDone
	<-consumerDone
	<-shutdownDone

	_ = os.Remove(p.cfg.SocketFile)

	p.mu.Lock()
	b := p.backend
	p.mu.Unlock()

	if b != nil {
		_ = b.Close()
	}

	return nil
}

// consume opens the storage backend, retrying every 5 seconds until it
// succeeds or ctx is cancelled first, then loops pop → log_one_event until
// the queue is interrupted and drained.
func (p *Pamd) consume(ctx context.Context) {
	backend, err := p.openBackend(ctx)
	if err != nil {
		return
	}

	p.mu.Lock()
	p.backend = backend
	p.mu.Unlock()

	for {
		r, ok := p.queue.Pop()
		if !ok {
			return
		}

		if lerr := backend.LogOneEvent(r); lerr != nil {
			p.onLog("pamd: log_one_event failed for uid=%s: %v", r.UID, lerr)
		} else {
			p.onLog("pamd: logged event uid=%s kind=%s", r.UID, r.Kind.String())
		}
	}
}

func (p *Pamd) openBackend(ctx context.Context) (libstg.Backend, liberr.Error) {
	doc := p.cfg.Database.Doc()
	opts := libstg.Options{NoFirewall: true}

	for {
		backend, ferr := libstg.New(p.cfg.Database.DriverName, doc, opts)
		if ferr == nil {
			if operr := backend.Open(); operr == nil {
				return backend, nil
			} else {
				p.onLog("pamd: store open failed, retrying in %s: %v", backendOpenRetry, operr)
			}
		} else {
			p.onLog("pamd: store construction failed, retrying in %s: %v", backendOpenRetry, ferr)
		}

		select {
		case <-ctx.Done():
			return nil, ErrorInvalidConfig.Error(ctx.Err())
		case <-time.After(backendOpenRetry):
		}
	}
}

// Stats exposes the queue's own debug snapshot.
func (p *Pamd) Stats() libq.Stats {
	return p.queue.Stats()
}
