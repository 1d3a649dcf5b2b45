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

package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	liberr "github.com/udel-rci/iptracking/errors"
	libpool "github.com/udel-rci/iptracking/errors/pool"
	libcfg "github.com/udel-rci/iptracking/internal/appconfig"
	libips "github.com/udel-rci/iptracking/internal/ipset"
	libstg "github.com/udel-rci/iptracking/internal/storage"
)

// backendOpenRetryFirewalld mirrors pamd's store-open retry interval; §4.G
// does not call out a distinct value.
const backendOpenRetryFirewalld = 5 * time.Second

// Firewalld composes the notification thread, periodic timer thread and
// shutdown thread of spec.md §4.G.
type Firewalld struct {
	cfg   libcfg.FirewalldConfig
	onLog LogFunc

	session *libips.Session
	backend libstg.Backend

	timerMu       sync.Mutex
	timerCond     *sync.Cond
	timerDeadline time.Time
	running       bool
}

// NewFirewalld validates cfg and returns a Firewalld ready to Run. The
// storage backend is opened lazily by Run, retried every 5 seconds, the
// same as pamd's consumer thread.
func NewFirewalld(cfg libcfg.FirewalldConfig, onLog LogFunc) (*Firewalld, liberr.Error) {
	if onLog == nil {
		onLog = func(string, ...interface{}) {}
	}

	if !libstg.IsRegistered(cfg.Database.DriverName) {
		return nil, ErrorUnknownBackend.Error()
	}

	if cfg.IPSetName.ProductionName == "" || cfg.IPSetName.RebuildName == "" {
		return nil, ErrorInvalidConfig.Error()
	}

	f := &Firewalld{cfg: cfg, onLog: onLog}
	f.timerCond = sync.NewCond(&f.timerMu)

	return f, nil
}

// Run opens the IP-set session (retrying the kernel module probe on a 5s-
// to-60s backoff ramp) and the storage backend (retrying every 5 seconds
// flat, until success or ctx cancelled), starts the notification and
// periodic timer threads, and blocks until all threads — notification,
// timer, shutdown — have returned, in that order.
func (f *Firewalld) Run(ctx context.Context) liberr.Error {
	f.session = libips.InitCtx(ctx, f.onLog)

	backend, err := f.openBackend(ctx)
	if err != nil {
		return err
	}
	f.backend = backend

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	f.timerMu.Lock()
	f.running = true
	f.timerDeadline = time.Now().Add(f.checkInterval())
	f.timerMu.Unlock()

	notifyDone := make(chan struct{})
	timerDone := make(chan struct{})
	shutdownDone := make(chan struct{})

	if nerr := backend.ToggleAsyncNotify(func(cur libstg.Cursor) {
		f.firewallNotify(cur)
	}); nerr != nil {
		f.onLog("firewalld: async notification unsupported by %s: %v", f.cfg.Database.DriverName, nerr)
	}

	go func() {
		defer close(notifyDone)
		<-runCtx.Done()
		_ = backend.ToggleAsyncNotify(nil)
	}()

	go func() {
		defer close(timerDone)
		f.timerLoop(runCtx)
	}()

	go func() {
		defer close(shutdownDone)

		select {
		case s := <-sig:
			f.onLog("firewalld: received signal %v, shutting down", s)
		case <-runCtx.Done():
		}

		f.timerMu.Lock()
		f.running = false
		f.timerMu.Unlock()
		f.timerCond.Broadcast()

		cancel()
	}()

	<-notifyDone
	<-timerDone
	<-shutdownDone

	_ = backend.Close()

	return nil
}

func (f *Firewalld) checkInterval() time.Duration {
	return time.Duration(f.cfg.CheckIntervalSeconds) * time.Second
}

func (f *Firewalld) openBackend(ctx context.Context) (libstg.Backend, liberr.Error) {
	doc := f.cfg.Database.Doc()
	opts := libstg.Options{NoPamLogging: true}

	for {
		backend, ferr := libstg.New(f.cfg.Database.DriverName, doc, opts)
		if ferr == nil {
			if operr := backend.Open(); operr == nil {
				return backend, nil
			} else {
				f.onLog("firewalld: store open failed, retrying in %s: %v", backendOpenRetryFirewalld, operr)
			}
		} else {
			f.onLog("firewalld: store construction failed, retrying in %s: %v", backendOpenRetryFirewalld, ferr)
		}

		select {
		case <-ctx.Done():
			return nil, ErrorInvalidConfig.Error(ctx.Err())
		case <-time.After(backendOpenRetryFirewalld):
		}
	}
}

// timerLoop sleeps on the timer condition until the absolute deadline or a
// broadcast (either a reset from firewallNotify's success path, or shutdown
// clearing the running flag). On a genuine timeout it runs the same rebuild
// sequence firewallNotify runs, against a freshly-opened enumerator.
func (f *Firewalld) timerLoop(ctx context.Context) {
	for {
		f.timerMu.Lock()
		for f.running && time.Now().Before(f.timerDeadline) {
			wait := time.Until(f.timerDeadline)
			if wait <= 0 {
				break
			}

			timer := time.AfterFunc(wait, f.timerCond.Broadcast)
			f.timerCond.Wait()
			timer.Stop()
		}

		running := f.running
		deadline := f.timerDeadline
		f.timerMu.Unlock()

		if !running {
			return
		}

		if time.Now().Before(deadline) {
			// Spurious wake (a notify-path reset moved the deadline later).
			continue
		}

		cur, cerr := f.backend.BlocklistEnumOpen()
		if cerr != nil {
			f.onLog("firewalld: timer rebuild: enumerator open failed: %v", cerr)
		} else {
			f.firewallNotify(cur)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// firewallNotify runs the rebuild protocol of spec.md §4.G: destroy the
// rebuild set (ignoring the result), recreate it, add every entity the
// enumerator yields, then activate. On success it resets the periodic
// timer's deadline to now + check_interval.
func (f *Firewalld) firewallNotify(cur libstg.Cursor) {
	defer func() { _ = cur.Close() }()

	rebuild := f.cfg.IPSetName.RebuildName
	prod := f.cfg.IPSetName.ProductionName

	_ = f.session.Destroy(rebuild)

	if cerr := f.session.Create(rebuild); cerr != nil {
		f.onLog("firewalld: rebuild set creation failed, aborting iteration: %v", cerr)
		return
	}

	failed := libpool.New()

	for {
		entity, ok := cur.Next()
		if !ok {
			break
		}

		if entity == "" {
			continue
		}

		if aerr := f.session.Add(rebuild, entity); aerr != nil {
			failed.Add(fmt.Errorf("%s: %w", entity, aerr))
		}
	}

	if n := failed.Len(); n > 0 {
		f.onLog("firewalld: %d entries rejected while filling %s: %v", n, rebuild, failed.Error())
	}

	if err := cur.Err(); err != nil {
		f.onLog("firewalld: enumerator reported an error: %v", err)
	}

	if aerr := f.session.Activate(rebuild, prod); aerr != nil {
		f.onLog("firewalld: activation failed: %v", aerr)
		return
	}

	f.timerMu.Lock()
	f.timerDeadline = time.Now().Add(f.checkInterval())
	f.timerMu.Unlock()
	f.timerCond.Broadcast()
}
