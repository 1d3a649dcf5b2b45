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

// Package mysql registers the first networked SQL storage backend. MySQL has
// no native push-notification channel, so ToggleAsyncNotify falls back to a
// poll loop that hands the callback a fresh block_now enumerator every
// pollInterval, whether or not the projection changed.
package mysql

import (
	"context"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	libgorm "github.com/udel-rci/iptracking/database/gorm"
	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
	libstg "github.com/udel-rci/iptracking/internal/storage"
	libsql "github.com/udel-rci/iptracking/internal/storage/sqlshared"
)

const Name = "mysql"

// pollInterval bounds how stale the poll-based notification fallback can be.
const pollInterval = 2 * time.Second

func init() {
	_ = libstg.Register(Name, New)
}

type backend struct {
	*libsql.Base

	ctrlMu       sync.Mutex
	notifyCancel context.CancelFunc
	notifyWG     sync.WaitGroup
}

func New(doc map[string]interface{}, opts libstg.Options) (libstg.Backend, liberr.Error) {
	cfg := libsql.Config{}

	if doc != nil {
		if err := mapstructure.Decode(doc, &cfg); err != nil {
			return nil, libstg.ErrorInvalidConfig.Error(err)
		}
	}

	if cfg.DSN == "" {
		return nil, libstg.ErrorInvalidConfig.Error()
	}

	return &backend{Base: libsql.NewBase(cfg, opts)}, nil
}

func (b *backend) HasValidConfiguration() (bool, liberr.Error) {
	return b.Config().DSN != "", nil
}

func (b *backend) SummarizeToLog(log func(format string, args ...interface{})) {
	log("storage(mysql): dsn=%q schema=%q notify=poll(%s)", b.Config().DSN, b.Config().Schema, pollInterval)
}

func (b *backend) Open() liberr.Error {
	return b.Base.Open(libgorm.DriverMysql)
}

func (b *backend) Close() liberr.Error {
	_ = b.ToggleAsyncNotify(nil)
	return b.Base.Close()
}

func (b *backend) LogOneEvent(r librec.Record) liberr.Error {
	return b.Base.LogOneEvent(r)
}

func (b *backend) BlocklistEnumOpen() (libstg.Cursor, liberr.Error) {
	return b.Base.BlocklistEnumOpen()
}

// ToggleAsyncNotify starts (cb non-nil) or stops (cb nil) a private goroutine
// that wakes every pollInterval, opens a fresh enumerator, and invokes cb.
// Stopping fully cancels and joins the previous goroutine before a new one
// is allowed to start, which is what serializes callback invocation with
// register/unregister here.
func (b *backend) ToggleAsyncNotify(cb libstg.NotifyFunc) liberr.Error {
	b.ctrlMu.Lock()
	defer b.ctrlMu.Unlock()

	if b.notifyCancel != nil {
		b.notifyCancel()
		b.notifyWG.Wait()
		b.notifyCancel = nil
	}

	if cb == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.notifyCancel = cancel
	b.notifyWG.Add(1)

	go b.pollLoop(ctx, cb)

	return nil
}

func (b *backend) pollLoop(ctx context.Context, cb libstg.NotifyFunc) {
	defer b.notifyWG.Done()

	t := time.NewTicker(pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cur, err := b.Base.BlocklistEnumOpen()
			if err != nil {
				b.SetLastError(err)
				continue
			}

			cb(cur)
			_ = cur.Close()
		}
	}
}
