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

// Package postgres registers the second networked SQL storage backend. It
// is the one variant with a native push-notification channel: ToggleAsyncNotify
// issues LISTEN on the configured channel and blocks on the underlying pgx
// connection's WaitForNotification instead of polling.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mitchellh/mapstructure"
	libgorm "github.com/udel-rci/iptracking/database/gorm"
	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
	libstg "github.com/udel-rci/iptracking/internal/storage"
	libsql "github.com/udel-rci/iptracking/internal/storage/sqlshared"
)

const Name = "postgres"

const defaultChannel = "iptracking_block_now"

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
	cfg := libsql.Config{Channel: defaultChannel}

	if doc != nil {
		if err := mapstructure.Decode(doc, &cfg); err != nil {
			return nil, libstg.ErrorInvalidConfig.Error(err)
		}
	}

	if cfg.DSN == "" {
		return nil, libstg.ErrorInvalidConfig.Error()
	}

	if cfg.Channel == "" {
		cfg.Channel = defaultChannel
	}

	return &backend{Base: libsql.NewBase(cfg, opts)}, nil
}

func (b *backend) HasValidConfiguration() (bool, liberr.Error) {
	return b.Config().DSN != "", nil
}

func (b *backend) SummarizeToLog(log func(format string, args ...interface{})) {
	log("storage(postgres): dsn=%q schema=%q channel=%q", b.Config().DSN, b.Config().Schema, b.Config().Channel)
}

func (b *backend) Open() liberr.Error {
	return b.Base.Open(libgorm.DriverPostgreSQL)
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
// holding a dedicated connection LISTENing on the configured channel. Every
// NOTIFY wakes WaitForNotification, which opens a fresh enumerator and
// invokes cb. Stopping fully cancels and joins the previous goroutine before
// a new one may start.
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

	db := b.DB()
	if db == nil || db.GetDB() == nil {
		return libstg.ErrorNotOpen.Error()
	}

	sqlDB, e := db.GetDB().DB()
	if e != nil {
		return libstg.ErrorAsyncNotify.Error(e)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.notifyCancel = cancel
	b.notifyWG.Add(1)

	go b.listenLoop(ctx, sqlDB, cb)

	return nil
}

// listenLoop acquires a dedicated pgx connection from the pool, issues
// LISTEN on the configured channel, and blocks on WaitForNotification until
// ctx is cancelled. Each notification triggers one fresh enumerator handed
// to cb.
func (b *backend) listenLoop(ctx context.Context, sqlDB *sql.DB, cb libstg.NotifyFunc) {
	defer b.notifyWG.Done()

	conn, err := stdlib.AcquireConn(sqlDB)
	if err != nil {
		b.SetLastError(err)
		return
	}
	defer func() { _ = stdlib.ReleaseConn(sqlDB, conn) }()

	if _, err = conn.Exec(ctx, fmt.Sprintf("LISTEN %s", b.Config().Channel)); err != nil {
		b.SetLastError(err)
		return
	}

	for {
		if _, err = conn.WaitForNotification(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}

			b.SetLastError(err)
			continue
		}

		cur, e := b.Base.BlocklistEnumOpen()
		if e != nil {
			b.SetLastError(e)
			continue
		}

		cb(cur)
		_ = cur.Close()
	}
}
