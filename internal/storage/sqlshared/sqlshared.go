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

// Package sqlshared holds the GORM-backed plumbing common to the three SQL
// event stores (sqlite, mysql, postgres): connection lifecycle through
// database/gorm, the log_one_event stored-procedure call, and the block_now
// cursor. Each driver package supplies only its Driver constant, DSN
// shape, and (where available) its native async-notification mechanism.
package sqlshared

import (
	"database/sql"
	"fmt"
	"sync"

	libgorm "github.com/udel-rci/iptracking/database/gorm"
	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
	libstg "github.com/udel-rci/iptracking/internal/storage"
)

// Config is the connection subtree shared by every SQL backend.
type Config struct {
	DSN     string `mapstructure:"dsn"`
	Schema  string `mapstructure:"schema"`
	Channel string `mapstructure:"notify_channel"`
}

func (c Config) qualify(name string) string {
	if c.Schema == "" {
		return name
	}

	return c.Schema + "." + name
}

func (c Config) procName() string {
	return c.qualify("log_one_event")
}

func (c Config) viewName() string {
	return c.qualify("block_now")
}

// Base is embedded by each driver's backend type. It owns the GORM
// connection, the schema-qualified statement names, and the last-error
// holder.
type Base struct {
	libstg.LastErrorHolder

	mu   sync.Mutex
	cfg  Config
	opts libstg.Options
	db   libgorm.Database
}

// NewBase constructs a Base around cfg and opts. The driver is supplied
// separately to Open, since a Base is created before the connection exists.
func NewBase(cfg Config, opts libstg.Options) *Base {
	return &Base{cfg: cfg, opts: opts}
}

func (b *Base) Config() Config {
	return b.cfg
}

func (b *Base) Options() libstg.Options {
	return b.opts
}

// Open opens the connection via database/gorm. Idempotent after success.
func (b *Base) Open(driver libgorm.Driver) liberr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return nil
	}

	db, e := libgorm.New(&libgorm.Config{
		Driver:               driver,
		DSN:                  b.cfg.DSN,
		EnableConnectionPool: true,
	})
	if e != nil {
		b.SetLastError(e)
		return libstg.ErrorBackendOpen.Error(e)
	}

	if ce := db.CheckConn(); ce != nil {
		b.SetLastError(ce)
		return libstg.ErrorBackendOpen.Error(ce)
	}

	b.db = db
	b.SetLastError(nil)

	return nil
}

func (b *Base) Close() liberr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	b.db.Close()
	b.db = nil

	return nil
}

func (b *Base) DB() libgorm.Database {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.db
}

// LogOneEvent invokes the schema-qualified log_one_event stored procedure
// with the seven positional parameters in the order dst_ip, src_ip,
// src_port, event_kind, authenticator_pid, uid, timestamp.
func (b *Base) LogOneEvent(r librec.Record) liberr.Error {
	db := b.DB()
	if db == nil || db.GetDB() == nil {
		return libstg.ErrorNotOpen.Error()
	}

	stmt := fmt.Sprintf("CALL %s(?,?,?,?,?,?,?)", b.cfg.procName())

	if err := db.GetDB().Exec(stmt, r.DstIP, r.SrcIP, r.SrcPort, r.Kind.String(), r.PID, r.UID, r.Timestamp).Error; err != nil {
		b.SetLastError(err)
		return libstg.ErrorLogEvent.Error(err)
	}

	return nil
}

// BlocklistEnumOpen enumerates the schema-qualified block_now projection,
// one IP entity per row. An empty projection is legal and yields a cursor
// whose first Next() returns false.
func (b *Base) BlocklistEnumOpen() (libstg.Cursor, liberr.Error) {
	db := b.DB()
	if db == nil || db.GetDB() == nil {
		return nil, libstg.ErrorNotOpen.Error()
	}

	stmt := fmt.Sprintf("SELECT ip FROM %s", b.cfg.viewName())

	rows, err := db.GetDB().Raw(stmt).Rows()
	if err != nil {
		b.SetLastError(err)
		return nil, libstg.ErrorBlocklistEnum.Error(err)
	}

	return &rowCursor{rows: rows}, nil
}

type rowCursor struct {
	rows *sql.Rows
	err  error
}

func (c *rowCursor) Next() (string, bool) {
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return "", false
	}

	var ip string
	if err := c.rows.Scan(&ip); err != nil {
		c.err = err
		return "", false
	}

	return ip, true
}

func (c *rowCursor) Err() error {
	return c.err
}

func (c *rowCursor) Close() error {
	return c.rows.Close()
}
