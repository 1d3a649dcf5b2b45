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

// Package sqlite registers the embedded, file-backed SQL storage backend.
// It is the lightweight of the three SQL variants and has no native
// async-notification channel.
package sqlite

import (
	"github.com/mitchellh/mapstructure"
	libgorm "github.com/udel-rci/iptracking/database/gorm"
	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
	libstg "github.com/udel-rci/iptracking/internal/storage"
	libsql "github.com/udel-rci/iptracking/internal/storage/sqlshared"
)

const Name = "sqlite"

func init() {
	_ = libstg.Register(Name, New)
}

type backend struct {
	*libsql.Base
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
	log("storage(sqlite): dsn=%q schema=%q", b.Config().DSN, b.Config().Schema)
}

func (b *backend) Open() liberr.Error {
	return b.Base.Open(libgorm.DriverSQLite)
}

func (b *backend) LogOneEvent(r librec.Record) liberr.Error {
	return b.Base.LogOneEvent(r)
}

func (b *backend) BlocklistEnumOpen() (libstg.Cursor, liberr.Error) {
	return b.Base.BlocklistEnumOpen()
}

// ToggleAsyncNotify: sqlite has no push-notification channel.
func (b *backend) ToggleAsyncNotify(cb libstg.NotifyFunc) liberr.Error {
	if cb == nil {
		return nil
	}

	return libstg.ErrorUnsupportedOperation.Error()
}
