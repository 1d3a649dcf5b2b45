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

// Package file implements the append-only text file storage backend: the
// lightest of the four, with no block-list or notification support.
package file

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
	libstg "github.com/udel-rci/iptracking/internal/storage"
)

const Name = "file"

func init() {
	_ = libstg.Register(Name, New)
}

// Config is the file backend's configuration subtree.
type Config struct {
	Filename  string `mapstructure:"filename"`
	Delimiter string `mapstructure:"delimiter"`
}

type backend struct {
	libstg.LastErrorHolder

	mu   sync.Mutex
	cfg  Config
	opts libstg.Options
	fh   *os.File
}

// New is the storage.Factory registered under Name.
func New(doc map[string]interface{}, opts libstg.Options) (libstg.Backend, liberr.Error) {
	cfg := Config{Delimiter: ","}

	if doc != nil {
		if err := mapstructure.Decode(doc, &cfg); err != nil {
			return nil, libstg.ErrorInvalidConfig.Error(err)
		}
	}

	if cfg.Filename == "" {
		return nil, libstg.ErrorInvalidConfig.Error()
	}

	if cfg.Delimiter == "" {
		cfg.Delimiter = ","
	}

	return &backend{cfg: cfg, opts: opts}, nil
}

func (b *backend) HasValidConfiguration() (bool, liberr.Error) {
	return b.cfg.Filename != "", nil
}

func (b *backend) SummarizeToLog(log func(format string, args ...interface{})) {
	log("storage(file): filename=%q delimiter=%q", b.cfg.Filename, b.cfg.Delimiter)
}

func (b *backend) Open() liberr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fh != nil {
		return nil
	}

	fh, err := os.OpenFile(b.cfg.Filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		b.SetLastError(err)
		return libstg.ErrorBackendOpen.Error(err)
	}

	b.fh = fh
	b.SetLastError(nil)

	return nil
}

func (b *backend) Close() liberr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fh == nil {
		return nil
	}

	err := b.fh.Close()
	b.fh = nil

	if err != nil {
		b.SetLastError(err)
		return libstg.ErrorBackendClose.Error(err)
	}

	return nil
}

// LogOneEvent formats r's seven fields joined by the configured delimiter,
// newline-terminated, then flushes to disk. Never truncates the file; crash
// recovery relies on every write being fsync'd before returning.
func (b *backend) LogOneEvent(r librec.Record) liberr.Error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fh == nil {
		return libstg.ErrorNotOpen.Error()
	}

	fields := []string{
		r.DstIP,
		r.SrcIP,
		strconv.FormatUint(uint64(r.SrcPort), 10),
		r.Kind.String(),
		strconv.FormatInt(int64(r.PID), 10),
		r.UID,
		r.Timestamp,
	}

	line := strings.Join(fields, b.cfg.Delimiter) + "\n"

	if _, err := b.fh.WriteString(line); err != nil {
		b.SetLastError(err)
		return libstg.ErrorLogEvent.Error(err)
	}

	if err := b.fh.Sync(); err != nil {
		b.SetLastError(err)
		return libstg.ErrorLogEvent.Error(err)
	}

	return nil
}

// BlocklistEnumOpen is unsupported: the file backend carries no projection.
func (b *backend) BlocklistEnumOpen() (libstg.Cursor, liberr.Error) {
	return nil, libstg.ErrorUnsupportedOperation.Error()
}

// ToggleAsyncNotify is unsupported: the file backend has no change channel.
func (b *backend) ToggleAsyncNotify(cb libstg.NotifyFunc) liberr.Error {
	if cb == nil {
		return nil
	}

	return libstg.ErrorUnsupportedOperation.Error()
}
