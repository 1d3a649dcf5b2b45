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

package helper

import (
	"context"
	"errors"
	"syscall"
	"time"

	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
	libsck "github.com/udel-rci/iptracking/socket"
)

// State names the callback helper's PARSE → CONNECT → SEND → DONE machine,
// where a send that observes ECONNRESET loops back to CONNECT.
type State int

const (
	StateParse State = iota
	StateConnect
	StateSend
	StateDone
)

func (s State) String() string {
	switch s {
	case StateParse:
		return "PARSE"
	case StateConnect:
		return "CONNECT"
	case StateSend:
		return "SEND"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Send drives the state machine of spec.md §4.H: connect cli, write exactly
// 128 bytes with wait-all semantics, tolerating EINTR/ENOBUFS by retrying the
// write and ECONNRESET by reconnecting and resending the record from the
// beginning. timeout, if positive, bounds the whole operation the way the
// original helper's alarm(2) call does; on expiry Send returns ErrorTimeout.
func Send(ctx context.Context, cli libsck.Client, r librec.Record, timeout time.Duration) liberr.Error {
	buf, eerr := r.Encode()
	if eerr != nil {
		return ErrorEncode.Error(eerr)
	}

	sendCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for {
		if err := cli.Connect(sendCtx); err != nil {
			if sendCtx.Err() != nil {
				return ErrorTimeout.Error(sendCtx.Err())
			}

			return ErrorConnect.Error(err)
		}

		err := writeAll(sendCtx, cli, buf[:])
		if err == nil {
			return nil
		}

		if errors.Is(err, syscall.ECONNRESET) {
			_ = cli.Close()

			if sendCtx.Err() != nil {
				return ErrorTimeout.Error(sendCtx.Err())
			}

			continue
		}

		if sendCtx.Err() != nil {
			return ErrorTimeout.Error(sendCtx.Err())
		}

		return ErrorSend.Error(err)
	}
}

// writeAll writes the whole buffer, retrying a partial write and tolerating
// EINTR/ENOBUFS as transient. Any other error, or ctx expiring, aborts it.
func writeAll(ctx context.Context, cli libsck.Client, buf []byte) error {
	total := 0

	for total < len(buf) {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := cli.Write(buf[total:])
		if err != nil {
			if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.ENOBUFS) {
				continue
			}

			return err
		}

		total += n
	}

	return nil
}
