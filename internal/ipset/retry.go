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

package ipset

import (
	"context"
	"time"

	libdur "github.com/udel-rci/iptracking/duration"
	"github.com/vishvananda/netlink"
)

var (
	initRetryMin = libdur.Seconds(5)
	initRetryMax = libdur.Seconds(60)
)

// InitCtx probes the kernel ip_set subsystem the way Init does, but retries
// a failed probe on a PID-controller-backed ramp between 5 and 60 seconds
// (duration.Duration.RangeDefTo) rather than Init's single best-effort
// attempt. It always returns a ready Session, even after ctx is done or the
// ramp is exhausted — every other Session method still reports its own
// error independently.
func InitCtx(ctx context.Context, onLog func(format string, args ...interface{})) *Session {
	if onLog == nil {
		onLog = func(string, ...interface{}) {}
	}

	if _, err := netlink.IpsetList(""); err == nil {
		return &Session{}
	}

	for _, wait := range initRetryMin.RangeDefTo(initRetryMax) {
		select {
		case <-ctx.Done():
			return &Session{}
		case <-time.After(time.Duration(wait)):
		}

		if _, err := netlink.IpsetList(""); err == nil {
			return &Session{}
		} else {
			onLog("ipset: kernel module probe failed, backing off: %v", err)
		}
	}

	return &Session{}
}
