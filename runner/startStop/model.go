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

package startStop

import (
	"context"
	"sync"
	"time"
)

type runner struct {
	m     sync.Mutex
	start FuncStart
	stop  FuncStop

	running bool
	since   time.Time
}

func (r *runner) Start(ctx context.Context) error {
	r.m.Lock()
	defer r.m.Unlock()

	if r.running {
		return nil
	}

	if r.start != nil {
		if err := r.start(ctx); err != nil {
			return err
		}
	}

	r.running = true
	r.since = time.Now()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.m.Lock()
	defer r.m.Unlock()

	if !r.running {
		return nil
	}

	var err error
	if r.stop != nil {
		err = r.stop(ctx)
	}

	r.running = false
	r.since = time.Time{}

	return err
}

func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}

	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.m.Lock()
	defer r.m.Unlock()

	if !r.running {
		return 0
	}

	return time.Since(r.since)
}
