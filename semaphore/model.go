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

package semaphore

import (
	"context"
	"math"

	xsem "golang.org/x/sync/semaphore"
)

type sem struct {
	context.Context

	cancel   context.CancelFunc
	max      int64
	progress bool
	w        *xsem.Weighted
}

func (s *sem) weighted() *xsem.Weighted {
	if s.w == nil {
		n := s.max
		if n <= 0 {
			n = math.MaxInt32
		}
		s.w = xsem.NewWeighted(n)
	}

	return s.w
}

func (s *sem) New() Semaphore {
	return New(s.Context, s.max, s.progress)
}

func (s *sem) NewWorker() error {
	return s.weighted().Acquire(s.Context, 1)
}

func (s *sem) NewWorkerTry() bool {
	return s.weighted().TryAcquire(1)
}

func (s *sem) DeferWorker() {
	s.weighted().Release(1)
}

func (s *sem) DeferMain() {
	_ = s.WaitAll()

	if s.cancel != nil {
		s.cancel()
	}
}

func (s *sem) WaitAll() error {
	n := s.max
	if n <= 0 {
		n = math.MaxInt32
	}

	if err := s.weighted().Acquire(context.Background(), n); err != nil {
		return err
	}

	s.weighted().Release(n)

	return nil
}

func (s *sem) Weighted() int64 {
	return s.max
}

func (s *sem) BarNumber(title, unit string, total int64, showRate bool, extra interface{}) Bar {
	return &bar{sem: s, title: title, unit: unit, total: total}
}
