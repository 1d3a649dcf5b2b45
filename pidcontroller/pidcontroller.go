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

// Package pidcontroller implements a minimal discrete PID controller used to
// space out a range of values between a start and an end point, taking
// smaller steps as the value approaches its target.
package pidcontroller

import (
	"context"
	"math"
)

const (
	maxSteps = 64
	epsilon  = 1e-6
)

// Controller computes a non-uniform step sequence from a proportional,
// integral and derivative gain, the same way a PID loop narrows in on a
// setpoint.
type Controller struct {
	kp, ki, kd float64
}

// New returns a Controller with the given proportional, integral and
// derivative gains.
func New(kp, ki, kd float64) *Controller {
	return &Controller{kp: kp, ki: ki, kd: kd}
}

// RangeCtx returns a monotonic sequence of values from start to end, with
// each step computed from the controller's gains applied to the remaining
// error. The sequence always ends with end, unless ctx is cancelled first.
func (c *Controller) RangeCtx(ctx context.Context, start, end float64) []float64 {
	if ctx == nil {
		ctx = context.Background()
	}

	r := []float64{start}

	if start == end {
		return r
	}

	var (
		cur      = start
		integral float64
		prevErr  = end - start
	)

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return r
		default:
		}

		errv := end - cur
		if math.Abs(errv) <= epsilon {
			break
		}

		integral += errv
		deriv := errv - prevErr
		prevErr = errv

		delta := c.kp*errv + c.ki*integral + c.kd*deriv
		if delta == 0 {
			break
		}

		cur += delta

		if (end > start && cur > end) || (end < start && cur < end) {
			cur = end
		}

		r = append(r, cur)

		if cur == end {
			break
		}
	}

	if r[len(r)-1] != end {
		r = append(r, end)
	}

	return r
}
