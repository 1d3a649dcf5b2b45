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

package storage

import (
	"strings"
	"sync"
)

// LastErrorHolder is embedded by every Backend implementation to satisfy the
// "every instance owns ... the most recent backend error" requirement: the
// trimmed text of the latest error, replacing (not accumulating) on every
// call.
type LastErrorHolder struct {
	mu  sync.RWMutex
	msg string
}

// SetLastError records err's trimmed message, or clears it when err is nil.
func (h *LastErrorHolder) SetLastError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err == nil {
		h.msg = ""
		return
	}

	h.msg = strings.TrimSpace(err.Error())
}

// LastError returns the trimmed text of the most recent error.
func (h *LastErrorHolder) LastError() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.msg
}
