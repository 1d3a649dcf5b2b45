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

// Package size provides a byte-count type that parses and formats
// human-readable sizes ("32KB", "4MiB") for use as configuration fields.
package size

import (
	units "github.com/docker/go-units"
)

// Size is a count of bytes that (un)marshals from/to a human-readable string
// such as "32KB" or "4MiB" instead of a raw integer.
type Size uint64

// Parse converts a human-readable byte size ("32KB", "4MiB", "100") into a
// Size. An empty string parses to 0.
func Parse(s string) (Size, error) {
	if s == "" {
		return 0, nil
	}

	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}

	return Size(n), nil
}

// String renders the size using the smallest binary unit that keeps the
// value exact, e.g. Size(32*1024).String() == "32KiB".
func (s Size) String() string {
	return units.BytesSize(float64(s))
}

// Uint64 returns the size as a plain byte count.
func (s Size) Uint64() uint64 {
	return uint64(s)
}

// Int64 returns the size as a plain byte count.
func (s Size) Int64() int64 {
	return int64(s)
}
