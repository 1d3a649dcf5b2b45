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

// Package record defines the fixed 128-byte authentication-event wire record,
// its binary and ASCII codecs, and the event-kind enumeration.
package record

import (
	"bytes"
	"regexp"

	liberr "github.com/udel-rci/iptracking/errors"
)

const Size = 128

const (
	offDstIP     = 0
	lenDstIP     = 16
	offSrcIP     = offDstIP + lenDstIP
	lenSrcIP     = 16
	offSrcPort   = offSrcIP + lenSrcIP
	lenSrcPort   = 2
	offEventKind = offSrcPort + lenSrcPort
	lenEventKind = 2
	offPID       = offEventKind + lenEventKind
	lenPID       = 4
	offUID       = offPID + lenPID
	lenUID       = 60
	offTimestamp = offUID + lenUID
	lenTimestamp = 28
)

// Kind is one of the four canonical authentication-event types.
type Kind uint16

const (
	KindUnknown Kind = iota
	KindAuth
	KindOpenSession
	KindCloseSession
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindAuth:         "auth",
	KindOpenSession:  "open_session",
	KindCloseSession: "close_session",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[KindUnknown]
}

// ParseKind maps a canonical event-kind name to its Kind, defaulting to
// KindUnknown for anything not in the table.
func ParseKind(s string) Kind {
	for i, n := range kindNames {
		if n == s {
			return Kind(i)
		}
	}

	return KindUnknown
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// Record is the in-memory representation of the 128-byte wire record.
type Record struct {
	DstIP     string
	SrcIP     string
	SrcPort   uint16
	Kind      Kind
	PID       int32
	UID       string
	Timestamp string
}

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}([+-]\d{4})?$`)

// Valid implements the validation predicate of §4.A: event kind in range,
// dst_ip/src_ip/uid/timestamp all non-empty, and the timestamp matching the
// prescribed shape.
func (r Record) Valid() bool {
	if !r.Kind.Valid() {
		return false
	}

	if r.DstIP == "" || r.SrcIP == "" || r.UID == "" {
		return false
	}

	return timestampPattern.MatchString(r.Timestamp)
}

// clampNulString trims field at its first NUL byte. The second return value
// is false when no NUL was found — a fixed-width field fully saturated with
// non-zero bytes is not a terminated string and must be rejected by the
// caller rather than taken as the full-length value (§4.A, §8).
func clampNulString(field []byte) (string, bool) {
	i := bytes.IndexByte(field, 0)
	if i < 0 {
		return "", false
	}

	return string(field[:i]), true
}

func putNulString(dst []byte, s string) liberr.Error {
	if len(s) >= len(dst) {
		return ErrorFieldTooLong.Error()
	}

	copy(dst, s)
	for i := len(s); i < len(dst); i++ {
		dst[i] = 0
	}

	return nil
}
