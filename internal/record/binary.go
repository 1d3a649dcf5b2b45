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

package record

import (
	"encoding/binary"

	liberr "github.com/udel-rci/iptracking/errors"
)

// Encode renders r into its 128-byte wire image, in host byte order, verbatim
// (the socket is local; no endianness conversion is performed).
func (r Record) Encode() ([Size]byte, liberr.Error) {
	var buf [Size]byte

	if e := putNulString(buf[offDstIP:offDstIP+lenDstIP], r.DstIP); e != nil {
		return buf, e
	}

	if e := putNulString(buf[offSrcIP:offSrcIP+lenSrcIP], r.SrcIP); e != nil {
		return buf, e
	}

	binary.NativeEndian.PutUint16(buf[offSrcPort:offSrcPort+lenSrcPort], r.SrcPort)
	binary.NativeEndian.PutUint16(buf[offEventKind:offEventKind+lenEventKind], uint16(r.Kind))
	binary.NativeEndian.PutUint32(buf[offPID:offPID+lenPID], uint32(r.PID))

	if e := putNulString(buf[offUID:offUID+lenUID], r.UID); e != nil {
		return buf, e
	}

	if e := putNulString(buf[offTimestamp:offTimestamp+lenTimestamp], r.Timestamp); e != nil {
		return buf, e
	}

	return buf, nil
}

// Decode parses a 128-byte wire image into a Record. A buffer shorter than
// Size indicates a malformed transmission (§4.A: "partial reads ... indicate
// a malformed transmission and the record is discarded"). A fixed-length
// string field with no embedded NUL byte is likewise malformed (§8: "field
// without an embedded NUL is rejected") and fails the decode outright rather
// than being silently truncated to its full-length content.
func Decode(buf []byte) (Record, liberr.Error) {
	if len(buf) < Size {
		return Record{}, ErrorShortRead.Error()
	}

	dstIP, ok := clampNulString(buf[offDstIP : offDstIP+lenDstIP])
	if !ok {
		return Record{}, ErrorInvalidRecord.Error()
	}

	srcIP, ok := clampNulString(buf[offSrcIP : offSrcIP+lenSrcIP])
	if !ok {
		return Record{}, ErrorInvalidRecord.Error()
	}

	uid, ok := clampNulString(buf[offUID : offUID+lenUID])
	if !ok {
		return Record{}, ErrorInvalidRecord.Error()
	}

	timestamp, ok := clampNulString(buf[offTimestamp : offTimestamp+lenTimestamp])
	if !ok {
		return Record{}, ErrorInvalidRecord.Error()
	}

	return Record{
		DstIP:     dstIP,
		SrcIP:     srcIP,
		SrcPort:   binary.NativeEndian.Uint16(buf[offSrcPort : offSrcPort+lenSrcPort]),
		Kind:      Kind(binary.NativeEndian.Uint16(buf[offEventKind : offEventKind+lenEventKind])),
		PID:       int32(binary.NativeEndian.Uint32(buf[offPID : offPID+lenPID])),
		UID:       uid,
		Timestamp: timestamp,
	}, nil
}
