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
	"strconv"
	"strings"

	liberr "github.com/udel-rci/iptracking/errors"
)

const asciiFieldCount = 7

// FormatASCII renders r as the comma-separated line
// dst_ip,src_ip,src_port,event_kind,authenticator_pid,uid,timestamp
func (r Record) FormatASCII() string {
	fields := [asciiFieldCount]string{
		r.DstIP,
		r.SrcIP,
		strconv.FormatUint(uint64(r.SrcPort), 10),
		r.Kind.String(),
		strconv.FormatInt(int64(r.PID), 10),
		r.UID,
		r.Timestamp,
	}

	return strings.Join(fields[:], ",")
}

// ParseASCII parses a single comma-separated line into a Record. Surrounding
// whitespace on the whole line is tolerated and stripped; whitespace inside
// any field (other than the single space between the timestamp's date and
// time) is not and makes the line malformed.
func ParseASCII(line string) (Record, liberr.Error) {
	line = strings.TrimSpace(line)

	fields := strings.Split(line, ",")
	if len(fields) != asciiFieldCount {
		return Record{}, ErrorMalformedASCII.Error()
	}

	for i, f := range fields {
		if i == asciiFieldCount-1 {
			f = strings.Replace(f, " ", "", 1)
		}

		if strings.ContainsAny(f, " \t") {
			return Record{}, ErrorMalformedASCII.Error()
		}
	}

	srcPort, e := parseUint16(fields[2])
	if e != nil {
		return Record{}, e
	}

	pid, e := parseInt32(fields[4])
	if e != nil {
		return Record{}, e
	}

	r := Record{
		DstIP:     fields[0],
		SrcIP:     fields[1],
		SrcPort:   srcPort,
		Kind:      ParseKind(fields[3]),
		PID:       pid,
		UID:       fields[5],
		Timestamp: fields[6],
	}

	return r, nil
}

// parseUint16 parses a base-10 unsigned integer, rejecting signs, empty
// strings, and values overflowing 16 bits.
func parseUint16(s string) (uint16, liberr.Error) {
	if s == "" {
		return 0, ErrorMalformedASCII.Error()
	}

	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, ErrorMalformedASCII.Error()
	}

	return uint16(v), nil
}

// parseInt32 parses a base-10 signed integer, rejecting empty strings and
// values overflowing 32 bits.
func parseInt32(s string) (int32, liberr.Error) {
	if s == "" {
		return 0, ErrorMalformedASCII.Error()
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, ErrorMalformedASCII.Error()
	}

	return int32(v), nil
}
