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

// Package helper implements the pam-callback producer of spec.md §4.H: PAM
// environment parsing, 128-byte record construction, and a reconnecting
// send to pamd's Unix socket.
package helper

import (
	"strconv"
	"strings"
	"time"

	liberr "github.com/udel-rci/iptracking/errors"
	librec "github.com/udel-rci/iptracking/internal/record"
)

// emptyUserSentinel replaces an empty PAM_USER, so the 128-byte record never
// carries a blank (and so invalid) uid field.
const emptyUserSentinel = "<<EMPTY>>"

// zeroAddress is substituted for dst_ip when only PAM_RHOST is available.
const zeroAddress = "0.0.0.0"

// Environ abstracts the PAM environment lookup so tests can supply a fake
// map instead of the process's real environment.
type Environ func(key string) string

// BuildRecord implements spec.md §4.H's field-mapping rules: PAM_TYPE is
// mandatory and maps to an event kind via the canonical table (unknown
// types mapping to KindUnknown); PAM_USER empty becomes a sentinel; either
// SSH_CONNECTION or PAM_RHOST supplies the address fields; the timestamp is
// local-time now; the authenticator pid is ppid.
func BuildRecord(getenv Environ, ppid int32) (librec.Record, liberr.Error) {
	pamType := getenv("PAM_TYPE")
	if pamType == "" {
		return librec.Record{}, ErrorMissingPamType.Error()
	}

	user := getenv("PAM_USER")
	if user == "" {
		user = emptyUserSentinel
	}

	r := librec.Record{
		Kind:      librec.ParseKind(pamType),
		UID:       user,
		PID:       ppid,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}

	if conn := getenv("SSH_CONNECTION"); conn != "" {
		fields := strings.Fields(conn)
		if len(fields) >= 3 {
			r.SrcIP = fields[0]
			r.SrcPort = parsePort(fields[1])
			r.DstIP = fields[2]
		}
	} else if rhost := getenv("PAM_RHOST"); rhost != "" {
		r.SrcIP = rhost
		r.DstIP = zeroAddress
		r.SrcPort = 0
	}

	return r, nil
}

func parsePort(s string) uint16 {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0
	}

	return uint16(n)
}
