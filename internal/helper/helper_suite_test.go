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

package helper_test

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libhlp "github.com/udel-rci/iptracking/internal/helper"
	librec "github.com/udel-rci/iptracking/internal/record"
	libsck "github.com/udel-rci/iptracking/socket"
)

func TestHelper(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Helper Suite")
}

func envFrom(m map[string]string) libhlp.Environ {
	return func(key string) string { return m[key] }
}

var _ = Describe("BuildRecord", func() {
	It("rejects a missing PAM_TYPE", func() {
		_, err := libhlp.BuildRecord(envFrom(nil), 123)
		Expect(err).ToNot(BeNil())
	})

	It("substitutes the empty-user sentinel for a blank PAM_USER", func() {
		r, err := libhlp.BuildRecord(envFrom(map[string]string{"PAM_TYPE": "auth"}), 123)
		Expect(err).To(BeNil())
		Expect(r.UID).To(Equal("<<EMPTY>>"))
		Expect(r.Kind).To(Equal(librec.KindAuth))
		Expect(r.PID).To(Equal(int32(123)))
	})

	It("maps an unrecognized PAM_TYPE to KindUnknown", func() {
		r, err := libhlp.BuildRecord(envFrom(map[string]string{"PAM_TYPE": "chauthtok", "PAM_USER": "jdoe"}), 1)
		Expect(err).To(BeNil())
		Expect(r.Kind).To(Equal(librec.KindUnknown))
	})

	It("parses SSH_CONNECTION into src_ip/src_port/dst_ip", func() {
		r, err := libhlp.BuildRecord(envFrom(map[string]string{
			"PAM_TYPE":        "open_session",
			"PAM_USER":        "jdoe",
			"SSH_CONNECTION":  "192.168.1.1 54321 10.0.0.1 22",
		}), 1)
		Expect(err).To(BeNil())
		Expect(r.SrcIP).To(Equal("192.168.1.1"))
		Expect(r.SrcPort).To(Equal(uint16(54321)))
		Expect(r.DstIP).To(Equal("10.0.0.1"))
	})

	It("falls back to PAM_RHOST with a zeroed destination and port", func() {
		r, err := libhlp.BuildRecord(envFrom(map[string]string{
			"PAM_TYPE":  "close_session",
			"PAM_USER":  "jdoe",
			"PAM_RHOST": "203.0.113.9",
		}), 1)
		Expect(err).To(BeNil())
		Expect(r.SrcIP).To(Equal("203.0.113.9"))
		Expect(r.DstIP).To(Equal("0.0.0.0"))
		Expect(r.SrcPort).To(Equal(uint16(0)))
	})
})

func sample() librec.Record {
	return librec.Record{
		DstIP: "10.0.0.1", SrcIP: "192.168.1.1", SrcPort: 22,
		Kind: librec.KindAuth, PID: 1, UID: "jdoe",
		Timestamp: "2026-07-31 10:00:00",
	}
}

// fakeClient is a minimal libsck.Client test double exercising Send's state
// machine without a real socket.
type fakeClient struct {
	connectErr   error
	writeErrs    []error
	connected    bool
	connectCount int
	written      []byte
}

func (f *fakeClient) Connect(ctx context.Context) error {
	f.connectCount++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Write(p []byte) (int, error) {
	if len(f.writeErrs) > 0 {
		err := f.writeErrs[0]
		f.writeErrs = f.writeErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakeClient) Read(p []byte) (int, error) { return 0, nil }
func (f *fakeClient) Close() error                { f.connected = false; return nil }
func (f *fakeClient) IsConnected() bool           { return f.connected }

var _ libsck.Client = (*fakeClient)(nil)

var _ = Describe("Send", func() {
	It("sends the full 128-byte record on a clean connection", func() {
		fc := &fakeClient{}
		err := libhlp.Send(context.Background(), fc, sample(), 0)
		Expect(err).To(BeNil())
		Expect(fc.written).To(HaveLen(librec.Size))
	})

	It("retries a write that fails with ENOBUFS", func() {
		fc := &fakeClient{writeErrs: []error{syscall.ENOBUFS}}
		err := libhlp.Send(context.Background(), fc, sample(), 0)
		Expect(err).To(BeNil())
		Expect(fc.written).To(HaveLen(librec.Size))
	})

	It("reconnects and resends from the beginning on ECONNRESET", func() {
		fc := &fakeClient{writeErrs: []error{syscall.ECONNRESET}}
		err := libhlp.Send(context.Background(), fc, sample(), 0)
		Expect(err).To(BeNil())
		Expect(fc.connectCount).To(Equal(2))
		Expect(fc.written).To(HaveLen(librec.Size))
	})

	It("fails fast on a non-retryable connect error", func() {
		fc := &fakeClient{connectErr: errors.New("permission denied")}
		err := libhlp.Send(context.Background(), fc, sample(), 0)
		Expect(err).ToNot(BeNil())
	})

	It("bounds the whole operation with a timeout", func() {
		fc := &fakeClient{connectErr: errors.New("still down")}
		err := libhlp.Send(context.Background(), fc, sample(), 10*time.Millisecond)
		Expect(err).ToNot(BeNil())
	})
})

var _ = Describe("net dial smoke", func() {
	It("round-trips a record over a real unix socket", func() {
		dir := GinkgoT().TempDir()
		path := dir + "/helper.sock"

		ln, lerr := net.Listen("unix", path)
		Expect(lerr).To(BeNil())
		defer func() { _ = ln.Close() }()

		received := make(chan []byte, 1)
		go func() {
			c, aerr := ln.Accept()
			if aerr != nil {
				return
			}
			defer func() { _ = c.Close() }()

			buf := make([]byte, librec.Size)
			n, _ := c.Read(buf)
			received <- buf[:n]
		}()

		fc := &realUnixClient{path: path}
		err := libhlp.Send(context.Background(), fc, sample(), time.Second)
		Expect(err).To(BeNil())

		Eventually(received, time.Second).Should(Receive(HaveLen(librec.Size)))
	})
})

// realUnixClient wraps a genuine net.Conn so the smoke test exercises Send
// against an actual Unix-domain listener rather than only the fake double.
type realUnixClient struct {
	path string
	conn net.Conn
}

func (r *realUnixClient) Connect(ctx context.Context) error {
	c, err := (&net.Dialer{}).DialContext(ctx, "unix", r.path)
	if err != nil {
		return err
	}
	r.conn = c
	return nil
}

func (r *realUnixClient) Write(p []byte) (int, error) { return r.conn.Write(p) }
func (r *realUnixClient) Read(p []byte) (int, error)  { return r.conn.Read(p) }
func (r *realUnixClient) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
func (r *realUnixClient) IsConnected() bool { return r.conn != nil }

var _ libsck.Client = (*realUnixClient)(nil)
