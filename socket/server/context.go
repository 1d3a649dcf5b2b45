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

package server

import (
	"context"
	"io"
	"net"
	"sync"

	libsck "github.com/udel-rci/iptracking/socket"
)

// connContext adapts a stream net.Conn (TCP/Unix) into a socket.Context.
type connContext struct {
	context.Context
	cnx net.Conn
}

func newConnContext(ctx context.Context, cnx net.Conn) libsck.Context {
	return &connContext{Context: ctx, cnx: cnx}
}

func (c *connContext) Read(p []byte) (int, error) {
	n, err := c.cnx.Read(p)
	return n, libsck.ErrorFilter(err)
}

func (c *connContext) Write(p []byte) (int, error) {
	n, err := c.cnx.Write(p)
	return n, libsck.ErrorFilter(err)
}

func (c *connContext) Close() error {
	return libsck.ErrorFilter(c.cnx.Close())
}

func (c *connContext) LocalAddr() net.Addr  { return c.cnx.LocalAddr() }
func (c *connContext) RemoteAddr() net.Addr { return c.cnx.RemoteAddr() }

// packetContext adapts one datagram read (UDP/unixgram have no accept loop)
// into a socket.Context: the payload already read is delivered on the first
// Read call, then io.EOF on every subsequent call.
type packetContext struct {
	context.Context

	pkt    net.PacketConn
	remote net.Addr

	mu      sync.Mutex
	payload []byte
	read    bool
	closed  bool
}

func newPacketContext(ctx context.Context, pkt net.PacketConn, remote net.Addr, payload []byte) libsck.Context {
	return &packetContext{Context: ctx, pkt: pkt, remote: remote, payload: payload}
}

func (c *packetContext) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.read {
		return 0, io.EOF
	}
	c.read = true

	n := copy(p, c.payload)
	if n < len(c.payload) {
		return n, io.ErrShortBuffer
	}

	return n, nil
}

func (c *packetContext) Write(p []byte) (int, error) {
	n, err := c.pkt.WriteTo(p, c.remote)
	return n, libsck.ErrorFilter(err)
}

func (c *packetContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

func (c *packetContext) LocalAddr() net.Addr  { return c.pkt.LocalAddr() }
func (c *packetContext) RemoteAddr() net.Addr { return c.remote }
