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

// Package socket defines the shared client/server contracts for the TCP, UDP
// and Unix-domain transports implemented by socket/client and socket/server.
package socket

import (
	"context"
	"net"
	"strings"
)

// DefaultBufferSize is the read/write buffer size used when none is configured.
const DefaultBufferSize = 32 * 1024

// EOL is the byte that terminates one message on stream-oriented transports.
const EOL = '\n'

// ConnState identifies the phase a connection is in for instrumentation callbacks.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

func (c ConnState) String() string {
	switch c {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	default:
		return "unknown connection state"
	}
}

// UpdateConn is called by a Server around each connection state transition;
// implementations use it for logging or metrics and may be nil.
type UpdateConn func(state ConnState, local, remote net.Addr)

// ErrorFilter returns nil for errors that simply indicate an already-closed
// connection or listener, so callers can treat a shutdown race as a clean
// exit instead of a reportable failure.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "use of closed network connection") {
		return nil
	}

	return err
}

// Context is the per-connection handle a Server passes to its Handler. It
// behaves like net.Conn but is named distinctly since a datagram Server
// synthesizes one per peer address rather than accepting a real connection.
type Context interface {
	context.Context

	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// Handler processes one Context. The Server closes the Context after Handler
// returns if the handler has not already closed it.
type Handler func(c Context)

// Client is a reconnectable network client used to ship data to a remote or
// local endpoint (TCP, UDP or Unix-domain).
type Client interface {
	// Connect dials the configured endpoint. Calling Connect again while
	// already connected redials a fresh connection.
	Connect(ctx context.Context) error

	Write(p []byte) (n int, err error)
	Read(p []byte) (n int, err error)

	// Close releases the underlying connection, if any.
	Close() error

	// IsConnected reports whether a connection is currently established.
	IsConnected() bool
}

// Server accepts connections (or, for datagram networks, reads packets) on a
// configured network and address and dispatches each to a Handler.
type Server interface {
	// Listen blocks, serving connections until ctx is cancelled or Close is
	// called, and then returns. Use ErrorFilter on its result to check whether
	// the returned error is the expected by-product of shutting down.
	Listen(ctx context.Context) error

	// Close stops the server. For Unix-domain networks, the socket file is
	// removed.
	Close() error
}
