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

// Package server implements a socket.Server accepting connections (stream
// networks) or reading packets (datagram networks) and dispatching each to a
// socket.Handler.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	libsck "github.com/udel-rci/iptracking/socket"
	sckcfg "github.com/udel-rci/iptracking/socket/config"
)

// pollInterval bounds how long Accept/ReadFrom blocks before re-checking for
// shutdown, so Listen remains responsive to context cancellation and Close.
const pollInterval = 250 * time.Millisecond

type server struct {
	cfg     sckcfg.Server
	tls     *tls.Config
	handler libsck.Handler

	mu       sync.Mutex
	closed   bool
	listener net.Listener
	packet   net.PacketConn
}

// New returns a socket.Server listening on cfg.Network/cfg.Address. tlsConfig
// overrides cfg.TLS when not nil and the network is stream-oriented.
func New(tlsConfig *tls.Config, handler libsck.Handler, cfg sckcfg.Server) (libsck.Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("socket/server: handler is required")
	}

	if tlsConfig == nil && cfg.TLS.Enable {
		crt, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("socket/server: loading server certificate: %w", err)
		}

		tlsConfig = &tls.Config{Certificates: []tls.Certificate{crt}}
	}

	return &server{cfg: cfg, tls: tlsConfig, handler: handler}, nil
}

func (s *server) Listen(ctx context.Context) error {
	if s.cfg.Network.IsStream() {
		return s.listenStream(ctx)
	}

	return s.listenPacket(ctx)
}

func (s *server) listenStream(ctx context.Context) error {
	if s.cfg.Network.IsUnix() {
		_ = os.Remove(s.cfg.Address)
	}

	lst, err := net.Listen(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		return fmt.Errorf("socket/server: listen %s %s: %w", s.cfg.Network, s.cfg.Address, err)
	}

	if s.tls != nil {
		lst = tls.NewListener(lst, s.tls)
	}

	if err = s.applyUnixPerm(); err != nil {
		_ = lst.Close()
		return err
	}

	s.mu.Lock()
	s.listener = lst
	s.mu.Unlock()

	defer func() {
		_ = lst.Close()
	}()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if tc, ok := lst.(*net.TCPListener); ok {
			_ = tc.SetDeadline(time.Now().Add(pollInterval))
		}

		cnx, err := lst.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}

			return libsck.ErrorFilter(err)
		}

		go s.serveConn(ctx, cnx)
	}
}

func (s *server) serveConn(ctx context.Context, cnx net.Conn) {
	c := newConnContext(ctx, cnx)
	defer func() {
		_ = c.Close()
	}()

	s.handler(c)
}

func (s *server) listenPacket(ctx context.Context) error {
	if s.cfg.Network.IsUnix() {
		_ = os.Remove(s.cfg.Address)
	}

	pkt, err := net.ListenPacket(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		return fmt.Errorf("socket/server: listen %s %s: %w", s.cfg.Network, s.cfg.Address, err)
	}

	if err = s.applyUnixPerm(); err != nil {
		_ = pkt.Close()
		return err
	}

	s.mu.Lock()
	s.packet = pkt
	s.mu.Unlock()

	defer func() {
		_ = pkt.Close()
	}()

	bufSize := s.cfg.BufferSize
	if bufSize <= 0 {
		bufSize = libsck.DefaultBufferSize
	}

	buf := make([]byte, bufSize)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_ = pkt.SetReadDeadline(time.Now().Add(pollInterval))

		n, addr, err := pkt.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}

			return libsck.ErrorFilter(err)
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		go func() {
			c := newPacketContext(ctx, pkt, addr, payload)
			defer func() {
				_ = c.Close()
			}()

			s.handler(c)
		}()
	}
}

// applyUnixPerm chmods/chowns a freshly created Unix-domain socket file per
// cfg.PermFile/cfg.GroupPerm. It is a no-op for other networks.
func (s *server) applyUnixPerm() error {
	if !s.cfg.Network.IsUnix() {
		return nil
	}

	if s.cfg.PermFile != 0 {
		if err := os.Chmod(s.cfg.Address, s.cfg.PermFile.FileMode()); err != nil {
			return fmt.Errorf("socket/server: chmod %s: %w", s.cfg.Address, err)
		}
	}

	if s.cfg.GroupPerm >= 0 {
		if err := os.Chown(s.cfg.Address, -1, s.cfg.GroupPerm); err != nil {
			return fmt.Errorf("socket/server: chown %s: %w", s.cfg.Address, err)
		}
	}

	return nil
}

func (s *server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error

	if s.listener != nil {
		err = s.listener.Close()
	}

	if s.packet != nil {
		if e := s.packet.Close(); e != nil && err == nil {
			err = e
		}
	}

	if s.cfg.Network.IsUnix() {
		_ = os.Remove(s.cfg.Address)
	}

	return libsck.ErrorFilter(err)
}
