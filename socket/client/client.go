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

// Package client implements a reconnectable socket.Client over TCP, UDP and
// Unix-domain transports.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"

	libsck "github.com/udel-rci/iptracking/socket"
	sckcfg "github.com/udel-rci/iptracking/socket/config"
)

type client struct {
	mu   sync.Mutex
	cfg  sckcfg.Client
	tls  *tls.Config
	conn net.Conn
}

// New returns a socket.Client dialing cfg.Network/cfg.Address. tlsConfig
// overrides cfg.TLS when not nil; otherwise cfg.TLS is used to build one.
func New(cfg sckcfg.Client, tlsConfig *tls.Config) (libsck.Client, error) {
	if tlsConfig == nil {
		c, err := cfg.TLS.Config()
		if err != nil {
			return nil, err
		}

		tlsConfig = c
	}

	return &client{cfg: cfg, tls: tlsConfig}, nil
}

func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}

	dialer := &net.Dialer{}

	var (
		cnx net.Conn
		err error
	)

	if c.tls != nil && c.cfg.Network.IsStream() {
		cnx, err = (&tls.Dialer{NetDialer: dialer, Config: c.tls}).DialContext(ctx, c.cfg.Network.String(), c.cfg.Address)
	} else {
		cnx, err = dialer.DialContext(ctx, c.cfg.Network.String(), c.cfg.Address)
	}

	if err != nil {
		return fmt.Errorf("socket/client: dial %s %s: %w", c.cfg.Network, c.cfg.Address, err)
	}

	c.conn = cnx

	return nil
}

func (c *client) Write(p []byte) (int, error) {
	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()

	if cnx == nil {
		return 0, fmt.Errorf("socket/client: not connected")
	}

	n, err := cnx.Write(p)

	return n, libsck.ErrorFilter(err)
}

func (c *client) Read(p []byte) (int, error) {
	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()

	if cnx == nil {
		return 0, fmt.Errorf("socket/client: not connected")
	}

	n, err := cnx.Read(p)

	return n, libsck.ErrorFilter(err)
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil

	return libsck.ErrorFilter(err)
}

func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}
