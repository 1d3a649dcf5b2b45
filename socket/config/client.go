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

// Package config declares the connection parameters shared by socket/client
// and socket/server.
package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	libptc "github.com/udel-rci/iptracking/network/protocol"
)

// Client configures a socket/client connection.
type Client struct {
	// Network is the transport ("tcp", "udp", "unix", "unixgram", ...).
	Network libptc.NetworkProtocol `json:"network" yaml:"network" toml:"network" mapstructure:"network"`

	// Address is the dial target: "host:port" for TCP/UDP, a file path for
	// Unix-domain sockets.
	Address string `json:"address" yaml:"address" toml:"address" mapstructure:"address"`

	// Timeout bounds Connect; zero means no timeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty" mapstructure:"timeout,omitempty"`

	// TLS enables a TLS handshake over the dialed connection when not empty.
	TLS TLSClient `json:"tls,omitempty" yaml:"tls,omitempty" toml:"tls,omitempty" mapstructure:"tls,omitempty"`
}

// TLSClient configures an optional TLS wrapper for a Client connection. The
// zero value disables TLS.
type TLSClient struct {
	Enable             bool   `json:"enable,omitempty" yaml:"enable,omitempty" toml:"enable,omitempty" mapstructure:"enable,omitempty"`
	ServerName         string `json:"serverName,omitempty" yaml:"serverName,omitempty" toml:"serverName,omitempty" mapstructure:"serverName,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"caFile,omitempty" toml:"caFile,omitempty" mapstructure:"caFile,omitempty"`
	CertFile           string `json:"certFile,omitempty" yaml:"certFile,omitempty" toml:"certFile,omitempty" mapstructure:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"keyFile,omitempty" toml:"keyFile,omitempty" mapstructure:"keyFile,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty" toml:"insecureSkipVerify,omitempty" mapstructure:"insecureSkipVerify,omitempty"`
}

// Config builds a *tls.Config from the TLSClient settings, or returns nil,
// nil when TLS is disabled.
func (t TLSClient) Config() (*tls.Config, error) {
	if !t.Enable {
		return nil, nil
	}

	cfg := &tls.Config{
		ServerName:         t.ServerName,
		InsecureSkipVerify: t.InsecureSkipVerify,
	}

	if t.CertFile != "" && t.KeyFile != "" {
		crt, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("socket/config: loading client certificate: %w", err)
		}

		cfg.Certificates = []tls.Certificate{crt}
	}

	if t.CAFile != "" {
		pem, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, fmt.Errorf("socket/config: reading CA file: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("socket/config: no valid certificate found in %q", t.CAFile)
		}

		cfg.RootCAs = pool
	}

	return cfg, nil
}
