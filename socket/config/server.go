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

package config

import (
	libprm "github.com/udel-rci/iptracking/file/perm"
	libptc "github.com/udel-rci/iptracking/network/protocol"
)

// Server configures a socket/server listener.
type Server struct {
	// Network is the transport to listen on ("tcp", "udp", "unix", "unixgram", ...).
	Network libptc.NetworkProtocol `json:"network" yaml:"network" toml:"network" mapstructure:"network"`

	// Address is the listen address: "host:port" for TCP/UDP, a file path for
	// Unix-domain sockets.
	Address string `json:"address" yaml:"address" toml:"address" mapstructure:"address"`

	// PermFile is the file mode applied to a Unix-domain socket file after
	// creation. Ignored for non-Unix networks.
	PermFile libprm.Perm `json:"permFile,omitempty" yaml:"permFile,omitempty" toml:"permFile,omitempty" mapstructure:"permFile,omitempty"`

	// GroupPerm, when >= 0, chowns a Unix-domain socket file to this group id
	// after creation. A negative value leaves the group unchanged.
	GroupPerm int `json:"groupPerm,omitempty" yaml:"groupPerm,omitempty" toml:"groupPerm,omitempty" mapstructure:"groupPerm,omitempty"`

	// BufferSize is the per-connection read buffer size; zero uses
	// socket.DefaultBufferSize.
	BufferSize int `json:"bufferSize,omitempty" yaml:"bufferSize,omitempty" toml:"bufferSize,omitempty" mapstructure:"bufferSize,omitempty"`

	// TLS enables a TLS listener when not empty.
	TLS TLSServer `json:"tls,omitempty" yaml:"tls,omitempty" toml:"tls,omitempty" mapstructure:"tls,omitempty"`
}

// TLSServer configures an optional TLS wrapper for a Server listener. The
// zero value disables TLS.
type TLSServer struct {
	Enable   bool   `json:"enable,omitempty" yaml:"enable,omitempty" toml:"enable,omitempty" mapstructure:"enable,omitempty"`
	CertFile string `json:"certFile,omitempty" yaml:"certFile,omitempty" toml:"certFile,omitempty" mapstructure:"certFile,omitempty"`
	KeyFile  string `json:"keyFile,omitempty" yaml:"keyFile,omitempty" toml:"keyFile,omitempty" mapstructure:"keyFile,omitempty"`
}
