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

// Package protocol names the transport networks accepted by the socket and
// logger/hooksyslog packages, mirroring the network strings accepted by the
// standard library's net package.
package protocol

import "strings"

type NetworkProtocol string

const (
	NetworkEmpty    NetworkProtocol = ""
	NetworkTCP      NetworkProtocol = "tcp"
	NetworkTCP4     NetworkProtocol = "tcp4"
	NetworkTCP6     NetworkProtocol = "tcp6"
	NetworkUDP      NetworkProtocol = "udp"
	NetworkUDP4     NetworkProtocol = "udp4"
	NetworkUDP6     NetworkProtocol = "udp6"
	NetworkUnix     NetworkProtocol = "unix"
	NetworkUnixGram NetworkProtocol = "unixgram"
)

// Parse maps a network name (case-insensitive) to a NetworkProtocol, defaulting
// to NetworkEmpty when unrecognized.
func Parse(network string) NetworkProtocol {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case string(NetworkTCP):
		return NetworkTCP
	case string(NetworkTCP4):
		return NetworkTCP4
	case string(NetworkTCP6):
		return NetworkTCP6
	case string(NetworkUDP):
		return NetworkUDP
	case string(NetworkUDP4):
		return NetworkUDP4
	case string(NetworkUDP6):
		return NetworkUDP6
	case string(NetworkUnix):
		return NetworkUnix
	case string(NetworkUnixGram):
		return NetworkUnixGram
	default:
		return NetworkEmpty
	}
}

// String returns the network name as accepted by net.Dial and net.Listen.
func (n NetworkProtocol) String() string {
	return string(n)
}

// Code returns a short, collision-free token identifying the network, used to
// key shared connections by "protocol-address".
func (n NetworkProtocol) Code() string {
	if n == NetworkEmpty {
		return "local"
	}

	return string(n)
}

// IsUnix reports whether the network is a Unix domain socket family.
func (n NetworkProtocol) IsUnix() bool {
	return n == NetworkUnix || n == NetworkUnixGram
}

// IsStream reports whether the network is connection-oriented (TCP or Unix
// stream), as opposed to a datagram network (UDP or Unix datagram).
func (n NetworkProtocol) IsStream() bool {
	switch n {
	case NetworkTCP, NetworkTCP4, NetworkTCP6, NetworkUnix:
		return true
	default:
		return false
	}
}
