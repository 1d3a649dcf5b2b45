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

package storage

import "github.com/udel-rci/iptracking/errors"

const (
	ErrorUnknownBackend errors.CodeError = iota + errors.MinPkgStorage
	ErrorAlreadyRegistered
	ErrorInvalidConfig
	ErrorNotOpen
	ErrorUnsupportedOperation
	ErrorBackendOpen
	ErrorBackendClose
	ErrorLogEvent
	ErrorBlocklistEnum
	ErrorAsyncNotify
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorUnknownBackend)
	errors.RegisterIdFctMessage(ErrorUnknownBackend, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorUnknownBackend:
		return "storage: no backend registered under this name"
	case ErrorAlreadyRegistered:
		return "storage: a backend is already registered under this name"
	case ErrorInvalidConfig:
		return "storage: invalid backend configuration"
	case ErrorNotOpen:
		return "storage: backend instance is not open"
	case ErrorUnsupportedOperation:
		return "storage: operation not supported by this backend"
	case ErrorBackendOpen:
		return "storage: failed to open backend"
	case ErrorBackendClose:
		return "storage: failed to close backend"
	case ErrorLogEvent:
		return "storage: failed to persist event"
	case ErrorBlocklistEnum:
		return "storage: failed to enumerate block-list"
	case ErrorAsyncNotify:
		return "storage: failed to toggle async notification"
	}

	return ""
}
