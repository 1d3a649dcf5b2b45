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

package ipset_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libips "github.com/udel-rci/iptracking/internal/ipset"
)

func TestIPSet(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "IPSet Suite")
}

var _ = Describe("ValidName", func() {
	It("accepts alphanumeric and underscore names", func() {
		Expect(libips.ValidName("rebuild_42")).To(BeTrue())
	})

	It("rejects names with disallowed characters", func() {
		Expect(libips.ValidName("bad-name")).To(BeFalse())
		Expect(libips.ValidName("")).To(BeFalse())
	})

	It("rejects names longer than 256 characters", func() {
		long := make([]byte, 257)
		for i := range long {
			long[i] = 'a'
		}
		Expect(libips.ValidName(string(long))).To(BeFalse())
	})
})

var _ = Describe("Session", func() {
	It("rejects operations on an invalid rebuild name", func() {
		s := libips.Init()
		Expect(s.Create("not a valid name")).ToNot(BeNil())
		Expect(s.Add("not a valid name", "10.0.0.0/24")).ToNot(BeNil())
		Expect(s.Destroy("not a valid name")).ToNot(BeNil())
	})

	It("rejects activation when rebuild and production names are equal", func() {
		s := libips.Init()
		Expect(s.Activate("same_name", "same_name")).ToNot(BeNil())
	})

	It("starts with an empty last-error message", func() {
		s := libips.Init()
		Expect(s.LastErrorMessage()).To(Equal(""))
	})
})

var _ = Describe("InitCtx", func() {
	It("gives up without blocking once ctx is already cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := libips.InitCtx(ctx, nil)
		Expect(s).ToNot(BeNil())
	})
})
