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

package daemon_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcfg "github.com/udel-rci/iptracking/internal/appconfig"
	libdmn "github.com/udel-rci/iptracking/internal/daemon"

	_ "github.com/udel-rci/iptracking/internal/storage/file"
)

var _ = Describe("NewFirewalld", func() {
	It("rejects an unregistered database driver", func() {
		cfg := libcfg.FirewalldConfig{
			CheckIntervalSeconds: 300,
			Database:             libcfg.DatabaseConfig{DriverName: "nonexistent"},
			IPSetName:            libcfg.IPSetNameConfig{ProductionName: "prod", RebuildName: "prod_update"},
		}

		_, err := libdmn.NewFirewalld(cfg, nil)
		Expect(err).ToNot(BeNil())
	})

	It("rejects a missing production ip-set name", func() {
		cfg := libcfg.FirewalldConfig{
			CheckIntervalSeconds: 300,
			Database:             libcfg.DatabaseConfig{DriverName: "file", File: libcfg.DatabaseFileConfig{Filename: "/tmp/x"}},
		}

		_, err := libdmn.NewFirewalld(cfg, nil)
		Expect(err).ToNot(BeNil())
	})

	It("accepts a fully-specified configuration", func() {
		cfg := libcfg.FirewalldConfig{
			CheckIntervalSeconds: 300,
			Database:             libcfg.DatabaseConfig{DriverName: "file", File: libcfg.DatabaseFileConfig{Filename: "/tmp/x"}},
			IPSetName:            libcfg.IPSetNameConfig{ProductionName: "prod", RebuildName: "prod_update"},
		}

		f, err := libdmn.NewFirewalld(cfg, nil)
		Expect(err).To(BeNil())
		Expect(f).ToNot(BeNil())
	})
})
