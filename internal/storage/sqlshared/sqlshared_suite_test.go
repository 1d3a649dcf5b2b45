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

package sqlshared_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libgorm "github.com/udel-rci/iptracking/database/gorm"
	libstg "github.com/udel-rci/iptracking/internal/storage"
	libsql "github.com/udel-rci/iptracking/internal/storage/sqlshared"
)

func TestSQLShared(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQL Shared Base Suite")
}

var _ = Describe("Base.Open", func() {
	It("clears a prior failure's last-error once the same instance reopens successfully", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "missing-until-created")
		dsn := filepath.Join(dir, "events.db")

		b := libsql.NewBase(libsql.Config{DSN: dsn}, libstg.Options{})

		// First attempt fails: dir does not exist yet, sqlite cannot create the file.
		if err := b.Open(libgorm.DriverSQLite); err == nil {
			Skip("sqlite accepted a DSN under a nonexistent directory in this environment")
		}
		Expect(b.LastError()).ToNot(Equal(""))
		Expect(b.Close()).To(BeNil())

		Expect(os.MkdirAll(dir, 0750)).To(Succeed())

		// Second attempt, same instance, same DSN, now succeeds.
		if err := b.Open(libgorm.DriverSQLite); err != nil {
			Skip("CGO is required for SQLite integration tests")
		}
		defer func() { _ = b.Close() }()

		Expect(b.LastError()).To(Equal(""))
	})
})
