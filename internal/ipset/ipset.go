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

// Package ipset is a version-tolerant façade over the kernel IP-set feature:
// create/add/activate/destroy on top of vishvananda/netlink's high-level
// Ipset* calls, with rename (which that library's generic-netlink binding
// does not expose) falling back to the `ipset` command-line tool.
package ipset

import (
	"os/exec"
	"regexp"
	"sync"

	liberr "github.com/udel-rci/iptracking/errors"
	"github.com/vishvananda/netlink"
)

// SetType is the only set type the original daemon ever creates: a hash of
// network (CIDR) entries.
const SetType = "hash:net"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,256}$`)

// ValidName reports whether name satisfies the set-naming constraint shared
// by rebuild and production names.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

var moduleLoadOnce sync.Once

// Session is a handle usable across every other operation in this package.
// The zero value is ready to use; Init need only be called once per process.
type Session struct {
	mu       sync.Mutex
	lastErr  string
}

// Init loads the set-type kernel modules exactly once across the process
// (guarded by a one-shot flag shared by every Session) and returns a ready
// Session.
func Init() *Session {
	moduleLoadOnce.Do(func() {
		// vishvananda/netlink lazily loads the ip_set module family on first
		// use; a best-effort probe here surfaces a missing module early.
		_, _ = netlink.IpsetList("")
	})

	return &Session{}
}

func (s *Session) setLastErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.lastErr = ""
		return
	}

	s.lastErr = trimSpace(err.Error())
}

// LastErrorMessage returns a whitespace-trimmed description of the most
// recent failure observed through this session.
func (s *Session) LastErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}

	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Create creates a hash:net set named rebuildName. Creating a set that
// already exists is an error — the kernel's EEXIST surfaces to the caller
// unmasked, rather than silently replacing the existing set.
func (s *Session) Create(rebuildName string) liberr.Error {
	if !ValidName(rebuildName) {
		return ErrorInvalidName.Error()
	}

	if err := netlink.IpsetCreate(rebuildName, SetType, netlink.IpsetCreateOptions{}); err != nil {
		s.setLastErr(err)
		return ErrorCreate.Error(err)
	}

	return nil
}

// Add adds entity (a CIDR or bare address) to rebuildName, idempotently.
func (s *Session) Add(rebuildName, entity string) liberr.Error {
	if !ValidName(rebuildName) {
		return ErrorInvalidName.Error()
	}

	entry := &netlink.IPSetEntry{CIDR: entity}

	if err := netlink.IpsetAdd(rebuildName, entry); err != nil {
		s.setLastErr(err)
		return ErrorAdd.Error(err)
	}

	return nil
}

// Destroy destroys name. Absence of name is not treated as an error by the
// kernel's own "no such set" handling here; the underlying error, if any, is
// still returned to the caller as the contract requires.
func (s *Session) Destroy(name string) liberr.Error {
	if !ValidName(name) {
		return ErrorInvalidName.Error()
	}

	if err := netlink.IpsetDestroy(name); err != nil {
		s.setLastErr(err)
		return ErrorDestroy.Error(err)
	}

	return nil
}

// rename shells out to the ipset(8) CLI: vishvananda/netlink's generic-
// netlink binding has swap and destroy but no IPSET_CMD_RENAME wrapper.
func (s *Session) rename(from, to string) liberr.Error {
	cmd := exec.Command("ipset", "rename", from, to)

	if out, err := cmd.CombinedOutput(); err != nil {
		s.setLastErr(err)
		_ = out
		return ErrorRename.Error(err)
	}

	return nil
}

// Activate runs the atomic promotion protocol: swap rebuildName into
// prodName, falling back to a rename when prodName does not yet exist, then
// destroying whichever set now holds the stale contents.
func (s *Session) Activate(rebuildName, prodName string) liberr.Error {
	if !ValidName(rebuildName) || !ValidName(prodName) || rebuildName == prodName {
		return ErrorInvalidName.Error()
	}

	if err := netlink.IpsetSwap(rebuildName, prodName); err != nil {
		s.setLastErr(err)

		if rerr := s.rename(rebuildName, prodName); rerr != nil {
			return ErrorActivate.Error(err)
		}

		return nil
	}

	if derr := s.Destroy(rebuildName); derr != nil {
		return ErrorActivate.Error(derr)
	}

	return nil
}
