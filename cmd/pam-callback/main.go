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

// Command pam-callback is the short-running producer of spec.md §4.H: it
// reads the PAM environment, encodes a 128-byte record, and hands it to
// pamd over a Unix socket before exiting.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	liberr "github.com/udel-rci/iptracking/errors"
	libhlp "github.com/udel-rci/iptracking/internal/helper"
	libptc "github.com/udel-rci/iptracking/network/protocol"
	libsckcli "github.com/udel-rci/iptracking/socket/client"
	sckcfg "github.com/udel-rci/iptracking/socket/config"
)

// Exit codes for the helper's distinguished phase failures (spec.md §6: "100..111
// ... for helper parse/connect/send/timeout failures"), plus the separately
// named ETIME for the alarm-expiry path.
const (
	exitParse   = 100
	exitConnect = 101
	exitEncode  = 102
	exitSend    = 103
	exitTimeout = int(syscall.ETIME)
)

func main() {
	var (
		socketPath string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "pam-callback",
		Short: "Report the current PAM event to pamd",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), socketPath, timeout)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&socketPath, "socket", "/run/iptracking/pamd.sock", "pamd Unix socket path")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "total wall-time bound for connect and send")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "pam-callback:", err)
		os.Exit(exitCodeFor(err))
	}
}

func run(ctx context.Context, socketPath string, timeout time.Duration) error {
	r, rerr := libhlp.BuildRecord(os.Getenv, int32(os.Getppid()))
	if rerr != nil {
		return rerr
	}

	cli, cerr := libsckcli.New(sckcfg.Client{
		Network: libptc.NetworkUnix,
		Address: socketPath,
	}, nil)
	if cerr != nil {
		return libhlp.ErrorConnect.Error(cerr)
	}
	defer func() { _ = cli.Close() }()

	if serr := libhlp.Send(ctx, cli, r, timeout); serr != nil {
		return serr
	}

	return nil
}

// exitCodeFor maps a helper failure to its distinguished exit code by
// phase: PARSE, CONNECT, ENCODE and SEND each get their own code in the
// 100..111 range, and an alarm expiry gets the separately named ETIME,
// ahead of the others since a timeout can be observed during any phase.
func exitCodeFor(err error) int {
	coded, ok := err.(liberr.Error)
	if !ok {
		return 1
	}

	switch {
	case coded.HasCode(libhlp.ErrorTimeout):
		return exitTimeout
	case coded.HasCode(libhlp.ErrorMissingPamType):
		return exitParse
	case coded.HasCode(libhlp.ErrorConnect):
		return exitConnect
	case coded.HasCode(libhlp.ErrorEncode):
		return exitEncode
	case coded.HasCode(libhlp.ErrorSend):
		return exitSend
	default:
		return 1
	}
}
