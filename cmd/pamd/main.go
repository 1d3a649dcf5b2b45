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

// Command pamd runs the authentication-event collector of spec.md §4.F: it
// accepts 128-byte records over a Unix socket, queues them, and drains the
// queue into the configured storage backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libcfg "github.com/udel-rci/iptracking/internal/appconfig"
	libdmn "github.com/udel-rci/iptracking/internal/daemon"
	liblog "github.com/udel-rci/iptracking/logger"
	loglvl "github.com/udel-rci/iptracking/logger/level"

	_ "github.com/udel-rci/iptracking/internal/storage/file"
	_ "github.com/udel-rci/iptracking/internal/storage/mysql"
	_ "github.com/udel-rci/iptracking/internal/storage/postgres"
	_ "github.com/udel-rci/iptracking/internal/storage/sqlite"
)

// pamdVersion is reported by the automatic --version flag cobra wires up
// whenever Command.Version is non-empty.
const pamdVersion = "0.1.0"

// configError marks run failures that must exit with EINVAL rather than
// the generic exit(1) cobra falls back to.
type configError struct{ err error }

func (c configError) Error() string { return c.err.Error() }
func (c configError) Unwrap() error { return c.err }

func main() {
	var (
		cfgFile        string
		verboseCount   int
		quietCount     int
		backlog        int
		pollIntervalMs int
	)

	cmd := &cobra.Command{
		Use:     "pamd",
		Short:   "Collect PAM authentication events and persist them",
		Version: pamdVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgFile, verboseCount, quietCount, backlog, pollIntervalMs)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "/etc/iptracking/pamd.yaml", "path to the pamd configuration file")
	cmd.Flags().CountVarP(&verboseCount, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.Flags().CountVarP(&quietCount, "quiet", "q", "decrease log verbosity (repeatable)")
	cmd.Flags().IntVar(&backlog, "backlog", 0, "listen backlog for the pamd socket (0 keeps the configured/OS default, must not exceed SOMAXCONN)")
	cmd.Flags().IntVar(&pollIntervalMs, "poll-interval", 0, "queue poll interval in milliseconds (0 keeps the configured default)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var cerr configError
		if errors.As(err, &cerr) {
			os.Exit(int(syscall.EINVAL))
		}

		os.Exit(1)
	}
}

func run(ctx context.Context, cfgFile string, verboseCount, quietCount, backlog, pollIntervalMs int) error {
	if backlog < 0 || backlog > syscall.SOMAXCONN {
		return configError{fmt.Errorf("pamd: --backlog must be between 0 and %d", syscall.SOMAXCONN)}
	}
	if pollIntervalMs < 0 {
		return configError{fmt.Errorf("pamd: --poll-interval must not be negative")}
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)

	if err := v.ReadInConfig(); err != nil {
		return configError{fmt.Errorf("pamd: reading configuration %q: %w", cfgFile, err)}
	}

	cfg, cerr := libcfg.LoadPamd(v)
	if cerr != nil {
		return configError{fmt.Errorf("pamd: loading configuration: %w", cerr)}
	}

	if backlog > 0 {
		cfg.Backlog = backlog
	}
	if pollIntervalMs > 0 {
		cfg.PollIntervalMs = pollIntervalMs
	}

	log := liblog.New(ctx)
	if lerr := log.SetOptions(&cfg.Logger); lerr != nil {
		return configError{fmt.Errorf("pamd: applying logger options: %w", lerr)}
	}
	log.SetLevel(verbosityLevel(verboseCount, quietCount))

	onLog := func(format string, args ...interface{}) {
		log.Info(fmt.Sprintf(format, args...), nil)
	}

	p, derr := libdmn.NewPamd(*cfg, onLog)
	if derr != nil {
		return fmt.Errorf("pamd: building daemon: %w", derr)
	}

	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("pamd: %w", err)
	}

	return nil
}

// verbosityLevel walks the level scale away from its InfoLevel default by
// one step per --verbose (toward DebugLevel) or --quiet (toward
// PanicLevel), clamped to the scale's ends.
func verbosityLevel(verboseCount, quietCount int) loglvl.Level {
	lvl := int(loglvl.InfoLevel.Int()) + verboseCount - quietCount

	if lvl < int(loglvl.PanicLevel.Int()) {
		lvl = int(loglvl.PanicLevel.Int())
	}
	if lvl > int(loglvl.DebugLevel.Int()) {
		lvl = int(loglvl.DebugLevel.Int())
	}

	return loglvl.Level(lvl)
}
