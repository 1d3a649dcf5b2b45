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

// Command firewalld periodically rebuilds the kernel IP set from the
// storage backend's block-list projection, per spec.md §4.G.
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

// firewalldVersion is reported by the automatic --version flag cobra wires
// up whenever Command.Version is non-empty.
const firewalldVersion = "0.1.0"

// configError marks run failures that must exit with EINVAL rather than
// the generic exit(1) cobra falls back to.
type configError struct{ err error }

func (c configError) Error() string { return c.err.Error() }
func (c configError) Unwrap() error { return c.err }

func main() {
	var (
		cfgFile       string
		verboseCount  int
		quietCount    int
		checkInterval int
		ipsetProd     string
		ipsetRebuild  string
	)

	cmd := &cobra.Command{
		Use:     "firewalld",
		Short:   "Synchronize a kernel IP set with the authentication block-list",
		Version: firewalldVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgFile, verboseCount, quietCount, checkInterval, ipsetProd, ipsetRebuild)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "/etc/iptracking/firewalld.yaml", "path to the firewalld configuration file")
	cmd.Flags().CountVarP(&verboseCount, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.Flags().CountVarP(&quietCount, "quiet", "q", "decrease log verbosity (repeatable)")
	cmd.Flags().IntVar(&checkInterval, "check-interval", 0, "seconds between block-list rebuilds (0 keeps the configured default, must be >= 120)")
	cmd.Flags().StringVar(&ipsetProd, "ipset-name-production", "", "production ipset name (overrides the configured one)")
	cmd.Flags().StringVar(&ipsetRebuild, "ipset-name-rebuild", "", "staging ipset name (overrides the configured one)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var cerr configError
		if errors.As(err, &cerr) {
			os.Exit(int(syscall.EINVAL))
		}

		os.Exit(1)
	}
}

func run(ctx context.Context, cfgFile string, verboseCount, quietCount, checkInterval int, ipsetProd, ipsetRebuild string) error {
	v := viper.New()
	v.SetConfigFile(cfgFile)

	if err := v.ReadInConfig(); err != nil {
		return configError{fmt.Errorf("firewalld: reading configuration %q: %w", cfgFile, err)}
	}

	cfg, cerr := libcfg.LoadFirewalld(v)
	if cerr != nil {
		return configError{fmt.Errorf("firewalld: loading configuration: %w", cerr)}
	}

	if checkInterval > 0 {
		cfg.CheckIntervalSeconds = checkInterval
	}
	if ipsetProd != "" {
		cfg.IPSetName.ProductionName = ipsetProd
	}
	if ipsetRebuild != "" {
		cfg.IPSetName.RebuildName = ipsetRebuild
	} else if ipsetProd != "" {
		cfg.IPSetName.RebuildName = ""
		cfg.IPSetName.Resolve()
	}

	if cfg.CheckIntervalSeconds < 120 {
		return configError{fmt.Errorf("firewalld: check-interval must be >= 120 seconds, got %d", cfg.CheckIntervalSeconds)}
	}

	log := liblog.New(ctx)
	if lerr := log.SetOptions(&cfg.Logger); lerr != nil {
		return configError{fmt.Errorf("firewalld: applying logger options: %w", lerr)}
	}
	log.SetLevel(verbosityLevel(verboseCount, quietCount))

	onLog := func(format string, args ...interface{}) {
		log.Info(fmt.Sprintf(format, args...), nil)
	}

	f, derr := libdmn.NewFirewalld(*cfg, onLog)
	if derr != nil {
		return fmt.Errorf("firewalld: building daemon: %w", derr)
	}

	if err := f.Run(ctx); err != nil {
		return fmt.Errorf("firewalld: %w", err)
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
