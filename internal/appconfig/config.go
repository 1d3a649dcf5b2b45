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

// Package appconfig defines the per-process configuration trees for pamd and
// firewalld: viper-loaded documents, mapstructure-decoded into validated Go
// structs, the way logger/config.Options is decoded and validated today.
package appconfig

import (
	"time"

	libval "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	liberr "github.com/udel-rci/iptracking/errors"
	libq "github.com/udel-rci/iptracking/internal/queue"
	logcfg "github.com/udel-rci/iptracking/logger/config"
)

// DatabaseConfig is the shared `database.*` subtree both processes read:
// pamd opens it for LogOneEvent, firewalld for BlocklistEnumOpen.
type DatabaseConfig struct {
	DriverName   string `mapstructure:"driver-name" validate:"required,oneof=file sqlite mysql postgres"`
	DSN          string `mapstructure:"dsn"`
	Schema       string `mapstructure:"schema"`
	NoPamLogging bool   `mapstructure:"no-pam-logging"`
	NoFirewall   bool   `mapstructure:"no-firewall"`

	File DatabaseFileConfig `mapstructure:"file"`
}

// Doc projects the decoded struct back into the generic document shape
// internal/storage.Factory expects, so internal/daemon never needs to know
// a given backend's own mapstructure keys.
func (d DatabaseConfig) Doc() map[string]interface{} {
	return map[string]interface{}{
		"dsn":       d.DSN,
		"schema":    d.Schema,
		"filename":  d.File.Filename,
		"delimiter": d.File.Delimiter,
	}
}

// DatabaseFileConfig is the `database.file.*` subtree, only meaningful when
// DriverName == "file".
type DatabaseFileConfig struct {
	Filename  string `mapstructure:"filename"`
	Delimiter string `mapstructure:"delimiter"`
}

// LogPoolConfig is the `pamd.log-pool.*` subtree, mirroring internal/queue's
// own Config field-for-field so it decodes straight off the document.
type LogPoolConfig struct {
	Records         LogPoolRecordsConfig `mapstructure:"records"`
	PushWaitSeconds LogPoolWaitConfig    `mapstructure:"push-wait-seconds"`
}

type LogPoolRecordsConfig struct {
	Min   int `mapstructure:"min" validate:"omitempty,gte=1"`
	Max   int `mapstructure:"max" validate:"omitempty,gtefield=Min"`
	Delta int `mapstructure:"delta" validate:"omitempty,gt=0"`
}

type LogPoolWaitConfig struct {
	MinMs   int `mapstructure:"min"`
	MaxMs   int `mapstructure:"max"`
	DeltaMs int `mapstructure:"delta"`
	GrowAt  int `mapstructure:"grow-threshold" validate:"omitempty,gt=0"`
}

// ToQueueConfig converts the decoded document subtree into internal/queue's
// own Config, applying internal/queue's defaults for any zero millisecond
// field so an operator can omit the wait-timing keys entirely.
func (l LogPoolConfig) ToQueueConfig() libq.Config {
	def := libq.DefaultConfig()

	cfg := libq.Config{
		RecordsMin:            l.Records.Min,
		RecordsMax:            l.Records.Max,
		RecordsDelta:          l.Records.Delta,
		PushWaitSecondsGrowAt: l.PushWaitSeconds.GrowAt,
	}

	if cfg.RecordsMin == 0 {
		cfg.RecordsMin = def.RecordsMin
	}
	if cfg.RecordsMax == 0 {
		cfg.RecordsMax = def.RecordsMax
	}
	if cfg.RecordsDelta == 0 {
		cfg.RecordsDelta = def.RecordsDelta
	}
	if cfg.PushWaitSecondsGrowAt == 0 {
		cfg.PushWaitSecondsGrowAt = def.PushWaitSecondsGrowAt
	}

	cfg.PushWaitSecondsMin = millisOrDefault(l.PushWaitSeconds.MinMs, def.PushWaitSecondsMin)
	cfg.PushWaitSecondsMax = millisOrDefault(l.PushWaitSeconds.MaxMs, def.PushWaitSecondsMax)
	cfg.PushWaitSecondsDelta = millisOrDefault(l.PushWaitSeconds.DeltaMs, def.PushWaitSecondsDelta)

	return cfg
}

// PamdConfig is the complete configuration tree for the pamd process.
type PamdConfig struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`

	SocketFile     string        `mapstructure:"socket-file" validate:"required"`
	Backlog        int           `mapstructure:"backlog"`
	PollIntervalMs int           `mapstructure:"poll-interval-ms"`
	LogPool        LogPoolConfig `mapstructure:"log-pool"`
	DebugQueue     bool          `mapstructure:"debug-queue"`

	Logger logcfg.Options `mapstructure:"logger"`
}

// FirewalldConfig is the complete configuration tree for the firewalld
// process.
type FirewalldConfig struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`

	CheckIntervalSeconds int             `mapstructure:"check-interval" validate:"min=120"`
	IPSetName            IPSetNameConfig `mapstructure:"ipset-name"`

	Logger logcfg.Options `mapstructure:"logger"`
}

// IPSetNameConfig is the `firewalld.ipset-name.*` subtree. RebuildName
// defaults to "<ProductionName>_update" when left empty but ProductionName
// is set, per spec.md §4.G's configuration constraint.
type IPSetNameConfig struct {
	ProductionName string `mapstructure:"production"`
	RebuildName    string `mapstructure:"rebuild"`
}

// Resolve applies the rebuild-name default. Call after decoding, before
// validation.
func (i *IPSetNameConfig) Resolve() {
	if i.RebuildName == "" && i.ProductionName != "" {
		i.RebuildName = i.ProductionName + "_update"
	}
}

func millisOrDefault(ms int, def time.Duration) time.Duration {
	if ms == 0 {
		return def
	}

	return time.Duration(ms) * time.Millisecond
}

func validateStruct(v interface{}) liberr.Error {
	if err := libval.New().Struct(v); err != nil {
		return ErrorConfigValidate.Error(err)
	}

	return nil
}

// LoadPamd reads a viper document already populated by the caller (file +
// env + flags, per logger's own New/NewFrom convention) into a validated
// PamdConfig.
func LoadPamd(v *viper.Viper) (*PamdConfig, liberr.Error) {
	cfg := &PamdConfig{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, ErrorConfigUnmarshal.Error(err)
	}

	if err := validateStruct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFirewalld reads a viper document into a validated FirewalldConfig.
func LoadFirewalld(v *viper.Viper) (*FirewalldConfig, liberr.Error) {
	cfg := &FirewalldConfig{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, ErrorConfigUnmarshal.Error(err)
	}

	cfg.IPSetName.Resolve()

	if err := validateStruct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
