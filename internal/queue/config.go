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

package queue

import (
	"time"

	liberr "github.com/udel-rci/iptracking/errors"
)

// Config bounds the pool-growth FIFO: the records sub-tree sets the slot
// pool's starting size, growth increment and ceiling; push_wait_seconds sets
// the back-pressure sleep/retry schedule applied once the ceiling is hit.
type Config struct {
	RecordsMin   int `mapstructure:"min"   json:"min"   yaml:"min"`
	RecordsMax   int `mapstructure:"max"   json:"max"   yaml:"max"`
	RecordsDelta int `mapstructure:"delta" json:"delta" yaml:"delta"`

	PushWaitSecondsMin      time.Duration `mapstructure:"push_wait_seconds_min"      json:"push_wait_seconds_min"      yaml:"push_wait_seconds_min"`
	PushWaitSecondsMax      time.Duration `mapstructure:"push_wait_seconds_max"      json:"push_wait_seconds_max"      yaml:"push_wait_seconds_max"`
	PushWaitSecondsDelta    time.Duration `mapstructure:"push_wait_seconds_delta"    json:"push_wait_seconds_delta"    yaml:"push_wait_seconds_delta"`
	PushWaitSecondsGrowAt   int           `mapstructure:"push_wait_seconds_grow_threshold" json:"push_wait_seconds_grow_threshold" yaml:"push_wait_seconds_grow_threshold"`
}

// DefaultConfig mirrors the original daemon's compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		RecordsMin:            64,
		RecordsMax:            4096,
		RecordsDelta:          64,
		PushWaitSecondsMin:    10 * time.Millisecond,
		PushWaitSecondsMax:    2 * time.Second,
		PushWaitSecondsDelta:  10 * time.Millisecond,
		PushWaitSecondsGrowAt: 10,
	}
}

func (c Config) Validate() liberr.Error {
	if c.RecordsMin <= 0 || c.RecordsMax <= 0 || c.RecordsMin > c.RecordsMax {
		return ErrorInvalidConfig.Error()
	}

	if c.RecordsDelta <= 0 {
		return ErrorInvalidConfig.Error()
	}

	if c.PushWaitSecondsMin <= 0 || c.PushWaitSecondsMax < c.PushWaitSecondsMin {
		return ErrorInvalidConfig.Error()
	}

	if c.PushWaitSecondsDelta <= 0 || c.PushWaitSecondsGrowAt <= 0 {
		return ErrorInvalidConfig.Error()
	}

	return nil
}
