// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"sync"

	"github.com/rs/zerolog"
)

// 📈 LogProgress writes progress lines to a zerolog logger
type LogProgress struct {
	logger *zerolog.Logger

	mu        sync.Mutex
	total     int
	processed int
}

// 🏭 NewLogProgress creates a progress reporter writing to logger
func NewLogProgress(logger *zerolog.Logger) *LogProgress {
	return &LogProgress{logger: logger}
}

func (p *LogProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.processed = 0
	p.logger.Info().Int("total", total).Msg(FormatProgress(0, total))
}

func (p *LogProgress) Advance(patient string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	p.logger.Info().
		Str("patient", patient).
		Int("processed", p.processed).
		Int("total", p.total).
		Msg(FormatProgress(p.processed, p.total))
}

func (p *LogProgress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Debug().
		Int("processed", p.processed).
		Int("total", p.total).
		Msg("progress finished")
}

// Processed returns how many units have been reported so far
func (p *LogProgress) Processed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed
}

// Nop discards progress
type Nop struct{}

func (Nop) Start(int)      {}
func (Nop) Advance(string) {}
func (Nop) Stop()          {}
