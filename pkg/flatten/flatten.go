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

package flatten

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

// 📊 Outcome is the result of relocating a single candidate file
type Outcome int

const (
	OutcomeMoved         Outcome = iota // File now sits at the destination
	OutcomeSkippedExists                // Destination was already taken
	OutcomeFailed                       // Move was attempted or probed and failed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeSkippedExists:
		return "skipped-exists"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 MoveEvent describes what happened to one candidate file
type MoveEvent struct {
	Patient     string  // Patient directory name
	Source      string  // Absolute source path
	Destination string  // Absolute destination path
	Outcome     Outcome // What happened
	Size        int64   // Bytes moved, zero unless moved
	Err         error   // Cause of a failure
}

// 📝 Message renders the event the way it is shown to the user
func (e MoveEvent) Message() string {
	switch e.Outcome {
	case OutcomeMoved:
		return fmt.Sprintf("Moved %s to %s (%s)", e.Source, e.Destination, humanize.Bytes(uint64(e.Size)))
	case OutcomeSkippedExists:
		return fmt.Sprintf("File %s already exists. Skipping.", e.Destination)
	default:
		return fmt.Sprintf("Error moving file %s: %v", e.Source, e.Err)
	}
}

// 📢 Sink receives leveled messages from every step of a run
type Sink interface {
	// Info reports routine progress (counts, start, totals)
	Info(ctx context.Context, msg string)
	// Warning reports something skipped or cut short
	Warning(ctx context.Context, msg string)
	// Error reports a recovered failure together with its cause
	Error(ctx context.Context, msg string, err error)
	// LogMove reports the outcome of one candidate file
	LogMove(ctx context.Context, ev MoveEvent)
}

// 📈 Progress receives one unit of work per patient directory
type Progress interface {
	Start(total int)
	Advance(patient string)
	Stop()
}

type nopProgress struct{}

func (nopProgress) Start(int)      {}
func (nopProgress) Advance(string) {}
func (nopProgress) Stop()          {}
