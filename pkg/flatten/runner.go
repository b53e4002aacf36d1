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
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/dcmflat/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a run
type Options struct {
	// Root holds one directory per patient
	Root string
	// Extension is matched as a case sensitive suffix of file names
	Extension string
	// Delay is slept after each moved file
	Delay time.Duration
	// Unsorted processes patients in directory order instead of by name
	Unsorted bool
	// Excludes are doublestar patterns relative to each patient directory
	Excludes []string

	Sink     Sink
	Progress Progress
	// Move overrides how a single file is moved
	Move MoveFunc
}

func (o Options) validate() error {
	if o.Root == "" {
		return errors.Errorf("root is required")
	}
	if o.Extension == "" {
		return errors.Errorf("extension is required")
	}
	if o.Delay < 0 {
		return errors.Errorf("delay must not be negative: %s", o.Delay)
	}
	if o.Sink == nil {
		return errors.Errorf("sink is required")
	}
	for _, pattern := range o.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// 📊 Summary is everything a run observed
type Summary struct {
	RunID       string
	Root        string
	Extension   string
	Patients    []PatientResult
	TotalMoved  int
	TotalBytes  int64
	Elapsed     time.Duration
	Interrupted bool
}

// 🏃 Run flattens every patient directory under opts.Root, one after the
// other. Only invalid options return an error; everything that goes wrong on
// disk is reported to the sink and the run carries on.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	start := time.Now()

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Root:      root,
		Extension: opts.Extension,
		Patients:  []PatientResult{},
	}
	ctx = zerolog.Ctx(ctx).With().Str("run_id", summary.RunID).Logger().WithContext(ctx)

	sink := opts.Sink
	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}

	relocator := NewRelocator(sink, opts.Delay)
	if opts.Move != nil {
		relocator.Move = opts.Move
	}
	processor := &Processor{
		Root:      root,
		Extension: opts.Extension,
		Excludes:  opts.Excludes,
		Sink:      sink,
		Relocator: relocator,
	}

	sink.Info(ctx, fmt.Sprintf("Moving %s files from %s with extension %s", opts.Extension, root, opts.Extension))

	patients := ListPatients(ctx, root, !opts.Unsorted, sink)

	progress.Start(len(patients))
	for _, name := range patients {
		if ctx.Err() != nil {
			break
		}

		res := processor.Process(ctx, name)
		summary.Patients = append(summary.Patients, res)
		summary.TotalMoved += res.Moved
		summary.TotalBytes += res.Bytes

		progress.Advance(name)
	}
	progress.Stop()

	if ctx.Err() != nil {
		summary.Interrupted = true
		sink.Warning(ctx, "Run interrupted; files moved so far stay where they are.")
	}

	summary.Elapsed = time.Since(start)
	sink.Info(ctx, "Execution time: "+status.FormatDuration(summary.Elapsed))
	sink.Info(ctx, fmt.Sprintf("Total %s files moved: %d", opts.Extension, summary.TotalMoved))

	return summary, nil
}
