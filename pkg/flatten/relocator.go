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
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
)

// DefaultDelay is the pause after each moved file
const DefaultDelay = 10 * time.Millisecond

// 📦 RelocateResult counts what happened to one batch of candidates
type RelocateResult struct {
	Moved   int
	Skipped int
	Failed  int
	Bytes   int64
}

// 🚚 Relocator moves candidate files into a target directory without ever
// replacing a file that is already there.
type Relocator struct {
	// Delay is slept after every successful move. Zero disables it.
	Delay time.Duration
	Sink  Sink
	// Move defaults to MoveFile
	Move MoveFunc

	sleep func(ctx context.Context, d time.Duration)
}

// 🏭 NewRelocator creates a relocator reporting to sink
func NewRelocator(sink Sink, delay time.Duration) *Relocator {
	return &Relocator{
		Delay: delay,
		Sink:  sink,
		Move:  MoveFile,
		sleep: sleepContext,
	}
}

// 🏃 Relocate moves every file into target, keeping its base name. A failure
// on one file is reported and the batch carries on. Cancelling ctx stops
// before the next file.
func (r *Relocator) Relocate(ctx context.Context, files []string, target string) RelocateResult {
	var res RelocateResult
	patient := filepath.Base(target)

	for _, src := range files {
		if ctx.Err() != nil {
			break
		}

		ev := r.relocateOne(src, target)
		ev.Patient = patient
		r.Sink.LogMove(ctx, ev)

		switch ev.Outcome {
		case OutcomeMoved:
			res.Moved++
			res.Bytes += ev.Size
			r.pause(ctx)
		case OutcomeSkippedExists:
			res.Skipped++
		default:
			res.Failed++
		}
	}

	return res
}

func (r *Relocator) relocateOne(src, target string) MoveEvent {
	dst := filepath.Join(target, filepath.Base(src))
	ev := MoveEvent{Source: src, Destination: dst}

	// a file already at the top level is its own destination
	if filepath.Clean(src) == dst {
		ev.Outcome = OutcomeSkippedExists
		return ev
	}

	if _, err := os.Lstat(dst); err == nil {
		ev.Outcome = OutcomeSkippedExists
		return ev
	} else if !errors.Is(err, fs.ErrNotExist) {
		ev.Outcome = OutcomeFailed
		ev.Err = errors.Errorf("checking destination: %w", err)
		return ev
	}

	info, err := os.Lstat(src)
	if err != nil {
		ev.Outcome = OutcomeFailed
		ev.Err = errors.Errorf("reading source: %w", err)
		return ev
	}

	move := r.Move
	if move == nil {
		move = MoveFile
	}
	if err := move(src, dst); err != nil {
		ev.Outcome = OutcomeFailed
		ev.Err = err
		return ev
	}

	ev.Outcome = OutcomeMoved
	ev.Size = info.Size()
	return ev
}

func (r *Relocator) pause(ctx context.Context) {
	if r.Delay <= 0 {
		return
	}
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	sleep(ctx, r.Delay)
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
