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

	"github.com/rs/zerolog"
)

// 📋 PatientResult reports what one patient directory looked like before and
// after its files were moved.
type PatientResult struct {
	Name    string
	Before  int   // Candidates found anywhere in the subtree
	Moved   int   // Files that now sit at the top level
	Skipped int   // Candidates whose destination was taken
	Failed  int   // Candidates that could not be moved
	After   int   // Matching files found at the top level afterwards
	Bytes   int64 // Bytes moved
	Empty   bool  // No candidates were found
}

// 🧑‍⚕️ Processor flattens one patient directory at a time
type Processor struct {
	Root      string
	Extension string
	Excludes  []string
	Sink      Sink
	Relocator *Relocator
}

// 🏃 Process finds, moves and re-counts the files of one patient directory
func (p *Processor) Process(ctx context.Context, name string) PatientResult {
	ctx = zerolog.Ctx(ctx).With().Str("patient", name).Logger().WithContext(ctx)

	dir := filepath.Join(p.Root, name)
	res := PatientResult{Name: name}

	files, err := FindFiles(ctx, dir, p.Extension, p.Excludes)
	if err != nil {
		p.Sink.Error(ctx, fmt.Sprintf("%s: Error listing %s files", name, p.Extension), err)
	}

	if len(files) == 0 {
		res.Empty = true
		p.Sink.Info(ctx, fmt.Sprintf("%s: No %s files found.", name, p.Extension))
		return res
	}

	res.Before = len(files)
	p.Sink.Info(ctx, fmt.Sprintf("%s: %d %s files found before moving.", name, res.Before, p.Extension))

	moved := p.Relocator.Relocate(ctx, files, dir)
	res.Moved = moved.Moved
	res.Skipped = moved.Skipped
	res.Failed = moved.Failed
	res.Bytes = moved.Bytes

	// observed state, not derived from the counters above
	after, err := CountTopLevel(dir, p.Extension)
	if err != nil {
		p.Sink.Error(ctx, fmt.Sprintf("%s: Error counting %s files after moving", name, p.Extension), err)
	}
	res.After = after

	p.Sink.Info(ctx, fmt.Sprintf("%s: %d %s files after moving.", name, res.After, p.Extension))
	p.Sink.Info(ctx, fmt.Sprintf("%s: %d %s files were moved.", name, res.Moved, p.Extension))

	return res
}
