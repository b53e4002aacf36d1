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
	"os"
	"path/filepath"
	"slices"

	"gitlab.com/tozd/go/errors"
)

// 📂 ListPatients returns the names of the directories directly under root.
// Failures are reported to the sink and produce an empty list.
func ListPatients(ctx context.Context, root string, sorted bool, sink Sink) []string {
	names, err := readPatientDirs(root)
	if err != nil {
		sink.Error(ctx, "Error listing patient directories", err)
		return []string{}
	}

	sink.Info(ctx, fmt.Sprintf("Found %d patient directories.", len(names)))

	if sorted {
		slices.Sort(names)
	}
	return names
}

// readPatientDirs keeps directory order as returned by the filesystem
func readPatientDirs(root string) ([]string, error) {
	f, err := os.Open(root)
	if err != nil {
		return nil, errors.Errorf("opening root %s: %w", root, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, errors.Errorf("reading root %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		// symlinks count when they resolve to a directory
		info, err := os.Stat(filepath.Join(root, entry.Name()))
		if err == nil && info.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
