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
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 FindFiles returns the absolute paths of every file under dir whose name
// ends with ext. The whole subtree is read before returning, so callers may
// move the results without racing the walk. Results are sorted.
//
// Excludes are doublestar patterns matched against the slash separated path
// relative to dir. An excluded directory is not descended into.
//
// An unreadable dir yields an error and no files. Unreadable subdirectories
// are skipped and their errors are returned next to the files that were found.
func FindFiles(ctx context.Context, dir, ext string, excludes []string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", dir, err)
	}

	var files []string
	var walkErrs []error

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			walkErrs = append(walkErrs, errors.Errorf("walking %s: %w", path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != root && isExcluded(ctx, excludes, root, path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		// symlinks to directories are not followed and never moved
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	slices.Sort(files)

	if len(walkErrs) > 0 {
		return files, errors.Join(walkErrs...)
	}
	return files, nil
}

// CountTopLevel counts the non-directory entries directly inside dir whose
// name ends with ext.
func CountTopLevel(dir, ext string) (int, error) {
	entries, err := readDir(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ext) {
			count++
		}
	}
	return count, nil
}

func readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", dir, err)
	}
	return entries, nil
}

// 🚫 isExcluded reports whether path matches one of the exclude patterns
func isExcluded(ctx context.Context, patterns []string, root, path string) bool {
	if len(patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("file", rel).Str("pattern", pattern).Msg("file excluded by pattern")
			return true
		}
	}
	return false
}
