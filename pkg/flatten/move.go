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
	"io"
	"os"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

// MoveFunc moves src to dst
type MoveFunc func(src, dst string) error

var rename = os.Rename

// 🚚 MoveFile renames src to dst, falling back to copy+delete when the two
// paths live on different devices.
func MoveFile(src, dst string) error {
	renameErr := rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return errors.Errorf("renaming: %w", renameErr)
	}

	if err := copyFile(src, dst); err != nil {
		return errors.Errorf("copying across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}
	return nil
}

// copyFile never replaces an existing dst and removes a partial copy on
// failure. Mode and access/modification times follow the source.
func copyFile(src, dst string) (err error) {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer func() {
		if err != nil {
			destination.Close()
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}
	if err = destination.Sync(); err != nil {
		return errors.Errorf("syncing destination file: %w", err)
	}
	if err = destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}
	if err = os.Chtimes(dst, accessTime(info), info.ModTime()); err != nil {
		return errors.Errorf("setting destination times: %w", err)
	}
	return nil
}
