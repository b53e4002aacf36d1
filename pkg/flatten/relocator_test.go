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
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🧪 memorySink collects move events; package log cannot be imported here
type memorySink struct {
	moves  []MoveEvent
	errors []string
}

func (s *memorySink) Info(context.Context, string)    {}
func (s *memorySink) Warning(context.Context, string) {}
func (s *memorySink) Error(_ context.Context, msg string, _ error) {
	s.errors = append(s.errors, msg)
}
func (s *memorySink) LogMove(_ context.Context, ev MoveEvent) {
	s.moves = append(s.moves, ev)
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// 🧪 newTestRelocator counts sleeps instead of sleeping
func newTestRelocator(sink Sink, delay time.Duration) (*Relocator, *[]time.Duration) {
	var sleeps []time.Duration
	r := NewRelocator(sink, delay)
	r.sleep = func(_ context.Context, d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return r, &sleeps
}

func TestRelocate(t *testing.T) {
	target := t.TempDir()
	nested := filepath.Join(target, "series", "1", "a.dcm")
	mustWrite(t, nested, "pixel data")

	sink := &memorySink{}
	r, sleeps := newTestRelocator(sink, 10*time.Millisecond)

	res := r.Relocate(context.Background(), []string{nested}, target)

	assert.Equal(t, RelocateResult{Moved: 1, Bytes: int64(len("pixel data"))}, res)
	assert.NoFileExists(t, nested, "source should be gone")

	data, err := os.ReadFile(filepath.Join(target, "a.dcm"))
	require.NoError(t, err)
	assert.Equal(t, "pixel data", string(data), "content should be preserved")

	require.Len(t, sink.moves, 1)
	assert.Equal(t, OutcomeMoved, sink.moves[0].Outcome)
	assert.Equal(t, filepath.Base(target), sink.moves[0].Patient)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, *sleeps)
}

func TestRelocateSkipsExistingDestination(t *testing.T) {
	target := t.TempDir()
	nested := filepath.Join(target, "s", "b.dcm")
	top := filepath.Join(target, "b.dcm")
	mustWrite(t, nested, "nested copy")
	mustWrite(t, top, "top copy")

	sink := &memorySink{}
	r, sleeps := newTestRelocator(sink, 10*time.Millisecond)

	res := r.Relocate(context.Background(), []string{nested}, target)

	assert.Equal(t, RelocateResult{Skipped: 1}, res)
	assert.Empty(t, *sleeps, "skips should not be paced")

	data, err := os.ReadFile(nested)
	require.NoError(t, err)
	assert.Equal(t, "nested copy", string(data), "source should be untouched")
	data, err = os.ReadFile(top)
	require.NoError(t, err)
	assert.Equal(t, "top copy", string(data), "destination should be untouched")

	require.Len(t, sink.moves, 1)
	assert.Equal(t, "File "+top+" already exists. Skipping.", sink.moves[0].Message())
}

func TestRelocateSkipsFileAlreadyInPlace(t *testing.T) {
	target := t.TempDir()
	top := filepath.Join(target, "b.dcm")
	mustWrite(t, top, "b")

	moveCalls := 0
	sink := &memorySink{}
	r, _ := newTestRelocator(sink, 0)
	r.Move = func(src, dst string) error {
		moveCalls++
		return nil
	}

	res := r.Relocate(context.Background(), []string{top}, target)

	assert.Equal(t, RelocateResult{Skipped: 1}, res)
	assert.Zero(t, moveCalls, "a file must never be moved onto itself")
	assert.FileExists(t, top)
}

func TestRelocateSkipsExistingDirectory(t *testing.T) {
	target := t.TempDir()
	nested := filepath.Join(target, "s", "c.dcm")
	mustWrite(t, nested, "c")
	require.NoError(t, os.Mkdir(filepath.Join(target, "c.dcm"), 0o755))

	r, _ := newTestRelocator(&memorySink{}, 0)
	res := r.Relocate(context.Background(), []string{nested}, target)

	assert.Equal(t, RelocateResult{Skipped: 1}, res, "any existing entry blocks the move")
	assert.FileExists(t, nested)
}

func TestRelocateContinuesAfterFailure(t *testing.T) {
	target := t.TempDir()
	first := filepath.Join(target, "s", "1.dcm")
	second := filepath.Join(target, "s", "2.dcm")
	third := filepath.Join(target, "s", "3.dcm")
	for _, p := range []string{first, second, third} {
		mustWrite(t, p, filepath.Base(p))
	}

	sink := &memorySink{}
	r, sleeps := newTestRelocator(sink, 5*time.Millisecond)
	r.Move = func(src, dst string) error {
		if src == second {
			return errors.New("disk on fire")
		}
		return MoveFile(src, dst)
	}

	res := r.Relocate(context.Background(), []string{first, second, third}, target)

	assert.Equal(t, 2, res.Moved)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, *sleeps, 2, "only successful moves are paced")
	assert.FileExists(t, filepath.Join(target, "1.dcm"))
	assert.FileExists(t, filepath.Join(target, "3.dcm"))
	assert.FileExists(t, second, "failed source should stay")

	require.Len(t, sink.moves, 3)
	assert.Equal(t, OutcomeFailed, sink.moves[1].Outcome)
	assert.Contains(t, sink.moves[1].Message(), "Error moving file "+second)
	assert.Contains(t, sink.moves[1].Message(), "disk on fire")
}

func TestRelocateVanishedSource(t *testing.T) {
	target := t.TempDir()
	gone := filepath.Join(target, "s", "gone.dcm")

	sink := &memorySink{}
	r, _ := newTestRelocator(sink, 0)
	res := r.Relocate(context.Background(), []string{gone}, target)

	assert.Equal(t, RelocateResult{Failed: 1}, res)
	require.Len(t, sink.moves, 1)
	assert.ErrorIs(t, sink.moves[0].Err, os.ErrNotExist)
}

func TestRelocateZeroDelayDoesNotSleep(t *testing.T) {
	target := t.TempDir()
	nested := filepath.Join(target, "s", "a.dcm")
	mustWrite(t, nested, "a")

	r, sleeps := newTestRelocator(&memorySink{}, 0)
	res := r.Relocate(context.Background(), []string{nested}, target)

	assert.Equal(t, 1, res.Moved)
	assert.Empty(t, *sleeps)
}

func TestRelocateStopsWhenCancelled(t *testing.T) {
	target := t.TempDir()
	first := filepath.Join(target, "s", "1.dcm")
	second := filepath.Join(target, "s", "2.dcm")
	mustWrite(t, first, "1")
	mustWrite(t, second, "2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, _ := newTestRelocator(&memorySink{}, 0)
	r.Move = func(src, dst string) error {
		cancel()
		return MoveFile(src, dst)
	}

	res := r.Relocate(ctx, []string{first, second}, target)

	assert.Equal(t, 1, res.Moved, "the move in flight completes, the rest waits")
	assert.FileExists(t, second)
}

func TestSleepContextReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Hour)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestMoveFileCrossDevice(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "s", "a.dcm")
	dst := filepath.Join(dir, "a.dcm")
	mustWrite(t, src, "cross device content")
	require.NoError(t, os.Chmod(src, 0o600))
	atime := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	mtime := time.Date(2022, 8, 9, 10, 11, 12, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, atime, mtime))

	orig := rename
	defer func() { rename = orig }()
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	require.NoError(t, MoveFile(src, dst))
	assert.NoFileExists(t, src)

	// stat before reading, reading may bump atime
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "mode should be preserved")
	assert.True(t, mtime.Equal(info.ModTime()), "mtime should be preserved, got %s", info.ModTime())
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.True(t, atime.Equal(accessTime(info)), "atime should be preserved, got %s", accessTime(info))
	}

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "cross device content", string(data))
}

func TestMoveFileCrossDeviceKeepsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "s", "a.dcm")
	dst := filepath.Join(dir, "a.dcm")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "old")

	orig := rename
	defer func() { rename = orig }()
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	require.Error(t, MoveFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "copy fallback must not replace an existing file")
	assert.FileExists(t, src)
}

func TestMoveFileOtherRenameError(t *testing.T) {
	dir := t.TempDir()
	err := MoveFile(filepath.Join(dir, "missing.dcm"), filepath.Join(dir, "x.dcm"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
