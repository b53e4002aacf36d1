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

package log

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/dcmflat/pkg/flatten"
)

var _ flatten.Sink = (*Recorder)(nil)

// 📼 Entry is one message captured by a Recorder
type Entry struct {
	Level   zerolog.Level
	Message string
	Err     error
	Move    *flatten.MoveEvent
}

// 📼 Recorder keeps every message in memory
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// 🏭 NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) Info(_ context.Context, msg string) {
	r.add(Entry{Level: zerolog.InfoLevel, Message: msg})
}

func (r *Recorder) Warning(_ context.Context, msg string) {
	r.add(Entry{Level: zerolog.WarnLevel, Message: msg})
}

func (r *Recorder) Error(_ context.Context, msg string, err error) {
	r.add(Entry{Level: zerolog.ErrorLevel, Message: msg, Err: err})
}

func (r *Recorder) LogMove(_ context.Context, ev flatten.MoveEvent) {
	level := zerolog.ErrorLevel
	switch ev.Outcome {
	case flatten.OutcomeMoved:
		level = zerolog.DebugLevel
	case flatten.OutcomeSkippedExists:
		level = zerolog.WarnLevel
	}
	r.add(Entry{Level: level, Message: ev.Message(), Err: ev.Err, Move: &ev})
}

// Entries returns a copy of everything recorded so far
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the messages recorded at level
func (r *Recorder) Messages(level zerolog.Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Moves returns the recorded move events with the given outcome
func (r *Recorder) Moves(outcome flatten.Outcome) []flatten.MoveEvent {
	var out []flatten.MoveEvent
	for _, e := range r.Entries() {
		if e.Move != nil && e.Move.Outcome == outcome {
			out = append(out, *e.Move)
		}
	}
	return out
}

// Contains reports whether any message contains substr
func (r *Recorder) Contains(substr string) bool {
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
