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
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// 📊 Bar draws a pterm progress bar with one step per patient
type Bar struct {
	writer io.Writer
	title  string
	bar    *pterm.ProgressbarPrinter
}

// 🏭 NewBar creates a progress bar that renders to w
func NewBar(w io.Writer, title string) *Bar {
	return &Bar{writer: w, title: title}
}

func (b *Bar) Start(total int) {
	if total <= 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(b.title).
		WithWriter(b.writer).
		Start()
	if err != nil {
		// the run does not depend on the bar
		return
	}
	b.bar = bar
}

func (b *Bar) Advance(patient string) {
	if b.bar == nil {
		return
	}
	b.bar.UpdateTitle(fmt.Sprintf("%s (%s)", b.title, patient))
	b.bar.Increment()
}

func (b *Bar) Stop() {
	if b.bar == nil {
		return
	}
	_, _ = b.bar.Stop()
	b.bar = nil
}
