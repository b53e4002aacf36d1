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

package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/walteh/dcmflat/pkg/flatten"
	"github.com/walteh/dcmflat/pkg/status"
)

// renderSummary draws one row per patient plus a total row
func renderSummary(s *flatten.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Patient", "Before", "Moved", "Skipped", "Failed", "After", "Size"})
	for _, p := range s.Patients {
		tw.AppendRow(table.Row{
			p.Name,
			strconv.Itoa(p.Before),
			strconv.Itoa(p.Moved),
			strconv.Itoa(p.Skipped),
			strconv.Itoa(p.Failed),
			strconv.Itoa(p.After),
			humanize.Bytes(uint64(p.Bytes)),
		})
	}
	tw.AppendFooter(table.Row{
		"Total",
		"",
		strconv.Itoa(s.TotalMoved),
		"",
		"",
		"",
		humanize.Bytes(uint64(s.TotalBytes)),
	})
	tw.SetCaption("%s files in %s, %s", s.Extension, s.Root, status.FormatDuration(s.Elapsed))

	configs := make([]table.ColumnConfig, 0, 7)
	for i := 2; i <= 7; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
			AlignFooter: text.AlignRight,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
