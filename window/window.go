// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
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

package window

import (
	"fmt"
	"math"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/series"
	"github.com/rs/zerolog/log"
)

// Config controls event window construction
type Config struct {
	// StartWindow is the first offset of the window, typically negative
	StartWindow int

	// ReturnWindow is the last offset of the window; must be >= StartWindow
	ReturnWindow int

	// Cumulative replaces each cell with the sum of returns from
	// StartWindow through that offset
	Cumulative bool

	// AnchorPrior anchors an event at the last trading date strictly
	// before the event date instead of requiring an exact match. Useful
	// when event dates fall on non-trading days.
	AnchorPrior bool
}

// ColumnName returns the deterministic name of the window column for a
// given offset, e.g. "t=-20" or "t=5"
func ColumnName(offset int) string {
	return fmt.Sprintf("t=%d", offset)
}

// Build constructs one window row per event: for every offset in the
// inclusive range [StartWindow, ReturnWindow], the return at the trading
// date that many positions from the event's anchor. Cells that cannot be
// resolved hold NaN; an event whose anchor is absent from the series
// yields an all-NaN row but is never dropped, so the row count of the
// table is invariant under this operation.
//
// Returns a new table with the window columns appended and the ordered
// list of generated column names.
func Build(tbl *events.Table, rs *series.ReturnSeries, cfg Config) (*events.Table, []string, error) {
	if cfg.StartWindow > cfg.ReturnWindow {
		log.Error().Int("StartWindow", cfg.StartWindow).Int("ReturnWindow", cfg.ReturnWindow).Msg("start window must not exceed return window")
		return nil, nil, ErrInvalidWindow
	}

	nOffsets := cfg.ReturnWindow - cfg.StartWindow + 1
	colNames := make([]string, nOffsets)
	cols := make([][]float64, nOffsets)
	for ii := 0; ii < nOffsets; ii++ {
		colNames[ii] = ColumnName(cfg.StartWindow + ii)
		cols[ii] = make([]float64, tbl.Len())
	}

	for rowIdx, eventDate := range tbl.Dates {
		anchorIdx := rs.IndexOf(eventDate)
		if anchorIdx == -1 && cfg.AnchorPrior {
			anchorIdx = rs.PriorIndexOf(eventDate)
		}

		if anchorIdx == -1 {
			log.Debug().Time("EventDate", eventDate).Int("Row", rowIdx).Msg("event anchor not present in return series")
			for ii := 0; ii < nOffsets; ii++ {
				cols[ii][rowIdx] = math.NaN()
			}
			continue
		}

		for ii := 0; ii < nOffsets; ii++ {
			_, val, err := rs.ResolveAt(anchorIdx, cfg.StartWindow+ii)
			if err != nil {
				cols[ii][rowIdx] = math.NaN()
				continue
			}
			cols[ii][rowIdx] = val
		}

		if cfg.Cumulative {
			sum := 0.0
			for ii := 0; ii < nOffsets; ii++ {
				sum += cols[ii][rowIdx]
				cols[ii][rowIdx] = sum
			}
		}
	}

	out := tbl.Copy()
	for ii, name := range colNames {
		if err := out.AddNumericColumn(name, cols[ii]); err != nil {
			return nil, nil, err
		}
	}

	return out, colNames, nil
}
