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

package series

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// ReturnSeries stores pre-computed returns for a single instrument,
// one value per trading date. Dates are strictly increasing and unique;
// gaps (weekends, holidays, missing data) are allowed. All offset
// arithmetic is positional within the series ordering, never calendar-day
// arithmetic.
type ReturnSeries struct {
	Dates   []time.Time
	Returns []float64
}

// New builds a ReturnSeries from parallel date and return slices. The
// dates must be strictly increasing; violations are reported rather than
// silently reordered since a mis-sorted series corrupts every offset
// lookup downstream.
func New(dates []time.Time, returns []float64) (*ReturnSeries, error) {
	if len(dates) != len(returns) {
		log.Error().Int("NumDates", len(dates)).Int("NumReturns", len(returns)).Msg("dates and returns must have the same length")
		return nil, ErrMismatchedLengths
	}

	for idx := 1; idx < len(dates); idx++ {
		if !dates[idx-1].Before(dates[idx]) {
			log.Error().Time("Prev", dates[idx-1]).Time("Curr", dates[idx]).Int("Row", idx).Msg("dates must be strictly increasing")
			return nil, ErrDatesOutOfOrder
		}
	}

	return &ReturnSeries{
		Dates:   dates,
		Returns: returns,
	}, nil
}

// Len returns the number of trading dates in the series
func (rs *ReturnSeries) Len() int {
	return len(rs.Dates)
}

// Start returns the first date of the series; zero time if empty
func (rs *ReturnSeries) Start() time.Time {
	if len(rs.Dates) == 0 {
		return time.Time{}
	}
	return rs.Dates[0]
}

// End returns the last date of the series; zero time if empty
func (rs *ReturnSeries) End() time.Time {
	if len(rs.Dates) == 0 {
		return time.Time{}
	}
	return rs.Dates[len(rs.Dates)-1]
}

// IndexOf returns the position of the exact date within the series, or
// -1 when the date is not present. There is no nearest-date fallback.
func (rs *ReturnSeries) IndexOf(date time.Time) int {
	idx := sort.Search(len(rs.Dates), func(i int) bool {
		return !rs.Dates[i].Before(date)
	})

	if idx < len(rs.Dates) && rs.Dates[idx].Equal(date) {
		return idx
	}

	return -1
}

// PriorIndexOf returns the position of the last date strictly before the
// given date, or -1 when no such date exists. Used by the opt-in
// prior-anchor mode where event dates may fall on non-trading days.
func (rs *ReturnSeries) PriorIndexOf(date time.Time) int {
	idx := sort.Search(len(rs.Dates), func(i int) bool {
		return !rs.Dates[i].Before(date)
	})

	return idx - 1
}

// Resolve finds the return at the trading date that is offset positions
// from the anchor in series order. Offset may be negative, zero, or
// positive. An absent anchor fails the whole resolution with ErrNoAnchor;
// an offset that walks off either end of the series fails only that
// offset with ErrOffsetOutOfRange.
func (rs *ReturnSeries) Resolve(anchor time.Time, offset int) (time.Time, float64, error) {
	anchorIdx := rs.IndexOf(anchor)
	if anchorIdx == -1 {
		return time.Time{}, 0, ErrNoAnchor
	}

	return rs.ResolveAt(anchorIdx, offset)
}

// ResolveAt is the positional form of Resolve for callers that already
// hold the anchor's index and are walking many offsets from it.
func (rs *ReturnSeries) ResolveAt(anchorIdx int, offset int) (time.Time, float64, error) {
	if anchorIdx < 0 || anchorIdx >= len(rs.Dates) {
		return time.Time{}, 0, ErrNoAnchor
	}

	pos := anchorIdx + offset
	if pos < 0 || pos >= len(rs.Dates) {
		return time.Time{}, 0, ErrOffsetOutOfRange
	}

	return rs.Dates[pos], rs.Returns[pos], nil
}
