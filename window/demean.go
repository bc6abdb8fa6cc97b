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
	"math"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
)

// Demean subtracts the expanding mean from each of the named numeric
// columns, row by row in table order: cell[i] -= mean(cell[0..i]). Rows
// before minPeriods observations have accumulated become NaN, as do rows
// whose own value is NaN; NaN cells do not contribute to the running
// mean. This removes slow drift in cumulative returns so the fit focuses
// on abnormal movement around the event.
//
// Returns a new table; row count is unchanged. Rows turned NaN here are
// handled by the missing-data policy before fitting.
func Demean(tbl *events.Table, cols []string, minPeriods int) (*events.Table, error) {
	if minPeriods < 1 {
		return nil, ErrInvalidMinPeriods
	}

	out := tbl.Copy()
	for _, name := range cols {
		idx := out.NumColIndex(name)
		if idx == -1 {
			return nil, events.ErrColumnNotFound
		}

		vals := out.NumVals[idx]
		sum := 0.0
		cnt := 0
		for rowIdx, v := range vals {
			if math.IsNaN(v) {
				continue
			}

			sum += v
			cnt++

			if cnt < minPeriods {
				vals[rowIdx] = math.NaN()
			} else {
				vals[rowIdx] = v - sum/float64(cnt)
			}
		}
	}

	return out, nil
}
