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

package study

import (
	"fmt"
	"math"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/components"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
)

// ScoreColumnName returns the deterministic score column name for a
// component, e.g. "PC1" or "IC2". Component numbering is 1-based to
// match convention.
func ScoreColumnName(prefix string, component int) string {
	return fmt.Sprintf("%s%d", prefix, component+1)
}

// AttachScores appends one score column per fitted component to a copy
// of the table and packages the loadings keyed by (component, offset).
// The caller's table is never mutated, so repeated attaches with
// different component counts cannot alias each other.
//
// rows maps score matrix rows to table rows; when the fit ran on a
// subset of events (rows dropped by the missing-data policy), events
// outside the subset receive NaN scores. Pass nil when the fit covered
// every event in order.
func AttachScores(tbl *events.Table, prefix string, offsets []int, res *components.Result, rows []int) (*events.Table, *LoadingSet, error) {
	loadings, err := NewLoadingSet(offsets, res.Components)
	if err != nil {
		return nil, nil, err
	}

	scoreRows, nComponents := res.Scores.Dims()
	if rows == nil {
		if scoreRows != tbl.Len() {
			return nil, nil, ErrScoreRowMismatch
		}
	} else if scoreRows != len(rows) {
		return nil, nil, ErrScoreRowMismatch
	}

	out := tbl.Copy()
	for compIdx := 0; compIdx < nComponents; compIdx++ {
		col := make([]float64, tbl.Len())

		if rows == nil {
			for rowIdx := 0; rowIdx < scoreRows; rowIdx++ {
				col[rowIdx] = res.Scores.At(rowIdx, compIdx)
			}
		} else {
			for rowIdx := range col {
				col[rowIdx] = math.NaN()
			}
			for ii, rowIdx := range rows {
				col[rowIdx] = res.Scores.At(ii, compIdx)
			}
		}

		if err := out.AddNumericColumn(ScoreColumnName(prefix, compIdx), col); err != nil {
			return nil, nil, err
		}
	}

	return out, loadings, nil
}
