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

package events

import (
	"math"
	"time"

	"github.com/goccy/go-json"
)

// JSON cannot represent NaN, so missing-sentinel cells are encoded as
// null and restored to NaN on load.
type tableJSON struct {
	Dates     []time.Time  `json:"dates"`
	CharNames []string     `json:"charNames"`
	Chars     [][]any      `json:"chars"`
	NumNames  []string     `json:"numNames"`
	NumVals   [][]*float64 `json:"numVals"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	enc := tableJSON{
		Dates:     t.Dates,
		CharNames: t.CharNames,
		Chars:     t.Chars,
		NumNames:  t.NumNames,
		NumVals:   make([][]*float64, len(t.NumVals)),
	}

	for colIdx, col := range t.NumVals {
		enc.NumVals[colIdx] = make([]*float64, len(col))
		for rowIdx := range col {
			if !math.IsNaN(col[rowIdx]) {
				enc.NumVals[colIdx][rowIdx] = &col[rowIdx]
			}
		}
	}

	return json.Marshal(enc)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	dec := tableJSON{}
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}

	t.Dates = dec.Dates
	t.CharNames = dec.CharNames
	t.Chars = dec.Chars
	t.NumNames = dec.NumNames
	t.NumVals = make([][]float64, len(dec.NumVals))

	for colIdx, col := range dec.NumVals {
		t.NumVals[colIdx] = make([]float64, len(col))
		for rowIdx, val := range col {
			if val == nil {
				t.NumVals[colIdx][rowIdx] = math.NaN()
			} else {
				t.NumVals[colIdx][rowIdx] = *val
			}
		}
	}

	return nil
}
