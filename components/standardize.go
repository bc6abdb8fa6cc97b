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

package components

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// standardize z-scores every column of m (population standard deviation)
// and returns a new matrix. Constant columns are centered but not scaled.
// Both fitters standardize so that offsets with larger return variance do
// not dominate the decomposition.
func standardize(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)

	col := make([]float64, rows)
	for colIdx := 0; colIdx < cols; colIdx++ {
		mat.Col(col, colIdx, m)
		mu := stat.Mean(col, nil)
		sigma := stat.PopStdDev(col, nil)
		if sigma == 0 {
			sigma = 1
		}

		for rowIdx := 0; rowIdx < rows; rowIdx++ {
			out.Set(rowIdx, colIdx, (col[rowIdx]-mu)/sigma)
		}
	}

	return out
}
