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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fitter decomposes an event × offset matrix into latent components.
// Implementations must reject input containing NaN (the caller owns the
// missing-data policy) and must fail before invoking the solver when the
// requested component count exceeds the available dimensionality.
//
// Sign and scale of a component are indeterminate: a component and its
// negation are equivalent fits and callers must not assume a canonical
// sign.
type Fitter interface {
	Fit(m *mat.Dense, nComponents int) (*Result, error)
}

// Result holds the output of one decomposition
type Result struct {
	// Components holds one unit-norm loading vector per row; columns are
	// aligned with the columns of the fitted matrix
	Components *mat.Dense

	// Scores is the event × component projection of each (standardized)
	// input row onto each loading vector
	Scores *mat.Dense

	// Diagnostics carries solver summary information
	Diagnostics Diagnostics
}

// Diagnostics summarizes a fit. PCA populates the variance fields; ICA
// populates the iteration fields.
type Diagnostics struct {
	ExplainedVarianceRatio []float64 `json:"explainedVarianceRatio,omitempty"`
	SingularValues         []float64 `json:"singularValues,omitempty"`
	Iterations             int       `json:"iterations,omitempty"`
	Converged              bool      `json:"converged,omitempty"`
}

// validateFitInput applies the shared fitter preconditions: a positive
// component count no larger than either dimension of the matrix, and no
// NaN or Inf anywhere in the input.
func validateFitInput(m *mat.Dense, nComponents int) error {
	if nComponents < 1 {
		return ErrInvalidComponentCount
	}

	rows, cols := m.Dims()
	if avail := min(rows, cols); nComponents > avail {
		return &DimensionalityError{Requested: nComponents, Available: avail}
	}

	for rowIdx := 0; rowIdx < rows; rowIdx++ {
		for colIdx := 0; colIdx < cols; colIdx++ {
			v := m.At(rowIdx, colIdx)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &MissingValueError{Row: rowIdx, Col: colIdx}
			}
		}
	}

	return nil
}
