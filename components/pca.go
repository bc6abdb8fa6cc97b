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
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// PCA is the orthogonal variance-maximizing fitter. Components are
// ordered by descending explained variance; when two singular values are
// exactly equal the components keep the order in which the SVD emits the
// corresponding singular vectors. Component signs are arbitrary.
type PCA struct{}

// Fit standardizes the input and extracts the leading nComponents
// principal directions via thin SVD. Loadings are the unit-norm right
// singular vectors; scores are the projections of the standardized rows
// onto them.
func (p *PCA) Fit(m *mat.Dense, nComponents int) (*Result, error) {
	if err := validateFitInput(m, nComponents); err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	x := standardize(m)

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		log.Error().Int("Rows", rows).Int("Cols", cols).Msg("svd factorization did not succeed")
		return nil, ErrFactorizationFailed
	}

	var v mat.Dense
	svd.VTo(&v)
	singular := svd.Values(nil)

	loadings := mat.NewDense(nComponents, cols, nil)
	for compIdx := 0; compIdx < nComponents; compIdx++ {
		for colIdx := 0; colIdx < cols; colIdx++ {
			loadings.Set(compIdx, colIdx, v.At(colIdx, compIdx))
		}
	}

	var scores mat.Dense
	scores.Mul(x, loadings.T())

	// variance explained by each retained component as a share of the
	// total variance across all singular values
	total := 0.0
	for _, s := range singular {
		total += s * s
	}

	ratio := make([]float64, nComponents)
	values := make([]float64, nComponents)
	for ii := 0; ii < nComponents; ii++ {
		values[ii] = singular[ii]
		if total > 0 {
			ratio[ii] = (singular[ii] * singular[ii]) / total
		}
	}

	return &Result{
		Components: loadings,
		Scores:     &scores,
		Diagnostics: Diagnostics{
			ExplainedVarianceRatio: ratio,
			SingularValues:         values,
		},
	}, nil
}
