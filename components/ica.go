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
	"math/rand"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FastICA is the independent-source fitter: symmetric FastICA with a
// logcosh contrast function over SVD-whitened input. Components are
// unranked; no explained-variance ordering exists between them. The
// iteration either reaches the tolerance within MaxIter sweeps or the
// fit fails with ErrDidNotConverge; a degraded unmixing is never
// returned.
type FastICA struct {
	// MaxIter caps the number of fixed-point sweeps
	MaxIter int

	// Tol is the convergence tolerance on the rotation between sweeps
	Tol float64

	// Seed fixes the PRNG used for the initial unmixing guess so runs
	// are reproducible
	Seed int64
}

// NewFastICA returns a FastICA fitter with the standard settings:
// 200 iterations, tolerance 1e-4, seed 42
func NewFastICA() *FastICA {
	return &FastICA{
		MaxIter: 200,
		Tol:     1e-4,
		Seed:    42,
	}
}

// Fit standardizes and whitens the input, then runs symmetric FastICA.
// Loadings are the unmixing directions mapped back to offset space and
// normalized to unit norm; scores are the projections of the
// standardized rows onto them.
func (f *FastICA) Fit(m *mat.Dense, nComponents int) (*Result, error) {
	if err := validateFitInput(m, nComponents); err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	x := standardize(m)

	// whiten via thin SVD: z = x * K has identity covariance
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		log.Error().Int("Rows", rows).Int("Cols", cols).Msg("svd factorization did not succeed")
		return nil, ErrFactorizationFailed
	}

	var v mat.Dense
	svd.VTo(&v)
	singular := svd.Values(nil)

	whiten := mat.NewDense(cols, nComponents, nil)
	for compIdx := 0; compIdx < nComponents; compIdx++ {
		if singular[compIdx] == 0 {
			log.Error().Int("Component", compIdx).Msg("degenerate input; zero singular value during whitening")
			return nil, ErrFactorizationFailed
		}
		scale := math.Sqrt(float64(rows)) / singular[compIdx]
		for colIdx := 0; colIdx < cols; colIdx++ {
			whiten.Set(colIdx, compIdx, v.At(colIdx, compIdx)*scale)
		}
	}

	var z mat.Dense
	z.Mul(x, whiten)

	// random orthonormal starting point
	rnd := rand.New(rand.NewSource(f.Seed))
	w := mat.NewDense(nComponents, nComponents, nil)
	for ii := 0; ii < nComponents; ii++ {
		for jj := 0; jj < nComponents; jj++ {
			w.Set(ii, jj, rnd.NormFloat64())
		}
	}

	w, err := symmetricDecorrelate(w)
	if err != nil {
		return nil, err
	}

	converged := false
	iterations := 0
	g := mat.NewDense(rows, nComponents, nil)
	gDerivMean := make([]float64, nComponents)

	for iter := 0; iter < f.MaxIter; iter++ {
		iterations = iter + 1

		var y mat.Dense
		y.Mul(&z, w.T())

		// logcosh contrast: g(u) = tanh(u), g'(u) = 1 - tanh²(u)
		for jj := 0; jj < nComponents; jj++ {
			gDerivMean[jj] = 0
		}
		for ii := 0; ii < rows; ii++ {
			for jj := 0; jj < nComponents; jj++ {
				th := math.Tanh(y.At(ii, jj))
				g.Set(ii, jj, th)
				gDerivMean[jj] += 1 - th*th
			}
		}
		for jj := 0; jj < nComponents; jj++ {
			gDerivMean[jj] /= float64(rows)
		}

		var gtz mat.Dense
		gtz.Mul(g.T(), &z)

		wNew := mat.NewDense(nComponents, nComponents, nil)
		for ii := 0; ii < nComponents; ii++ {
			for jj := 0; jj < nComponents; jj++ {
				wNew.Set(ii, jj, gtz.At(ii, jj)/float64(rows)-gDerivMean[ii]*w.At(ii, jj))
			}
		}

		wNew, err = symmetricDecorrelate(wNew)
		if err != nil {
			return nil, err
		}

		// rotation between sweeps; 0 when wNew == ±w rowwise
		lim := 0.0
		for ii := 0; ii < nComponents; ii++ {
			dot := floats.Dot(wNew.RawRowView(ii), w.RawRowView(ii))
			if d := math.Abs(math.Abs(dot) - 1); d > lim {
				lim = d
			}
		}

		w = wNew
		if lim < f.Tol {
			converged = true
			break
		}
	}

	if !converged {
		log.Error().Int("MaxIter", f.MaxIter).Float64("Tol", f.Tol).Msg("fastica did not converge")
		return nil, ErrDidNotConverge
	}

	// map unmixing directions back to offset space and normalize
	var unmix mat.Dense
	unmix.Mul(w, whiten.T())

	loadings := mat.NewDense(nComponents, cols, nil)
	for ii := 0; ii < nComponents; ii++ {
		row := unmix.RawRowView(ii)
		nrm := floats.Norm(row, 2)
		if nrm == 0 {
			nrm = 1
		}
		for jj := 0; jj < cols; jj++ {
			loadings.Set(ii, jj, row[jj]/nrm)
		}
	}

	var scores mat.Dense
	scores.Mul(x, loadings.T())

	return &Result{
		Components: loadings,
		Scores:     &scores,
		Diagnostics: Diagnostics{
			Iterations: iterations,
			Converged:  true,
		},
	}, nil
}

// symmetricDecorrelate replaces w with (w wᵀ)^(-1/2) w, making its rows
// orthonormal without privileging any single row
func symmetricDecorrelate(w *mat.Dense) (*mat.Dense, error) {
	n, _ := w.Dims()

	var wwt mat.Dense
	wwt.Mul(w, w.T())

	sym := mat.NewSymDense(n, nil)
	for ii := 0; ii < n; ii++ {
		for jj := ii; jj < n; jj++ {
			sym.SetSym(ii, jj, wwt.At(ii, jj))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, ErrFactorizationFailed
	}

	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	invSqrt := make([]float64, n)
	for ii, val := range vals {
		if val <= 0 {
			return nil, ErrFactorizationFailed
		}
		invSqrt[ii] = 1 / math.Sqrt(val)
	}

	var tmp, proj, out mat.Dense
	tmp.Mul(&vecs, mat.NewDiagDense(n, invSqrt))
	proj.Mul(&tmp, vecs.T())
	out.Mul(&proj, w)

	return &out, nil
}
