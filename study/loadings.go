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
	"gonum.org/v1/gonum/mat"
)

// LoadingSet packages fitted loadings keyed by component index and
// offset, in a form visualization can consume without recomputing
// anything: Curves[i] is component i's loading across Offsets, in
// offset order.
type LoadingSet struct {
	Offsets []int       `json:"offsets"`
	Curves  [][]float64 `json:"curves"`
}

// NewLoadingSet copies the component × offset loading matrix into a
// LoadingSet over the given offsets (one offset per matrix column)
func NewLoadingSet(offsets []int, components *mat.Dense) (*LoadingSet, error) {
	rows, cols := components.Dims()
	if cols != len(offsets) {
		return nil, ErrOffsetMismatch
	}

	curves := make([][]float64, rows)
	for ii := 0; ii < rows; ii++ {
		curves[ii] = make([]float64, cols)
		mat.Row(curves[ii], ii, components)
	}

	return &LoadingSet{
		Offsets: offsets,
		Curves:  curves,
	}, nil
}

// NumComponents returns the number of components in the set
func (ls *LoadingSet) NumComponents() int {
	return len(ls.Curves)
}

// Curve returns component i's loading across all offsets, in offset
// order
func (ls *LoadingSet) Curve(component int) ([]float64, error) {
	if component < 0 || component >= len(ls.Curves) {
		return nil, ErrComponentNotFound
	}
	return ls.Curves[component], nil
}

// Weight returns the loading of a single (component, offset) pair
func (ls *LoadingSet) Weight(component int, offset int) (float64, error) {
	if component < 0 || component >= len(ls.Curves) {
		return 0, ErrComponentNotFound
	}

	for ii, k := range ls.Offsets {
		if k == offset {
			return ls.Curves[component][ii], nil
		}
	}

	return 0, ErrOffsetNotFound
}
