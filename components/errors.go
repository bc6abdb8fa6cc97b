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
	"errors"
	"fmt"
)

var (
	ErrInvalidComponentCount = errors.New("component count must be positive")
	ErrDidNotConverge        = errors.New("ica did not converge within the iteration limit")
	ErrFactorizationFailed   = errors.New("matrix factorization failed")
)

// DimensionalityError reports a request for more components than the
// input matrix can support
type DimensionalityError struct {
	Requested int
	Available int
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("requested %d components but only %d are available", e.Requested, e.Available)
}

// MissingValueError reports a NaN or Inf cell reaching a fitter; the
// caller must resolve missingness before fitting
type MissingValueError struct {
	Row int
	Col int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("fit input contains a missing value at row %d, column %d", e.Row, e.Col)
}
