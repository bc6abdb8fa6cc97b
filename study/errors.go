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

import "errors"

var (
	ErrOffsetMismatch    = errors.New("loading matrix columns must match offsets")
	ErrComponentNotFound = errors.New("component index out of range")
	ErrOffsetNotFound    = errors.New("offset not present in loading set")
	ErrScoreRowMismatch  = errors.New("score rows do not match table rows")
	ErrNothingToFit      = errors.New("at least one of pca or ica must be requested")
	ErrNoOffsetsLeft     = errors.New("missing-data policy removed every offset column")
)
