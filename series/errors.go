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

package series

import "errors"

var (
	ErrMismatchedLengths = errors.New("dates and returns must have the same length")
	ErrDatesOutOfOrder   = errors.New("dates must be strictly increasing")
	ErrNoAnchor          = errors.New("anchor date not present in return series")
	ErrOffsetOutOfRange  = errors.New("offset falls outside return series bounds")
)
