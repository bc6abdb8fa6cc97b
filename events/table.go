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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"
)

// Table is a row-ordered collection of events. Each event has a date,
// an open set of caller-supplied characteristic columns that are carried
// through every transform untouched, and generated numeric columns
// (window returns and component scores). Values are stored column-major
// like a dataframe:
//
//	Date        Sector   t=-1    t=0     PC1
//	2020-01-02  Tech     0.01   -0.02    1.3
//	2020-01-09  Energy   0.00    0.01   -0.7
//
// Chars[0] is the full Sector column; NumVals[1] is the full t=0 column.
// Row order is insertion order and is preserved by every operation.
type Table struct {
	Dates     []time.Time
	CharNames []string
	Chars     [][]any
	NumNames  []string
	NumVals   [][]float64
}

// NewTable creates an event table with the given event dates and no
// characteristic or numeric columns
func NewTable(dates []time.Time) *Table {
	return &Table{
		Dates:     dates,
		CharNames: []string{},
		Chars:     [][]any{},
		NumNames:  []string{},
		NumVals:   [][]float64{},
	}
}

// Len returns the number of events in the table
func (t *Table) Len() int {
	return len(t.Dates)
}

// ColCount returns the total number of columns excluding the date
func (t *Table) ColCount() int {
	return len(t.CharNames) + len(t.NumNames)
}

// Copy creates a deep copy of the table. Characteristic cell values are
// shared (they are opaque to this package); all column and row structure
// is copied so the original cannot be mutated through the copy.
func (t *Table) Copy() *Table {
	t2 := &Table{
		Dates:     make([]time.Time, len(t.Dates)),
		CharNames: make([]string, len(t.CharNames)),
		Chars:     make([][]any, len(t.Chars)),
		NumNames:  make([]string, len(t.NumNames)),
		NumVals:   make([][]float64, len(t.NumVals)),
	}

	copy(t2.Dates, t.Dates)
	copy(t2.CharNames, t.CharNames)
	copy(t2.NumNames, t.NumNames)

	for idx := range t.Chars {
		t2.Chars[idx] = make([]any, len(t.Chars[idx]))
		copy(t2.Chars[idx], t.Chars[idx])
	}

	for idx := range t.NumVals {
		t2.NumVals[idx] = make([]float64, len(t.NumVals[idx]))
		copy(t2.NumVals[idx], t.NumVals[idx])
	}

	return t2
}

// HasColumn reports whether any column (characteristic or numeric) has
// the given name
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.CharNames {
		if col == name {
			return true
		}
	}
	return t.NumColIndex(name) != -1
}

// NumColIndex returns the index of the named numeric column; -1 if the
// column doesn't exist
func (t *Table) NumColIndex(name string) int {
	for idx, col := range t.NumNames {
		if col == name {
			return idx
		}
	}
	return -1
}

// AddCharColumn appends a caller-supplied characteristic column
func (t *Table) AddCharColumn(name string, vals []any) error {
	if len(vals) != t.Len() {
		return ErrLengthMismatch
	}
	if t.HasColumn(name) {
		return ErrDuplicateColumn
	}

	t.CharNames = append(t.CharNames, name)
	t.Chars = append(t.Chars, vals)
	return nil
}

// AddNumericColumn appends a generated numeric column
func (t *Table) AddNumericColumn(name string, vals []float64) error {
	if len(vals) != t.Len() {
		return ErrLengthMismatch
	}
	if t.HasColumn(name) {
		return ErrDuplicateColumn
	}

	t.NumNames = append(t.NumNames, name)
	t.NumVals = append(t.NumVals, vals)
	return nil
}

// NumericColumn returns the values of the named numeric column
func (t *Table) NumericColumn(name string) ([]float64, error) {
	idx := t.NumColIndex(name)
	if idx == -1 {
		return nil, ErrColumnNotFound
	}
	return t.NumVals[idx], nil
}

// Matrix extracts the requested numeric columns as a dense event × column
// matrix ready for fitting. Columns appear in the order requested.
func (t *Table) Matrix(cols []string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, ErrColumnNotFound
	}

	colIdx := make([]int, len(cols))
	for ii, name := range cols {
		idx := t.NumColIndex(name)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		colIdx[ii] = idx
	}

	m := mat.NewDense(t.Len(), len(cols), nil)
	for rowIdx := 0; rowIdx < t.Len(); rowIdx++ {
		for ii, idx := range colIdx {
			m.Set(rowIdx, ii, t.NumVals[idx][rowIdx])
		}
	}

	return m, nil
}

// DropMissing returns a new table containing only rows where none of the
// named numeric columns is NaN, along with the original row indices of
// the surviving rows so callers can map results back to the full table.
func (t *Table) DropMissing(cols []string) (*Table, []int, error) {
	colIdx := make([]int, len(cols))
	for ii, name := range cols {
		idx := t.NumColIndex(name)
		if idx == -1 {
			return nil, nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		colIdx[ii] = idx
	}

	keep := make([]int, 0, t.Len())
	for rowIdx := 0; rowIdx < t.Len(); rowIdx++ {
		ok := true
		for _, idx := range colIdx {
			if math.IsNaN(t.NumVals[idx][rowIdx]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, rowIdx)
		}
	}

	return t.SelectRows(keep), keep, nil
}

// SelectRows builds a new table from the given row indices, in the given
// order
func (t *Table) SelectRows(rows []int) *Table {
	t2 := &Table{
		Dates:     make([]time.Time, len(rows)),
		CharNames: make([]string, len(t.CharNames)),
		Chars:     make([][]any, len(t.Chars)),
		NumNames:  make([]string, len(t.NumNames)),
		NumVals:   make([][]float64, len(t.NumVals)),
	}

	copy(t2.CharNames, t.CharNames)
	copy(t2.NumNames, t.NumNames)

	for ii, rowIdx := range rows {
		t2.Dates[ii] = t.Dates[rowIdx]
	}

	for colIdx := range t.Chars {
		t2.Chars[colIdx] = make([]any, len(rows))
		for ii, rowIdx := range rows {
			t2.Chars[colIdx][ii] = t.Chars[colIdx][rowIdx]
		}
	}

	for colIdx := range t.NumVals {
		t2.NumVals[colIdx] = make([]float64, len(rows))
		for ii, rowIdx := range rows {
			t2.NumVals[colIdx][ii] = t.NumVals[colIdx][rowIdx]
		}
	}

	return t2
}

// MissingColumns reports which of the named numeric columns contain at
// least one NaN
func (t *Table) MissingColumns(cols []string) ([]string, error) {
	missing := []string{}
	for _, name := range cols {
		idx := t.NumColIndex(name)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		for _, v := range t.NumVals[idx] {
			if math.IsNaN(v) {
				missing = append(missing, name)
				break
			}
		}
	}
	return missing, nil
}

// Table prints an ASCII formatted table to a string
func (t *Table) Table() string {
	if t.Len() == 0 {
		return "<NO DATA>"
	}

	tableCols := append([]string{"Date"}, t.CharNames...)
	tableCols = append(tableCols, t.NumNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", t.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false)

	for rowIdx := range t.Dates {
		row := make([]string, 0, len(tableCols))
		row = append(row, t.Dates[rowIdx].Format("2006-01-02"))
		for _, col := range t.Chars {
			row = append(row, fmt.Sprintf("%v", col[rowIdx]))
		}
		for _, col := range t.NumVals {
			row = append(row, fmt.Sprintf("%.4f", col[rowIdx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
