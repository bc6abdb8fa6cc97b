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

package events_test

import (
	"math"
	"time"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var tbl *events.Table

	BeforeEach(func() {
		dates := make([]time.Time, 4)
		dt := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
		for idx := range dates {
			dates[idx] = dt
			dt = dt.AddDate(0, 0, 7)
		}

		tbl = events.NewTable(dates)
		Expect(tbl.AddCharColumn("Sector", []any{"Tech", "Energy", "Tech", "Retail"})).To(Succeed())
		Expect(tbl.AddNumericColumn("t=-1", []float64{0.01, math.NaN(), 0.03, 0.04})).To(Succeed())
		Expect(tbl.AddNumericColumn("t=0", []float64{0.05, 0.06, 0.07, 0.08})).To(Succeed())
	})

	It("has rows and columns", func() {
		Expect(tbl.Len()).To(Equal(4))
		Expect(tbl.ColCount()).To(Equal(3))
	})

	It("rejects mismatched column lengths", func() {
		Expect(tbl.AddNumericColumn("bad", []float64{1})).To(MatchError(events.ErrLengthMismatch))
	})

	It("rejects duplicate column names across kinds", func() {
		Expect(tbl.AddNumericColumn("Sector", []float64{1, 2, 3, 4})).To(MatchError(events.ErrDuplicateColumn))
		Expect(tbl.AddCharColumn("t=0", []any{1, 2, 3, 4})).To(MatchError(events.ErrDuplicateColumn))
	})

	It("copies deeply", func() {
		t2 := tbl.Copy()
		t2.NumVals[1][0] = 99
		t2.Chars[0][0] = "Changed"
		Expect(tbl.NumVals[1][0]).To(Equal(0.05))
		Expect(tbl.Chars[0][0]).To(Equal("Tech"))
	})

	It("extracts a matrix with columns in requested order", func() {
		m, err := tbl.Matrix([]string{"t=0", "t=-1"})
		Expect(err).NotTo(HaveOccurred())
		rows, cols := m.Dims()
		Expect(rows).To(Equal(4))
		Expect(cols).To(Equal(2))
		Expect(m.At(0, 0)).To(Equal(0.05))
		Expect(m.At(0, 1)).To(Equal(0.01))
		Expect(math.IsNaN(m.At(1, 1))).To(BeTrue())
	})

	It("errors on unknown matrix columns", func() {
		_, err := tbl.Matrix([]string{"t=7"})
		Expect(err).To(MatchError(events.ErrColumnNotFound))
	})

	It("drops rows with missing cells and reports survivors", func() {
		t2, rows, err := tbl.DropMissing([]string{"t=-1", "t=0"})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([]int{0, 2, 3}))
		Expect(t2.Len()).To(Equal(3))
		Expect(t2.Chars[0]).To(Equal([]any{"Tech", "Tech", "Retail"}))
		Expect(tbl.Len()).To(Equal(4), "original is untouched")
	})

	It("reports columns containing missing cells", func() {
		missing, err := tbl.MissingColumns([]string{"t=-1", "t=0"})
		Expect(err).NotTo(HaveOccurred())
		Expect(missing).To(Equal([]string{"t=-1"}))
	})

	It("round-trips through JSON including missing cells", func() {
		data, err := json.Marshal(tbl)
		Expect(err).NotTo(HaveOccurred())

		t2 := &events.Table{}
		Expect(json.Unmarshal(data, t2)).To(Succeed())

		Expect(t2.Len()).To(Equal(4))
		Expect(t2.NumNames).To(Equal(tbl.NumNames))
		Expect(math.IsNaN(t2.NumVals[0][1])).To(BeTrue())
		Expect(t2.NumVals[1]).To(Equal(tbl.NumVals[1]))
	})

	It("renders an ascii table", func() {
		Expect(tbl.Table()).To(ContainSubstring("Sector"))
		Expect(events.NewTable(nil).Table()).To(Equal("<NO DATA>"))
	})
})
