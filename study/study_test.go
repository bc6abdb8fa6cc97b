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

package study_test

import (
	"errors"
	"math"
	"time"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/components"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/series"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/study"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/window"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var seriesStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// makeSeries builds a deterministic daily return series of n days with
// enough variation that event windows are not collinear
func makeSeries(n int) *series.ReturnSeries {
	dates := make([]time.Time, n)
	returns := make([]float64, n)
	for ii := 0; ii < n; ii++ {
		dates[ii] = seriesStart.AddDate(0, 0, ii)
		returns[ii] = (math.Sin(float64(ii)*0.7) + 0.3*math.Cos(float64(ii)*1.9)) / 10
	}

	rs, err := series.New(dates, returns)
	Expect(err).NotTo(HaveOccurred())
	return rs
}

// makeEvents builds an event table with one event per series index
func makeEvents(indices ...int) *events.Table {
	dates := make([]time.Time, len(indices))
	for ii, idx := range indices {
		dates[ii] = seriesStart.AddDate(0, 0, idx)
	}
	return events.NewTable(dates)
}

// spreadEvents returns n event indices spread over the interior of a
// series of the given length
func spreadEvents(n, seriesLen int) []int {
	indices := make([]int, n)
	for ii := 0; ii < n; ii++ {
		indices[ii] = 10 + ii*(seriesLen-20)/n
	}
	return indices
}

var _ = Describe("Run", func() {
	var (
		rs  *series.ReturnSeries
		cfg study.Config
	)

	BeforeEach(func() {
		rs = makeSeries(365)
		cfg = study.Config{
			Window:        window.Config{StartWindow: -2, ReturnWindow: 2},
			NumComponents: 2,
			FitPCA:        true,
			Missing:       study.MissingDropEvents,
		}
	})

	It("requires at least one fit variant", func() {
		cfg.FitPCA = false
		_, err := study.Run(makeEvents(spreadEvents(10, 365)...), rs, cfg)
		Expect(err).To(MatchError(study.ErrNothingToFit))
	})

	It("augments the table without touching the input", func() {
		tbl := makeEvents(spreadEvents(10, 365)...)

		outcome, err := study.Run(tbl, rs, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(tbl.ColCount()).To(Equal(0), "input table is immutable")
		Expect(outcome.Table.Len()).To(Equal(10))
		// 5 window columns plus PC1 and PC2
		Expect(outcome.Table.ColCount()).To(Equal(7))
		Expect(outcome.WindowColumns).To(Equal([]string{"t=-2", "t=-1", "t=0", "t=1", "t=2"}))
		Expect(outcome.Offsets).To(Equal([]int{-2, -1, 0, 1, 2}))
		Expect(outcome.PC).NotTo(BeNil())
		Expect(outcome.IC).To(BeNil())
		Expect(outcome.PC.ScoreColumns).To(Equal([]string{"PC1", "PC2"}))
		Expect(outcome.PC.Loadings.NumComponents()).To(Equal(2))
		Expect(outcome.PC.Diagnostics.ExplainedVarianceRatio).To(HaveLen(2))
	})

	Context("when one event has no anchor in the series", func() {
		var tbl *events.Table

		BeforeEach(func() {
			indices := spreadEvents(9, 365)
			tbl = makeEvents(append(indices, 1000)...)
		})

		It("drops the event from the fit but keeps its row", func() {
			outcome, err := study.Run(tbl, rs, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Table.Len()).To(Equal(10), "row count is invariant")

			pc1 := outcome.Table.NumVals[outcome.Table.NumColIndex("PC1")]
			Expect(math.IsNaN(pc1[9])).To(BeTrue(), "unfitted event scores NaN")
			for ii := 0; ii < 9; ii++ {
				Expect(math.IsNaN(pc1[ii])).To(BeFalse())
			}
		})

		It("aborts under the fail policy naming the first NaN cell", func() {
			cfg.Missing = study.MissingFail

			var missErr *components.MissingValueError
			_, err := study.Run(tbl, rs, cfg)
			Expect(errors.As(err, &missErr)).To(BeTrue())
			Expect(missErr.Row).To(Equal(9))
		})
	})

	Context("when an event sits too close to the series start", func() {
		It("drops the offending offset columns under the drop-offsets policy", func() {
			indices := spreadEvents(9, 365)
			tbl := makeEvents(append([]int{1}, indices...)...)
			cfg.Missing = study.MissingDropOffsets

			outcome, err := study.Run(tbl, rs, cfg)
			Expect(err).NotTo(HaveOccurred())

			// offset -2 runs off the series edge for the event at index 1
			Expect(outcome.Offsets).To(Equal([]int{-1, 0, 1, 2}))
			Expect(outcome.PC.Loadings.Offsets).To(Equal([]int{-1, 0, 1, 2}))

			// every event is fitted, so no score is NaN
			pc1 := outcome.Table.NumVals[outcome.Table.NumColIndex("PC1")]
			for _, v := range pc1 {
				Expect(math.IsNaN(v)).To(BeFalse())
			}
		})
	})

	It("demeans window columns before fitting when MinPeriods is set", func() {
		cfg.MinPeriods = 2
		tbl := makeEvents(spreadEvents(10, 365)...)

		outcome, err := study.Run(tbl, rs, cfg)
		Expect(err).NotTo(HaveOccurred())

		// the first row never reaches two observations and is dropped from
		// the fit, so its scores are NaN while its row survives
		Expect(outcome.Table.Len()).To(Equal(10))
		pc1 := outcome.Table.NumVals[outcome.Table.NumColIndex("PC1")]
		Expect(math.IsNaN(pc1[0])).To(BeTrue())
		Expect(math.IsNaN(pc1[1])).To(BeFalse())
	})

	It("fits independent components alongside orthogonal ones", func() {
		cfg.FitICA = true
		tbl := makeEvents(spreadEvents(40, 365)...)

		outcome, err := study.Run(tbl, rs, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(outcome.PC).NotTo(BeNil())
		Expect(outcome.IC).NotTo(BeNil())
		Expect(outcome.IC.ScoreColumns).To(Equal([]string{"IC1", "IC2"}))
		Expect(outcome.IC.Diagnostics.Converged).To(BeTrue())

		// 5 window columns, 2 PC columns, 2 IC columns
		Expect(outcome.Table.ColCount()).To(Equal(9))
	})

	It("propagates window validation errors", func() {
		cfg.Window = window.Config{StartWindow: 3, ReturnWindow: -3}
		_, err := study.Run(makeEvents(50), rs, cfg)
		Expect(err).To(MatchError(window.ErrInvalidWindow))
	})

	It("propagates dimensionality errors from the fitter", func() {
		cfg.NumComponents = 6

		var dimErr *components.DimensionalityError
		_, err := study.Run(makeEvents(spreadEvents(10, 365)...), rs, cfg)
		Expect(errors.As(err, &dimErr)).To(BeTrue())
		Expect(dimErr.Available).To(Equal(5))
	})
})

var _ = Describe("LoadingSet", func() {
	var ls *study.LoadingSet

	BeforeEach(func() {
		ls = &study.LoadingSet{
			Offsets: []int{-1, 0, 1},
			Curves:  [][]float64{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		}
	})

	It("looks up curves by component", func() {
		curve, err := ls.Curve(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(curve).To(Equal([]float64{0.4, 0.5, 0.6}))

		_, err = ls.Curve(2)
		Expect(err).To(MatchError(study.ErrComponentNotFound))
	})

	It("looks up single weights by component and offset", func() {
		w, err := ls.Weight(0, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(0.3))

		_, err = ls.Weight(0, 7)
		Expect(err).To(MatchError(study.ErrOffsetNotFound))

		_, err = ls.Weight(-1, 0)
		Expect(err).To(MatchError(study.ErrComponentNotFound))
	})
})
