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

package output_test

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/output"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/series"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/study"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/window"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compress", func() {
	It("round-trips arbitrary bytes", func() {
		in := []byte("the quick brown fox jumps over the lazy dog, repeatedly, " +
			"the quick brown fox jumps over the lazy dog")

		compressed, err := output.Compress(in)
		Expect(err).NotTo(HaveOccurred())

		out, err := output.Decompress(compressed)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(in))
	})
})

var _ = Describe("Save and Load", func() {
	var (
		dir     string
		outcome *study.Outcome
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "eventca-output")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		n := 120
		dates := make([]time.Time, n)
		returns := make([]float64, n)
		for ii := 0; ii < n; ii++ {
			dates[ii] = start.AddDate(0, 0, ii)
			returns[ii] = math.Sin(float64(ii)*0.7) / 10
		}
		rs, err := series.New(dates, returns)
		Expect(err).NotTo(HaveOccurred())

		// one event with no anchor so the saved table carries NaN cells
		eventDates := make([]time.Time, 0, 7)
		for _, idx := range []int{10, 25, 40, 55, 70, 85, 500} {
			eventDates = append(eventDates, start.AddDate(0, 0, idx))
		}

		outcome, err = study.Run(events.NewTable(eventDates), rs, study.Config{
			Window:        window.Config{StartWindow: -2, ReturnWindow: 2},
			NumComponents: 2,
			FitPCA:        true,
			Missing:       study.MissingDropEvents,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips a study outcome including missing cells", func() {
		path := filepath.Join(dir, "outcome.json.lz4")
		Expect(output.Save(path, outcome)).To(Succeed())

		loaded, err := output.Load(path)
		Expect(err).NotTo(HaveOccurred())

		Expect(loaded.ID).To(Equal(outcome.ID))
		Expect(loaded.WindowColumns).To(Equal(outcome.WindowColumns))
		Expect(loaded.Offsets).To(Equal(outcome.Offsets))
		Expect(loaded.PC).NotTo(BeNil())
		Expect(loaded.PC.Loadings.Curves).To(Equal(outcome.PC.Loadings.Curves))
		Expect(loaded.PC.ScoreColumns).To(Equal(outcome.PC.ScoreColumns))

		Expect(loaded.Table.Len()).To(Equal(outcome.Table.Len()))
		Expect(loaded.Table.NumNames).To(Equal(outcome.Table.NumNames))
		for colIdx := range outcome.Table.NumVals {
			for rowIdx := range outcome.Table.NumVals[colIdx] {
				want := outcome.Table.NumVals[colIdx][rowIdx]
				got := loaded.Table.NumVals[colIdx][rowIdx]
				if math.IsNaN(want) {
					Expect(math.IsNaN(got)).To(BeTrue())
				} else {
					Expect(got).To(Equal(want))
				}
			}
		}
	})

	It("writes compressed bytes, not raw json", func() {
		path := filepath.Join(dir, "outcome.json.lz4")
		Expect(output.Save(path, outcome)).To(Succeed())

		raw, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring(`"windowColumns"`))

		data, err := output.Decompress(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"windowColumns"`))
	})

	It("errors when the file does not exist", func() {
		_, err := output.Load(filepath.Join(dir, "missing.json.lz4"))
		Expect(err).To(HaveOccurred())
	})
})
