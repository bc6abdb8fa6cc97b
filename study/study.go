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

// Package study orchestrates the event-study pipeline: build event
// windows from a return series, resolve missingness under an explicit
// policy, fit orthogonal and independent component decompositions, and
// attach the resulting scores back onto the event table.
package study

import (
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/components"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/series"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/window"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MissingPolicy selects how NaN cells in the window submatrix are
// resolved before fitting. The fitters themselves always reject NaN, so
// there is no implicit imputation anywhere.
type MissingPolicy int

const (
	// MissingFail aborts the run if any fit cell is NaN
	MissingFail MissingPolicy = iota

	// MissingDropEvents removes events with any NaN window cell from the
	// fit; their score columns hold NaN in the output table
	MissingDropEvents

	// MissingDropOffsets removes offset columns containing any NaN from
	// the fit; loadings cover only the surviving offsets
	MissingDropOffsets
)

const (
	// PCPrefix names orthogonal score columns: PC1, PC2, ...
	PCPrefix = "PC"

	// ICPrefix names independent score columns: IC1, IC2, ...
	ICPrefix = "IC"
)

// Config describes one study run
type Config struct {
	Window        window.Config
	NumComponents int
	FitPCA        bool
	FitICA        bool

	// MinPeriods enables expanding-mean demeaning of the window columns
	// when > 0
	MinPeriods int

	Missing MissingPolicy

	// ICA overrides the default FastICA settings when non-nil
	ICA *components.FastICA
}

// ComponentOutcome holds everything produced for one decomposition
// variant
type ComponentOutcome struct {
	Loadings     *LoadingSet            `json:"loadings"`
	Diagnostics  components.Diagnostics `json:"diagnostics"`
	ScoreColumns []string               `json:"scoreColumns"`
}

// Outcome is the result of a study run: the event table augmented with
// window and score columns, plus the loading structures for each fitted
// variant. Everything is freshly computed; nothing is retained between
// runs.
type Outcome struct {
	ID            uuid.UUID         `json:"id"`
	Table         *events.Table     `json:"table"`
	WindowColumns []string          `json:"windowColumns"`
	Offsets       []int             `json:"offsets"`
	PC            *ComponentOutcome `json:"pc,omitempty"`
	IC            *ComponentOutcome `json:"ic,omitempty"`
}

// Run executes the full pipeline over immutable inputs and returns a
// fresh Outcome. The input table and series are never mutated.
func Run(tbl *events.Table, rs *series.ReturnSeries, cfg Config) (*Outcome, error) {
	if !cfg.FitPCA && !cfg.FitICA {
		return nil, ErrNothingToFit
	}

	augmented, winCols, err := window.Build(tbl, rs, cfg.Window)
	if err != nil {
		return nil, err
	}

	if cfg.MinPeriods > 0 {
		augmented, err = window.Demean(augmented, winCols, cfg.MinPeriods)
		if err != nil {
			return nil, err
		}
	}

	fitTbl, fitCols, fitRows, err := applyMissingPolicy(augmented, winCols, cfg.Missing)
	if err != nil {
		return nil, err
	}

	offsets := make([]int, len(fitCols))
	for ii := range fitCols {
		offsets[ii] = offsetOf(winCols, fitCols[ii], cfg.Window.StartWindow)
	}

	matrix, err := fitTbl.Matrix(fitCols)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		ID:            uuid.New(),
		WindowColumns: winCols,
		Offsets:       offsets,
	}

	out := augmented
	if cfg.FitPCA {
		pca := &components.PCA{}
		res, err := pca.Fit(matrix, cfg.NumComponents)
		if err != nil {
			return nil, err
		}

		var loadings *LoadingSet
		out, loadings, err = AttachScores(out, PCPrefix, offsets, res, fitRows)
		if err != nil {
			return nil, err
		}

		outcome.PC = &ComponentOutcome{
			Loadings:     loadings,
			Diagnostics:  res.Diagnostics,
			ScoreColumns: scoreColumns(PCPrefix, cfg.NumComponents),
		}

		log.Info().
			Str("StudyID", outcome.ID.String()).
			Int("NumComponents", cfg.NumComponents).
			Floats64("ExplainedVarianceRatio", res.Diagnostics.ExplainedVarianceRatio).
			Msg("fit orthogonal components")
	}

	if cfg.FitICA {
		ica := cfg.ICA
		if ica == nil {
			ica = components.NewFastICA()
		}

		res, err := ica.Fit(matrix, cfg.NumComponents)
		if err != nil {
			return nil, err
		}

		var loadings *LoadingSet
		out, loadings, err = AttachScores(out, ICPrefix, offsets, res, fitRows)
		if err != nil {
			return nil, err
		}

		outcome.IC = &ComponentOutcome{
			Loadings:     loadings,
			Diagnostics:  res.Diagnostics,
			ScoreColumns: scoreColumns(ICPrefix, cfg.NumComponents),
		}

		log.Info().
			Str("StudyID", outcome.ID.String()).
			Int("NumComponents", cfg.NumComponents).
			Int("Iterations", res.Diagnostics.Iterations).
			Msg("fit independent components")
	}

	outcome.Table = out
	return outcome, nil
}

// applyMissingPolicy returns the table, columns, and row mapping to fit
// on. fitRows is nil when every event participates in order.
func applyMissingPolicy(tbl *events.Table, winCols []string, policy MissingPolicy) (*events.Table, []string, []int, error) {
	switch policy {
	case MissingDropEvents:
		fitTbl, rows, err := tbl.DropMissing(winCols)
		if err != nil {
			return nil, nil, nil, err
		}
		if len(rows) == tbl.Len() {
			return tbl, winCols, nil, nil
		}
		log.Debug().Int("Kept", len(rows)).Int("Total", tbl.Len()).Msg("dropped events with missing window cells")
		return fitTbl, winCols, rows, nil
	case MissingDropOffsets:
		missing, err := tbl.MissingColumns(winCols)
		if err != nil {
			return nil, nil, nil, err
		}
		if len(missing) == 0 {
			return tbl, winCols, nil, nil
		}

		missingSet := make(map[string]bool, len(missing))
		for _, name := range missing {
			missingSet[name] = true
		}

		kept := make([]string, 0, len(winCols))
		for _, name := range winCols {
			if !missingSet[name] {
				kept = append(kept, name)
			}
		}

		if len(kept) == 0 {
			return nil, nil, nil, ErrNoOffsetsLeft
		}

		log.Debug().Strs("Dropped", missing).Msg("dropped offset columns with missing cells")
		return tbl, kept, nil, nil
	default:
		// MissingFail: let the fitter's NaN validation report the first
		// offending cell
		return tbl, winCols, nil, nil
	}
}

func offsetOf(winCols []string, name string, startWindow int) int {
	for ii, col := range winCols {
		if col == name {
			return startWindow + ii
		}
	}
	return 0
}

func scoreColumns(prefix string, n int) []string {
	cols := make([]string, n)
	for ii := 0; ii < n; ii++ {
		cols[ii] = ScoreColumnName(prefix, ii)
	}
	return cols
}
