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

package cmd

import (
	"context"
	"fmt"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/common"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/components"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/loader"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/output"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/study"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/window"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	studyReturnsFile  string
	studyEventsFile   string
	studyDateColumn   string
	studyReturnColumn string
	studyStartWindow  int
	studyReturnWindow int
	studyComponents   int
	studyPCA          bool
	studyICA          bool
	studyCumulative   bool
	studyAnchorPrior  bool
	studyMinPeriods   int
	studyMissing      string
	studyOutputFile   string
	studyPrintTable   bool
	studyICASeed      int64
)

func init() {
	rootCmd.AddCommand(studyCmd)

	studyCmd.Flags().StringVar(&studyReturnsFile, "returns", "", "CSV file with the return series")
	studyCmd.Flags().StringVar(&studyEventsFile, "events", "", "CSV file with the event table")
	studyCmd.MarkFlagRequired("returns")
	studyCmd.MarkFlagRequired("events")

	studyCmd.Flags().StringVar(&studyDateColumn, "date-column", "Date", "Name of the date column in both CSV files")
	studyCmd.Flags().StringVar(&studyReturnColumn, "return-column", "Log Return", "Name of the return column in the returns CSV")
	studyCmd.Flags().IntVar(&studyStartWindow, "start-window", -45, "First offset of the event window")
	studyCmd.Flags().IntVar(&studyReturnWindow, "return-window", 45, "Last offset of the event window")
	studyCmd.Flags().IntVar(&studyComponents, "components", 3, "Number of components to fit")
	studyCmd.Flags().BoolVar(&studyPCA, "pca", true, "Fit orthogonal (variance-maximizing) components")
	studyCmd.Flags().BoolVar(&studyICA, "ica", false, "Fit independent components")
	studyCmd.Flags().BoolVar(&studyCumulative, "cumulative", false, "Use cumulative returns across the window")
	studyCmd.Flags().BoolVar(&studyAnchorPrior, "anchor-prior", false, "Anchor events at the last trading date before the event date")
	studyCmd.Flags().IntVar(&studyMinPeriods, "min-periods", 0, "Demean window columns with an expanding mean of at least this many observations (0 disables)")
	studyCmd.Flags().StringVar(&studyMissing, "missing", "drop-events", "Missing-data policy: one of fail, drop-events, drop-offsets")
	studyCmd.Flags().StringVar(&studyOutputFile, "output", "", "Save the study outcome to this file as lz4-compressed JSON")
	studyCmd.Flags().BoolVar(&studyPrintTable, "print-table", false, "Print the augmented event table")
	studyCmd.Flags().Int64Var(&studyICASeed, "ica-seed", 42, "PRNG seed for the ICA starting point")
}

var studyCmd = &cobra.Command{
	Use:   "study [flags]",
	Short: "Run an event study with component analysis",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		rs, err := loader.Returns(ctx, studyReturnsFile, studyDateColumn, studyReturnColumn)
		if err != nil {
			log.Fatal().Err(err).Str("Path", studyReturnsFile).Msg("could not load return series")
		}

		tbl, err := loader.Events(ctx, studyEventsFile, studyDateColumn)
		if err != nil {
			log.Fatal().Err(err).Str("Path", studyEventsFile).Msg("could not load event table")
		}

		var missing study.MissingPolicy
		switch studyMissing {
		case "fail":
			missing = study.MissingFail
		case "drop-events":
			missing = study.MissingDropEvents
		case "drop-offsets":
			missing = study.MissingDropOffsets
		default:
			log.Fatal().Str("Missing", studyMissing).Msg("missing policy must be one of: fail, drop-events, drop-offsets")
		}

		ica := components.NewFastICA()
		ica.Seed = studyICASeed

		cfg := study.Config{
			Window: window.Config{
				StartWindow:  studyStartWindow,
				ReturnWindow: studyReturnWindow,
				Cumulative:   studyCumulative,
				AnchorPrior:  studyAnchorPrior,
			},
			NumComponents: studyComponents,
			FitPCA:        studyPCA,
			FitICA:        studyICA,
			MinPeriods:    studyMinPeriods,
			Missing:       missing,
			ICA:           ica,
		}

		outcome, err := study.Run(tbl, rs, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("study failed")
		}

		fmt.Printf("Study ID: %s\n", outcome.ID)
		fmt.Printf("Events: %d  Window columns: %d\n", outcome.Table.Len(), len(outcome.WindowColumns))

		if studyPrintTable {
			fmt.Println(outcome.Table.Table())
		}

		if outcome.PC != nil {
			fmt.Println("\nOrthogonal components:")
			for ii, ratio := range outcome.PC.Diagnostics.ExplainedVarianceRatio {
				fmt.Printf("  %s explains %.1f%% of variance\n", outcome.PC.ScoreColumns[ii], ratio*100)
			}
			printCurves(outcome.PC)
		}

		if outcome.IC != nil {
			fmt.Printf("\nIndependent components (converged in %d iterations):\n", outcome.IC.Diagnostics.Iterations)
			printCurves(outcome.IC)
		}

		if studyOutputFile != "" {
			if err := output.Save(studyOutputFile, outcome); err != nil {
				log.Fatal().Err(err).Str("Path", studyOutputFile).Msg("could not save study outcome")
			}
			fmt.Printf("\nSaved outcome to %s\n", studyOutputFile)
		}
	},
}

func printCurves(co *study.ComponentOutcome) {
	for ii := 0; ii < co.Loadings.NumComponents(); ii++ {
		curve, err := co.Loadings.Curve(ii)
		if err != nil {
			log.Error().Err(err).Int("Component", ii).Msg("could not fetch loading curve")
			continue
		}

		fmt.Println()
		fmt.Println(asciigraph.Plot(curve,
			asciigraph.Height(8),
			asciigraph.Caption(fmt.Sprintf("%s loading by offset", co.ScoreColumns[ii]))))
	}
}
