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

// Package loader reads return series and event tables from CSV files.
// Studies are run interactively, often several times against the same
// inputs with different component counts, so parsed return series are
// kept in a small LRU cache keyed by file path, size, and modification
// time; editing a file on disk invalidates its cache entry.
package loader

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/events"
	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/series"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

// DateFormat is the expected layout of date cells in input CSVs
const DateFormat = "2006-01-02"

var cache *lru.Cache

func init() {
	var err error
	cache, err = lru.New(32)
	if err != nil {
		log.Panic().Err(err).Msg("could not create loader cache")
	}
}

func dateConverter() imports.Converter {
	return imports.Converter{
		ConcreteType: time.Time{},
		ConverterFunc: func(in interface{}) (interface{}, error) {
			return time.Parse(DateFormat, in.(string))
		},
	}
}

// Returns loads a return series from a CSV file with a date column and a
// return column. The file must already contain computed returns (e.g.
// log returns); no transform is applied here. Results are cached, so the
// returned series must be treated as read-only.
func Returns(ctx context.Context, path string, dateCol string, returnCol string) (*series.ReturnSeries, error) {
	subLog := log.With().Str("Path", path).Logger()

	fi, err := os.Stat(path)
	if err != nil {
		subLog.Error().Err(err).Msg("could not stat returns csv")
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s|%s|%s|%d|%d", path, dateCol, returnCol, fi.Size(), fi.ModTime().UnixNano())
	if cached, ok := cache.Get(cacheKey); ok {
		return cached.(*series.ReturnSeries), nil
	}

	fh, err := os.Open(path)
	if err != nil {
		subLog.Error().Err(err).Msg("could not open returns csv")
		return nil, err
	}
	defer fh.Close()

	df, err := imports.LoadFromCSV(ctx, fh, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		DictateDataType: map[string]interface{}{
			dateCol:   dateConverter(),
			returnCol: float64(0),
		},
	})
	if err != nil {
		subLog.Error().Err(err).Msg("could not parse returns csv")
		return nil, err
	}

	dateIdx, err := df.NameToColumn(dateCol)
	if err != nil {
		subLog.Error().Err(err).Str("Column", dateCol).Msg("date column not in returns csv")
		return nil, err
	}

	retIdx, err := df.NameToColumn(returnCol)
	if err != nil {
		subLog.Error().Err(err).Str("Column", returnCol).Msg("return column not in returns csv")
		return nil, err
	}

	// blank cells come back as nil, never let them panic the assertion
	nRows := df.NRows()
	dates := make([]time.Time, nRows)
	returns := make([]float64, nRows)
	for rowIdx := 0; rowIdx < nRows; rowIdx++ {
		date, ok := df.Series[dateIdx].Value(rowIdx).(time.Time)
		if !ok {
			subLog.Error().Int("Row", rowIdx).Str("Column", dateCol).Msg("date cell is not a valid date")
			return nil, fmt.Errorf("%w: column %s, row %d", ErrMalformedCell, dateCol, rowIdx)
		}

		val, ok := df.Series[retIdx].Value(rowIdx).(float64)
		if !ok {
			subLog.Error().Int("Row", rowIdx).Str("Column", returnCol).Msg("return cell is not a number")
			return nil, fmt.Errorf("%w: column %s, row %d", ErrMalformedCell, returnCol, rowIdx)
		}

		dates[rowIdx] = date
		returns[rowIdx] = val
	}

	rs, err := series.New(dates, returns)
	if err != nil {
		return nil, err
	}

	cache.Add(cacheKey, rs)
	subLog.Debug().Int("NumRows", nRows).Msg("loaded return series")
	return rs, nil
}

// Events loads an event table from a CSV file. The named date column
// becomes the event date; every other column is carried as an untouched
// characteristic.
func Events(ctx context.Context, path string, dateCol string) (*events.Table, error) {
	subLog := log.With().Str("Path", path).Logger()

	fh, err := os.Open(path)
	if err != nil {
		subLog.Error().Err(err).Msg("could not open events csv")
		return nil, err
	}
	defer fh.Close()

	df, err := imports.LoadFromCSV(ctx, fh, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		InferDataTypes:   true,
		DictateDataType: map[string]interface{}{
			dateCol: dateConverter(),
		},
	})
	if err != nil {
		subLog.Error().Err(err).Msg("could not parse events csv")
		return nil, err
	}

	dateIdx, err := df.NameToColumn(dateCol)
	if err != nil {
		subLog.Error().Err(err).Str("Column", dateCol).Msg("date column not in events csv")
		return nil, err
	}

	nRows := df.NRows()
	dates := make([]time.Time, nRows)
	for rowIdx := 0; rowIdx < nRows; rowIdx++ {
		date, ok := df.Series[dateIdx].Value(rowIdx).(time.Time)
		if !ok {
			subLog.Error().Int("Row", rowIdx).Str("Column", dateCol).Msg("date cell is not a valid date")
			return nil, fmt.Errorf("%w: column %s, row %d", ErrMalformedCell, dateCol, rowIdx)
		}
		dates[rowIdx] = date
	}

	tbl := events.NewTable(dates)
	for colIdx, s := range df.Series {
		if colIdx == dateIdx {
			continue
		}

		vals := make([]any, nRows)
		for rowIdx := 0; rowIdx < nRows; rowIdx++ {
			vals[rowIdx] = s.Value(rowIdx)
		}

		if err := tbl.AddCharColumn(s.Name(), vals); err != nil {
			return nil, err
		}
	}

	subLog.Debug().Int("NumRows", nRows).Int("NumChars", tbl.ColCount()).Msg("loaded event table")
	return tbl, nil
}
