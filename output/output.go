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

// Package output persists study outcomes as lz4-compressed JSON so
// visualization consumes results without recomputing windows or fits.
package output

import (
	"bytes"
	"io"
	"os"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/study"
	"github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog/log"
)

// Compress lz4-compresses a byte slice
func Compress(in []byte) ([]byte, error) {
	r := bytes.NewReader(in)
	w := &bytes.Buffer{}
	zw := lz4.NewWriter(w)
	if _, err := io.Copy(zw, r); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decompress reverses Compress
func Decompress(in []byte) ([]byte, error) {
	r := bytes.NewReader(in)
	w := &bytes.Buffer{}
	zr := lz4.NewReader(r)
	if _, err := io.Copy(w, zr); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Save writes a study outcome to path as lz4-compressed JSON.
//
// NOTE: characteristic cell values round-trip through JSON, so loading
// them back yields JSON scalar types (numbers become float64).
func Save(path string, outcome *study.Outcome) error {
	subLog := log.With().Str("Path", path).Str("StudyID", outcome.ID.String()).Logger()

	data, err := json.Marshal(outcome)
	if err != nil {
		subLog.Error().Err(err).Msg("could not marshal study outcome")
		return err
	}

	compressed, err := Compress(data)
	if err != nil {
		subLog.Error().Err(err).Msg("could not compress study outcome")
		return err
	}

	if err := os.WriteFile(path, compressed, 0600); err != nil {
		subLog.Error().Err(err).Msg("could not write study outcome")
		return err
	}

	subLog.Info().Int("RawBytes", len(data)).Int("CompressedBytes", len(compressed)).Msg("saved study outcome")
	return nil
}

// Load reads a study outcome previously written by Save
func Load(path string) (*study.Outcome, error) {
	subLog := log.With().Str("Path", path).Logger()

	compressed, err := os.ReadFile(path)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read study outcome")
		return nil, err
	}

	data, err := Decompress(compressed)
	if err != nil {
		subLog.Error().Err(err).Msg("could not decompress study outcome")
		return nil, err
	}

	outcome := &study.Outcome{}
	if err := json.Unmarshal(data, outcome); err != nil {
		subLog.Error().Err(err).Msg("could not unmarshal study outcome")
		return nil, err
	}

	return outcome, nil
}
