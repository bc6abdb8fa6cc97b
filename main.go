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

package main

import (
	"fmt"

	"github.com/Aman-Rana-02/Event-Studies-with-Component-Analysis/cmd"
	"github.com/spf13/viper"
)

func configureViper() {
	viper.SetConfigName("eventca")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/eventca/")
	viper.AddConfigPath("$HOME/.config/eventca")
	viper.AddConfigPath(".")

	// config file is optional; flags and env vars cover everything
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}
}

func main() {
	configureViper()
	cmd.Execute()
}
