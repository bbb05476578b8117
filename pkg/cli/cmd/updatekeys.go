/*
Copyright 2024 The KodeRover Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/koderover/tm4j-adapter/pkg/config"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
	"github.com/koderover/tm4j-adapter/pkg/updater"
)

var updateKeysLogPath string

var updateKeysCmd = &cobra.Command{
	Use:   "update-keys",
	Short: "Inject created test case keys into feature files from the creation log",
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath := updateKeysLogPath
		if logPath == "" {
			logPath = tm4j.CreationLogPath()
		}
		return updater.UpdateAll(logPath, config.KeyDelimiter())
	},
}

func init() {
	updateKeysCmd.Flags().StringVar(&updateKeysLogPath, "creation-log", "", "creation log csv; defaults to the configured location")

	rootCmd.AddCommand(updateKeysCmd)
}
