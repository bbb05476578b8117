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
	"github.com/spf13/viper"

	"github.com/koderover/tm4j-adapter/pkg/config"
	"github.com/koderover/tm4j-adapter/pkg/parser"
	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Post pre-formatted json execution results into a test cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJSON()
	},
}

func init() {
	jsonCmd.Flags().String("path", "", "json report file or directory")
	jsonCmd.Flags().Bool("update-test-steps", false, "rewrite stored test scripts from the report's step results")
	jsonCmd.Flags().String("tests-folder", "", "folder for test cases updated in update-test-steps mode")

	_ = viper.BindPFlag(setting.ENVJSONPath, jsonCmd.Flags().Lookup("path"))
	_ = viper.BindPFlag(setting.ENVJSONUpdateTestSteps, jsonCmd.Flags().Lookup("update-test-steps"))
	_ = viper.BindPFlag(setting.ENVJSONTestsFolder, jsonCmd.Flags().Lookup("tests-folder"))

	rootCmd.AddCommand(jsonCmd)
}

func runJSON() error {
	files, err := util.ListFiles(config.JSONPath(), "json")
	if err != nil {
		return err
	}

	p := &parser.JSONParser{
		TestCycleName:   config.TestCycleName(),
		Folder:          config.TestCaseFolder(),
		CycleFolder:     config.TestCycleFolder(),
		Environment:     config.Environment(),
		UpdateTestSteps: config.JSONUpdateTestSteps(),
		TestsFolder:     config.JSONTestsFolder(),
	}
	if err := p.ReadFiles(files); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	_, err = p.Export(client)
	return err
}
