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

var junitCmd = &cobra.Command{
	Use:   "junit",
	Short: "Post junit xml execution reports into a test cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJUnit()
	},
}

func init() {
	junitCmd.Flags().String("path", "", "junit xml report file or directory")
	junitCmd.Flags().String("logs", "", "test log file attached to the cycle and mined for comments")

	_ = viper.BindPFlag(setting.ENVJUnitPath, junitCmd.Flags().Lookup("path"))
	_ = viper.BindPFlag(setting.ENVJUnitLogsPath, junitCmd.Flags().Lookup("logs"))

	rootCmd.AddCommand(junitCmd)
}

func runJUnit() error {
	files, err := util.ListFiles(config.JUnitPath(), "xml")
	if err != nil {
		return err
	}

	p := &parser.JUnitParser{
		TestCycleName: config.TestCycleName(),
		Folder:        config.TestCaseFolder(),
		CycleFolder:   config.TestCycleFolder(),
		Environment:   config.Environment(),
		Reporter:      config.Reporter(),
		LogsPath:      config.JUnitLogsPath(),
		Workers:       config.ExportWorkers(),
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
