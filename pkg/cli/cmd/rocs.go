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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/koderover/tm4j-adapter/pkg/config"
	"github.com/koderover/tm4j-adapter/pkg/parser"
	"github.com/koderover/tm4j-adapter/pkg/setting"
)

var rocsTestCycleKey string

var rocsCmd = &cobra.Command{
	Use:   "rocs",
	Short: "Post a rocs artifacts zip as data-driven executions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRocs()
	},
}

func init() {
	rocsCmd.Flags().String("artifact", "", "path to the artifacts zip")
	rocsCmd.Flags().String("jira-tasks", "", "comma-separated issues to link to a new cycle")
	rocsCmd.Flags().StringVar(&rocsTestCycleKey, "testcycle-key", "", "existing test cycle key to reuse")

	_ = viper.BindPFlag(setting.ENVRocsArtifactPath, rocsCmd.Flags().Lookup("artifact"))
	_ = viper.BindPFlag(setting.ENVJiraTaskList, rocsCmd.Flags().Lookup("jira-tasks"))

	rootCmd.AddCommand(rocsCmd)
}

func runRocs() error {
	client, err := newClient()
	if err != nil {
		return err
	}

	p := &parser.RocsParser{
		ArtifactPath:  config.RocsArtifactPath(),
		TestCycleName: config.TestCycleName(),
		TestCycleKey:  rocsTestCycleKey,
		CycleFolder:   config.TestCycleFolder(),
		Environment:   config.Environment(),
		Reporter:      config.Reporter(),
		IssueKeys:     splitList(config.JiraTaskList()),
		KeyDelimiter:  config.KeyDelimiter(),
		Workers:       config.ExportWorkers(),
	}
	if err := p.ReadArtifact(client); err != nil {
		return err
	}
	_, err = p.Export(client)
	return err
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
