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
	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

var rootCmd = &cobra.Command{
	Use:   "tm4j-adapter",
	Short: "Synchronize test scenarios and execution reports into TM4J",
	Long: `tm4j-adapter pushes feature scenarios and execution reports (junit, json,
rocs artifacts) into TM4J: test cases and cycles are found or created on the
fly, data-driven executions are aggregated per test case, and feature files
get annotated with the server-assigned keys.`,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("url", "", "TM4J API base url, e.g. https://jira.example.com/rest/atm/1.0")
	rootCmd.PersistentFlags().String("project", "", "TM4J project key")
	rootCmd.PersistentFlags().String("testcase-folder", "", "folder for test case lookups and creation")
	rootCmd.PersistentFlags().String("testcycle-folder", "", "folder for test cycle lookups and creation")
	rootCmd.PersistentFlags().String("testcycle", "", "test cycle name to post executions into")
	rootCmd.PersistentFlags().String("env", "", "execution environment name")
	rootCmd.PersistentFlags().String("reporter", "", "user name the executions are reported by")
	rootCmd.PersistentFlags().Int("workers", 0, "concurrent export width")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag(setting.ENVTm4jURL, rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag(setting.ENVProjectKey, rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag(setting.ENVTestCaseFolder, rootCmd.PersistentFlags().Lookup("testcase-folder"))
	_ = viper.BindPFlag(setting.ENVTestCycleFolder, rootCmd.PersistentFlags().Lookup("testcycle-folder"))
	_ = viper.BindPFlag(setting.ENVTestCycleName, rootCmd.PersistentFlags().Lookup("testcycle"))
	_ = viper.BindPFlag(setting.ENVEnvironment, rootCmd.PersistentFlags().Lookup("env"))
	_ = viper.BindPFlag(setting.ENVReporter, rootCmd.PersistentFlags().Lookup("reporter"))
	_ = viper.BindPFlag(setting.ENVExportWorkers, rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag(setting.ENVLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.AutomaticEnv()

	log.Init(&log.Config{
		Level:      config.LogLevel(),
		Filename:   config.LogFile(),
		SendToFile: config.LogFile() != "",
		NoCaller:   true,
	})
}

func newClient() (*tm4j.Client, error) {
	return tm4j.NewClient(tm4j.ConfigFromEnv())
}
