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

package config

import (
	"github.com/spf13/viper"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

// Tm4jURL is the ATM API base, e.g. https://jira.example.com/rest/atm/1.0
func Tm4jURL() string {
	return viper.GetString(setting.ENVTm4jURL)
}

func Tm4jLogin() string {
	return viper.GetString(setting.ENVTm4jLogin)
}

func Tm4jPassword() string {
	return viper.GetString(setting.ENVTm4jPassword)
}

func ProjectKey() string {
	return viper.GetString(setting.ENVProjectKey)
}

func TestCaseFolder() string {
	return viper.GetString(setting.ENVTestCaseFolder)
}

func TestCycleFolder() string {
	return viper.GetString(setting.ENVTestCycleFolder)
}

// KeyDelimiter separates a server key from the human name in scenario
// titles, e.g. "PRJ-T12_Login works".
func KeyDelimiter() string {
	d := viper.GetString(setting.ENVKeyDelimiter)
	if d == "" {
		return "_"
	}
	return d
}

func ExportWorkers() int {
	n := viper.GetInt(setting.ENVExportWorkers)
	if n <= 0 {
		return 8
	}
	return n
}

func CreationLogDir() string {
	dir := viper.GetString(setting.ENVCreationLogDir)
	if dir == "" {
		return "logs"
	}
	return dir
}

func CreateTestCase() bool {
	return viper.GetBool(setting.ENVCreateTestCase)
}

func CreateTestCycle() bool {
	return viper.GetBool(setting.ENVCreateTestCycle)
}

func CreateTestCaseFolder() bool {
	return viper.GetBool(setting.ENVCreateTestCaseFolder)
}

func CreateTestCycleFolder() bool {
	return viper.GetBool(setting.ENVCreateTestCycleFolder)
}

func CreateStep() bool {
	return viper.GetBool(setting.ENVCreateStep)
}

func Environment() string {
	return viper.GetString(setting.ENVEnvironment)
}

func Reporter() string {
	return viper.GetString(setting.ENVReporter)
}

func TestCycleName() string {
	return viper.GetString(setting.ENVTestCycleName)
}

// JiraTaskList is a comma-separated list of issues to link to a new test cycle.
func JiraTaskList() string {
	return viper.GetString(setting.ENVJiraTaskList)
}

func JUnitPath() string {
	return viper.GetString(setting.ENVJUnitPath)
}

func JUnitLogsPath() string {
	return viper.GetString(setting.ENVJUnitLogsPath)
}

func JSONPath() string {
	return viper.GetString(setting.ENVJSONPath)
}

func JSONUpdateTestSteps() bool {
	return viper.GetBool(setting.ENVJSONUpdateTestSteps)
}

func JSONTestsFolder() string {
	return viper.GetString(setting.ENVJSONTestsFolder)
}

func RocsArtifactPath() string {
	return viper.GetString(setting.ENVRocsArtifactPath)
}

func BDDFeaturesRoot() string {
	return viper.GetString(setting.ENVBDDFeaturesRoot)
}

func BDDRepoLink() string {
	return viper.GetString(setting.ENVBDDRepoLink)
}

func BDDCopyFolderStructure() bool {
	return viper.GetBool(setting.ENVBDDCopyFolderStructure)
}

func BDDParseJiraTags() bool {
	return viper.GetBool(setting.ENVBDDParseJiraTags)
}

func BDDTagsToExclude() []string {
	return viper.GetStringSlice(setting.ENVBDDTagsToExclude)
}

func BDDUpdateFeatureFiles() bool {
	return viper.GetBool(setting.ENVBDDUpdateFeatureFiles)
}

func LogLevel() string {
	level := viper.GetString(setting.ENVLogLevel)
	if level == "" {
		return "info"
	}
	return level
}

func LogFile() string {
	return viper.GetString(setting.ENVLogFile)
}
