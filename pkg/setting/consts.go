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

package setting

const ProductName = "tm4j-adapter"

// environment variable names, bound through viper
const (
	// GENERAL
	ENVTm4jURL         = "TM4J_URL"
	ENVTm4jLogin       = "TM4J_LOGIN"
	ENVTm4jPassword    = "TM4J_PASSWORD"
	ENVProjectKey      = "TM4J_PROJECT_KEY"
	ENVTestCaseFolder  = "TM4J_TESTCASE_FOLDER"
	ENVTestCycleFolder = "TM4J_TESTCYCLE_FOLDER"
	ENVKeyDelimiter    = "TM4J_KEY_DELIMITER"
	ENVExportWorkers   = "EXPORT_WORKERS"
	ENVCreationLogDir  = "CREATION_LOG_DIR"

	// NOTFOUND: auto-create toggles
	ENVCreateTestCase        = "CREATE_TESTCASE"
	ENVCreateTestCycle       = "CREATE_TESTCYCLE"
	ENVCreateTestCaseFolder  = "CREATE_TESTCASE_FOLDER"
	ENVCreateTestCycleFolder = "CREATE_TESTCYCLE_FOLDER"
	ENVCreateStep            = "CREATE_STEP"

	// EXECUTION
	ENVEnvironment   = "EXECUTION_ENV"
	ENVReporter      = "EXECUTION_REPORTER"
	ENVTestCycleName = "EXECUTION_TESTCYCLE_NAME"
	ENVJiraTaskList  = "EXECUTION_JIRA_TASKS"

	// per-format settings
	ENVJUnitPath              = "JUNIT_PATH"
	ENVJUnitLogsPath          = "JUNIT_LOGS_PATH"
	ENVJSONPath               = "JSON_PATH"
	ENVJSONUpdateTestSteps    = "JSON_UPDATE_TEST_STEPS"
	ENVJSONTestsFolder        = "JSON_TESTS_FOLDER"
	ENVRocsArtifactPath       = "ROCS_ARTIFACT_PATH"
	ENVBDDFeaturesRoot        = "BDD_FEATURES_ROOT"
	ENVBDDRepoLink            = "BDD_REPO_LINK"
	ENVBDDCopyFolderStructure = "BDD_COPY_FOLDER_STRUCTURE"
	ENVBDDParseJiraTags       = "BDD_PARSE_JIRA_TAGS"
	ENVBDDTagsToExclude       = "BDD_TAGS_TO_EXCLUDE"
	ENVBDDUpdateFeatureFiles  = "BDD_UPDATE_FEATURE_FILES"

	// LOGGING
	ENVLogLevel = "LOG_LEVEL"
	ENVLogFile  = "LOG_FILE"
)

// execution statuses as TM4J names them
const (
	StatusPass        = "Pass"
	StatusFail        = "Fail"
	StatusNotExecuted = "Not Executed"
	StatusBlocked     = "Blocked"
)

// remote folder types
const (
	FolderTypeTestCase = "TEST_CASE"
	FolderTypeTestRun  = "TEST_RUN"
)

const (
	TestCaseStatusApproved = "Approved"

	PriorityHigh   = "High"
	PriorityNormal = "Normal"
	PriorityLow    = "Low"

	ScriptTypeStepByStep = "STEP_BY_STEP"
	ParamTypeTestData    = "TEST_DATA"
	VariableTypeFreeText = "FREE_TEXT"
)

// tracelink type ids used by /tracelink/bulk/create
const (
	TraceLinkTypeWeb   = 1
	TraceLinkTypeIssue = 2
)

const (
	// names longer than this make the server answer 500
	MaxNameLength = 255

	SearchMaxResults = 10
)
