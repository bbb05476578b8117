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

package tm4j

// TestCase is the TM4J test case entity. Identity is the server-assigned Key
// once it exists, or (Name, Folder) before creation.
type TestCase struct {
	ProjectKey    string      `json:"projectKey,omitempty"`
	Key           string      `json:"key,omitempty"`
	Name          string      `json:"name,omitempty"`
	Objective     string      `json:"objective,omitempty"`
	Precondition  string      `json:"precondition,omitempty"`
	Folder        string      `json:"folder,omitempty"`
	Status        string      `json:"status,omitempty"`
	Priority      string      `json:"priority,omitempty"`
	Owner         string      `json:"owner,omitempty"`
	EstimatedTime int64       `json:"estimatedTime,omitempty"`
	Component     string      `json:"component,omitempty"`
	Labels        []string    `json:"labels,omitempty"`
	IssueLinks    []string    `json:"issueLinks,omitempty"`
	Parameters    *Parameters `json:"parameters,omitempty"`
	TestScript    *TestScript `json:"testScript,omitempty"`

	// numeric id used by the tests/1.0 endpoints; fetched separately
	InternalID int `json:"-"`
}

// Parameters is the data table of a data-driven test case.
type Parameters struct {
	Variables []Variable          `json:"variables"`
	Entries   []map[string]string `json:"entries"`
}

type Variable struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TestScript is an ordered list of steps, always of type STEP_BY_STEP.
type TestScript struct {
	Type  string  `json:"type"`
	Steps []*Step `json:"steps"`
}

// Step identity within a script is its Description text; duplicates resolve
// to the first match.
type Step struct {
	Index          *int   `json:"index,omitempty"`
	ID             int    `json:"id,omitempty"`
	Description    string `json:"description"`
	TestData       string `json:"testData,omitempty"`
	ExpectedResult string `json:"expectedResult,omitempty"`
}

// TestCycle (testrun in API terms) is a container for one execution pass.
type TestCycle struct {
	ProjectKey string `json:"projectKey,omitempty"`
	Key        string `json:"key,omitempty"`
	Name       string `json:"name,omitempty"`
	Folder     string `json:"folder,omitempty"`
	Owner      string `json:"owner,omitempty"`

	InternalID int `json:"-"`
}

// ScriptResult is one step's execution outcome inside a test result post.
type ScriptResult struct {
	Index   int    `json:"index"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// StatusCode is one row of the per-project execution status table, e.g.
// {"id": 929, "name": "Pass", "isDefault": false, "projectId": 17603}.
type StatusCode struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	ProjectID int    `json:"projectId"`
}

// StatusCodeTable resolves human status names to project-scoped numeric ids.
type StatusCodeTable map[string]int

func NewStatusCodeTable(codes []*StatusCode) StatusCodeTable {
	table := make(StatusCodeTable, len(codes))
	for _, code := range codes {
		table[code.Name] = code.ID
	}
	return table
}

// StepResultUpdate is one entry of the bulk testscriptresult PUT.
type StepResultUpdate struct {
	ID                 int    `json:"id"`
	TestResultStatusID int    `json:"testResultStatusId"`
	ExecutionDate      string `json:"executionDate"`
}

type project struct {
	ID  int    `json:"id"`
	Key string `json:"key"`
}

type keyResponse struct {
	Key string `json:"key"`
}

type idResponse struct {
	ID        int `json:"id"`
	ProjectID int `json:"projectId"`
}

// testRunItem is one entry of the testrunitems listing; the dollar-prefixed
// field name is the server's, not a typo.
type testRunItem struct {
	ID             int `json:"id"`
	Index          int `json:"index"`
	LastTestResult struct {
		ID       int `json:"id"`
		TestCase struct {
			Key string `json:"key"`
		} `json:"testCase"`
	} `json:"$lastTestResult"`
}

type testResultDetails struct {
	ID                int                 `json:"id"`
	TestScriptResults []*testScriptResult `json:"testScriptResults"`
}

type testScriptResult struct {
	ID             int `json:"id"`
	Index          int `json:"index"`
	ParameterSetID int `json:"parameterSetId"`
}

type environment struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectKey  string `json:"projectKey,omitempty"`
}
