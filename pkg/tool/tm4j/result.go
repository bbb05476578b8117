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

import (
	"sort"
	"strconv"

	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// TestResultOptions describe one execution outcome to post.
type TestResultOptions struct {
	TestCycleKey string
	TestCaseKey  string

	Status      string
	Environment string
	Comment     string
	ExecutedBy  string
	IssueLinks  []string

	// ExecutionTime is the run duration in milliseconds.
	ExecutionTime int64

	// ScriptResults carry per-step outcomes. When empty and the test case
	// is supplied, they are derived from the overall status so the run
	// detail view is never blank.
	ScriptResults []*ScriptResult
	TestCase      *TestCase
}

// PostTestResult records one execution of a test case inside a cycle and
// returns the created test result id. An unknown execution environment is
// provisioned once and the post retried.
func (c *Client) PostTestResult(opts *TestResultOptions) (int, error) {
	if opts.TestCycleKey == "" || opts.TestCaseKey == "" {
		return 0, newError(KindInvalidValue, "testcycle and testcase keys must be set")
	}

	scriptResults := opts.ScriptResults
	if len(scriptResults) == 0 && opts.TestCase != nil {
		scriptResults = MakeScriptResults(opts.TestCase, opts.Status, opts.Comment)
	}

	// a failed step makes the whole execution a failure, whatever the
	// report claims overall
	status := opts.Status
	for _, sr := range scriptResults {
		if sr.Status == setting.StatusFail {
			status = setting.StatusFail
			break
		}
	}

	body := map[string]interface{}{
		"status":        status,
		"environment":   nilIfEmpty(opts.Environment),
		"comment":       nilIfEmpty(opts.Comment),
		"executedBy":    nilIfEmpty(opts.ExecutedBy),
		"scriptResults": scriptResults,
	}
	if len(opts.IssueLinks) > 0 {
		body["issueLinks"] = opts.IssueLinks
	}
	if opts.ExecutionTime > 0 {
		body["executionTime"] = opts.ExecutionTime
	}
	payload, err := util.StripNullValues(body)
	if err != nil {
		return 0, err
	}

	url := c.atmURL + "/testrun/" + opts.TestCycleKey + "/testcase/" + opts.TestCaseKey + "/testresult"
	created := &idResponse{}
	if err := c.do("POST", url, payload, created, true); err != nil {
		if !IsEnvironmentNotFound(err) {
			return 0, err
		}
		// repost with the server's spelling, which may differ in case only
		envName, err := c.EnsureEnvironment(opts.Environment)
		if err != nil {
			return 0, err
		}
		body["environment"] = nilIfEmpty(envName)
		payload, err = util.StripNullValues(body)
		if err != nil {
			return 0, err
		}
		if err := c.do("POST", url, payload, created, true); err != nil {
			return 0, err
		}
	}
	if created.ID == 0 {
		return 0, newError(KindServiceError, "cannot post test results for %s", opts.TestCaseKey)
	}

	log.Infof("test results posted successfully, testcase: %s, status: %s", opts.TestCaseKey, status)
	return created.ID, nil
}

// TestCaseRunID finds the cycle's run item holding the test case and
// returns (run item id, last test result id). Both are zero when the case
// has no result in the cycle yet.
func (c *Client) TestCaseRunID(cycle *TestCycle, testCaseKey string) (int, int, error) {
	if err := c.fetchTestCycleID(cycle); err != nil {
		return 0, 0, err
	}

	var items []*testRunItem
	url := c.serviceURL + "/testrun/" + strconv.Itoa(cycle.InternalID) +
		"/testrunitems?fields=id,index,issueCount,$lastTestResult"
	if err := c.do("GET", url, nil, &items, true); err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		if item.LastTestResult.TestCase.Key == testCaseKey {
			return item.ID, item.LastTestResult.ID, nil
		}
	}
	return 0, 0, nil
}

// RefreshTestScripts forces the server to rebuild the stored script of a
// test result. A data-driven case added through the testresult endpoint
// shows its script as outdated until this is called.
func (c *Client) RefreshTestScripts(testResultID int) error {
	payload := map[string]int{"id": testResultID}
	return c.do("PUT", c.serviceURL+"/testresult/"+strconv.Itoa(testResultID)+"/updatetestscripts", payload, nil, false)
}

// DataRowIDs are the step-result ids of one data row of a posted
// execution, keyed by the row's server-assigned parameter set.
type DataRowIDs struct {
	ParameterSetID int
	StepResultIDs  []int
}

// DataRowScriptIDs lists the step-result ids of the last execution of one
// run item, grouped per data row. Rows come back ordered by ascending
// parameterSetId and steps by index; the server assigns parameterSetIds in
// posting order, which is what makes positional reconciliation with local
// rows valid.
func (c *Client) DataRowScriptIDs(cycle *TestCycle, runItemID int) ([]*DataRowIDs, error) {
	if err := c.fetchTestCycleID(cycle); err != nil {
		return nil, err
	}

	var executions []*testResultDetails
	url := c.serviceURL + "/testrun/" + strconv.Itoa(cycle.InternalID) +
		"/testresults?fields=id,testResultStatusId,testScriptResults(id,testResultStatusId,comment,index,sourceScriptType,parameterSetId),traceLinks&itemId=" +
		strconv.Itoa(runItemID)
	if err := c.do("GET", url, nil, &executions, true); err != nil {
		return nil, err
	}
	if len(executions) == 0 {
		return nil, newError(KindInvalidValue, "no last execution found for run item %d", runItemID)
	}

	groups := map[int][]*testScriptResult{}
	for _, sr := range executions[0].TestScriptResults {
		// rows of a plain scripted case carry no parameterSetId
		if sr.ParameterSetID == 0 {
			continue
		}
		groups[sr.ParameterSetID] = append(groups[sr.ParameterSetID], sr)
	}
	if len(groups) == 0 {
		return nil, newError(KindObjectNotFound, "no data table rows found for run item %d", runItemID)
	}

	setIDs := make([]int, 0, len(groups))
	for id := range groups {
		setIDs = append(setIDs, id)
	}
	sort.Ints(setIDs)

	rows := make([]*DataRowIDs, 0, len(setIDs))
	for _, setID := range setIDs {
		steps := groups[setID]
		sort.Slice(steps, func(i, j int) bool { return steps[i].Index < steps[j].Index })
		ids := make([]int, 0, len(steps))
		for _, s := range steps {
			ids = append(ids, s.ID)
		}
		rows = append(rows, &DataRowIDs{ParameterSetID: setID, StepResultIDs: ids})
	}
	return rows, nil
}

// PutStepResultUpdates bulk-updates step execution results.
func (c *Client) PutStepResultUpdates(updates []*StepResultUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return c.do("PUT", c.serviceURL+"/testscriptresult/", updates, nil, false)
}

// MakeScriptResults derives per-step outcomes from one overall status: a
// pass marks every step passed, a failure marks only the first step so the
// run detail points at where to start looking. Other statuses post no step
// outcomes.
func MakeScriptResults(tc *TestCase, status, comment string) []*ScriptResult {
	if tc == nil || tc.TestScript == nil || len(tc.TestScript.Steps) == 0 {
		return nil
	}
	switch status {
	case setting.StatusPass:
		results := make([]*ScriptResult, 0, len(tc.TestScript.Steps))
		for i := range tc.TestScript.Steps {
			results = append(results, &ScriptResult{Index: i, Status: setting.StatusPass, Comment: comment})
		}
		return results
	case setting.StatusFail:
		return []*ScriptResult{{Index: 0, Status: setting.StatusFail, Comment: comment}}
	default:
		return nil
	}
}

// StatusID resolves a status name against the project table, falling back
// to Not Executed for names the project does not define.
func (t StatusCodeTable) StatusID(name string) int {
	if id, ok := t[name]; ok {
		return id
	}
	return t[setting.StatusNotExecuted]
}
