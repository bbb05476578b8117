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

package exporter

import (
	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

// PostDataDriven posts one aggregated execution into its cycle. A plain
// execution is a single result post plus an optional log attachment. A
// data-driven one additionally reconciles local rows with the
// server-assigned parameter sets and updates each row's step results.
// The whole sequence is re-enterable: a batch retry that enters halfway
// through finds the result already posted and the attachments guarded.
func PostDataDriven(client *tm4j.Client, cycle *tm4j.TestCycle, exec *TestCaseExecution) error {
	tc, err := client.FindTestCase(&tm4j.FindTestCaseOptions{
		Name: exec.Name,
		Key:  exec.Key,
	})
	if err != nil {
		return err
	}
	exec.Key = tc.Key

	opts := &tm4j.TestResultOptions{
		TestCycleKey:  exec.TestCycleKey,
		TestCaseKey:   tc.Key,
		Status:        exec.Status,
		Environment:   exec.Environment,
		Comment:       exec.Comment,
		ExecutedBy:    exec.ExecutedBy,
		IssueLinks:    exec.IssueLinks,
		ExecutionTime: exec.ExecutionTime,
		TestCase:      tc,
	}

	if !exec.HasDataRows {
		resultID, err := client.PostTestResult(opts)
		if err != nil {
			return err
		}
		if len(exec.Rows) > 0 && exec.Rows[0].LogFile != "" && !exec.Rows[0].attached {
			if err := client.AttachTestResultFile(resultID, exec.Rows[0].LogFile); err != nil {
				return err
			}
			exec.Rows[0].attached = true
		}
		return nil
	}

	itemID, lastResultID, err := findOrPostRun(client, cycle, opts)
	if err != nil {
		return err
	}
	if err := client.RefreshTestScripts(lastResultID); err != nil {
		return err
	}

	rowIDs, err := client.DataRowScriptIDs(cycle, itemID)
	if err != nil {
		return err
	}
	if err := exec.ReconcileRows(rowIDs); err != nil {
		return err
	}
	if err := client.PutStepResultUpdates(exec.StepResultUpdates()); err != nil {
		return err
	}

	for _, row := range exec.Rows {
		if row.LogFile == "" || row.attached || len(row.StepResultIDs) == 0 {
			continue
		}
		// the row log lands on the first step of the row's script
		if err := client.AttachStepResultFile(row.StepResultIDs[0], row.LogFile); err != nil {
			return err
		}
		row.attached = true
	}

	log.Infof("posted %d data row executions for testcase %s", len(exec.Rows), tc.Key)
	return nil
}

// findOrPostRun locates the cycle's run item for the test case, posting an
// initial overall result first when the case has never run in the cycle.
// One post attempt only; a lookup that still misses afterwards is a
// service-side inconsistency worth failing on.
func findOrPostRun(client *tm4j.Client, cycle *tm4j.TestCycle, opts *tm4j.TestResultOptions) (int, int, error) {
	itemID, lastResultID, err := client.TestCaseRunID(cycle, opts.TestCaseKey)
	if err != nil {
		return 0, 0, err
	}
	if itemID != 0 {
		return itemID, lastResultID, nil
	}

	if _, err := client.PostTestResult(opts); err != nil {
		return 0, 0, err
	}
	itemID, lastResultID, err = client.TestCaseRunID(cycle, opts.TestCaseKey)
	if err != nil {
		return 0, 0, err
	}
	if itemID == 0 {
		return 0, 0, errors.Errorf("cannot find %s run id in testrun %s after posting", opts.TestCaseKey, cycle.Key)
	}
	return itemID, lastResultID, nil
}
