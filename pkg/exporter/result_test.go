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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

var testStatusCodes = []*tm4j.StatusCode{
	{ID: 101, Name: setting.StatusPass},
	{ID: 102, Name: setting.StatusFail},
	{ID: 103, Name: setting.StatusNotExecuted},
	{ID: 104, Name: setting.StatusBlocked},
}

func TestHasDataRows(t *testing.T) {
	codes := tm4j.NewStatusCodeTable(testStatusCodes)

	t.Run("single unnumbered row is a plain execution", func(t *testing.T) {
		exec := &TestCaseExecution{}
		exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))
		assert.False(t, exec.HasDataRows)
	})

	t.Run("single numbered row is data-driven", func(t *testing.T) {
		exec := &TestCaseExecution{}
		row := NewDataRowResult(setting.StatusPass, codes)
		row.Index = 1
		exec.AppendRow(row)
		assert.True(t, exec.HasDataRows)
	})

	t.Run("two rows are data-driven", func(t *testing.T) {
		exec := &TestCaseExecution{}
		exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))
		exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))
		assert.True(t, exec.HasDataRows)
		assert.Equal(t, 0, exec.Rows[0].Index)
		assert.Equal(t, 1, exec.Rows[1].Index)
	})
}

func TestStatusAggregation(t *testing.T) {
	codes := tm4j.NewStatusCodeTable(testStatusCodes)
	exec := &TestCaseExecution{}

	exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))
	assert.Equal(t, setting.StatusPass, exec.Status)

	exec.AppendRow(NewDataRowResult(setting.StatusFail, codes))
	assert.Equal(t, setting.StatusFail, exec.Status)

	// a later pass does not mask the earlier failure
	exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))
	assert.Equal(t, setting.StatusFail, exec.Status)
}

func TestAddResultMergesByName(t *testing.T) {
	results := NewExecutionResults(testStatusCodes)

	first := results.AddResult(&Record{Name: "Login works", Status: setting.StatusPass, ExecutionTime: 1200, ExampleRow: 1})
	second := results.AddResult(&Record{Name: "Login works", Status: setting.StatusFail, ExecutionTime: 800, ExampleRow: 2})
	results.AddResult(&Record{Name: "Logout works", Status: setting.StatusPass, ExecutionTime: 300})

	assert.Same(t, first, second)
	assert.Equal(t, 2, results.Len())
	assert.Len(t, first.Rows, 2)
	assert.Equal(t, int64(2000), first.ExecutionTime)
	assert.Equal(t, setting.StatusFail, first.Status)
	assert.True(t, first.HasDataRows)
	assert.Equal(t, 1, first.Rows[0].Index)
	assert.Equal(t, 2, first.Rows[1].Index)
}

func TestAddResultMergesByKey(t *testing.T) {
	results := NewExecutionResults(testStatusCodes)

	first := results.AddResult(&Record{Key: "PRJ-T7", Name: "Login works", Status: setting.StatusPass})
	second := results.AddResult(&Record{Key: "PRJ-T7", Name: "renamed since", Status: setting.StatusPass})

	assert.Same(t, first, second)
	assert.Equal(t, 1, results.Len())
}

func TestReconcileRows(t *testing.T) {
	codes := tm4j.NewStatusCodeTable(testStatusCodes)
	exec := &TestCaseExecution{}
	exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))
	exec.AppendRow(NewDataRowResult(setting.StatusFail, codes))

	err := exec.ReconcileRows([]*tm4j.DataRowIDs{
		{ParameterSetID: 9543, StepResultIDs: []int{1, 2}},
		{ParameterSetID: 9544, StepResultIDs: []int{3, 4}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 9543, exec.Rows[0].ParameterSetID)
	assert.Equal(t, 9544, exec.Rows[1].ParameterSetID)
	assert.Equal(t, []int{3, 4}, exec.Rows[1].StepResultIDs)

	updates := exec.StepResultUpdates()
	assert.Len(t, updates, 4)
	assert.Equal(t, 3, updates[2].ID)
	assert.Equal(t, 102, updates[2].TestResultStatusID)
}

func TestReconcileRowsCountMismatch(t *testing.T) {
	codes := tm4j.NewStatusCodeTable(testStatusCodes)
	exec := &TestCaseExecution{Name: "Login works"}
	exec.AppendRow(NewDataRowResult(setting.StatusPass, codes))

	err := exec.ReconcileRows([]*tm4j.DataRowIDs{
		{ParameterSetID: 9543},
		{ParameterSetID: 9544},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row reconciliation mismatch")
	// rows stay untouched on mismatch
	assert.Equal(t, 0, exec.Rows[0].ParameterSetID)
}

func TestDataRowResultEqual(t *testing.T) {
	codes := tm4j.NewStatusCodeTable(testStatusCodes)
	a := NewDataRowResult(setting.StatusPass, codes)
	b := *a
	b.LogFile = "some.log"
	b.XMLFile = "some.xml"
	assert.True(t, a.Equal(&b))

	b.TestResultStatusID = 102
	assert.False(t, a.Equal(&b))
}

func TestSetTestCycleKey(t *testing.T) {
	results := NewExecutionResults(testStatusCodes)
	results.AddResult(&Record{Name: "a", Status: setting.StatusPass})
	results.AddResult(&Record{Name: "b", Status: setting.StatusPass})

	results.SetTestCycleKey("PRJ-C3")
	for _, exec := range results.Executions {
		assert.Equal(t, "PRJ-C3", exec.TestCycleKey)
	}
}
