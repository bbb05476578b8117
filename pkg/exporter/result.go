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

// Package exporter aggregates parsed execution results per test case and
// drives posting them, serially or concurrently, until the batch converges.
package exporter

import (
	"time"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

const executionDateFormat = "2006-01-02T15:04:05.000Z"

// DataRowResult is one execution of one data row (parameter set) of a
// data-driven test case.
type DataRowResult struct {
	// Index is the row's position of appearance; an explicit row number
	// parsed from the artifact name survives appending.
	Index int
	// ParameterSetID is the server-assigned row identity, zero until
	// reconciled.
	ParameterSetID     int
	TestResultStatusID int
	ExecutionDate      string
	IsFailed           bool

	// source artifact references, incidental to identity
	LogFile string
	XMLFile string

	// StepResultIDs are the server step-result ids of this row, populated
	// by reconciliation.
	StepResultIDs []int

	// attached guards per-row file attachment against batch retries
	// re-entering a record that already got halfway through.
	attached bool
}

// NewDataRowResult stamps the row with the capture time.
func NewDataRowResult(status string, codes tm4j.StatusCodeTable) *DataRowResult {
	return &DataRowResult{
		TestResultStatusID: codes.StatusID(status),
		IsFailed:           status == setting.StatusFail,
		ExecutionDate:      time.Now().UTC().Format(executionDateFormat),
	}
}

// Equal compares rows ignoring the incidental artifact references.
func (r *DataRowResult) Equal(other *DataRowResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Index != other.Index || r.ParameterSetID != other.ParameterSetID ||
		r.TestResultStatusID != other.TestResultStatusID ||
		r.ExecutionDate != other.ExecutionDate || r.IsFailed != other.IsFailed {
		return false
	}
	if len(r.StepResultIDs) != len(other.StepResultIDs) {
		return false
	}
	for i := range r.StepResultIDs {
		if r.StepResultIDs[i] != other.StepResultIDs[i] {
			return false
		}
	}
	return true
}

// StepResultUpdates projects the row onto the bulk step-result payload,
// one entry per reconciled server step id.
func (r *DataRowResult) StepResultUpdates() []*tm4j.StepResultUpdate {
	updates := make([]*tm4j.StepResultUpdate, 0, len(r.StepResultIDs))
	for _, id := range r.StepResultIDs {
		updates = append(updates, &tm4j.StepResultUpdate{
			ID:                 id,
			TestResultStatusID: r.TestResultStatusID,
			ExecutionDate:      r.ExecutionDate,
		})
	}
	return updates
}

// TestCaseExecution aggregates the data-row executions of one test case.
// HasDataRows and Status are derived and recomputed on every append, so
// they are never stale relative to the contained rows.
type TestCaseExecution struct {
	Key          string
	Name         string
	TestCycleKey string

	Status      string
	Environment string
	Comment     string
	AssignedTo  string
	ExecutedBy  string
	IssueLinks  []string

	// ExecutionTime accumulates milliseconds across merged results.
	ExecutionTime int64

	Rows        []*DataRowResult
	HasDataRows bool
}

// AppendRow adds one row and recomputes the derived fields. A row without
// an explicit index takes its append position; an explicit positive index
// (rocs-style "@2" numbering) is kept as evidence of row numbering.
func (e *TestCaseExecution) AppendRow(row *DataRowResult) {
	if row.Index == 0 {
		row.Index = len(e.Rows)
	}
	e.Rows = append(e.Rows, row)
	e.recompute()
}

func (e *TestCaseExecution) recompute() {
	e.HasDataRows = len(e.Rows) > 1 || (len(e.Rows) == 1 && e.Rows[0].Index > 0)
	e.Status = setting.StatusPass
	for _, row := range e.Rows {
		if row.IsFailed {
			e.Status = setting.StatusFail
			break
		}
	}
}

// ReconcileRows pairs local rows with server-assigned parameter sets: ids
// ascending onto rows in append order. A count mismatch means the posted
// execution does not describe the same data table and fails loudly rather
// than silently truncating.
func (e *TestCaseExecution) ReconcileRows(rowIDs []*tm4j.DataRowIDs) error {
	if len(rowIDs) != len(e.Rows) {
		return errors.Errorf("row reconciliation mismatch for testcase %s: %d local rows, %d server parameter sets",
			e.Identity(), len(e.Rows), len(rowIDs))
	}
	for i, row := range e.Rows {
		row.ParameterSetID = rowIDs[i].ParameterSetID
		row.StepResultIDs = rowIDs[i].StepResultIDs
	}
	return nil
}

// StepResultUpdates flattens all rows into one bulk update payload.
func (e *TestCaseExecution) StepResultUpdates() []*tm4j.StepResultUpdate {
	var updates []*tm4j.StepResultUpdate
	for _, row := range e.Rows {
		updates = append(updates, row.StepResultUpdates()...)
	}
	return updates
}

// Identity names the execution for logs and errors.
func (e *TestCaseExecution) Identity() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Name
}

// ExecutionResults collects executions keyed by (key, name): adding a
// result for an already-seen test case extends its row list and execution
// time instead of creating a duplicate entity.
type ExecutionResults struct {
	codes      tm4j.StatusCodeTable
	Executions []*TestCaseExecution
}

func NewExecutionResults(codes []*tm4j.StatusCode) *ExecutionResults {
	return &ExecutionResults{codes: tm4j.NewStatusCodeTable(codes)}
}

// Record is one parsed artifact result to be folded into the collection.
type Record struct {
	Key     string
	Name    string
	Status  string
	LogFile string
	XMLFile string
	// ExecutionTime in milliseconds.
	ExecutionTime int64
	// ExampleRow is the explicit data-row number, zero when the artifact
	// carries no row numbering.
	ExampleRow int
}

// AddResult folds one record in and returns the (possibly pre-existing)
// execution it landed on.
func (r *ExecutionResults) AddResult(rec *Record) *TestCaseExecution {
	row := NewDataRowResult(rec.Status, r.codes)
	row.Index = rec.ExampleRow
	row.LogFile = rec.LogFile
	row.XMLFile = rec.XMLFile

	exec := r.find(rec.Key, rec.Name)
	if exec == nil {
		exec = &TestCaseExecution{Key: rec.Key, Name: rec.Name}
		r.Executions = append(r.Executions, exec)
	}
	exec.ExecutionTime += rec.ExecutionTime
	exec.AppendRow(row)
	return exec
}

func (r *ExecutionResults) find(key, name string) *TestCaseExecution {
	for _, exec := range r.Executions {
		if (key != "" && exec.Key == key) || exec.Name == name {
			return exec
		}
	}
	return nil
}

// SetTestCycleKey stamps every collected execution with the cycle to post
// into; called once the cycle is resolved, before export.
func (r *ExecutionResults) SetTestCycleKey(key string) {
	for _, exec := range r.Executions {
		exec.TestCycleKey = key
	}
}

// StatusCodes exposes the shared status table for per-row lookups.
func (r *ExecutionResults) StatusCodes() tm4j.StatusCodeTable {
	return r.codes
}

func (r *ExecutionResults) Len() int {
	return len(r.Executions)
}
