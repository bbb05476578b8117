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

package parser

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/exporter"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

// JSONRecord is one pre-formatted execution result, a single object or an
// array of them per file.
type JSONRecord struct {
	ProjectKey    string              `json:"projectKey"`
	TestCaseKey   string              `json:"testCaseKey,omitempty"`
	Name          string              `json:"name,omitempty"`
	Status        string              `json:"status"`
	Comment       string              `json:"comment"`
	ExecutedBy    string              `json:"executedBy"`
	IssueLinks    []string            `json:"issueLinks,omitempty"`
	ScriptResults []*jsonScriptResult `json:"scriptResults,omitempty"`
}

// jsonScriptResult extends the posted step outcome with the step text
// fields the update-test-steps mode consumes.
type jsonScriptResult struct {
	Index          int    `json:"index"`
	Status         string `json:"status"`
	Comment        string `json:"comment"`
	Description    string `json:"description,omitempty"`
	TestData       string `json:"testData,omitempty"`
	ExpectedResult string `json:"expectedResult,omitempty"`
}

// JSONParser posts pre-formatted execution results. In update-test-steps
// mode it also rewrites the stored test script from the report's step
// results before posting.
type JSONParser struct {
	TestCycleName string
	Folder        string
	CycleFolder   string
	Environment   string

	// UpdateTestSteps turns the report's script results into the stored
	// test script; TestsFolder is where updated cases are filed.
	UpdateTestSteps bool
	TestsFolder     string

	records []*JSONRecord
	summary exporter.Summary
}

// ReadFiles loads every report; each holds one record or an array.
func (p *JSONParser) ReadFiles(paths []string) error {
	if len(paths) == 0 {
		return errors.New("cannot read files to parse: files list is empty")
	}
	log.Infof("reading files to parse: %v", paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read json report %s", path)
		}
		records, err := decodeJSONRecords(data)
		if err != nil {
			return errors.Wrapf(err, "unmarshal json report %s", path)
		}
		for _, rec := range records {
			status, err := MatchExecutionResult(rec.Status)
			if err != nil {
				return errors.Wrapf(err, "report %s", path)
			}
			rec.Status = status
			p.records = append(p.records, rec)
		}
		p.summary.FilesRead++
	}
	return nil
}

func decodeJSONRecords(data []byte) ([]*JSONRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []*JSONRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	record := &JSONRecord{}
	if err := json.Unmarshal(trimmed, record); err != nil {
		return nil, err
	}
	return []*JSONRecord{record}, nil
}

// Export resolves the cycle and posts every record serially.
func (p *JSONParser) Export(client *tm4j.Client) (*exporter.Summary, error) {
	cycle, err := client.FindTestCycle(&tm4j.FindTestCycleOptions{
		Name:   p.TestCycleName,
		Folder: p.CycleFolder,
	})
	if err != nil {
		return &p.summary, err
	}

	engine := &exporter.Engine[*JSONRecord]{
		Post: func(rec *JSONRecord) error {
			return p.postRecord(client, cycle, rec)
		},
	}
	engine.Export(p.records, &p.summary)
	return &p.summary, nil
}

func (p *JSONParser) postRecord(client *tm4j.Client, cycle *tm4j.TestCycle, rec *JSONRecord) error {
	tc, err := client.FindTestCase(&tm4j.FindTestCaseOptions{
		Name:   rec.Name,
		Key:    rec.TestCaseKey,
		Folder: p.Folder,
	})
	if err != nil {
		return err
	}

	if p.UpdateTestSteps && len(rec.ScriptResults) > 0 {
		script := tm4j.NewTestScript()
		for _, sr := range rec.ScriptResults {
			// the step comment doubles as the expected result
			script.AppendStep(sr.Description, sr.TestData, sr.Comment)
		}
		update := &tm4j.TestCase{
			Key:        tc.Key,
			Name:       tc.Name,
			Folder:     p.TestsFolder,
			TestScript: script,
		}
		if err := client.UpdateTestCase(update); err != nil {
			return err
		}
	}

	scriptResults := make([]*tm4j.ScriptResult, 0, len(rec.ScriptResults))
	for _, sr := range rec.ScriptResults {
		scriptResults = append(scriptResults, &tm4j.ScriptResult{
			Index:   sr.Index,
			Status:  sr.Status,
			Comment: sr.Comment,
		})
	}

	_, err = client.PostTestResult(&tm4j.TestResultOptions{
		TestCycleKey:  cycle.Key,
		TestCaseKey:   tc.Key,
		Status:        rec.Status,
		Environment:   p.Environment,
		ExecutedBy:    rec.ExecutedBy,
		Comment:       rec.Comment,
		IssueLinks:    rec.IssueLinks,
		ScriptResults: scriptResults,
		TestCase:      tc,
	})
	return err
}
