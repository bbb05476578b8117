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
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/exporter"
	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

// junit xml report models
type junitReport struct {
	XMLName    xml.Name     `xml:"testsuites"`
	TestSuites []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	TestCases []junitCase `xml:"testcase"`
}

type junitCase struct {
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      float64       `xml:"time,attr"`
	Status    string        `xml:"status,attr"`
	Failure   *junitFailure `xml:"failure"`
	SystemOut string        `xml:"system-out"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

type junitRecord struct {
	Name    string
	Status  string
	Comment string
	// TimeMS is the run duration in milliseconds.
	TimeMS int64
}

func (r *junitRecord) String() string {
	return fmt.Sprintf("%s [%s]", r.Name, r.Status)
}

// JUnitParser posts junit xml reports as plain executions into one cycle.
type JUnitParser struct {
	TestCycleName string
	// Folder scopes test case lookups; new cases are created there.
	Folder      string
	CycleFolder string
	Environment string
	Reporter    string
	// LogsPath, when set, is attached whole to the cycle and mined for
	// per-test comment lines.
	LogsPath string
	Workers  int

	records  []*junitRecord
	logLines []string
	summary  exporter.Summary
}

// ReadFiles parses every report and folds its test cases into records.
func (p *JUnitParser) ReadFiles(paths []string) error {
	if len(paths) == 0 {
		return errors.New("cannot read files to parse: files list is empty")
	}
	log.Infof("reading files to parse: %v", paths)

	if p.LogsPath != "" {
		if err := p.readTestLogs(); err != nil {
			return err
		}
	}

	for _, path := range paths {
		suites, err := readJUnitFile(path)
		if err != nil {
			return err
		}
		p.summary.FilesRead++
		for _, suite := range suites {
			for i := range suite.TestCases {
				p.records = append(p.records, p.toRecord(&suite.TestCases[i]))
			}
		}
	}
	if len(p.records) == 0 {
		return errors.New("there are no test suites in parsed files")
	}
	return nil
}

// readJUnitFile accepts both a <testsuites> root and a bare <testsuite>.
func readJUnitFile(path string) ([]junitSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read junit report %s", path)
	}

	report := &junitReport{}
	if err := xml.Unmarshal(data, report); err == nil {
		return report.TestSuites, nil
	}
	suite := &junitSuite{}
	if err := xml.Unmarshal(data, suite); err != nil {
		return nil, errors.Wrapf(err, "unmarshal junit report %s", path)
	}
	return []junitSuite{*suite}, nil
}

func (p *JUnitParser) toRecord(tc *junitCase) *junitRecord {
	record := &junitRecord{
		Name:   tc.Name,
		Status: setting.StatusPass,
		TimeMS: int64(tc.Time * 1000),
	}
	if details := p.logDetailsFor(tc.Name); details != "" {
		record.Comment = fmt.Sprintf("<strong>Test logs data:</strong> %s <br>", details)
	}
	if tc.Failure != nil {
		record.Status = setting.StatusFail
		record.Comment += fmt.Sprintf("<strong>Failure:</strong>%s<br>%s", tc.Failure.Message, tc.Failure.Text)
	}
	return record
}

func (p *JUnitParser) readTestLogs() error {
	f, err := os.Open(p.LogsPath)
	if err != nil {
		return errors.Wrapf(err, "read test logs %s", p.LogsPath)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		p.logLines = append(p.logLines, scanner.Text())
	}
	return scanner.Err()
}

// logDetailsFor collects the log lines mentioning the test by name.
func (p *JUnitParser) logDetailsFor(name string) string {
	var details []string
	for _, line := range p.logLines {
		if strings.Contains(line, name) {
			details = append(details, strings.TrimSpace(line))
		}
	}
	return strings.Join(details, " ")
}

// Export resolves the cycle, attaches the logs file to it and drives the
// records through the engine. Returns the run summary; per-record failures
// are counted, not fatal.
func (p *JUnitParser) Export(client *tm4j.Client) (*exporter.Summary, error) {
	cycle, err := client.FindTestCycle(&tm4j.FindTestCycleOptions{
		Name:   p.TestCycleName,
		Folder: p.CycleFolder,
	})
	if err != nil {
		return &p.summary, err
	}
	if p.LogsPath != "" {
		if err := client.AttachTestCycleFile(cycle.Key, p.LogsPath); err != nil {
			return &p.summary, err
		}
	}

	engine := &exporter.Engine[*junitRecord]{
		Workers: p.Workers,
		Post: func(rec *junitRecord) error {
			tc, err := client.FindTestCase(&tm4j.FindTestCaseOptions{
				Name:   rec.Name,
				Folder: p.Folder,
			})
			if err != nil {
				return err
			}
			_, err = client.PostTestResult(&tm4j.TestResultOptions{
				TestCycleKey:  cycle.Key,
				TestCaseKey:   tc.Key,
				Status:        rec.Status,
				Environment:   p.Environment,
				ExecutedBy:    p.Reporter,
				Comment:       rec.Comment,
				ExecutionTime: rec.TimeMS,
				TestCase:      tc,
			})
			return err
		},
	}
	failed := engine.Export(p.records, &p.summary)
	if len(failed) > 0 {
		log.Errorf("failed to post following results: %v", failed)
	}
	return &p.summary, nil
}
