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
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/exporter"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// RocsParser reads one artifacts zip of per-scenario junit xml reports and
// posts the aggregated, possibly data-driven, executions into a cycle.
type RocsParser struct {
	ArtifactPath  string
	TestCycleName string
	// TestCycleKey reuses an existing cycle instead of find-or-create.
	TestCycleKey string
	CycleFolder  string
	Environment  string
	Reporter     string
	// IssueKeys are linked to the cycle when it has to be created.
	IssueKeys    []string
	KeyDelimiter string
	Workers      int

	results *exporter.ExecutionResults
	summary exporter.Summary
}

// split scenario naming convention: "Name -- @1.2 row description"
var rocsRowRe = regexp.MustCompile(`@\d+\.(\d+)`)

// ReadArtifact parses every xml member, pairs it with its
// split_<name>_feature.log, and folds the results per test case.
func (p *RocsParser) ReadArtifact(client *tm4j.Client) error {
	log.Infof("parsing %s", p.ArtifactPath)

	codes, err := client.StatusCodes()
	if err != nil {
		return err
	}
	p.results = exporter.NewExecutionResults(codes)

	archive, err := zip.OpenReader(p.ArtifactPath)
	if err != nil {
		return errors.Wrapf(err, "open artifact %s", p.ArtifactPath)
	}
	defer archive.Close()

	tempDir, err := os.MkdirTemp("", "rocs-logs")
	if err != nil {
		return errors.Wrap(err, "create temp dir")
	}

	for _, member := range archive.File {
		if !strings.Contains(member.Name, ".xml") {
			continue
		}
		if err := p.readMember(&archive.Reader, member, tempDir); err != nil {
			return err
		}
		p.summary.FilesRead++
	}

	log.Infof("parsed %d files with test results, %d testcases", p.summary.FilesRead, p.results.Len())
	return nil
}

func (p *RocsParser) readMember(archive *zip.Reader, member *zip.File, tempDir string) error {
	data, err := readZipMember(member)
	if err != nil {
		return err
	}
	suite := &junitSuite{}
	if err := xml.Unmarshal(data, suite); err != nil {
		return errors.Wrapf(err, "unmarshal report %s", member.Name)
	}
	if len(suite.TestCases) == 0 {
		return errors.Errorf("no testcase element in report %s", member.Name)
	}
	tc := &suite.TestCases[0]

	status, err := MatchExecutionResult(tc.Status)
	if err != nil {
		return errors.Wrapf(err, "report %s", member.Name)
	}
	key, name, row := splitRocsName(tc.Name, p.KeyDelimiter)

	logPath, err := extractZipMember(archive, logMemberName(member.Name), tempDir)
	if err != nil {
		return err
	}

	exec := p.results.AddResult(&exporter.Record{
		Key:           key,
		Name:          name,
		Status:        status,
		LogFile:       logPath,
		XMLFile:       member.Name,
		ExecutionTime: int64(tc.Time * 1000),
		ExampleRow:    row,
	})
	exec.Environment = p.Environment
	exec.ExecutedBy = p.Reporter
	return nil
}

// splitRocsName strips the split-scenario suffix ("Name -- @1.2 ...") and
// separates a leading test case key from the cleaned name. The returned
// row is the data-table row number from the "@set.row" token, zero when
// the name carries no row numbering.
func splitRocsName(name, delimiter string) (key, cleanName string, row int) {
	base := name
	if i := strings.Index(name, "@"); i >= 0 {
		base = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name[:i]), "--"))
		if m := rocsRowRe.FindStringSubmatch(name[i:]); m != nil {
			row, _ = strconv.Atoi(m[1])
		}
	}
	key, cleanName = util.SplitNameKey(util.ClearName(base), delimiter)
	return key, strings.TrimSpace(cleanName), row
}

// logMemberName pairs a report member with its scenario log, e.g.
// "reports/tests.checkout.xml" -> "split_checkout_feature.log".
func logMemberName(xmlMember string) string {
	parts := strings.Split(xmlMember, ".")
	core := parts[0]
	if len(parts) >= 2 {
		core = parts[len(parts)-2]
	}
	return "split_" + core + "_feature.log"
}

func readZipMember(member *zip.File) ([]byte, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open zip member %s", member.Name)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func extractZipMember(archive *zip.Reader, name, destDir string) (string, error) {
	member, err := archive.Open(name)
	if err != nil {
		return "", errors.Wrapf(err, "open zip member %s", name)
	}
	defer member.Close()

	destPath := filepath.Join(destDir, filepath.Base(name))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", errors.Wrapf(err, "extract %s", name)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, member); err != nil {
		return "", errors.Wrapf(err, "extract %s", name)
	}
	return destPath, nil
}

// Export resolves or reuses the cycle, stamps it onto every execution and
// drives the batch. Unposted executions are re-zipped for manual recovery.
func (p *RocsParser) Export(client *tm4j.Client) (*exporter.Summary, error) {
	cycle := &tm4j.TestCycle{Key: p.TestCycleKey}
	if p.TestCycleKey == "" {
		found, err := client.FindTestCycle(&tm4j.FindTestCycleOptions{
			Name:      p.TestCycleName,
			Folder:    p.CycleFolder,
			IssueKeys: p.IssueKeys,
		})
		if err != nil {
			return &p.summary, err
		}
		cycle = found
	}
	p.results.SetTestCycleKey(cycle.Key)

	engine := &exporter.Engine[*exporter.TestCaseExecution]{
		Workers: p.Workers,
		Post: func(exec *exporter.TestCaseExecution) error {
			return exporter.PostDataDriven(client, cycle, exec)
		},
	}
	failed := engine.Export(p.results.Executions, &p.summary)
	if len(failed) > 0 {
		if err := p.saveUnposted(failed); err != nil {
			log.Errorf("saving unposted results failed: %v", err)
		}
	}

	log.Infof("rocs test execution summary: testcycle %s: %s, tests executed: %d, "+
		"testcases to post: %d, exported: %d, failed: %d",
		cycle.Key, p.TestCycleName, p.summary.FilesRead, p.results.Len(),
		p.summary.Exported, p.summary.Failed)
	return &p.summary, nil
}

// saveUnposted re-zips the source artifacts of every execution that never
// landed into <artifact>_not_posted.zip.
func (p *RocsParser) saveUnposted(failed []*exporter.TestCaseExecution) error {
	log.Info("extracting unposted test results")

	archive, err := zip.OpenReader(p.ArtifactPath)
	if err != nil {
		return errors.Wrapf(err, "open artifact %s", p.ArtifactPath)
	}
	defer archive.Close()

	outPath := strings.TrimSuffix(p.ArtifactPath, ".zip") + "_not_posted.zip"
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", outPath)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	defer w.Close()

	for _, exec := range failed {
		for _, row := range exec.Rows {
			for _, name := range []string{row.XMLFile, logMemberName(row.XMLFile)} {
				if err := copyZipMember(w, &archive.Reader, name); err != nil {
					log.Errorf("copy %s to %s: %v", name, outPath, err)
				}
			}
		}
	}

	log.Infof("results extracted to %s", outPath)
	return nil
}

func copyZipMember(w *zip.Writer, archive *zip.Reader, name string) error {
	src, err := archive.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	dest, err := w.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dest, src)
	return err
}
