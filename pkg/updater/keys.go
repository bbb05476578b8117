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

// Package updater rewrites feature files with the test case keys recorded
// in the creation log, so the next export resolves scenarios by key.
package updater

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// CreatedTest is one creation log record.
type CreatedTest struct {
	Key  string
	Name string
	// SourcePath is the feature file the scenario came from.
	SourcePath string
}

// ReadCreationLog loads the #-separated creation log.
func ReadCreationLog(path string) ([]*CreatedTest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open creation log %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '#'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read creation log %s", path)
	}

	tests := make([]*CreatedTest, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		tests = append(tests, &CreatedTest{Key: row[0], Name: row[1], SourcePath: row[2]})
	}
	return tests, nil
}

// ScenarioNamePosition returns the offset of the scenario name within a
// feature line, or -1 for lines that do not open a scenario.
func ScenarioNamePosition(line string) int {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "Scenario:") && !strings.HasPrefix(trimmed, "Scenario Outline:") {
		return -1
	}
	head, tail, _ := strings.Cut(line, ":")
	return len(head) + 1 + (len(tail) - len(strings.TrimLeft(tail, " ")))
}

// UpdateFeatureFileWithKeys prefixes the named scenario's title with
// "<key><delimiter>". Matching clears both sides the way posted names are
// cleared, since the on-disk title and the posted one may differ in
// characters the clearing strips. Scenarios already carrying a key are
// left alone.
func UpdateFeatureFileWithKeys(key, name, featureFilePath, delimiter string) error {
	log.Infof("trying to add key %s to %s", key, featureFilePath)

	data, err := os.ReadFile(featureFilePath)
	if err != nil {
		return errors.Wrapf(err, "read feature file %s", featureFilePath)
	}

	target := util.ClearName(name)
	var updated []string
	lines := strings.Split(string(data), "\n")
	added := 0

	for _, line := range lines {
		index := ScenarioNamePosition(line)
		if index <= 0 {
			updated = append(updated, line)
			continue
		}
		cleared := util.ClearName(strings.TrimSpace(line[index:]))
		lineKey, lineName := util.SplitNameKey(cleared, delimiter)
		if lineName != target {
			updated = append(updated, line)
			continue
		}
		if lineKey != "" {
			log.Infof("scenario %q already has a key and will be skipped", cleared)
			updated = append(updated, line)
			continue
		}
		// keep one space between "Scenario:" and the injected key
		space := ""
		if !strings.HasSuffix(line[:index], " ") {
			space = " "
		}
		updated = append(updated, line[:index]+space+key+delimiter+line[index:])
		added++
	}

	if err := os.WriteFile(featureFilePath, []byte(strings.Join(updated, "\n")), 0o644); err != nil {
		return errors.Wrapf(err, "write feature file %s", featureFilePath)
	}
	if added > 0 {
		log.Infof("key %s added to test %s", key, target)
	} else {
		log.Info("no keys added, no need")
	}
	return nil
}

// UpdateAll replays the whole creation log against the feature files it
// references. Per-file failures are logged and skipped so one missing file
// does not abort the pass.
func UpdateAll(creationLogPath, delimiter string) error {
	tests, err := ReadCreationLog(creationLogPath)
	if err != nil {
		return err
	}
	for _, test := range tests {
		if test.SourcePath == "" {
			continue
		}
		if err := UpdateFeatureFileWithKeys(test.Key, test.Name, test.SourcePath, delimiter); err != nil {
			log.Errorf("%s (%s): %v", test.Name, test.SourcePath, err)
		}
	}
	log.Info("files update complete")
	return nil
}
