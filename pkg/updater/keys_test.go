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

package updater

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioNamePosition(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected int
	}{
		{name: "indented scenario", line: "  Scenario: Login works", expected: 12},
		{name: "scenario outline", line: "  Scenario Outline: Bulk purchase", expected: 20},
		{name: "no indentation", line: "Scenario: Login works", expected: 10},
		{name: "step line", line: "    Given the user logs in", expected: -1},
		{name: "feature line", line: "Feature: Login", expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScenarioNamePosition(tt.line))
		})
	}
}

const featureBeforeKeys = `Feature: Login

  Scenario: Login works
    Given the user logs in
    Then the dashboard is shown

  Scenario: PRJ-T9_Logout works
    When the user logs out
`

func TestUpdateFeatureFileWithKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.feature")
	assert.NoError(t, os.WriteFile(path, []byte(featureBeforeKeys), 0o644))

	assert.NoError(t, UpdateFeatureFileWithKeys("PRJ-T7", "Login works", path, "_"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	lines := []string{
		"Feature: Login",
		"",
		"  Scenario: PRJ-T7_Login works",
		"    Given the user logs in",
		"    Then the dashboard is shown",
		"",
		"  Scenario: PRJ-T9_Logout works",
		"    When the user logs out",
		"",
	}
	assert.Equal(t, lines, splitLines(string(data)))
}

func TestUpdateFeatureFileSkipsKeyedScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.feature")
	assert.NoError(t, os.WriteFile(path, []byte(featureBeforeKeys), 0o644))

	// "Logout works" already carries PRJ-T9, the file must stay unchanged
	assert.NoError(t, UpdateFeatureFileWithKeys("PRJ-T42", "Logout works", path, "_"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, featureBeforeKeys, string(data))
}

func TestReadCreationLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PRJ.csv")
	content := "PRJ-T1#Login works#features/login.feature\nPRJ-T2#Logout works#\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tests, err := ReadCreationLog(path)
	assert.NoError(t, err)
	assert.Len(t, tests, 2)
	assert.Equal(t, "PRJ-T1", tests[0].Key)
	assert.Equal(t, "Login works", tests[0].Name)
	assert.Equal(t, "features/login.feature", tests[0].SourcePath)
	assert.Equal(t, "", tests[1].SourcePath)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
