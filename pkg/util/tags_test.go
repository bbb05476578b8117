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

package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClearName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "quotes are stripped",
			input:    `it's a "quoted" name`,
			expected: "its a quoted name",
		},
		{
			name:     "non-ascii runes are stripped",
			input:    "логин login works",
			expected: "login works",
		},
		{
			name:     "leading colons and spaces are stripped",
			input:    ": As a doctor",
			expected: "As a doctor",
		},
		{
			name:     "plain name is unchanged",
			input:    "Login works",
			expected: "Login works",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClearName(tt.input))
		})
	}

	t.Run("long names are capped at 255", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		assert.Len(t, ClearName(long), 255)
	})
}

func TestParseScenarioTags(t *testing.T) {
	tags := ParseScenarioTags([]string{"JQA-100", "P1", "smoke"})
	assert.Equal(t, []string{"JQA-100"}, tags.IssueLinks)
	assert.Equal(t, "Normal", tags.Priority)
	assert.Equal(t, []string{"smoke"}, tags.Labels)
}

func TestParseScenarioTagsLowestPriorityWins(t *testing.T) {
	tags := ParseScenarioTags([]string{"P2", "P0", "regression", "CST-1360"})
	assert.Equal(t, "High", tags.Priority)
	assert.Equal(t, []string{"CST-1360"}, tags.IssueLinks)
	assert.Equal(t, []string{"regression"}, tags.Labels)
}

func TestSplitNameKey(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedKey  string
		expectedRest string
	}{
		{
			name:         "leading key is split off",
			input:        "PRJ-T12_Login works",
			expectedKey:  "PRJ-T12",
			expectedRest: "Login works",
		},
		{
			name:         "no key leaves the name intact",
			input:        "Login works",
			expectedKey:  "",
			expectedRest: "Login works",
		},
		{
			name:         "jira issue key is not a testcase key",
			input:        "PRJ-12_Login works",
			expectedKey:  "",
			expectedRest: "PRJ-12_Login works",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, rest := SplitNameKey(tt.input, "_")
			assert.Equal(t, tt.expectedKey, key)
			assert.Equal(t, tt.expectedRest, rest)
		})
	}
}

func TestTagClassifiers(t *testing.T) {
	assert.True(t, IsJiraIssue("CST-1360"))
	assert.False(t, IsJiraIssue("smoke"))
	assert.True(t, IsTestCaseKey("CST-T104"))
	assert.False(t, IsTestCaseKey("CST-104"))
	assert.True(t, IsPriorityTag("P0"))
	assert.False(t, IsPriorityTag("P9"))
}
