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
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

var (
	jiraIssueRe    = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,9}-[1-9][0-9]{0,6}$`)
	testCaseKeyRe  = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,9}-T[0-9]{1,6}$`)
	priorityTagRe  = regexp.MustCompile(`^P[0-3]$`)
	nonASCIIRemove = regexp.MustCompile("[^\x00-\x7F]")
)

// priority tags map to TM4J priorities; the lowest tag number wins
var priorityMap = map[string]string{
	"P0": setting.PriorityHigh,
	"P1": setting.PriorityNormal,
	"P2": setting.PriorityLow,
	"P3": setting.PriorityLow,
}

// ClearName makes a name acceptable for TM4J. The server answers 500 for
// names over 255 characters or names containing (double)quotes.
func ClearName(name string) string {
	name = nonASCIIRemove.ReplaceAllString(name, "")
	name = strings.NewReplacer("'", "", `"`, "").Replace(name)
	name = strings.TrimLeft(name, ": ")
	if len(name) > setting.MaxNameLength {
		name = name[:setting.MaxNameLength]
	}
	return name
}

func IsJiraIssue(tag string) bool {
	return jiraIssueRe.MatchString(tag)
}

func IsTestCaseKey(tag string) bool {
	return testCaseKeyRe.MatchString(tag)
}

func IsPriorityTag(tag string) bool {
	return priorityTagRe.MatchString(tag)
}

// ScenarioTags is the partition of a scenario's tag list.
type ScenarioTags struct {
	IssueLinks []string
	Priority   string
	Labels     []string
}

// ParseScenarioTags splits tags into jira issue links, a priority and free
// labels. Order of appearance is preserved within each bucket.
func ParseScenarioTags(tags []string) *ScenarioTags {
	result := &ScenarioTags{}
	priorities := sets.NewString()
	for _, tag := range tags {
		switch {
		case IsJiraIssue(tag):
			result.IssueLinks = append(result.IssueLinks, tag)
		case IsPriorityTag(tag):
			priorities.Insert(tag)
		default:
			result.Labels = append(result.Labels, tag)
		}
	}
	if priorities.Len() > 0 {
		// sets.String lists in sorted order, so the first is the most urgent
		result.Priority = priorityMap[priorities.List()[0]]
	}
	return result
}

// SplitNameKey splits a leading "<key><delimiter>" token off a testcase
// name, e.g. "PRJ-T12_Login works" -> ("PRJ-T12", "Login works"). When the
// name does not start with a server key it is returned unchanged.
func SplitNameKey(name, delimiter string) (key, rest string) {
	parts := strings.SplitN(name, delimiter, 2)
	if len(parts) == 2 && IsTestCaseKey(parts[0]) {
		return parts[0], parts[1]
	}
	return "", name
}
