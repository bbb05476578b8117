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

// Package parser turns execution reports (junit xml, json, rocs artifact
// zips) and feature records into the uniform result records the exporter
// posts.
package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

// statusPhrases maps each reportable status to the phrases tools use for
// it. Order matters: the first status whose phrase matches wins.
var statusPhrases = []struct {
	name    string
	phrases []string
}{
	{setting.StatusPass, []string{"passed", "pass"}},
	{setting.StatusFail, []string{"is_failed", "fail", "failed"}},
	{setting.StatusNotExecuted, []string{"skipped", "untested"}},
	{setting.StatusBlocked, []string{"blocked"}},
}

var phraseWordRe = map[string]*regexp.Regexp{}

func init() {
	for _, status := range statusPhrases {
		for _, phrase := range status.phrases {
			for _, word := range strings.Fields(phrase) {
				if _, ok := phraseWordRe[word]; !ok {
					phraseWordRe[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
				}
			}
		}
	}
}

// MatchExecutionResult normalizes a tool-specific status string onto the
// four reportable statuses by whole-word phrase matching, case-insensitive.
func MatchExecutionResult(result string) (string, error) {
	for _, status := range statusPhrases {
		for _, phrase := range status.phrases {
			if matchesAllWords(result, phrase) {
				return status.name, nil
			}
		}
	}
	return "", errors.Errorf("no match for %q was found in execution statuses", result)
}

func matchesAllWords(s, phrase string) bool {
	for _, word := range strings.Fields(phrase) {
		if !phraseWordRe[word].MatchString(s) {
			return false
		}
	}
	return true
}
