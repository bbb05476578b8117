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
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
)

// LoadFeatures loads every feature file into the parsed records the BDD
// adapter consumes. Only the subset the adapter needs is recognized:
// feature/background/scenario headers, tags, steps with docstrings, and
// one examples table per outline.
func LoadFeatures(paths []string) ([]*Feature, error) {
	features := make([]*Feature, 0, len(paths))
	for _, path := range paths {
		feature, err := LoadFeatureFile(path)
		if err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, nil
}

func LoadFeatureFile(path string) (*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open feature file %s", path)
	}
	defer f.Close()

	feature := &Feature{Path: path}
	var scenario *Scenario
	var pendingTags []string
	inExamples := false
	inDocString := false
	docDelim := ""

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if inDocString {
			if line == docDelim {
				inDocString = false
				continue
			}
			if scenario != nil && len(scenario.Steps) > 0 {
				last := scenario.Steps[len(scenario.Steps)-1]
				if last.Text != "" {
					last.Text += "\n"
				}
				last.Text += line
			}
			continue
		}

		switch {
		case line == "" || strings.HasPrefix(line, "#"):

		case strings.HasPrefix(line, "@"):
			for _, tag := range strings.Fields(line) {
				pendingTags = append(pendingTags, strings.TrimPrefix(tag, "@"))
			}

		case strings.HasPrefix(line, "Feature:"):
			feature.Name = strings.TrimSpace(strings.TrimPrefix(line, "Feature:"))
			feature.Tags = pendingTags
			pendingTags = nil

		case strings.HasPrefix(line, "Background:"):
			feature.Background = strings.TrimSpace(strings.TrimPrefix(line, "Background:"))
			scenario = nil
			pendingTags = nil

		case strings.HasPrefix(line, "Scenario Outline:") || strings.HasPrefix(line, "Scenario:"):
			_, title, _ := strings.Cut(line, ":")
			scenario = &Scenario{Name: strings.TrimSpace(title), Tags: pendingTags}
			feature.Scenarios = append(feature.Scenarios, scenario)
			pendingTags = nil
			inExamples = false

		case strings.HasPrefix(line, "Examples"):
			if scenario != nil {
				scenario.Examples = &ExamplesTable{}
				inExamples = true
			}

		case strings.HasPrefix(line, "|"):
			if scenario == nil || !inExamples || scenario.Examples == nil {
				continue
			}
			cells := splitTableRow(line)
			if scenario.Examples.Headings == nil {
				scenario.Examples.Headings = cells
			} else {
				scenario.Examples.Rows = append(scenario.Examples.Rows, cells)
			}

		case strings.HasPrefix(line, `"""`) || strings.HasPrefix(line, "```"):
			inDocString = true
			docDelim = line[:3]

		default:
			keyword, rest, ok := cutStepKeyword(line)
			switch {
			case ok && scenario != nil:
				scenario.Steps = append(scenario.Steps, &tm4j.GherkinStep{Keyword: keyword, Name: rest})
				inExamples = false
			case scenario != nil && len(scenario.Steps) == 0:
				// free text between the title and the first step
				scenario.Description += line
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read feature file %s", path)
	}
	if len(feature.Scenarios) == 0 {
		return nil, errors.Errorf("no scenarios found in feature file %s", path)
	}
	return feature, nil
}

var stepKeywords = []string{"Given", "When", "Then", "And", "But"}

func cutStepKeyword(line string) (keyword, rest string, ok bool) {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(line, kw+" ") {
			return kw, strings.TrimSpace(strings.TrimPrefix(line, kw+" ")), true
		}
	}
	return "", "", false
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}
