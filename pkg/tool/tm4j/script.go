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

package tm4j

import (
	"strings"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

// NewTestScript returns an empty step-by-step script.
func NewTestScript() *TestScript {
	return &TestScript{Type: setting.ScriptTypeStepByStep}
}

// AppendStep adds one step to the end of the script.
func (s *TestScript) AppendStep(description, testData, expectedResult string) {
	s.Steps = append(s.Steps, &Step{
		Description:    description,
		TestData:       testData,
		ExpectedResult: expectedResult,
	})
}

// SetStepResult finds the step with the given description and returns its
// execution outcome. A missing step is appended when createStep allows it;
// among duplicate descriptions the first wins.
func (s *TestScript) SetStepResult(description, status, comment string, createStep bool) (*ScriptResult, error) {
	for i, step := range s.Steps {
		if step.Description == description {
			return &ScriptResult{Index: i, Status: status, Comment: comment}, nil
		}
	}
	if !createStep {
		return nil, newError(KindObjectNotFound, "teststep %q not found and auto-create is turned off", description)
	}
	s.AppendStep(description, "", "")
	return &ScriptResult{Index: len(s.Steps) - 1, Status: status, Comment: comment}, nil
}

// GherkinStep is one scenario step as read from a feature file.
type GherkinStep struct {
	// Keyword is Given, When, Then or And, any case.
	Keyword string
	Name    string
	// Text is the step's docstring, if any.
	Text string
}

// ScriptFromGherkin folds scenario steps into script steps: consecutive
// Given/When lines accumulate into one step description, a Then line starts
// the step's expected result, and And continues whichever part came before
// it. A Given or When after an expected result closes the step and opens
// the next one. A leading And belongs to the description.
func ScriptFromGherkin(steps []*GherkinStep) *TestScript {
	script := NewTestScript()

	var description, testData, expected strings.Builder
	inExpected := false

	flush := func() {
		script.AppendStep(description.String(), testData.String(), expected.String())
		description.Reset()
		testData.Reset()
		expected.Reset()
		inExpected = false
	}

	for _, step := range steps {
		line := step.Keyword + " " + ReplacePlaceholders(step.Name)
		if step.Text != "" {
			line += "<br>" + ReplacePlaceholders(step.Text)
		}
		line += "<br>"

		switch strings.ToLower(strings.TrimSpace(step.Keyword)) {
		case "given", "when":
			if inExpected {
				flush()
			}
			description.WriteString(line)
		case "then":
			inExpected = true
			expected.WriteString(line)
		case "and", "but":
			if inExpected {
				expected.WriteString(line)
			} else {
				description.WriteString(line)
			}
		}
	}
	flush()
	return script
}

var placeholderReplacer = strings.NewReplacer(
	"<{", "||",
	"}>", "||",
	"{", "|",
	"}", "|",
	"<", "{",
	">", "}",
	"\r\n", "<br>  ",
)

// ReplacePlaceholders rewrites gherkin parameter brackets into the curly
// placeholders the data-driven script engine substitutes: <user> becomes
// {user}, while literal braces are demoted to pipes so they cannot be
// mistaken for placeholders. Replacement order matters and is fixed.
func ReplacePlaceholders(text string) string {
	return placeholderReplacer.Replace(text)
}
