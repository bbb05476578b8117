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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

func TestMatchExecutionResult(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "passed", expected: setting.StatusPass},
		{input: "Pass", expected: setting.StatusPass},
		{input: "FAILED", expected: setting.StatusFail},
		{input: "test is_failed today", expected: setting.StatusFail},
		{input: "skipped", expected: setting.StatusNotExecuted},
		{input: "untested", expected: setting.StatusNotExecuted},
		{input: "blocked by env", expected: setting.StatusBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := MatchExecutionResult(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}

	t.Run("unknown status errors", func(t *testing.T) {
		_, err := MatchExecutionResult("mystery")
		assert.Error(t, err)
	})

	t.Run("matches whole words only", func(t *testing.T) {
		_, err := MatchExecutionResult("surpassed")
		assert.Error(t, err)
	})
}
