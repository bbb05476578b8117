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
)

func TestSplitRocsName(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedKey  string
		expectedName string
		expectedRow  int
	}{
		{
			name:         "split scenario with row number",
			input:        "Login works -- @1.2 with admin role",
			expectedName: "Login works",
			expectedRow:  2,
		},
		{
			name:         "keyed split scenario",
			input:        "PRJ-T7_Login works -- @1.1 with guest role",
			expectedKey:  "PRJ-T7",
			expectedName: "Login works",
			expectedRow:  1,
		},
		{
			name:         "plain scenario without rows",
			input:        "PRJ-T7_Login works",
			expectedKey:  "PRJ-T7",
			expectedName: "Login works",
		},
		{
			name:         "unkeyed plain scenario",
			input:        "Login works",
			expectedName: "Login works",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, name, row := splitRocsName(tt.input, "_")
			assert.Equal(t, tt.expectedKey, key)
			assert.Equal(t, tt.expectedName, name)
			assert.Equal(t, tt.expectedRow, row)
		})
	}
}

func TestLogMemberName(t *testing.T) {
	assert.Equal(t, "split_checkout_feature.log", logMemberName("reports/tests.checkout.xml"))
	assert.Equal(t, "split_login_feature.log", logMemberName("login.xml"))
}
