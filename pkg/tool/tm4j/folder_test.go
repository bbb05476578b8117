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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFolderName(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		valid  bool
	}{
		{name: "nested path with separators", folder: "Parent/Child-1", valid: true},
		{name: "underscores and ellipsis", folder: "web_ui/checkout...v2", valid: true},
		{name: "plain name", folder: "Regression", valid: true},
		{name: "punctuation is rejected", folder: "Parent/Child!", valid: false},
		{name: "spaces are rejected", folder: "Parent/Child 1", valid: false},
		{name: "separators only", folder: "/_-", valid: false},
		{name: "empty", folder: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFolderName(tt.folder)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsInvalidFolderName(err))
			}
		})
	}
}
