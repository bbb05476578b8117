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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreationLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "PRJ.csv")
	l := NewCreationLog(path)

	assert.NoError(t, l.Append("PRJ-T1", "Login works", "features/login.feature"))
	assert.NoError(t, l.Append("PRJ-T2", "Logout works", ""))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "PRJ-T1#Login works#features/login.feature\nPRJ-T2#Logout works#\n", string(data))
}
