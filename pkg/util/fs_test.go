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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"a.xml", "b.XML", "c.json", filepath.Join("nested", "d.xml")} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := ListFiles(dir, "xml")
	assert.NoError(t, err)
	assert.Len(t, files, 3)

	t.Run("single file path", func(t *testing.T) {
		files, err := ListFiles(filepath.Join(dir, "c.json"), "json")
		assert.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "c.json")}, files)
	})

	t.Run("extension mismatch on file path", func(t *testing.T) {
		files, err := ListFiles(filepath.Join(dir, "c.json"), "xml")
		assert.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ListFiles(filepath.Join(dir, "nope"), "xml")
		assert.Error(t, err)
	})
}
