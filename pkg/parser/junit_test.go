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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

const wrappedReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="checkout" tests="2" failures="1">
    <testcase classname="checkout" name="order is confirmed" time="29.580"/>
    <testcase classname="checkout" name="payment is declined" time="1.5">
      <failure message="assertion failed">expected 402, got 500</failure>
    </testcase>
  </testsuite>
</testsuites>`

const bareReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="login" tests="1" failures="0">
  <testcase classname="login" name="login works" time="0.25"/>
</testsuite>`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJUnitReadFiles(t *testing.T) {
	p := &JUnitParser{}
	err := p.ReadFiles([]string{
		writeTempFile(t, "wrapped.xml", wrappedReport),
		writeTempFile(t, "bare.xml", bareReport),
	})
	assert.NoError(t, err)
	assert.Len(t, p.records, 3)

	assert.Equal(t, "order is confirmed", p.records[0].Name)
	assert.Equal(t, setting.StatusPass, p.records[0].Status)
	assert.Equal(t, int64(29580), p.records[0].TimeMS)
	assert.Empty(t, p.records[0].Comment)

	assert.Equal(t, setting.StatusFail, p.records[1].Status)
	assert.Equal(t, "<strong>Failure:</strong>assertion failed<br>expected 402, got 500", p.records[1].Comment)

	assert.Equal(t, "login works", p.records[2].Name)
	assert.Equal(t, int64(250), p.records[2].TimeMS)
}

func TestJUnitReadFilesWithLogs(t *testing.T) {
	logs := "2024-05-01 login works: session id 42\nunrelated line\n"
	p := &JUnitParser{LogsPath: writeTempFile(t, "tests.log", logs)}

	err := p.ReadFiles([]string{writeTempFile(t, "bare.xml", bareReport)})
	assert.NoError(t, err)
	assert.Len(t, p.records, 1)
	assert.Equal(t, "<strong>Test logs data:</strong> 2024-05-01 login works: session id 42 <br>", p.records[0].Comment)
}

func TestJUnitReadFilesEmpty(t *testing.T) {
	p := &JUnitParser{}
	assert.Error(t, p.ReadFiles(nil))

	p = &JUnitParser{}
	err := p.ReadFiles([]string{writeTempFile(t, "empty.xml", `<testsuites></testsuites>`)})
	assert.Error(t, err)
}
