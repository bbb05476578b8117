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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koderover/tm4j-adapter/pkg/setting"
)

// The server rejects an environment differing only in case from the stored
// one; the repost must carry the server's spelling, not the configured one.
func TestPostTestResultCorrectsEnvironment(t *testing.T) {
	var postedEnvs []string
	client := newTestClient(t, &Config{}, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/tests/1.0/project":
			serveProjects(w)
		case r.Method == http.MethodPost && r.URL.Path == "/rest/atm/1.0/testrun/PRJ-C1/testcase/PRJ-T1/testresult":
			var body map[string]interface{}
			data, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(data, &body))
			env, _ := body["environment"].(string)
			postedEnvs = append(postedEnvs, env)
			if env != "QAS" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, `{"errorMessages":["Environment %s was not found for field environment on project PRJ"]}`, env)
				return
			}
			fmt.Fprint(w, `{"id":901}`)
		case r.URL.Path == "/rest/atm/1.0/environments":
			fmt.Fprint(w, `[{"id":1,"name":"QAS"}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	id, err := client.PostTestResult(&TestResultOptions{
		TestCycleKey: "PRJ-C1",
		TestCaseKey:  "PRJ-T1",
		Status:       setting.StatusPass,
		Environment:  "qas",
	})
	assert.NoError(t, err)
	assert.Equal(t, 901, id)
	assert.Equal(t, []string{"qas", "QAS"}, postedEnvs)
}

// A read that needs a body is retried three times against the server's
// post-write lag, then gives up with the result left untouched.
func TestEmptyBodyRetryGivesUp(t *testing.T) {
	searches := 0
	client := newTestClient(t, &Config{}, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/tests/1.0/project":
			serveProjects(w)
		case "/rest/atm/1.0/testcase/search":
			searches++
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	_, err := client.FindTestCase(&FindTestCaseOptions{Name: "Login works"})
	assert.True(t, IsObjectNotFound(err))
	assert.Equal(t, 3, searches)
}

// The server lists script results in arbitrary order; rows must come back
// by ascending parameterSetId with steps ordered by index, and entries
// without a parameterSetId must be dropped.
func TestDataRowScriptIDsOrdering(t *testing.T) {
	client := newTestClient(t, &Config{}, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/tests/1.0/project":
			serveProjects(w)
		case "/rest/tests/1.0/testrun/PRJ-C1":
			fmt.Fprint(w, `{"id":300}`)
		case "/rest/tests/1.0/testrun/300/testresults":
			assert.Equal(t, "77", r.URL.Query().Get("itemId"))
			fmt.Fprint(w, `[{"id":42,"testScriptResults":[
				{"id":205,"index":1,"parameterSetId":9545},
				{"id":204,"index":0,"parameterSetId":9545},
				{"id":200,"index":0,"parameterSetId":9543},
				{"id":210,"index":0,"parameterSetId":0},
				{"id":202,"index":0,"parameterSetId":9544},
				{"id":201,"index":1,"parameterSetId":9543},
				{"id":203,"index":1,"parameterSetId":9544}
			]}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	rows, err := client.DataRowScriptIDs(&TestCycle{Key: "PRJ-C1"}, 77)
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 9543, rows[0].ParameterSetID)
	assert.Equal(t, []int{200, 201}, rows[0].StepResultIDs)
	assert.Equal(t, 9544, rows[1].ParameterSetID)
	assert.Equal(t, []int{202, 203}, rows[1].StepResultIDs)
	assert.Equal(t, 9545, rows[2].ParameterSetID)
	assert.Equal(t, []int{204, 205}, rows[2].StepResultIDs)
}
