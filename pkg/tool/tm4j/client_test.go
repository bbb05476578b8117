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
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, cfg *Config, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL + "/rest/atm/1.0"
	if cfg.ProjectKey == "" {
		cfg.ProjectKey = "PRJ"
	}
	client, err := NewClient(cfg)
	assert.NoError(t, err)
	return client
}

func serveProjects(w http.ResponseWriter) {
	fmt.Fprint(w, `[{"id":1,"key":"OTHER"},{"id":17603,"key":"PRJ"}]`)
}

func TestNewClientResolvesProjectID(t *testing.T) {
	client := newTestClient(t, &Config{}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/tests/1.0/project", r.URL.Path)
		serveProjects(w)
	})
	assert.Equal(t, 17603, client.ProjectID)
}

func TestNewClientUnknownProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveProjects(w)
	}))
	defer server.Close()

	_, err := NewClient(&Config{BaseURL: server.URL + "/rest/atm/1.0", ProjectKey: "NOPE"})
	assert.True(t, IsObjectNotFound(err))
}

func TestNewClientMissingConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "http://jira.example.com/rest/atm/1.0"})
	assert.True(t, IsInvalidValue(err))
}

func TestFindTestCaseCreatesWhenMissing(t *testing.T) {
	client := newTestClient(t, &Config{CreateTestCase: true}, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/tests/1.0/project":
			serveProjects(w)
		case r.URL.Path == "/rest/atm/1.0/testcase/search":
			assert.Contains(t, r.URL.Query().Get("query"), `name = "Login works"`)
			fmt.Fprint(w, `[]`)
		case r.Method == http.MethodPost && r.URL.Path == "/rest/atm/1.0/testcase":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"name":"Login works"`)
			fmt.Fprint(w, `{"key":"PRJ-T1"}`)
		case r.URL.Path == "/rest/atm/1.0/testcase/PRJ-T1":
			fmt.Fprint(w, `{"key":"PRJ-T1","name":"Login works","folder":"/"}`)
		case r.URL.Path == "/rest/tests/1.0/testcase/PRJ-T1":
			fmt.Fprint(w, `{"id":555,"projectId":17603}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	tc, err := client.FindTestCase(&FindTestCaseOptions{Name: "Login works"})
	assert.NoError(t, err)
	assert.Equal(t, "PRJ-T1", tc.Key)
	assert.Equal(t, 555, tc.InternalID)
}

func TestFindTestCaseByKeyedName(t *testing.T) {
	client := newTestClient(t, &Config{KeyDelimiter: "_"}, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/tests/1.0/project":
			serveProjects(w)
		case "/rest/atm/1.0/testcase/search":
			assert.Equal(t, `key = "PRJ-T7"`, r.URL.Query().Get("query"))
			fmt.Fprint(w, `[{"key":"PRJ-T7","name":"Login works"}]`)
		case "/rest/tests/1.0/testcase/PRJ-T7":
			fmt.Fprint(w, `{"id":777,"projectId":17603}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	tc, err := client.FindTestCase(&FindTestCaseOptions{Name: "PRJ-T7_Login works"})
	assert.NoError(t, err)
	assert.Equal(t, "PRJ-T7", tc.Key)
	assert.Equal(t, 777, tc.InternalID)
}

func TestFindTestCaseProvisionsMissingFolder(t *testing.T) {
	folderCreated := false
	client := newTestClient(t, &Config{CreateTestCase: true, CreateTestCaseFolder: true},
		func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/rest/tests/1.0/project":
				serveProjects(w)
			case r.URL.Path == "/rest/atm/1.0/testcase/search":
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"errorMessages":["Folder /Regression was not found for field folder"]}`)
			case r.Method == http.MethodPost && r.URL.Path == "/rest/atm/1.0/folder":
				folderCreated = true
				body, _ := io.ReadAll(r.Body)
				assert.Contains(t, string(body), `"name":"/Regression"`)
				assert.Contains(t, string(body), `"type":"TEST_CASE"`)
			case r.Method == http.MethodPost && r.URL.Path == "/rest/atm/1.0/testcase":
				assert.True(t, folderCreated, "testcase posted before its folder")
				fmt.Fprint(w, `{"key":"PRJ-T2"}`)
			case r.URL.Path == "/rest/atm/1.0/testcase/PRJ-T2":
				fmt.Fprint(w, `{"key":"PRJ-T2","name":"Login works","folder":"/Regression"}`)
			case r.URL.Path == "/rest/tests/1.0/testcase/PRJ-T2":
				fmt.Fprint(w, `{"id":556,"projectId":17603}`)
			default:
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		})

	tc, err := client.FindTestCase(&FindTestCaseOptions{Name: "Login works", Folder: "Regression"})
	assert.NoError(t, err)
	assert.Equal(t, "PRJ-T2", tc.Key)
	assert.True(t, folderCreated)
}

func TestFindTestCaseNotFoundWithoutAutoCreate(t *testing.T) {
	client := newTestClient(t, &Config{}, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/tests/1.0/project":
			serveProjects(w)
		case "/rest/atm/1.0/testcase/search":
			fmt.Fprint(w, `[]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	_, err := client.FindTestCase(&FindTestCaseOptions{Name: "Login works"})
	assert.True(t, IsObjectNotFound(err))
}
