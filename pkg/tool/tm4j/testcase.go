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
	"net/url"
	"strconv"

	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// FindTestCaseOptions control one find-or-create resolution.
type FindTestCaseOptions struct {
	// Name is the natural-key lookup name; ignored when Key is set.
	Name string
	Key  string
	// Folder scopes the search; falls back to the configured default. A new
	// test case is created in this folder.
	Folder string
	// SourcePath is recorded in the creation log for key injection.
	SourcePath string
	// AutoCreate overrides the config toggle for this call only.
	AutoCreate bool
}

// FindTestCase resolves a test case by key or by (name, folder), creating it
// (and its folder) when allowed. Calling it twice with the same natural key
// returns the same entity and performs at most one creation.
func (c *Client) FindTestCase(opts *FindTestCaseOptions) (*TestCase, error) {
	autocreate := opts.AutoCreate || c.cfg.CreateTestCase
	log.Debugf("find testcase: name=%q key=%q folder=%q autocreate=%v", opts.Name, opts.Key, opts.Folder, autocreate)

	var query, name, folder string
	if opts.Key != "" {
		query = fmt.Sprintf("key = %q", opts.Key)
		name = opts.Name
	} else {
		name = util.ClearName(opts.Name)
		if name == "" {
			return nil, newError(KindInvalidValue, "testcase name cannot be empty")
		}
		// a name starting with a server key is treated as already identified
		if key, rest := util.SplitNameKey(name, c.cfg.KeyDelimiter); key != "" {
			return c.FindTestCase(&FindTestCaseOptions{
				Name:       rest,
				Key:        key,
				Folder:     opts.Folder,
				SourcePath: opts.SourcePath,
				AutoCreate: opts.AutoCreate,
			})
		}

		folder = opts.Folder
		if folder == "" {
			folder = c.cfg.TestCaseFolder
		}
		if folder != "" {
			if err := CheckFolderName(folder); err != nil {
				return nil, err
			}
		}
		query = fmt.Sprintf("projectKey = %q AND name = %q", c.cfg.ProjectKey, name)
		if folder != "" {
			query += fmt.Sprintf(" AND folder = %q", "/"+folder)
		}
	}

	var found []*TestCase
	err := c.do("GET", searchURL(c.atmURL, "testcase", query), nil, &found, true)
	if IsFolderNotFound(err) {
		if err := c.CreateFolder(setting.FolderTypeTestCase, folder); err != nil {
			return nil, err
		}
		return c.CreateTestCase(name, folder, opts.SourcePath)
	}
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		if autocreate && name != "" {
			log.Infof("cannot find testcase %s - %s, will create a new one", opts.Key, name)
			return c.CreateTestCase(name, folder, opts.SourcePath)
		}
		return nil, newError(KindObjectNotFound,
			"testcase %q not found; name=%q or autocreate=%v do not allow creation", opts.Key, name, autocreate)
	}

	tc := found[0]
	if err := c.fetchTestCaseID(tc); err != nil {
		return nil, err
	}
	return tc, nil
}

// CreateTestCase posts a new test case and reloads its full server-side
// body. The created key is appended to the creation log.
func (c *Client) CreateTestCase(name, folder, sourcePath string) (*TestCase, error) {
	if name == "" {
		return nil, newError(KindInvalidValue, "testcase name cannot be empty")
	}

	payload, err := util.StripNullValues(map[string]interface{}{
		"projectKey": c.cfg.ProjectKey,
		"name":       name,
		"folder":     "/" + folder,
		"status":     setting.TestCaseStatusApproved,
		"priority":   setting.PriorityNormal,
	})
	if err != nil {
		return nil, err
	}

	created := &keyResponse{}
	if err := c.do("POST", c.atmURL+"/testcase", payload, created, true); err != nil {
		if IsFolderNotFound(err) {
			if err := c.CreateFolder(setting.FolderTypeTestCase, folder); err != nil {
				return nil, err
			}
			if err := c.do("POST", c.atmURL+"/testcase", payload, created, true); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if c.creationLog != nil {
		if err := c.creationLog.Append(created.Key, name, sourcePath); err != nil {
			log.Errorf("creation log write failed: %v", err)
		}
	}
	log.Infof("testcase %s created successfully", created.Key)

	tc := &TestCase{}
	if err := c.do("GET", c.atmURL+"/testcase/"+created.Key, nil, tc, true); err != nil {
		return nil, err
	}
	if err := c.fetchTestCaseID(tc); err != nil {
		return nil, err
	}
	return tc, nil
}

// UpdateTestCase replaces the stored test case with tc's non-empty fields.
// Empty fields are stripped from the payload so the server never sees
// explicit nulls. Steps are posted without their index field.
func (c *Client) UpdateTestCase(tc *TestCase) error {
	if tc.Key == "" {
		return newError(KindInvalidValue, "testcase key not set, find testcase first")
	}

	folder := tc.Folder
	if folder != "" && folder[0] != '/' {
		folder = "/" + folder
	}

	fields := map[string]interface{}{
		"name":         tc.Name,
		"objective":    nilIfEmpty(tc.Objective),
		"precondition": nilIfEmpty(tc.Precondition),
		"status":       nilIfEmpty(tc.Status),
		"priority":     nilIfEmpty(tc.Priority),
		"owner":        nilIfEmpty(tc.Owner),
		"component":    nilIfEmpty(tc.Component),
		"folder":       folder,
	}
	if tc.EstimatedTime > 0 {
		fields["estimatedTime"] = tc.EstimatedTime
	}
	if len(tc.Labels) > 0 {
		fields["labels"] = tc.Labels
	}
	if len(tc.IssueLinks) > 0 {
		fields["issueLinks"] = tc.IssueLinks
	}
	if tc.Parameters != nil {
		fields["parameters"] = tc.Parameters
	}
	if tc.TestScript != nil {
		steps := make([]map[string]interface{}, 0, len(tc.TestScript.Steps))
		for _, step := range tc.TestScript.Steps {
			steps = append(steps, map[string]interface{}{
				"description":    step.Description,
				"testData":       step.TestData,
				"expectedResult": step.ExpectedResult,
			})
		}
		fields["testScript"] = map[string]interface{}{
			"type":  setting.ScriptTypeStepByStep,
			"steps": steps,
		}
	}

	payload, err := util.StripNullValues(fields)
	if err != nil {
		return err
	}

	updateURL := c.atmURL + "/testcase/" + tc.Key
	if err := c.do("PUT", updateURL, payload, nil, false); err != nil {
		if !IsFolderNotFound(err) {
			return err
		}
		if err := c.CreateFolder(setting.FolderTypeTestCase, trimSlash(folder)); err != nil {
			return err
		}
		if err := c.do("PUT", updateURL, payload, nil, false); err != nil {
			return err
		}
	}

	if tc.Parameters != nil {
		return c.putParamTypeProperty(tc)
	}
	return nil
}

// putParamTypeProperty switches the stored script to TEST_DATA parameter
// display; without it the UI needs a manual switch-and-save to show the
// data table.
func (c *Client) putParamTypeProperty(tc *TestCase) error {
	if err := c.fetchTestCaseID(tc); err != nil {
		return err
	}
	payload, err := util.StripNullValues(map[string]interface{}{
		"id":         tc.InternalID,
		"projectId":  c.ProjectID,
		"paramType":  setting.ParamTypeTestData,
		"parameters": []interface{}{},
	})
	if err != nil {
		return err
	}
	return c.do("PUT", c.serviceURL+"/testcase/"+strconv.Itoa(tc.InternalID), payload, nil, false)
}

// AddTestCaseWebLink attaches a web link to the test case traceability tab.
func (c *Client) AddTestCaseWebLink(tc *TestCase, linkURL, description string) error {
	if tc.InternalID == 0 {
		return newError(KindInvalidValue, "testcase internal id not set, find testcase first")
	}
	payload := []map[string]interface{}{{
		"url":            linkURL,
		"urlDescription": description,
		"testCaseId":     tc.InternalID,
		"typeId":         setting.TraceLinkTypeWeb,
	}}
	err := c.do("POST", c.serviceURL+"/tracelink/bulk/create", payload, nil, false)
	if IsInvalidValue(err) {
		// the link already exists
		return nil
	}
	return err
}

// DeleteTestCase removes a test case; test-harness cleanup only.
func (c *Client) DeleteTestCase(key string) error {
	return c.do("DELETE", c.atmURL+"/testcase/"+key, nil, nil, false)
}

// AllProjectTestCases lists up to maxResults test cases of the project.
func (c *Client) AllProjectTestCases(maxResults int) ([]*TestCase, error) {
	v := url.Values{}
	v.Set("version", "1.0")
	v.Set("maxResults", strconv.Itoa(maxResults))
	v.Set("query", fmt.Sprintf("projectKey = %q", c.cfg.ProjectKey))

	var found []*TestCase
	if err := c.do("GET", c.atmURL+"/testcase/search?"+v.Encode(), nil, &found, false); err != nil {
		return nil, err
	}
	log.Infof("got %d testcases", len(found))
	return found, nil
}

// fetchTestCaseID loads the numeric id used by the tests/1.0 endpoints.
func (c *Client) fetchTestCaseID(tc *TestCase) error {
	if tc.Key == "" {
		return newError(KindInvalidValue, "testcase key not set, find testcase first")
	}
	if tc.InternalID != 0 {
		return nil
	}
	resp := &idResponse{}
	if err := c.do("GET", c.serviceURL+"/testcase/"+tc.Key+"?fields=id,projectId", nil, resp, true); err != nil {
		return err
	}
	tc.InternalID = resp.ID
	return nil
}

// searchURL composes an atm search endpoint with its TQL query.
func searchURL(base, entity, query string) string {
	v := url.Values{}
	v.Set("version", "1.0")
	v.Set("maxResults", strconv.Itoa(setting.SearchMaxResults))
	v.Set("query", query)
	return base + "/" + entity + "/search?" + v.Encode()
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func trimSlash(folder string) string {
	if len(folder) > 0 && folder[0] == '/' {
		return folder[1:]
	}
	return folder
}
