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

	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// FindTestCycleOptions control one cycle resolution. The search API cannot
// filter cycles by name, so matching happens client-side on the folder's
// listing.
type FindTestCycleOptions struct {
	Name   string
	Folder string
	// IssueKeys are linked to the cycle when it has to be created.
	IssueKeys []string
	// AutoCreate overrides the config toggle for this call only.
	AutoCreate bool
}

// FindTestCycle resolves a test cycle by (name, folder), creating it when
// allowed. Repeated calls with the same name return the same cycle.
func (c *Client) FindTestCycle(opts *FindTestCycleOptions) (*TestCycle, error) {
	autocreate := opts.AutoCreate || c.cfg.CreateTestCycle

	name := util.ClearName(opts.Name)
	if name == "" {
		return nil, newError(KindInvalidValue, "testcycle name cannot be empty")
	}
	folder := opts.Folder
	if folder == "" {
		folder = c.cfg.TestCycleFolder
	}
	if folder != "" {
		if err := CheckFolderName(folder); err != nil {
			return nil, err
		}
	}

	query := fmt.Sprintf("projectKey = %q", c.cfg.ProjectKey)
	if folder != "" {
		query += fmt.Sprintf(" AND folder = %q", "/"+folder)
	}

	var found []*TestCycle
	err := c.do("GET", searchURL(c.atmURL, "testrun", query), nil, &found, true)
	if IsFolderNotFound(err) {
		if err := c.CreateFolder(setting.FolderTypeTestRun, folder); err != nil {
			return nil, err
		}
		return c.CreateTestCycle(name, folder, opts.IssueKeys)
	}
	if err != nil {
		return nil, err
	}

	for _, cycle := range found {
		if cycle.Name == name {
			if err := c.fetchTestCycleID(cycle); err != nil {
				return nil, err
			}
			return cycle, nil
		}
	}

	if !autocreate {
		return nil, newError(KindObjectNotFound,
			"testcycle %q not found and autocreate is turned off", name)
	}
	log.Infof("cannot find testcycle %s, will create a new one", name)
	return c.CreateTestCycle(name, folder, opts.IssueKeys)
}

// CreateTestCycle posts a new cycle and links the given Jira issues to it.
// Issue link failures are logged, not fatal: the cycle is already usable.
func (c *Client) CreateTestCycle(name, folder string, issueKeys []string) (*TestCycle, error) {
	if name == "" {
		return nil, newError(KindInvalidValue, "testcycle name cannot be empty")
	}

	payload, err := util.StripNullValues(map[string]interface{}{
		"projectKey": c.cfg.ProjectKey,
		"name":       name,
		"folder":     "/" + folder,
	})
	if err != nil {
		return nil, err
	}

	created := &keyResponse{}
	if err := c.do("POST", c.atmURL+"/testrun", payload, created, true); err != nil {
		if !IsFolderNotFound(err) {
			return nil, err
		}
		if err := c.CreateFolder(setting.FolderTypeTestRun, folder); err != nil {
			return nil, err
		}
		if err := c.do("POST", c.atmURL+"/testrun", payload, created, true); err != nil {
			return nil, err
		}
	}
	log.Infof("testcycle %s created successfully", created.Key)

	cycle := &TestCycle{
		ProjectKey: c.cfg.ProjectKey,
		Key:        created.Key,
		Name:       name,
		Folder:     "/" + folder,
	}
	if err := c.fetchTestCycleID(cycle); err != nil {
		return nil, err
	}

	for _, issueKey := range issueKeys {
		if err := c.linkCycleIssue(cycle, issueKey); err != nil {
			log.Errorf("link issue %s to testcycle %s: %v", issueKey, cycle.Key, err)
		}
	}
	return cycle, nil
}

// linkCycleIssue adds one Jira issue to the cycle's traceability tab. The
// tracelink endpoint wants the issue's numeric id, not its key.
func (c *Client) linkCycleIssue(cycle *TestCycle, issueKey string) error {
	issueID, err := c.jiraIssueID(issueKey)
	if err != nil {
		return err
	}
	payload := []map[string]interface{}{{
		"testRunId": cycle.InternalID,
		"issueId":   issueID,
		"typeId":    setting.TraceLinkTypeIssue,
	}}
	return c.do("POST", c.serviceURL+"/tracelink/bulk/create", payload, nil, false)
}

// DeleteTestCycle removes a cycle; test-harness cleanup only.
func (c *Client) DeleteTestCycle(key string) error {
	return c.do("DELETE", c.atmURL+"/testrun/"+key, nil, nil, false)
}

func (c *Client) fetchTestCycleID(cycle *TestCycle) error {
	if cycle.Key == "" {
		return newError(KindInvalidValue, "testcycle key not set, find testcycle first")
	}
	if cycle.InternalID != 0 {
		return nil
	}
	resp := &idResponse{}
	if err := c.do("GET", c.serviceURL+"/testrun/"+cycle.Key+"?fields=id", nil, resp, true); err != nil {
		return err
	}
	cycle.InternalID = resp.ID
	return nil
}
