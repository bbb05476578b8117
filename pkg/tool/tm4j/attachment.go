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
	"strconv"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/tool/httpclient"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
)

// AttachTestCycleFile uploads a file onto the cycle's attachments tab.
func (c *Client) AttachTestCycleFile(cycleKey, filePath string) error {
	if cycleKey == "" {
		return newError(KindInvalidValue, "testcycle key not set, find testcycle first")
	}
	return c.attach(c.atmURL+"/testrun/"+cycleKey+"/attachments", filePath)
}

// AttachTestResultFile uploads a file onto one recorded test result.
func (c *Client) AttachTestResultFile(testResultID int, filePath string) error {
	if filePath == "" {
		return nil
	}
	if testResultID == 0 {
		return newError(KindInvalidValue, "test result id not set, post a result first")
	}
	return c.attach(c.atmURL+"/testresult/"+strconv.Itoa(testResultID)+"/attachments", filePath)
}

// AttachStepResultFile uploads a file onto one step (data row) execution.
func (c *Client) AttachStepResultFile(stepResultID int, filePath string) error {
	if filePath == "" {
		return nil
	}
	return c.attach(c.serviceURL+"/testscriptresult/"+strconv.Itoa(stepResultID)+"/attachment", filePath)
}

func (c *Client) attach(url, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "open attachment %s", filePath)
	}
	defer f.Close()

	_, err = c.http.Post(url, httpclient.SetFileReader("file", filepath.Base(filePath), f))
	if err != nil {
		return c.classify(err)
	}
	log.Debugf("attached %s to %s", filePath, url)
	return nil
}
