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
	"strings"

	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// CheckFolderName validates a folder path before any network call: after
// stripping the separators "/", "_", "..." and "-" it must be alphanumeric.
func CheckFolderName(folder string) error {
	stripped := strings.NewReplacer("/", "", "_", "", "...", "", "-", "").Replace(folder)
	if stripped == "" || !isAlnum(stripped) {
		return newError(KindInvalidFolderName, "folder %q must have an alphanumeric name", folder)
	}
	return nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// CreateFolder provisions a missing folder of the given type, honoring the
// per-type auto-create toggle. The remote API enforces folder-before-entity
// creation order; callers retry the entity creation once after this.
func (c *Client) CreateFolder(folderType, name string) error {
	allowed := (folderType == setting.FolderTypeTestCase && c.cfg.CreateTestCaseFolder) ||
		(folderType == setting.FolderTypeTestRun && c.cfg.CreateTestCycleFolder)
	if !allowed {
		return newError(KindObjectNotFound, "%s folder %q is not found and auto-create is turned off", folderType, name)
	}

	log.Infof("creating new %s folder %s", folderType, name)
	payload, err := util.StripNullValues(map[string]interface{}{
		"projectKey": c.cfg.ProjectKey,
		"name":       "/" + name,
		"type":       folderType,
	})
	if err != nil {
		return err
	}
	return c.do("POST", c.atmURL+"/folder", payload, nil, false)
}
