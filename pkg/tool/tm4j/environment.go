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
	"net/url"
	"strings"

	"github.com/koderover/tm4j-adapter/pkg/tool/log"
)

// EnsureEnvironment returns the server-side spelling of the named execution
// environment, creating it when missing. Matching is case-insensitive
// because the server rejects a result whose environment differs only in
// case from the stored one.
func (c *Client) EnsureEnvironment(name string) (string, error) {
	if name == "" {
		return "", nil
	}

	v := url.Values{}
	v.Set("projectKey", c.cfg.ProjectKey)

	var envs []*environment
	if err := c.do("GET", c.atmURL+"/environments?"+v.Encode(), nil, &envs, false); err != nil {
		return "", err
	}
	for _, env := range envs {
		if strings.EqualFold(env.Name, name) {
			if env.Name != name {
				log.Warnf("environment name is case-sensitive: configured %q, server has %q; fix the configuration", name, env.Name)
			}
			return env.Name, nil
		}
	}

	log.Infof("environment %s not found, creating", name)
	payload := map[string]interface{}{
		"projectKey":  c.cfg.ProjectKey,
		"name":        name,
		"description": name,
	}
	if err := c.do("POST", c.atmURL+"/environments", payload, nil, false); err != nil {
		return "", err
	}
	return name, nil
}
