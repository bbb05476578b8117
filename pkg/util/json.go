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
	"encoding/json"
)

// StripNullValues serializes a payload for TM4J with every null-valued field
// removed. The server clobbers stored fields with explicit nulls, so they
// must never be sent. A "name" entry additionally goes through ClearName.
func StripNullValues(obj interface{}) ([]byte, error) {
	switch v := obj.(type) {
	case map[string]interface{}:
		return json.Marshal(stripMap(v))
	case []map[string]interface{}:
		result := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			result = append(result, stripMap(item))
		}
		return json.Marshal(result)
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				result = append(result, stripMap(m))
				continue
			}
			result = append(result, item)
		}
		return json.Marshal(result)
	default:
		return json.Marshal(obj)
	}
}

func stripMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if v == nil {
			continue
		}
		if k == "name" {
			if name, ok := v.(string); ok {
				v = ClearName(name)
			}
		}
		out[k] = v
	}
	return out
}
