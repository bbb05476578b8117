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
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/config"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
)

// CreationLogPath derives the csv log location from configuration: one file
// per top-level testcase folder inside the creation log dir.
func CreationLogPath() string {
	core := strings.Split(config.TestCaseFolder(), "/")[0]
	if core == "" {
		core = config.ProjectKey()
	}
	return filepath.Join(config.CreationLogDir(), core+".csv")
}

// CreationLog appends one key#name#sourcePath record per created test case.
// A separate key-injection pass reads it back to annotate feature files.
type CreationLog struct {
	mu   sync.Mutex
	path string
}

func NewCreationLog(path string) *CreationLog {
	return &CreationLog{path: path}
}

func (l *CreationLog) Append(key, name, sourcePath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.Wrap(err, "create creation log dir")
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open creation log")
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s#%s#%s\n", key, name, sourcePath); err != nil {
		return errors.Wrap(err, "write creation log")
	}
	log.Debugf("creation log: %s#%s#%s", key, name, sourcePath)
	return nil
}
