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
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// ErrorKind classifies a TM4J API failure.
type ErrorKind string

const (
	// KindObjectNotFound means the entity is absent and autocreation is not allowed.
	KindObjectNotFound ErrorKind = "ObjectNotFound"
	// KindFolderNotFound means a referenced folder does not exist yet. It is
	// recoverable: the caller provisions the folder and retries once.
	KindFolderNotFound ErrorKind = "FolderNotFound"
	// KindInvalidFolderName means the folder name fails validation. Fatal,
	// raised before any network call.
	KindInvalidFolderName ErrorKind = "InvalidFolderName"
	// KindEnvironmentNotFound means the execution environment name is unknown
	// to the project. Recoverable through environment provisioning.
	KindEnvironmentNotFound ErrorKind = "EnvironmentNotFound"
	// KindInvalidValue means a field value was rejected.
	KindInvalidValue ErrorKind = "InvalidValue"
	// KindServiceError covers 5xx and anything unexpected.
	KindServiceError ErrorKind = "ServiceError"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func KindOf(err error) ErrorKind {
	e := &Error{}
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsObjectNotFound(err error) bool      { return KindOf(err) == KindObjectNotFound }
func IsFolderNotFound(err error) bool      { return KindOf(err) == KindFolderNotFound }
func IsInvalidFolderName(err error) bool   { return KindOf(err) == KindInvalidFolderName }
func IsEnvironmentNotFound(err error) bool { return KindOf(err) == KindEnvironmentNotFound }
func IsInvalidValue(err error) bool        { return KindOf(err) == KindInvalidValue }

// Classifier maps structured 400 response bodies onto error kinds by
// substring patterns. The server wording is brittle, so the pattern list is
// pluggable; order matters — folder errors must be checked before the
// generic "was not found for field" pattern which they also match.
type Classifier struct {
	patterns []bodyPattern
}

type bodyPattern struct {
	re   *regexp.Regexp
	kind ErrorKind
}

func NewClassifier() *Classifier {
	return &Classifier{
		patterns: []bodyPattern{
			{regexp.MustCompile(`not found for field folder`), KindFolderNotFound},
			{regexp.MustCompile(`folder should start with a slash`), KindInvalidFolderName},
			{regexp.MustCompile(`was not found for field environment on project`), KindEnvironmentNotFound},
			{regexp.MustCompile(`was not found for field`), KindInvalidValue},
		},
	}
}

// Classify translates an HTTP status code plus response body into a typed
// error. A nil return means the caller should treat the response as a plain
// transport failure.
func (c *Classifier) Classify(code int, body string) error {
	detail := fmt.Sprintf("status %d, details: %q", code, body)
	switch {
	case code == http.StatusBadRequest:
		for _, p := range c.patterns {
			if p.re.MatchString(body) {
				return newError(p.kind, "%s", detail)
			}
		}
		return newError(KindInvalidValue, "%s", detail)
	case code == http.StatusNotFound:
		return newError(KindObjectNotFound, "%s", detail)
	default:
		return newError(KindServiceError, "%s", detail)
	}
}
