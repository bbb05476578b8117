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
	"strconv"
	"strings"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/config"
	"github.com/koderover/tm4j-adapter/pkg/tool/httpclient"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
)

const (
	atmURISuffix = "/rest/atm/1.0"

	// immediately after a write the server may answer an empty body for a
	// short while; reads that need the body are retried this many times
	maxBodyAttempts     = 3
	emptyBodyRetryDelay = time.Second
)

// Config carries everything a Client needs. Zero-value toggles mean
// "do not auto-create".
type Config struct {
	// BaseURL is the ATM API base, e.g. https://jira.example.com/rest/atm/1.0
	BaseURL    string
	Login      string
	Password   string
	ProjectKey string

	TestCaseFolder  string
	TestCycleFolder string
	KeyDelimiter    string

	CreateTestCase        bool
	CreateTestCycle       bool
	CreateTestCaseFolder  bool
	CreateTestCycleFolder bool
	CreateStep            bool

	// CreationLogPath, when set, receives one key#name#source record per
	// created test case.
	CreationLogPath string
}

// ConfigFromEnv assembles a Config from the viper-bound environment.
func ConfigFromEnv() *Config {
	return &Config{
		BaseURL:               config.Tm4jURL(),
		Login:                 config.Tm4jLogin(),
		Password:              config.Tm4jPassword(),
		ProjectKey:            config.ProjectKey(),
		TestCaseFolder:        config.TestCaseFolder(),
		TestCycleFolder:       config.TestCycleFolder(),
		KeyDelimiter:          config.KeyDelimiter(),
		CreateTestCase:        config.CreateTestCase(),
		CreateTestCycle:       config.CreateTestCycle(),
		CreateTestCaseFolder:  config.CreateTestCaseFolder(),
		CreateTestCycleFolder: config.CreateTestCycleFolder(),
		CreateStep:            config.CreateStep(),
		CreationLogPath:       CreationLogPath(),
	}
}

// Client talks to one TM4J project. Resolution methods return the resolved
// entities explicitly; a Client holds no per-entity mutable context, so the
// only reason to construct one per worker is connection affinity, not
// correctness.
type Client struct {
	cfg *Config

	http       *httpclient.Client
	classifier *Classifier

	atmURL     string // .../rest/atm/1.0
	serviceURL string // .../rest/tests/1.0

	jira *jira.Client

	ProjectID int

	creationLog *CreationLog
}

// NewClient builds a client and resolves the numeric project id, which
// several tests/1.0 endpoints require instead of the project key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" || cfg.ProjectKey == "" {
		return nil, newError(KindInvalidValue, "TM4J url and project key must be configured")
	}

	c := &Client{
		cfg:        cfg,
		classifier: NewClassifier(),
		atmURL:     cfg.BaseURL,
		serviceURL: strings.Replace(cfg.BaseURL, "atm", "tests", 1),
		http: httpclient.New(
			httpclient.SetClientBasicAuth(cfg.Login, cfg.Password),
		),
	}

	hostRoot := strings.TrimSuffix(cfg.BaseURL, atmURISuffix)
	tp := jira.BasicAuthTransport{Username: cfg.Login, Password: cfg.Password}
	jiraClient, err := jira.NewClient(tp.Client(), hostRoot)
	if err != nil {
		return nil, errors.Wrap(err, "init jira client")
	}
	c.jira = jiraClient

	if cfg.CreationLogPath != "" {
		c.creationLog = NewCreationLog(cfg.CreationLogPath)
	}

	var projects []*project
	if err := c.do("GET", c.serviceURL+"/project", nil, &projects, false); err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	for _, p := range projects {
		if p.Key == cfg.ProjectKey {
			c.ProjectID = p.ID
		}
	}
	if c.ProjectID == 0 {
		return nil, newError(KindObjectNotFound, "project %s not found", cfg.ProjectKey)
	}

	return c, nil
}

var errEmptyBody = errors.New("response body expected but empty")

// do performs one API call. body may be a struct, a raw pre-marshaled
// []byte, or nil; result receives the parsed response when non-nil. When
// expectBody is set and the server answers an empty body, the call is
// repeated up to maxBodyAttempts times before giving up with the result
// left untouched — the server's observed consistency lag after writes.
func (c *Client) do(method, url string, body, result interface{}, expectBody bool) error {
	attempt := func() error {
		var rfs []httpclient.RequestFunc
		if body != nil {
			rfs = append(rfs, httpclient.SetBody(body))
		}

		res, err := c.http.Request(method, url, rfs...)
		if err != nil {
			return backoff.Permanent(c.classify(err))
		}

		payload := res.Body()
		log.Debugf("%s %s: %d bytes", method, url, len(payload))
		if len(payload) == 0 {
			if expectBody {
				log.Infof("results expected for %s, retrying", url)
				return errEmptyBody
			}
			return nil
		}
		if result != nil {
			if err := json.Unmarshal(payload, result); err != nil {
				return backoff.Permanent(errors.Wrapf(err, "unmarshal response of %s %s", method, url))
			}
		}
		return nil
	}

	err := backoff.Retry(attempt, backoff.WithMaxRetries(backoff.NewConstantBackOff(emptyBodyRetryDelay), maxBodyAttempts-1))
	if errors.Is(err, errEmptyBody) {
		log.Errorf("%s %s: max retries exceeded waiting for a response body", method, url)
		return nil
	}
	return err
}

// classify funnels transport failures through the response-body classifier.
func (c *Client) classify(err error) error {
	httpErr := &httpclient.Error{}
	if errors.As(err, &httpErr) {
		return c.classifier.Classify(httpErr.Code, httpErr.Detail)
	}
	return errors.Wrap(err, "request failed")
}

// jiraIssueID resolves a Jira issue key into its internal numeric id.
func (c *Client) jiraIssueID(issueKey string) (string, error) {
	issue, _, err := c.jira.Issue.Get(issueKey, nil)
	if err != nil {
		return "", errors.Wrapf(err, "get jira issue %s", issueKey)
	}
	return issue.ID, nil
}

// StatusCodes fetches the project's execution status table (Pass/Fail/...
// to numeric id), used once per run.
func (c *Client) StatusCodes() ([]*StatusCode, error) {
	var codes []*StatusCode
	url := c.serviceURL + "/project/" + strconv.Itoa(c.ProjectID) + "/testresultstatus/"
	if err := c.do("GET", url, nil, &codes, false); err != nil {
		return nil, err
	}
	return codes, nil
}
