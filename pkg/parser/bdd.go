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

package parser

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/koderover/tm4j-adapter/pkg/exporter"
	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/tool/log"
	"github.com/koderover/tm4j-adapter/pkg/tool/tm4j"
	"github.com/koderover/tm4j-adapter/pkg/updater"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

// Feature is one parsed feature file. Grammar parsing is the caller's
// concern; this adapter consumes the already-parsed object.
type Feature struct {
	Name string
	// Background is the background section name, kept as precondition.
	Background string
	Tags       []string
	// Path is the source feature file location.
	Path      string
	Scenarios []*Scenario
}

// Scenario is one scenario or scenario outline of a feature.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Steps       []*tm4j.GherkinStep
	Examples    *ExamplesTable
}

// ExamplesTable is the outline's data table.
type ExamplesTable struct {
	Headings []string
	Rows     [][]string
}

type bddRecord struct {
	Key         string
	TestCase    *tm4j.TestCase
	Link        string
	FeatureFile string
}

// BDDParser synchronizes feature scenarios into test cases: find-or-create
// by name/key, full update of script/tags/parameters, a web link back to
// the source file, and optionally the server key injected back into the
// feature file.
type BDDParser struct {
	Folder       string
	KeyDelimiter string

	// FeaturesRoot anchors folder mirroring and repo links.
	FeaturesRoot string
	RepoLink     string

	CopyFolderStructure bool
	ParseJiraTags       bool
	TagsToExclude       []string
	UpdateFeatureFiles  bool
	Workers             int

	records []*bddRecord
	summary exporter.Summary
}

// ReadFeatures folds every scenario of every feature into testcase records.
func (p *BDDParser) ReadFeatures(features []*Feature) error {
	if len(features) == 0 {
		return errors.New("cannot read files to parse: files list is empty")
	}
	for _, feature := range features {
		if len(feature.Scenarios) == 0 {
			return errors.Errorf("no scenarios found in feature file %s", feature.Path)
		}
		for _, scenario := range feature.Scenarios {
			if rec := p.toRecord(feature, scenario); rec != nil {
				p.records = append(p.records, rec)
			}
		}
		p.summary.FilesRead++
	}
	return nil
}

func (p *BDDParser) toRecord(feature *Feature, scenario *Scenario) *bddRecord {
	name := strings.ReplaceAll(scenario.Name+scenario.Description, "[]", "")

	tags := append(append([]string{}, scenario.Tags...), feature.Tags...)
	parsed := util.ParseScenarioTags(tags)
	if p.hasObsoleteTags(parsed.Labels) {
		log.Infof("scenario %s is tagged as obsolete and will be skipped", name)
		return nil
	}
	if !p.ParseJiraTags {
		parsed.IssueLinks = nil
	}

	key, name := util.SplitNameKey(util.ClearName(name), p.KeyDelimiter)
	folderName, link := p.featurePaths(feature.Path)

	folder := p.Folder
	if p.CopyFolderStructure {
		folder = folder + "/" + folderName
	}

	tc := &tm4j.TestCase{
		Name:         name,
		Precondition: feature.Background,
		Objective:    feature.Name,
		Folder:       folder,
		Status:       setting.TestCaseStatusApproved,
		Priority:     parsed.Priority,
		Labels:       parsed.Labels,
		IssueLinks:   parsed.IssueLinks,
		TestScript:   tm4j.ScriptFromGherkin(scenario.Steps),
	}
	if scenario.Examples != nil && len(scenario.Examples.Headings) > 0 {
		tc.Parameters = makeParameters(scenario.Examples)
	}

	return &bddRecord{
		Key:         key,
		TestCase:    tc,
		Link:        link,
		FeatureFile: feature.Path,
	}
}

func (p *BDDParser) hasObsoleteTags(labels []string) bool {
	for _, label := range labels {
		for _, excluded := range p.TagsToExclude {
			if label == excluded {
				return true
			}
		}
	}
	return false
}

// featurePaths derives the mirrored folder name and the repo link from the
// feature file's position under the features root. A file directly at the
// root mirrors into the "..." folder.
func (p *BDDParser) featurePaths(featurePath string) (folderName, link string) {
	rel, err := filepath.Rel(p.FeaturesRoot, featurePath)
	if err != nil {
		rel = featurePath
	}
	rel = filepath.ToSlash(rel)
	link = p.RepoLink + "/" + rel

	folderName = strings.ReplaceAll(path.Dir(rel), " ", "_")
	if folderName == "." || folderName == "" {
		folderName = "..."
	}
	return folderName, link
}

func makeParameters(examples *ExamplesTable) *tm4j.Parameters {
	params := &tm4j.Parameters{}
	for _, heading := range examples.Headings {
		params.Variables = append(params.Variables, tm4j.Variable{
			Name: heading,
			Type: setting.VariableTypeFreeText,
		})
	}
	for _, row := range examples.Rows {
		entry := make(map[string]string, len(examples.Headings))
		for i, heading := range examples.Headings {
			if i < len(row) {
				entry[heading] = row[i]
			}
		}
		params.Entries = append(params.Entries, entry)
	}
	return params
}

// Export upserts every record: resolve (creating on miss), push the full
// update, link the source file, and inject fresh keys back into feature
// files when enabled.
func (p *BDDParser) Export(client *tm4j.Client) (*exporter.Summary, error) {
	engine := &exporter.Engine[*bddRecord]{
		Workers: p.Workers,
		Post: func(rec *bddRecord) error {
			return p.postRecord(client, rec)
		},
	}
	failed := engine.Export(p.records, &p.summary)
	if len(failed) > 0 {
		for _, rec := range failed {
			log.Errorf("testcase was not synchronized: %s (%s)", rec.TestCase.Name, rec.FeatureFile)
		}
	}
	return &p.summary, nil
}

func (p *BDDParser) postRecord(client *tm4j.Client, rec *bddRecord) error {
	tc, err := client.FindTestCase(&tm4j.FindTestCaseOptions{
		Name:       rec.TestCase.Name,
		Key:        rec.Key,
		Folder:     rec.TestCase.Folder,
		SourcePath: rec.FeatureFile,
		AutoCreate: true,
	})
	if err != nil {
		return err
	}

	rec.TestCase.Key = tc.Key
	rec.TestCase.InternalID = tc.InternalID
	if err := client.UpdateTestCase(rec.TestCase); err != nil {
		return err
	}
	if err := client.AddTestCaseWebLink(rec.TestCase, rec.Link, rec.Link); err != nil {
		return err
	}

	if p.UpdateFeatureFiles {
		if err := updater.UpdateFeatureFileWithKeys(tc.Key, rec.TestCase.Name, rec.FeatureFile, p.KeyDelimiter); err != nil {
			log.Errorf("key injection failed for %s: %v", rec.FeatureFile, err)
		}
	}
	return nil
}
