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

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/koderover/tm4j-adapter/pkg/config"
	"github.com/koderover/tm4j-adapter/pkg/parser"
	"github.com/koderover/tm4j-adapter/pkg/setting"
	"github.com/koderover/tm4j-adapter/pkg/util"
)

var bddCmd = &cobra.Command{
	Use:   "bdd",
	Short: "Synchronize feature scenarios into test cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBDD()
	},
}

func init() {
	bddCmd.Flags().String("features", "", "feature file or directory to synchronize")
	bddCmd.Flags().String("repo-link", "", "base link to the feature files in the source repository")
	bddCmd.Flags().Bool("copy-folder-structure", false, "mirror the feature tree into test case folders")
	bddCmd.Flags().Bool("parse-jira-tags", false, "turn issue-shaped tags into issue links")
	bddCmd.Flags().StringSlice("tags-to-exclude", nil, "skip scenarios carrying any of these tags")
	bddCmd.Flags().Bool("update-feature-files", false, "inject created test case keys back into feature files")

	_ = viper.BindPFlag(setting.ENVBDDFeaturesRoot, bddCmd.Flags().Lookup("features"))
	_ = viper.BindPFlag(setting.ENVBDDRepoLink, bddCmd.Flags().Lookup("repo-link"))
	_ = viper.BindPFlag(setting.ENVBDDCopyFolderStructure, bddCmd.Flags().Lookup("copy-folder-structure"))
	_ = viper.BindPFlag(setting.ENVBDDParseJiraTags, bddCmd.Flags().Lookup("parse-jira-tags"))
	_ = viper.BindPFlag(setting.ENVBDDTagsToExclude, bddCmd.Flags().Lookup("tags-to-exclude"))
	_ = viper.BindPFlag(setting.ENVBDDUpdateFeatureFiles, bddCmd.Flags().Lookup("update-feature-files"))

	rootCmd.AddCommand(bddCmd)
}

func runBDD() error {
	files, err := util.ListFiles(config.BDDFeaturesRoot(), "feature")
	if err != nil {
		return err
	}
	features, err := parser.LoadFeatures(files)
	if err != nil {
		return err
	}

	p := &parser.BDDParser{
		Folder:              config.TestCaseFolder(),
		KeyDelimiter:        config.KeyDelimiter(),
		FeaturesRoot:        config.BDDFeaturesRoot(),
		RepoLink:            config.BDDRepoLink(),
		CopyFolderStructure: config.BDDCopyFolderStructure(),
		ParseJiraTags:       config.BDDParseJiraTags(),
		TagsToExclude:       config.BDDTagsToExclude(),
		UpdateFeatureFiles:  config.BDDUpdateFeatureFiles(),
		Workers:             config.ExportWorkers(),
	}
	if err := p.ReadFeatures(features); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	_, err = p.Export(client)
	return err
}
