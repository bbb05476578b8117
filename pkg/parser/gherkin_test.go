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
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleFeature = `@smoke @JQA-100
Feature: Checkout

  Background: a logged in user

  @P1
  Scenario: Simple purchase
    The happy path through the shop
    Given the cart has <count> items
    When the user pays
      """
      {"method": "card"}
      """
    Then the order is confirmed

  Scenario Outline: Bulk purchase
    Given the cart has <count> items
    Then the total is <total>

    Examples:
      | count | total |
      | 1     | 9     |
      | 2     | 18    |
`

func TestLoadFeatureFile(t *testing.T) {
	feature, err := LoadFeatureFile(writeTempFile(t, "checkout.feature", sampleFeature))
	assert.NoError(t, err)

	assert.Equal(t, "Checkout", feature.Name)
	assert.Equal(t, []string{"smoke", "JQA-100"}, feature.Tags)
	assert.Equal(t, "a logged in user", feature.Background)
	assert.Len(t, feature.Scenarios, 2)

	simple := feature.Scenarios[0]
	assert.Equal(t, "Simple purchase", simple.Name)
	assert.Equal(t, []string{"P1"}, simple.Tags)
	assert.Equal(t, "The happy path through the shop", simple.Description)
	assert.Len(t, simple.Steps, 3)
	assert.Equal(t, "Given", simple.Steps[0].Keyword)
	assert.Equal(t, "the cart has <count> items", simple.Steps[0].Name)
	assert.Equal(t, `{"method": "card"}`, simple.Steps[1].Text)
	assert.Nil(t, simple.Examples)

	bulk := feature.Scenarios[1]
	assert.Empty(t, bulk.Tags)
	assert.NotNil(t, bulk.Examples)
	assert.Equal(t, []string{"count", "total"}, bulk.Examples.Headings)
	assert.Equal(t, [][]string{{"1", "9"}, {"2", "18"}}, bulk.Examples.Rows)
}

func TestLoadFeatureFileWithoutScenarios(t *testing.T) {
	_, err := LoadFeatureFile(writeTempFile(t, "empty.feature", "Feature: Nothing here\n"))
	assert.Error(t, err)
}
