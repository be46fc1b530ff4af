/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Guardian rule ids.
const (
	RuleStateMatch         = "R01"
	RuleStreamMatch        = "R02"
	RuleConfidenceFloor    = "R03"
	RuleConsistency        = "R04"
	RuleSingleTarget       = "R05"
	RuleEmbeddedCode       = "R06"
	RuleWordOverlap        = "R07"
	RuleFuzzySimilarity    = "R08"
	RuleReserved           = "R09"
	RuleProvenance         = "R10"
	RuleConfidenceBand     = "R11"
	RuleMissingAddress     = "R12"
	RuleLocationMatch      = "R13"
	RuleSharedTargetSpread = "R14"
	RuleWeakSimilarity     = "R15"
	RuleCrossState         = "R16"
)

// RuleSettings are the guardian thresholds. All zero-valued thresholds
// are replaced by the defaults, so a partial YAML file only overrides
// what it names.
type RuleSettings struct {
	Disabled             []string `yaml:"disabled"`
	ConfidenceFloor      float64  `yaml:"confidence_floor"`
	HighConfidence       float64  `yaml:"high_confidence"`
	ConfidenceBandUpper  float64  `yaml:"confidence_band_upper"`
	WordOverlapFloor     float64  `yaml:"word_overlap_floor"`
	FuzzyFloor           float64  `yaml:"fuzzy_floor"`
	LocationOverlapFloor float64  `yaml:"location_overlap_floor"`
	TokenSetFloor        float64  `yaml:"token_set_floor"`
	PartialRatioFloor    float64  `yaml:"partial_ratio_floor"`
	AddressPrefixLength  int      `yaml:"address_prefix_length"`

	disabledSet map[string]bool
}

// DefaultRuleSettings returns the built-in thresholds.
func DefaultRuleSettings() RuleSettings {

	settings := RuleSettings{
		ConfidenceFloor:      0.70,
		HighConfidence:       0.95,
		ConfidenceBandUpper:  0.85,
		WordOverlapFloor:     0.30,
		FuzzyFloor:           0.70,
		LocationOverlapFloor: 0.50,
		TokenSetFloor:        0.40,
		PartialRatioFloor:    0.80,
		AddressPrefixLength:  50,
	}
	settings.finalize()
	return settings
}

// LoadRuleSettings reads a YAML rules file and merges it over the
// defaults. A missing path returns the defaults unchanged.
func LoadRuleSettings(path string) (RuleSettings, error) {

	settings := DefaultRuleSettings()
	if path == "" {
		return settings, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}

	var loaded RuleSettings
	if err := yaml.Unmarshal(file, &loaded); err != nil {
		return settings, err
	}

	if loaded.ConfidenceFloor > 0 {
		settings.ConfidenceFloor = loaded.ConfidenceFloor
	}
	if loaded.HighConfidence > 0 {
		settings.HighConfidence = loaded.HighConfidence
	}
	if loaded.ConfidenceBandUpper > 0 {
		settings.ConfidenceBandUpper = loaded.ConfidenceBandUpper
	}
	if loaded.WordOverlapFloor > 0 {
		settings.WordOverlapFloor = loaded.WordOverlapFloor
	}
	if loaded.FuzzyFloor > 0 {
		settings.FuzzyFloor = loaded.FuzzyFloor
	}
	if loaded.LocationOverlapFloor > 0 {
		settings.LocationOverlapFloor = loaded.LocationOverlapFloor
	}
	if loaded.TokenSetFloor > 0 {
		settings.TokenSetFloor = loaded.TokenSetFloor
	}
	if loaded.PartialRatioFloor > 0 {
		settings.PartialRatioFloor = loaded.PartialRatioFloor
	}
	if loaded.AddressPrefixLength > 0 {
		settings.AddressPrefixLength = loaded.AddressPrefixLength
	}
	settings.Disabled = loaded.Disabled
	settings.finalize()
	return settings, nil
}

// IsEnabled reports whether a rule should run.
func (s *RuleSettings) IsEnabled(ruleId string) bool {

	return !s.disabledSet[ruleId]
}

func (s *RuleSettings) finalize() {

	s.disabledSet = make(map[string]bool, len(s.Disabled))
	for _, ruleId := range s.Disabled {
		s.disabledSet[ruleId] = true
	}
}
