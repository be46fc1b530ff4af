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
	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
)

// Verdict actions, ordered by severity.
const (
	ActionPass       = "pass"
	ActionQuarantine = "quarantine"
	ActionBlock      = "block"
)

// Rule severities.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// ReviewRecord joins a query record with its proposed match and the
// resolved registry target. Institution is nil when the proposed id is
// unknown to the registry.
type ReviewRecord struct {
	Record      matchingmodel.QueryRecord   `json:"record"`
	Proposal    matchingmodel.ProposedMatch `json:"proposal"`
	Institution *registrymodel.Institution  `json:"institution,omitempty"`
}

// RuleResult is the outcome of one rule evaluation.
type RuleResult struct {
	RuleId     string `json:"rule_id"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Reclassify bool   `json:"-"`
}

// Verdict is the immutable validation outcome for one proposed match.
// Built exactly once by VerdictBuilder; never mutated afterwards.
type Verdict struct {
	RecordId      string       `json:"record_id"`
	InstitutionId string       `json:"institution_id"`
	Action        string       `json:"action"`
	Passed        []string     `json:"passed_rules"`
	Failed        []RuleResult `json:"failed_rules,omitempty"`
	Warnings      []RuleResult `json:"warnings,omitempty"`
	Alternatives  []string     `json:"alternative_ids,omitempty"`
	AliasBypass   bool         `json:"alias_bypass,omitempty"`
}

// VerdictBuilder accumulates rule outcomes and derives the final action.
type VerdictBuilder struct {
	recordId      string
	institutionId string
	passed        []string
	failed        []RuleResult
	warnings      []RuleResult
	alternatives  []string
	aliasBypass   bool
}

// NewVerdictBuilder starts a verdict for one proposed match.
func NewVerdictBuilder(recordId, institutionId string) *VerdictBuilder {

	return &VerdictBuilder{
		recordId:      recordId,
		institutionId: institutionId,
	}
}

// Pass records a rule that held.
func (b *VerdictBuilder) Pass(ruleId string) *VerdictBuilder {

	b.passed = append(b.passed, ruleId)
	return b
}

// Fail records a critical rule failure. Reclassifiable failures demote a
// would-be block to quarantine when no firm failure accompanies them.
func (b *VerdictBuilder) Fail(ruleId, message string, reclassify bool) *VerdictBuilder {

	b.failed = append(b.failed, RuleResult{
		RuleId:     ruleId,
		Severity:   SeverityCritical,
		Message:    message,
		Reclassify: reclassify,
	})
	return b
}

// Warn records a warning-severity rule failure.
func (b *VerdictBuilder) Warn(ruleId, message string) *VerdictBuilder {

	b.warnings = append(b.warnings, RuleResult{
		RuleId:   ruleId,
		Severity: SeverityWarning,
		Message:  message,
	})
	return b
}

// Alternatives records the other master ids a consistency conflict
// proposed for the same key, so a downstream resolver can disambiguate.
func (b *VerdictBuilder) Alternatives(institutionIds []string) *VerdictBuilder {

	b.alternatives = institutionIds
	return b
}

// AliasBypass marks the verdict as resolved by a confirmed alias.
func (b *VerdictBuilder) AliasBypass() *VerdictBuilder {

	b.aliasBypass = true
	return b
}

// Build derives the action and returns the finished verdict. Critical
// failures block, unless every one of them is reclassifiable; warnings
// quarantine; everything else passes.
func (b *VerdictBuilder) Build() Verdict {

	action := ActionPass
	switch {
	case len(b.failed) > 0:
		action = ActionBlock
		if allReclassifiable(b.failed) {
			action = ActionQuarantine
		}
	case len(b.warnings) > 0:
		action = ActionQuarantine
	}

	return Verdict{
		RecordId:      b.recordId,
		InstitutionId: b.institutionId,
		Action:        action,
		Passed:        b.passed,
		Failed:        b.failed,
		Warnings:      b.warnings,
		Alternatives:  b.alternatives,
		AliasBypass:   b.aliasBypass,
	}
}

func allReclassifiable(failed []RuleResult) bool {

	for _, result := range failed {
		if !result.Reclassify {
			return false
		}
	}
	return true
}

// BatchResult summarizes one validated batch.
type BatchResult struct {
	BatchId      string         `json:"batch_id"`
	Verdicts     []Verdict      `json:"verdicts"`
	Passed       int            `json:"passed"`
	Quarantined  int            `json:"quarantined"`
	Blocked      int            `json:"blocked"`
	Unmatched    int            `json:"unmatched"`
	RuleTriggers map[string]int `json:"rule_triggers,omitempty"`
}
