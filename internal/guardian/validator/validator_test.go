/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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

package validator

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/institution-link-service/internal/guardian/consistency"
	"github.com/wso2/institution-link-service/internal/guardian/model"
	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func newInstitution(id, name, state, address, stream string) *registrymodel.Institution {
	return &registrymodel.Institution{
		InstitutionId:     id,
		InstitutionName:   name,
		State:             state,
		Address:           address,
		Stream:            stream,
		NormalizedName:    utils.NormalizeText(name),
		NormalizedState:   constants.NormalizeState(utils.NormalizeText(state)),
		NormalizedAddress: utils.NormalizeText(address),
	}
}

func akbarpur() *registrymodel.Institution {
	return newInstitution("MED0734", "GOVERNMENT MEDICAL COLLEGE AKBARPUR",
		"UTTAR PRADESH", "AKBARPUR AMBEDKAR NAGAR UTTAR PRADESH", constants.StreamMedical)
}

func review(record matchingmodel.QueryRecord, proposal matchingmodel.ProposedMatch,
	institution *registrymodel.Institution) model.ReviewRecord {
	return model.ReviewRecord{Record: record, Proposal: proposal, Institution: institution}
}

func validate(t *testing.T, r model.ReviewRecord) model.Verdict {
	t.Helper()
	v := New(model.DefaultRuleSettings(), nil, nil)
	return v.Validate(r)
}

// ---------------------------------------------------------------------------
// Clean match – every rule holds
// ---------------------------------------------------------------------------

func TestValidate_CleanMatch_Passes(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId:     "rec-1",
			Name:         "Government Medical College Akbarpur",
			State:        "Uttar Pradesh",
			Address:      "Akbarpur, Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{
			RecordId:      "rec-1",
			InstitutionId: "MED0734",
			Confidence:    0.92,
			Source:        constants.SourceOracle,
		},
		akbarpur(),
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
	assert.Empty(t, verdict.Failed)
	assert.Empty(t, verdict.Warnings)
	assert.NotEmpty(t, verdict.Passed)
}

// ---------------------------------------------------------------------------
// Alias bypass
// ---------------------------------------------------------------------------

func TestValidate_AliasProposal_BypassesRules(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{RecordId: "rec-1", Name: "GMC Akbarpur", State: "Madhya Pradesh"},
		matchingmodel.ProposedMatch{
			RecordId:      "rec-1",
			InstitutionId: "MED0734",
			Confidence:    1.0,
			Source:        constants.SourceAlias,
		},
		akbarpur(),
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
	assert.True(t, verdict.AliasBypass)
	assert.Empty(t, verdict.Passed)
	assert.Empty(t, verdict.Failed)
}

// ---------------------------------------------------------------------------
// R01 – state agreement
// ---------------------------------------------------------------------------

func TestStateMatch_Mismatch_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Maharashtra", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Equal(t, model.RuleStateMatch, verdict.Failed[0].RuleId)
}

func TestStateMatch_LegacySpelling_Accepted(t *testing.T) {
	target := newInstitution("MED0100", "SCB Medical College", "ODISHA",
		"Mangalabag Cuttack", constants.StreamMedical)
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "SCB Medical College", State: "Orissa",
			Address: "Mangalabag Cuttack", CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0100",
			Confidence: 0.9, Source: constants.SourceOracle},
		target,
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
}

func TestStateMatch_MissingRecordState_Passes(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			Address: "Akbarpur Ambedkar Nagar", CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.96, Source: constants.SourceOracle},
		akbarpur(),
	))

	for _, failed := range verdict.Failed {
		assert.NotEqual(t, model.RuleStateMatch, failed.RuleId)
	}
}

// ---------------------------------------------------------------------------
// R02 – stream compatibility
// ---------------------------------------------------------------------------

func TestStreamMatch_DentalRecordAgainstMedicalTarget_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamDental,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	require.NotEmpty(t, verdict.Failed)
	assert.Equal(t, model.RuleStreamMatch, verdict.Failed[0].RuleId)
}

func TestStreamMatch_DNBRecordAgainstMedicalTarget_Passes(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamDNB,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
}

// ---------------------------------------------------------------------------
// R03 / R11 / R12 – confidence and address checks
// ---------------------------------------------------------------------------

func TestConfidenceFloor_LowConfidence_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.55, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleConfidenceFloor)
}

func TestConfidenceBand_MidBand_Quarantines(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.78, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionQuarantine, verdict.Action)
	assert.Contains(t, warningRuleIds(verdict), model.RuleConfidenceBand)
}

func TestMissingAddress_BelowHighConfidence_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleMissingAddress)
}

func TestMissingAddress_HighConfidence_Passes(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.97, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
}

// ---------------------------------------------------------------------------
// R05 / R06 – target identity
// ---------------------------------------------------------------------------

func TestSingleTarget_MultipleIds_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734,MED0744",
			Confidence: 0.9, Source: constants.SourceOracle},
		nil,
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleSingleTarget)
}

func TestEmbeddedCode_DisagreesWithProposal_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur (MED0734)",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0744",
			Confidence: 0.9, Source: constants.SourceOracle},
		newInstitution("MED0744", "GOVERNMENT MEDICAL COLLEGE AKBARPUR", "UTTAR PRADESH",
			"AKBARPUR AMBEDKAR NAGAR", constants.StreamMedical),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleEmbeddedCode)
}

func TestEmbeddedCode_AgreesWithProposal_Passes(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur (MED0734)",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
}

// ---------------------------------------------------------------------------
// R13 – location agreement
// ---------------------------------------------------------------------------

func TestLocationMatch_DisjointDistricts_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Ghazipur",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleLocationMatch)
}

func TestLocationMatch_SharedPincode_DoesNotBlock(t *testing.T) {
	target := newInstitution("MED0734", "GOVERNMENT MEDICAL COLLEGE AKBARPUR",
		"UTTAR PRADESH", "NH 233 Post Barwa 224122", constants.StreamMedical)
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Gandhi Marg Ward 224122",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		target,
	))

	// The spellings share nothing, but an agreeing pincode pins the place.
	assert.NotContains(t, failedRuleIds(verdict), model.RuleLocationMatch)
	assert.Equal(t, model.ActionPass, verdict.Action)
}

func TestLocationMatch_MissingRecordAddress_DoesNotBlock(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.97, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.NotContains(t, failedRuleIds(verdict), model.RuleLocationMatch)
}

// ---------------------------------------------------------------------------
// R15 – weak name similarity
// ---------------------------------------------------------------------------

func TestWeakSimilarity_UnrelatedName_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Sunrise Dental Academy",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleWeakSimilarity)
}

// ---------------------------------------------------------------------------
// R16 – cross-state aliasing
// ---------------------------------------------------------------------------

func TestCrossState_DelhiVariants_Pass(t *testing.T) {
	target := newInstitution("MED0200", "Maulana Azad Medical College", "NEW DELHI",
		"Bahadur Shah Zafar Marg", constants.StreamMedical)
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Maulana Azad Medical College", State: "Delhi",
			Address: "Bahadur Shah Zafar Marg", CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0200",
			Confidence: 0.9, Source: constants.SourceOracle},
		target,
	))

	assert.Equal(t, model.ActionPass, verdict.Action)
}

// ---------------------------------------------------------------------------
// R04 / R14 – batch consistency
// ---------------------------------------------------------------------------

func TestConsistency_ConflictingTargets_Blocks(t *testing.T) {
	record := matchingmodel.QueryRecord{
		RecordId: "rec-1", Name: "Government Medical College Akbarpur",
		State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
		CourseStream: constants.StreamMedical,
	}
	other := record
	other.RecordId = "rec-2"

	reviews := []model.ReviewRecord{
		review(record, matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle}, akbarpur()),
		review(other, matchingmodel.ProposedMatch{RecordId: "rec-2", InstitutionId: "MED0744",
			Confidence: 0.9, Source: constants.SourceOracle}, nil),
	}
	settings := model.DefaultRuleSettings()
	idx := consistency.Build(reviews, settings.AddressPrefixLength)

	verdict := New(settings, nil, idx).Validate(reviews[0])
	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleConsistency)
	assert.Equal(t, []string{"MED0744"}, verdict.Alternatives)
}

func TestConsistency_MultiCampusConflict_Quarantines(t *testing.T) {
	campusA := akbarpur()
	campusB := newInstitution("MED0735", "GOVERNMENT MEDICAL COLLEGE AKBARPUR",
		"UTTAR PRADESH", "KANPUR DEHAT CAMPUS ROAD", constants.StreamMedical)
	registry := registrymodel.NewRegistry(map[string][]*registrymodel.Institution{
		constants.StreamMedical: {campusA, campusB},
	})

	record := matchingmodel.QueryRecord{
		RecordId: "rec-1", Name: "Government Medical College Akbarpur",
		State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
		CourseStream: constants.StreamMedical,
	}
	other := record
	other.RecordId = "rec-2"

	reviews := []model.ReviewRecord{
		review(record, matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle}, campusA),
		review(other, matchingmodel.ProposedMatch{RecordId: "rec-2", InstitutionId: "MED0735",
			Confidence: 0.9, Source: constants.SourceOracle}, campusB),
	}
	settings := model.DefaultRuleSettings()
	idx := consistency.Build(reviews, settings.AddressPrefixLength)

	verdict := New(settings, registry, idx).Validate(reviews[0])
	assert.Equal(t, model.ActionQuarantine, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleConsistency)
	assert.Contains(t, verdict.Alternatives, "MED0735")
}

func TestSharedTargetSpread_DisjointAddresses_Blocks(t *testing.T) {
	first := matchingmodel.QueryRecord{
		RecordId: "rec-1", Name: "Government Medical College Akbarpur",
		State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
		CourseStream: constants.StreamMedical,
	}
	second := matchingmodel.QueryRecord{
		RecordId: "rec-2", Name: "Government Medical College",
		State: "Uttar Pradesh", Address: "Civil Lines Ghazipur",
		CourseStream: constants.StreamMedical,
	}

	reviews := []model.ReviewRecord{
		review(first, matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle}, akbarpur()),
		review(second, matchingmodel.ProposedMatch{RecordId: "rec-2", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceOracle}, akbarpur()),
	}
	settings := model.DefaultRuleSettings()
	idx := consistency.Build(reviews, settings.AddressPrefixLength)

	verdict := New(settings, nil, idx).Validate(reviews[1])
	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleSharedTargetSpread)
}

// ---------------------------------------------------------------------------
// R10 – provenance
// ---------------------------------------------------------------------------

func TestProvenance_Unvalidated_Blocks(t *testing.T) {
	verdict := validate(t, review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceUnvalidated},
		akbarpur(),
	))

	assert.Equal(t, model.ActionBlock, verdict.Action)
	assert.Contains(t, failedRuleIds(verdict), model.RuleProvenance)
}

// ---------------------------------------------------------------------------
// Disabled rules are skipped
// ---------------------------------------------------------------------------

func TestDisabledRule_IsSkipped(t *testing.T) {
	settings, err := writeAndLoadSettings(t, "disabled:\n  - R10\n")
	require.NoError(t, err)
	require.False(t, settings.IsEnabled(model.RuleProvenance))

	verdict := New(settings, nil, nil).Validate(review(
		matchingmodel.QueryRecord{
			RecordId: "rec-1", Name: "Government Medical College Akbarpur",
			State: "Uttar Pradesh", Address: "Akbarpur Ambedkar Nagar",
			CourseStream: constants.StreamMedical,
		},
		matchingmodel.ProposedMatch{RecordId: "rec-1", InstitutionId: "MED0734",
			Confidence: 0.9, Source: constants.SourceUnvalidated},
		akbarpur(),
	))

	assert.NotContains(t, failedRuleIds(verdict), model.RuleProvenance)
	assert.NotContains(t, warningRuleIds(verdict), model.RuleProvenance)
	assert.Equal(t, model.ActionPass, verdict.Action)
}

func writeAndLoadSettings(t *testing.T, yaml string) (model.RuleSettings, error) {
	t.Helper()
	path := t.TempDir() + "/guardian_rules.yaml"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		return model.RuleSettings{}, err
	}
	return model.LoadRuleSettings(path)
}

func failedRuleIds(verdict model.Verdict) []string {
	var ids []string
	for _, failed := range verdict.Failed {
		ids = append(ids, failed.RuleId)
	}
	return ids
}

func warningRuleIds(verdict model.Verdict) []string {
	var ids []string
	for _, warning := range verdict.Warnings {
		ids = append(ids, warning.RuleId)
	}
	return ids
}
