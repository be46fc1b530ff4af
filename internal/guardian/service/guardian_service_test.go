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

package service

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/institution-link-service/internal/audit"
	"github.com/wso2/institution-link-service/internal/guardian/model"
	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type stubRegistryService struct {
	registry *registrymodel.Registry
}

func (s *stubRegistryService) Load() (*registrymodel.Registry, error) {
	return s.registry, nil
}

func (s *stubRegistryService) Snapshot() *registrymodel.Registry {
	return s.registry
}

func (s *stubRegistryService) GetInstitution(institutionId string) (*registrymodel.Institution, error) {
	if institution, ok := s.registry.ById(institutionId); ok {
		return institution, nil
	}
	return nil, nil
}

type recordingSink struct {
	mutex   sync.Mutex
	entries []audit.Entry
}

func (s *recordingSink) Write(_ context.Context, entry audit.Entry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *recordingSink) Close(context.Context) error { return nil }

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

func newTestGuardian(t *testing.T) GuardianServiceInterface {
	t.Helper()
	registry := registrymodel.NewRegistry(map[string][]*registrymodel.Institution{
		constants.StreamMedical: {
			newInstitution("MED0734", "GOVERNMENT MEDICAL COLLEGE AKBARPUR",
				"UTTAR PRADESH", "AKBARPUR AMBEDKAR NAGAR UTTAR PRADESH", constants.StreamMedical),
			newInstitution("MED0744", "GOVERNMENT MEDICAL COLLEGE GHAZIPUR",
				"UTTAR PRADESH", "RTI CHAURAHA GHAZIPUR", constants.StreamMedical),
		},
	})
	InitGuardianService(model.DefaultRuleSettings(), &stubRegistryService{registry: registry},
		&recordingSink{}, 4)
	return GetGuardianService()
}

func reviewFor(recordId, name, state, address, institutionId string,
	confidence float64, source string) model.ReviewRecord {
	return model.ReviewRecord{
		Record: matchingmodel.QueryRecord{
			RecordId: recordId, Name: name, State: state, Address: address,
			CourseStream: constants.StreamMedical,
		},
		Proposal: matchingmodel.ProposedMatch{
			RecordId: recordId, InstitutionId: institutionId,
			Confidence: confidence, Source: source,
		},
	}
}

// ---------------------------------------------------------------------------
// Batch validation
// ---------------------------------------------------------------------------

func TestValidateBatch_BucketsVerdicts(t *testing.T) {
	guardian := newTestGuardian(t)

	reviews := []model.ReviewRecord{
		// Clean pass.
		reviewFor("rec-1", "Government Medical College Akbarpur", "Uttar Pradesh",
			"Akbarpur Ambedkar Nagar", "MED0734", 0.92, constants.SourceOracle),
		// State mismatch blocks.
		reviewFor("rec-2", "Government Medical College Akbarpur", "Maharashtra",
			"Akbarpur Ambedkar Nagar", "MED0734", 0.92, constants.SourceOracle),
		// Mid-band confidence quarantines.
		reviewFor("rec-3", "Government Medical College Ghazipur", "Uttar Pradesh",
			"Rti Chauraha Ghazipur", "MED0744", 0.78, constants.SourceOracle),
		// No proposal stays unmatched, never validated.
		reviewFor("rec-4", "Unknown Institute", "Uttar Pradesh", "", "", 0, ""),
	}

	result, err := guardian.ValidateBatch(context.Background(), reviews)
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchId)
	assert.Len(t, result.Verdicts, 3)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Quarantined)
	assert.Equal(t, 1, result.Blocked)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, 1, result.RuleTriggers[model.RuleStateMatch])
	assert.Equal(t, 1, result.RuleTriggers[model.RuleConfidenceBand])
}

func TestValidateBatch_EmptyBatch_IsClientError(t *testing.T) {
	guardian := newTestGuardian(t)

	_, err := guardian.ValidateBatch(context.Background(), nil)
	require.Error(t, err)
	clientError, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, clientError.StatusCode)
}

func TestValidateBatch_ResolvesTargetsFromRegistry(t *testing.T) {
	guardian := newTestGuardian(t)

	// The review arrives without a resolved institution; the service must
	// look it up so the name and location rules can run.
	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Sunrise Dental Academy", "Uttar Pradesh",
			"Akbarpur Ambedkar Nagar", "MED0734", 0.92, constants.SourceOracle),
	}

	result, err := guardian.ValidateBatch(context.Background(), reviews)
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)
	assert.Equal(t, model.ActionBlock, result.Verdicts[0].Action)
	assert.Positive(t, result.RuleTriggers[model.RuleWeakSimilarity])
}

func TestValidateBatch_UnknownTarget_RulesFailOpen(t *testing.T) {
	guardian := newTestGuardian(t)

	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College Akbarpur", "Uttar Pradesh",
			"Akbarpur Ambedkar Nagar", "MED9999", 0.92, constants.SourceOracle),
	}

	result, err := guardian.ValidateBatch(context.Background(), reviews)
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)
	// Without a registry record the name, state and location rules have
	// nothing to compare against and must not escalate.
	assert.Equal(t, model.ActionPass, result.Verdicts[0].Action)
}

func TestValidateBatch_ConflictingRecords_BothFlagged(t *testing.T) {
	guardian := newTestGuardian(t)

	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College Akbarpur", "Uttar Pradesh",
			"Akbarpur Ambedkar Nagar", "MED0734", 0.92, constants.SourceOracle),
		reviewFor("rec-2", "Government Medical College Akbarpur", "Uttar Pradesh",
			"Akbarpur Ambedkar Nagar", "MED0744", 0.92, constants.SourceOracle),
	}

	result, err := guardian.ValidateBatch(context.Background(), reviews)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RuleTriggers[model.RuleConsistency])
	assert.Zero(t, result.Passed)
}

func TestAuditEntry_CarriesRowCount(t *testing.T) {
	review := reviewFor("rec-1", "Government Medical College Akbarpur", "Uttar Pradesh",
		"Akbarpur Ambedkar Nagar", "MED0734", 0.92, constants.SourceOracle)
	review.Record.RowCount = 37
	verdict := model.Verdict{RecordId: "rec-1", InstitutionId: "MED0734", Action: model.ActionPass}

	entry := auditEntry("batch-1", &review, &verdict)
	assert.Equal(t, 37, entry.RowsAffected)
	assert.Equal(t, constants.SourceOracle, entry.Source)
}

func TestAuditEntry_DefaultsRowCountToOne(t *testing.T) {
	review := reviewFor("rec-1", "Government Medical College Akbarpur", "Uttar Pradesh",
		"Akbarpur Ambedkar Nagar", "MED0734", 0.92, constants.SourceOracle)
	verdict := model.Verdict{RecordId: "rec-1", InstitutionId: "MED0734", Action: model.ActionPass}

	entry := auditEntry("batch-1", &review, &verdict)
	assert.Equal(t, 1, entry.RowsAffected)
}

func TestValidateBatch_AliasProposals_PassUntouched(t *testing.T) {
	guardian := newTestGuardian(t)

	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "GMC Akbarpur", "Maharashtra", "", "MED0734", 1.0,
			constants.SourceAlias),
	}

	result, err := guardian.ValidateBatch(context.Background(), reviews)
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)
	assert.Equal(t, model.ActionPass, result.Verdicts[0].Action)
	assert.True(t, result.Verdicts[0].AliasBypass)
}
