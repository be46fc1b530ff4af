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

package service

import (
	"context"
	"net/http"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wso2/institution-link-service/internal/audit"
	"github.com/wso2/institution-link-service/internal/guardian/consistency"
	"github.com/wso2/institution-link-service/internal/guardian/model"
	"github.com/wso2/institution-link-service/internal/guardian/validator"
	registryservice "github.com/wso2/institution-link-service/internal/registry/service"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/metrics"
)

// GuardianServiceInterface validates batches of proposed matches.
type GuardianServiceInterface interface {
	ValidateBatch(ctx context.Context, reviews []model.ReviewRecord) (*model.BatchResult, error)
}

// GuardianService is the default implementation of GuardianServiceInterface.
type GuardianService struct {
	registry registryservice.RegistryServiceInterface
	sink     audit.SinkInterface
	settings model.RuleSettings
	workers  int
}

var guardianService *GuardianService

// InitGuardianService wires the guardian with its rule settings, the
// registry and the audit sink. Must run before GetGuardianService.
func InitGuardianService(settings model.RuleSettings,
	registry registryservice.RegistryServiceInterface, sink audit.SinkInterface, workers int) {

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	guardianService = &GuardianService{
		registry: registry,
		sink:     sink,
		settings: settings,
		workers:  workers,
	}
}

// GetGuardianService returns the guardian service instance.
func GetGuardianService() GuardianServiceInterface {

	return guardianService
}

// ValidateBatch validates every proposed match of a batch. The batch-wide
// consistency index is built serially up front; per-record validation
// then fans out across the worker pool. Each worker writes only its own
// result slot, so the merge needs no locking.
func (s *GuardianService) ValidateBatch(ctx context.Context,
	reviews []model.ReviewRecord) (*model.BatchResult, error) {

	logger := log.GetLogger()
	if len(reviews) == 0 {
		return nil, errors.NewClientError(errors.EMPTY_BATCH, http.StatusBadRequest)
	}

	batchId := uuid.New().String()
	s.resolveTargets(reviews)
	index := consistency.Build(reviews, s.settings.AddressPrefixLength)
	batchValidator := validator.New(s.settings, s.registry.Snapshot(), index)

	verdicts := make([]*model.Verdict, len(reviews))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i := range reviews {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if !reviews[i].Proposal.HasProposal() {
				return nil
			}
			verdict := batchValidator.Validate(reviews[i])
			verdicts[i] = &verdict
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, errors.NewServerError(errors.VALIDATE_BATCH, err)
	}

	result := &model.BatchResult{
		BatchId:      batchId,
		RuleTriggers: make(map[string]int),
	}
	entries := make([]audit.Entry, 0, len(reviews))
	for i := range reviews {
		verdict := verdicts[i]
		if verdict == nil {
			result.Unmatched++
			continue
		}
		result.Verdicts = append(result.Verdicts, *verdict)
		switch verdict.Action {
		case model.ActionPass:
			result.Passed++
		case model.ActionQuarantine:
			result.Quarantined++
		case model.ActionBlock:
			result.Blocked++
		}
		metrics.VerdictActions.WithLabelValues(verdict.Action).Inc()
		for _, failure := range verdict.Failed {
			result.RuleTriggers[failure.RuleId]++
			metrics.RuleTriggers.WithLabelValues(failure.RuleId).Inc()
		}
		for _, warning := range verdict.Warnings {
			result.RuleTriggers[warning.RuleId]++
			metrics.RuleTriggers.WithLabelValues(warning.RuleId).Inc()
		}
		entries = append(entries, auditEntry(batchId, &reviews[i], verdict))
	}

	// Audit writes run off the request path; a slow or down sink must
	// not hold the batch response.
	go func(entries []audit.Entry) {
		for _, entry := range entries {
			s.sink.Write(context.Background(), entry)
		}
	}(entries)

	logger.Info("Batch validation finished",
		log.String("batch_id", batchId),
		log.Int("records", len(reviews)),
		log.Int("passed", result.Passed),
		log.Int("quarantined", result.Quarantined),
		log.Int("blocked", result.Blocked),
		log.Int("unmatched", result.Unmatched))
	return result, nil
}

// resolveTargets fills in missing registry targets. An unknown id stays
// nil; the rules treat that as absent data, not as a failure.
func (s *GuardianService) resolveTargets(reviews []model.ReviewRecord) {

	logger := log.GetLogger()
	for i := range reviews {
		review := &reviews[i]
		if review.Institution != nil || !review.Proposal.HasProposal() {
			continue
		}
		institution, err := s.registry.GetInstitution(review.Proposal.InstitutionId)
		if err != nil {
			logger.Warn("Target resolution failed, validating without registry record",
				log.String("institution_id", review.Proposal.InstitutionId), log.Error(err))
			continue
		}
		review.Institution = institution
	}
}

func auditEntry(batchId string, review *model.ReviewRecord, verdict *model.Verdict) audit.Entry {

	trace := make([]string, 0, len(verdict.Failed)+len(verdict.Warnings))
	for _, failure := range verdict.Failed {
		trace = append(trace, failure.RuleId+": "+failure.Message)
	}
	for _, warning := range verdict.Warnings {
		trace = append(trace, warning.RuleId+": "+warning.Message)
	}

	// A record with no explicit row count stands for a single raw row.
	rows := review.Record.RowCount
	if rows == 0 {
		rows = 1
	}
	return audit.Entry{
		BatchId:       batchId,
		RecordId:      verdict.RecordId,
		InstitutionId: verdict.InstitutionId,
		Action:        verdict.Action,
		RuleTrace:     trace,
		Source:        review.Proposal.Source,
		RowsAffected:  rows,
	}
}
