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

	"github.com/wso2/institution-link-service/internal/matching/model"
	"github.com/wso2/institution-link-service/internal/matching/retriever"
	"github.com/wso2/institution-link-service/internal/oracle"
)

// MatchingServiceInterface exposes candidate retrieval and match
// proposal to the HTTP surface and the validation pipeline.
type MatchingServiceInterface interface {
	RetrieveCandidates(record *model.QueryRecord) (*model.RetrievalResult, error)
	Propose(ctx context.Context, record *model.QueryRecord) (model.ProposedMatch, *model.RetrievalResult, error)
}

// MatchingService is the default implementation of MatchingServiceInterface.
type MatchingService struct {
	retriever *retriever.Retriever
	decider   oracle.DecisionOracle
}

var matchingService *MatchingService

// InitMatchingService wires the retriever and the decision oracle.
// Must run before GetMatchingService.
func InitMatchingService(candidateRetriever *retriever.Retriever, decider oracle.DecisionOracle) {

	matchingService = &MatchingService{
		retriever: candidateRetriever,
		decider:   decider,
	}
}

// GetMatchingService returns the matching service instance.
func GetMatchingService() MatchingServiceInterface {

	return matchingService
}

// RetrieveCandidates returns the ranked candidate set for one record.
func (s *MatchingService) RetrieveCandidates(record *model.QueryRecord) (*model.RetrievalResult, error) {

	return s.retriever.Retrieve(record)
}

// Propose retrieves candidates and asks the oracle to pick one. A record
// without candidates gets an empty proposal; it is never an error.
func (s *MatchingService) Propose(ctx context.Context,
	record *model.QueryRecord) (model.ProposedMatch, *model.RetrievalResult, error) {

	result, err := s.retriever.Retrieve(record)
	if err != nil {
		return model.ProposedMatch{RecordId: record.RecordId}, nil, err
	}
	if len(result.Candidates) == 0 {
		return model.ProposedMatch{RecordId: record.RecordId}, result, nil
	}

	proposal, err := s.decider.Propose(ctx, *record, result.Candidates)
	if err != nil {
		return model.ProposedMatch{RecordId: record.RecordId}, result, err
	}
	return proposal, result, nil
}
