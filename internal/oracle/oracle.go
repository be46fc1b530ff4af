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

package oracle

import (
	"context"
	"time"

	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/log"
)

// DecisionOracle picks one proposed match out of a candidate set, or none.
type DecisionOracle interface {
	Propose(ctx context.Context, record matchingmodel.QueryRecord,
		candidates []matchingmodel.Candidate) (matchingmodel.ProposedMatch, error)
}

// Bounded wraps an oracle with a hard deadline. A timeout or error
// degrades to a no-proposal outcome; the batch never fails because the
// oracle was slow or down.
func Bounded(inner DecisionOracle, timeout time.Duration) DecisionOracle {

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &boundedOracle{inner: inner, timeout: timeout}
}

type boundedOracle struct {
	inner   DecisionOracle
	timeout time.Duration
}

func (o *boundedOracle) Propose(ctx context.Context, record matchingmodel.QueryRecord,
	candidates []matchingmodel.Candidate) (matchingmodel.ProposedMatch, error) {

	proposeCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	type outcome struct {
		proposal matchingmodel.ProposedMatch
		err      error
	}
	results := make(chan outcome, 1)
	go func() {
		proposal, err := o.inner.Propose(proposeCtx, record, candidates)
		results <- outcome{proposal: proposal, err: err}
	}()

	select {
	case result := <-results:
		if result.err != nil {
			log.GetLogger().Warn("Oracle proposal failed, record left unlinked",
				log.String("record_id", record.RecordId), log.Error(result.err))
			return noProposal(record), nil
		}
		return result.proposal, nil
	case <-proposeCtx.Done():
		log.GetLogger().Warn("Oracle proposal timed out, record left unlinked",
			log.String("record_id", record.RecordId))
		return noProposal(record), nil
	}
}

// TopCandidate is the deterministic built-in oracle: it proposes the top
// retrieval candidate with the retrieval score as confidence. Proposals
// from it carry unvalidated provenance so the guardian surfaces them.
type TopCandidate struct{}

func (o *TopCandidate) Propose(_ context.Context, record matchingmodel.QueryRecord,
	candidates []matchingmodel.Candidate) (matchingmodel.ProposedMatch, error) {

	if len(candidates) == 0 {
		return noProposal(record), nil
	}
	top := candidates[0]
	source := constants.SourceUnvalidated
	if top.Tier == matchingmodel.TierAlias {
		source = constants.SourceAlias
	}
	return matchingmodel.ProposedMatch{
		RecordId:      record.RecordId,
		InstitutionId: top.Institution.InstitutionId,
		Confidence:    top.Score / 100,
		Reason:        "top retrieval candidate via " + top.Tier + " tier",
		Source:        source,
	}, nil
}

func noProposal(record matchingmodel.QueryRecord) matchingmodel.ProposedMatch {

	return matchingmodel.ProposedMatch{RecordId: record.RecordId}
}
