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
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

// Match tiers, ordered by strength.
const (
	TierAlias     = "alias"
	TierExact     = "exact"
	TierFuzzy     = "fuzzy"
	TierSubstring = "substring"
	TierFullText  = "fulltext"
	TierVector    = "vector"
	TierNone      = "none"
)

// QueryRecord is a noisy inbound record to be linked against the registry.
// The Normalized* fields are the canonical representation; they are
// resolved exactly once, before the record enters retrieval or validation.
type QueryRecord struct {
	RecordId     string `json:"record_id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Address      string `json:"address"`
	CourseStream string `json:"course_stream"`
	RowCount     int    `json:"row_count,omitempty"`

	NormalizedName    string `json:"-"`
	NormalizedState   string `json:"-"`
	NormalizedAddress string `json:"-"`
	resolved          bool
}

// Resolve computes the canonical representation of the record. Safe to
// call more than once; later calls are no-ops.
func (r *QueryRecord) Resolve() {

	if r.resolved {
		return
	}
	r.NormalizedName = utils.NormalizeText(r.Name)
	r.NormalizedState = constants.NormalizeState(utils.NormalizeText(r.State))
	r.NormalizedAddress = utils.NormalizeText(r.Address)
	r.resolved = true
}

// Candidate is one registry institution scored against a query record.
type Candidate struct {
	Institution *registrymodel.Institution `json:"institution"`
	Score       float64                    `json:"match_score"`
	Tier        string                     `json:"match_tier"`
}

// RetrievalResult is the ranked candidate set for one query record.
type RetrievalResult struct {
	RecordId   string      `json:"record_id"`
	Stream     string      `json:"stream"`
	Candidates []Candidate `json:"candidates"`
	AliasHit   bool        `json:"alias_hit"`
}

// WinningTier names the tier of the top candidate, or TierNone.
func (r *RetrievalResult) WinningTier() string {

	if len(r.Candidates) == 0 {
		return TierNone
	}
	return r.Candidates[0].Tier
}

// ProposedMatch is a linking decision awaiting validation. An empty
// InstitutionId means no proposal was made; that is data, not an error.
type ProposedMatch struct {
	RecordId      string  `json:"record_id"`
	InstitutionId string  `json:"institution_id"`
	Confidence    float64 `json:"confidence"`
	Reason        string  `json:"reason,omitempty"`
	Source        string  `json:"source"`
}

// HasProposal reports whether the oracle proposed a target at all.
func (p *ProposedMatch) HasProposal() bool {

	return p.InstitutionId != ""
}
