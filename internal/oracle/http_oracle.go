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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	"github.com/wso2/institution-link-service/internal/system/config"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/errors"
)

// HTTPOracle calls an external decision service with the record and its
// candidate set and expects a single proposal back.
type HTTPOracle struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPOracle builds an oracle client from config.
func NewHTTPOracle(cfg config.OracleConfig) *HTTPOracle {

	return &HTTPOracle{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{},
	}
}

type proposeRequest struct {
	Record     matchingmodel.QueryRecord  `json:"record"`
	Candidates []matchingmodel.Candidate  `json:"candidates"`
}

type proposeResponse struct {
	InstitutionId string  `json:"institution_id"`
	Confidence    float64 `json:"confidence"`
	Reason        string  `json:"reason"`
}

func (o *HTTPOracle) Propose(ctx context.Context, record matchingmodel.QueryRecord,
	candidates []matchingmodel.Candidate) (matchingmodel.ProposedMatch, error) {

	body, err := json.Marshal(proposeRequest{Record: record, Candidates: candidates})
	if err != nil {
		return matchingmodel.ProposedMatch{}, errors.NewServerError(errors.MARSHAL_JSON, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return matchingmodel.ProposedMatch{}, errors.NewServerError(errors.ORACLE_PROPOSAL, err)
	}
	request.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	response, err := o.client.Do(request)
	if err != nil {
		return matchingmodel.ProposedMatch{}, errors.NewServerError(errors.ORACLE_PROPOSAL, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return matchingmodel.ProposedMatch{}, errors.NewServerError(errors.ORACLE_PROPOSAL,
			fmt.Errorf("oracle returned status %d", response.StatusCode))
	}

	var decoded proposeResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return matchingmodel.ProposedMatch{}, errors.NewServerError(errors.UNMARSHAL_JSON, err)
	}

	return matchingmodel.ProposedMatch{
		RecordId:      record.RecordId,
		InstitutionId: decoded.InstitutionId,
		Confidence:    decoded.Confidence,
		Reason:        decoded.Reason,
		Source:        constants.SourceOracle,
	}, nil
}
