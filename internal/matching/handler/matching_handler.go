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

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wso2/institution-link-service/internal/matching/model"
	"github.com/wso2/institution-link-service/internal/matching/service"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

type MatchingHandler struct {
}

func NewMatchingHandler() *MatchingHandler {

	return &MatchingHandler{}
}

// SearchCandidates handles POST /matches: ranked candidates for one record.
func (h *MatchingHandler) SearchCandidates(w http.ResponseWriter, r *http.Request) {

	var record model.QueryRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	result, err := service.GetMatchingService().RetrieveCandidates(&record)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

type proposeRequest struct {
	Records []model.QueryRecord `json:"records"`
}

type proposeResponse struct {
	Proposals []model.ProposedMatch `json:"proposals"`
}

// ProposeMatches handles POST /matches/propose: retrieval plus oracle
// proposal for a batch of records.
func (h *MatchingHandler) ProposeMatches(w http.ResponseWriter, r *http.Request) {

	var request proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.BAD_REQUEST, http.StatusBadRequest))
		return
	}
	if len(request.Records) == 0 {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.EMPTY_BATCH, http.StatusBadRequest))
		return
	}

	matchingService := service.GetMatchingService()
	proposals := make([]model.ProposedMatch, 0, len(request.Records))
	for i := range request.Records {
		proposal, _, err := matchingService.Propose(r.Context(), &request.Records[i])
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		proposals = append(proposals, proposal)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(proposeResponse{Proposals: proposals})
}
