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

	"github.com/wso2/institution-link-service/internal/guardian/model"
	"github.com/wso2/institution-link-service/internal/guardian/service"
	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	matchingservice "github.com/wso2/institution-link-service/internal/matching/service"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

type GuardianHandler struct {
}

func NewGuardianHandler() *GuardianHandler {

	return &GuardianHandler{}
}

type validateRequest struct {
	Reviews []model.ReviewRecord `json:"reviews"`
}

// ValidateBatch handles POST /validations: validates caller-supplied
// proposed matches.
func (h *GuardianHandler) ValidateBatch(w http.ResponseWriter, r *http.Request) {

	var request validateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	result, err := service.GetGuardianService().ValidateBatch(r.Context(), request.Reviews)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

type pipelineRequest struct {
	Records []matchingmodel.QueryRecord `json:"records"`
}

// RunPipeline handles POST /validations/pipeline: retrieval, oracle
// proposal and validation for raw records in one call.
func (h *GuardianHandler) RunPipeline(w http.ResponseWriter, r *http.Request) {

	var request pipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.BAD_REQUEST, http.StatusBadRequest))
		return
	}
	if len(request.Records) == 0 {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.EMPTY_BATCH, http.StatusBadRequest))
		return
	}

	matching := matchingservice.GetMatchingService()
	reviews := make([]model.ReviewRecord, 0, len(request.Records))
	for i := range request.Records {
		proposal, _, err := matching.Propose(r.Context(), &request.Records[i])
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		reviews = append(reviews, model.ReviewRecord{
			Record:   request.Records[i],
			Proposal: proposal,
		})
	}

	result, err := service.GetGuardianService().ValidateBatch(r.Context(), reviews)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}
