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

	"github.com/wso2/institution-link-service/internal/alias/model"
	"github.com/wso2/institution-link-service/internal/alias/service"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

type AliasHandler struct {
}

func NewAliasHandler() *AliasHandler {

	return &AliasHandler{}
}

// LearnAlias handles POST /aliases: persists a confirmed alias.
func (h *AliasHandler) LearnAlias(w http.ResponseWriter, r *http.Request) {

	var alias model.InstitutionAlias
	if err := json.NewDecoder(r.Body).Decode(&alias); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	stored, err := service.GetAliasService().Learn(alias)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(stored)
}

// GetAliases handles GET /aliases?institution_id=: lists recorded aliases.
func (h *AliasHandler) GetAliases(w http.ResponseWriter, r *http.Request) {

	institutionId := r.URL.Query().Get("institution_id")
	if institutionId == "" {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "institution_id query parameter is required",
		}, http.StatusBadRequest))
		return
	}

	aliases, err := service.GetAliasService().ListByInstitution(institutionId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(aliases)
}
