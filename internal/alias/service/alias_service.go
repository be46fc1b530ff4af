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
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wso2/institution-link-service/internal/alias/model"
	"github.com/wso2/institution-link-service/internal/alias/store"
	"github.com/wso2/institution-link-service/internal/system/cache"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/database/lock"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

// AliasServiceInterface is the alias knowledge loop: lookups feed the
// retriever's short-circuit path, Learn records confirmed matches.
type AliasServiceInterface interface {
	Lookup(name, state string) (*model.InstitutionAlias, error)
	Learn(alias model.InstitutionAlias) (*model.InstitutionAlias, error)
	ListByInstitution(institutionId string) ([]model.InstitutionAlias, error)
}

// AliasService is the default implementation of AliasServiceInterface.
type AliasService struct {
	cache *cache.Cache
}

var aliasService = &AliasService{
	cache: cache.NewCache(10 * time.Minute),
}

// GetAliasService returns the alias service instance.
func GetAliasService() AliasServiceInterface {

	return aliasService
}

// Lookup resolves a record name within a state against the alias table.
// Name and state are normalized before the lookup so the table key space
// stays canonical. Returns nil when no alias is recorded.
func (s *AliasService) Lookup(name, state string) (*model.InstitutionAlias, error) {

	aliasName := utils.NormalizeText(name)
	aliasState := constants.NormalizeState(utils.NormalizeText(state))
	if aliasName == "" {
		return nil, nil
	}

	cacheKey := aliasCacheKey(aliasName, aliasState)
	if cached, found := s.cache.Get(cacheKey); found {
		if alias, ok := cached.(*model.InstitutionAlias); ok {
			return alias, nil
		}
	}

	alias, err := store.GetAliasByNameAndState(aliasName, aliasState)
	if err != nil {
		return nil, err
	}
	// Negative results are cached too; most batch names miss the table.
	s.cache.Set(cacheKey, alias)
	return alias, nil
}

// Learn persists a confirmed alias and invalidates the lookup cache so the
// alias is visible to the rest of the running batch. Writes for the same
// key are serialized through an advisory lock.
func (s *AliasService) Learn(alias model.InstitutionAlias) (*model.InstitutionAlias, error) {

	logger := log.GetLogger()

	alias.AliasName = utils.NormalizeText(alias.AliasName)
	alias.State = constants.NormalizeState(utils.NormalizeText(alias.State))
	if err := validateAlias(alias); err != nil {
		return nil, err
	}
	if alias.Source == "" {
		alias.Source = constants.SourceOracle
	}

	lockKey := aliasCacheKey(alias.AliasName, alias.State)
	appLock := lock.NewPostgresLock()
	acquired, err := appLock.Acquire(lockKey)
	if err != nil {
		return nil, err
	}
	if acquired {
		defer func() {
			if releaseErr := appLock.Release(lockKey); releaseErr != nil {
				logger.Warn("Failed to release alias lock", log.Error(releaseErr))
			}
		}()
	}

	stored, err := store.UpsertAlias(alias)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(lockKey)

	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeOracle,
		TargetID:      stored.InstitutionId,
		TargetType:    log.TargetTypeAlias,
		ActionID:      log.ActionLearnAlias,
		Data: map[string]interface{}{
			"alias_name": stored.AliasName,
			"state":      stored.State,
			"confidence": stored.Confidence,
		},
	})
	return stored, nil
}

// ListByInstitution lists the aliases recorded for a registry id.
func (s *AliasService) ListByInstitution(institutionId string) ([]model.InstitutionAlias, error) {

	return store.GetAliasesByInstitutionId(institutionId)
}

func validateAlias(alias model.InstitutionAlias) error {

	if alias.AliasName == "" || alias.InstitutionId == "" {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.ALIAS_VALIDATION.Code,
			Message:     errors.ALIAS_VALIDATION.Message,
			Description: "alias_name and institution_id are required",
		}, http.StatusBadRequest)
	}
	if strings.ContainsAny(alias.InstitutionId, ",;") {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.ALIAS_VALIDATION.Code,
			Message:     errors.ALIAS_VALIDATION.Message,
			Description: "institution_id must reference a single registry record",
		}, http.StatusBadRequest)
	}
	if alias.Confidence < 0 || alias.Confidence > 1 {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.ALIAS_VALIDATION.Code,
			Message:     errors.ALIAS_VALIDATION.Message,
			Description: fmt.Sprintf("confidence %.2f is outside [0,1]", alias.Confidence),
		}, http.StatusBadRequest)
	}
	return nil
}

func aliasCacheKey(aliasName, state string) string {

	return aliasName + "|" + state
}
