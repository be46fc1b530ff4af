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
	"sync"

	"github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/registry/store"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

// RegistryServiceInterface exposes the canonical registry to the matching
// and validation layers.
type RegistryServiceInterface interface {
	Load() (*model.Registry, error)
	Snapshot() *model.Registry
	GetInstitution(institutionId string) (*model.Institution, error)
}

// RegistryService is the default implementation of RegistryServiceInterface.
type RegistryService struct {
	mutex    sync.RWMutex
	snapshot *model.Registry
}

var registryService = &RegistryService{}

// GetRegistryService returns the registry service instance.
func GetRegistryService() RegistryServiceInterface {

	return registryService
}

// Load reads every stream partition from the database, normalizes the
// records and swaps in a fresh snapshot.
func (s *RegistryService) Load() (*model.Registry, error) {

	logger := log.GetLogger()

	streams, err := store.GetStreams()
	if err != nil {
		return nil, err
	}

	partitions := make(map[string][]*model.Institution, len(streams))
	for _, stream := range streams {
		institutions, err := store.GetInstitutionsByStream(stream)
		if err != nil {
			return nil, err
		}
		partition := make([]*model.Institution, 0, len(institutions))
		for i := range institutions {
			institution := institutions[i]
			normalizeInstitution(&institution)
			partition = append(partition, &institution)
		}
		partitions[stream] = partition
	}

	snapshot := model.NewRegistry(partitions)

	s.mutex.Lock()
	s.snapshot = snapshot
	s.mutex.Unlock()

	logger.Info("Registry snapshot loaded",
		log.Int("streams", len(streams)), log.Int("institutions", snapshot.Size()))
	return snapshot, nil
}

// Snapshot returns the current registry snapshot, or nil before Load.
func (s *RegistryService) Snapshot() *model.Registry {

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.snapshot
}

// GetInstitution resolves a registry record, preferring the in-memory
// snapshot and falling back to the database.
func (s *RegistryService) GetInstitution(institutionId string) (*model.Institution, error) {

	if snapshot := s.Snapshot(); snapshot != nil {
		if institution, ok := snapshot.ById(institutionId); ok {
			return institution, nil
		}
	}

	institution, err := store.GetInstitutionById(institutionId)
	if err != nil {
		return nil, err
	}
	if institution == nil {
		return nil, nil
	}
	normalizeInstitution(institution)
	return institution, nil
}

func normalizeInstitution(institution *model.Institution) {

	institution.NormalizedName = utils.NormalizeText(institution.InstitutionName)
	institution.NormalizedState = constants.NormalizeState(utils.NormalizeText(institution.State))
	institution.NormalizedAddress = utils.NormalizeText(institution.Address)
}
