/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package services

import (
	"encoding/json"
	"net/http"

	registryservice "github.com/wso2/institution-link-service/internal/registry/service"
	"github.com/wso2/institution-link-service/internal/system/database/provider"
)

type HealthCheckService struct {
}

func NewHealthCheckService() *HealthCheckService {
	return &HealthCheckService{}
}

// Route handles the health check endpoint
func (s *HealthCheckService) Route(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	status := map[string]interface{}{"status": "up"}
	httpStatus := http.StatusOK

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		status["status"] = "down"
		status["database"] = "unreachable"
		httpStatus = http.StatusServiceUnavailable
	} else {
		status["database"] = "up"
		_ = dbClient.Close()
	}

	snapshot := registryservice.GetRegistryService().Snapshot()
	if snapshot == nil {
		status["registry"] = "not loaded"
	} else {
		status["registry"] = map[string]interface{}{
			"streams":      snapshot.Streams(),
			"institutions": snapshot.Size(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(status)
}
