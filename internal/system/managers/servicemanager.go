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

package managers

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wso2/institution-link-service/internal/system/authn"
	"github.com/wso2/institution-link-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	matchingService := services.NewMatchingService()
	validationService := services.NewValidationService()
	aliasService := services.NewAliasService()
	healthService := services.NewHealthCheckService()

	sm.mux.Handle("/metrics", promhttp.Handler())
	sm.mux.HandleFunc("/health", healthService.Route)

	// Single dispatcher for the API services.
	dispatcher := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, apiBasePath), "/")
		r.URL.Path = path

		switch {
		case strings.HasPrefix(path, "/matches"):
			matchingService.Route(w, r)
		case strings.HasPrefix(path, "/validations"):
			validationService.Route(w, r)
		case strings.HasPrefix(path, "/aliases"):
			aliasService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	sm.mux.Handle(apiBasePath+"/", authn.Middleware(dispatcher))
	return nil
}
