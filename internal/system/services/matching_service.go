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
	"net/http"
	"strings"

	"github.com/wso2/institution-link-service/internal/matching/handler"
)

type MatchingService struct {
	matchingHandler *handler.MatchingHandler
}

func NewMatchingService() *MatchingService {
	return &MatchingService{
		matchingHandler: handler.NewMatchingHandler(),
	}
}

// Route handles the candidate retrieval endpoints
func (s *MatchingService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/matches":
		s.matchingHandler.SearchCandidates(w, r)

	case method == http.MethodPost && path == "/matches/propose":
		s.matchingHandler.ProposeMatches(w, r)

	default:
		http.NotFound(w, r)
	}
}
