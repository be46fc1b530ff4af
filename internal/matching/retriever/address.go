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

package retriever

import (
	"strings"

	"github.com/wso2/institution-link-service/internal/matching/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
)

// AddressKeywords extracts the discriminating tokens of a normalized
// address: stopwords dropped, short tokens dropped.
func AddressKeywords(normalizedAddress string, minLen int) []string {

	var keywords []string
	for _, token := range strings.Fields(normalizedAddress) {
		if len(token) < minLen || constants.AddressStopwords[token] {
			continue
		}
		keywords = append(keywords, token)
	}
	return keywords
}

// keywordOverlap reports whether the two addresses share a keyword.
func keywordOverlap(recordAddress, candidateAddress string, minLen int) bool {

	recordKeywords := AddressKeywords(recordAddress, minLen)
	if len(recordKeywords) == 0 {
		return false
	}
	candidateSet := make(map[string]bool)
	for _, keyword := range AddressKeywords(candidateAddress, minLen) {
		candidateSet[keyword] = true
	}
	for _, keyword := range recordKeywords {
		if candidateSet[keyword] {
			return true
		}
	}
	return false
}

// disambiguateByAddress narrows a multi-candidate set using address
// keyword overlap. When no candidate overlaps, the whole set is kept:
// a missing or unrelated address must not erase name evidence.
func disambiguateByAddress(record *model.QueryRecord, candidates []model.Candidate) []model.Candidate {

	if len(candidates) < 2 || record.NormalizedAddress == "" {
		return candidates
	}

	var overlapping []model.Candidate
	for _, candidate := range candidates {
		if keywordOverlap(record.NormalizedAddress, candidate.Institution.NormalizedAddress, 3) {
			overlapping = append(overlapping, candidate)
		}
	}
	if len(overlapping) == 0 {
		return candidates
	}
	return overlapping
}

// isGenericName reports whether every token of the name is a generic
// institution word. Such names match half the registry on name evidence
// alone and need address corroboration.
func isGenericName(normalizedName string) bool {

	tokens := strings.Fields(normalizedName)
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !constants.GenericCollegeWords[token] {
			return false
		}
	}
	return true
}

// applyGenericNameGuard drops candidates of a generic-named record that
// lack a shared 4+ character address keyword with the record.
func applyGenericNameGuard(record *model.QueryRecord, candidates []model.Candidate) []model.Candidate {

	if !isGenericName(record.NormalizedName) {
		return candidates
	}

	var corroborated []model.Candidate
	for _, candidate := range candidates {
		if record.NormalizedAddress == "" {
			continue
		}
		if keywordOverlap(record.NormalizedAddress, candidate.Institution.NormalizedAddress, 4) {
			corroborated = append(corroborated, candidate)
		}
	}
	return corroborated
}
