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

package consistency

import (
	"sort"

	"github.com/wso2/institution-link-service/internal/guardian/model"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

// Key identifies records that describe the same source institution: same
// normalized name, address prefix, state and stream. Records sharing a
// key must agree on their proposed target.
type Key struct {
	Name          string
	AddressPrefix string
	State         string
	Stream        string
}

// Index holds the batch-wide agreement view. Built serially before
// validation fans out; read-only afterwards, safe for concurrent readers.
type Index struct {
	targetsByKey      map[Key]map[string]bool
	addressesByTarget map[string]map[string]bool
}

// Build indexes every proposed match of a batch. Records without a
// proposal contribute nothing.
func Build(reviews []model.ReviewRecord, addressPrefixLength int) *Index {

	index := &Index{
		targetsByKey:      make(map[Key]map[string]bool),
		addressesByTarget: make(map[string]map[string]bool),
	}

	for i := range reviews {
		review := &reviews[i]
		if !review.Proposal.HasProposal() {
			continue
		}
		review.Record.Resolve()

		key := keyFor(review, addressPrefixLength)
		targets, ok := index.targetsByKey[key]
		if !ok {
			targets = make(map[string]bool)
			index.targetsByKey[key] = targets
		}
		targets[review.Proposal.InstitutionId] = true

		if review.Record.NormalizedAddress != "" {
			addresses, ok := index.addressesByTarget[review.Proposal.InstitutionId]
			if !ok {
				addresses = make(map[string]bool)
				index.addressesByTarget[review.Proposal.InstitutionId] = addresses
			}
			addresses[review.Record.NormalizedAddress] = true
		}
	}
	return index
}

// ConflictingTargets returns the other institution ids proposed for
// records with the same key, sorted for determinism.
func (i *Index) ConflictingTargets(review *model.ReviewRecord, addressPrefixLength int) []string {

	targets := i.targetsByKey[keyFor(review, addressPrefixLength)]
	if len(targets) < 2 {
		return nil
	}

	var conflicting []string
	for target := range targets {
		if target != review.Proposal.InstitutionId {
			conflicting = append(conflicting, target)
		}
	}
	sort.Strings(conflicting)
	return conflicting
}

// OtherAddressesFor returns the distinct record addresses, other than the
// given one, that the batch proposed for the same target.
func (i *Index) OtherAddressesFor(institutionId, ownAddress string) []string {

	addresses := i.addressesByTarget[institutionId]
	if len(addresses) == 0 {
		return nil
	}

	var others []string
	for address := range addresses {
		if address != ownAddress {
			others = append(others, address)
		}
	}
	sort.Strings(others)
	return others
}

func keyFor(review *model.ReviewRecord, addressPrefixLength int) Key {

	return Key{
		Name:          review.Record.NormalizedName,
		AddressPrefix: utils.Truncate(review.Record.NormalizedAddress, addressPrefixLength),
		State:         review.Record.NormalizedState,
		Stream:        review.Record.CourseStream,
	}
}
