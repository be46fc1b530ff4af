/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wso2/institution-link-service/internal/guardian/model"
	matchingmodel "github.com/wso2/institution-link-service/internal/matching/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
)

const prefixLength = 50

func reviewFor(recordId, name, state, address, institutionId string) model.ReviewRecord {
	return model.ReviewRecord{
		Record: matchingmodel.QueryRecord{
			RecordId: recordId, Name: name, State: state, Address: address,
			CourseStream: constants.StreamMedical,
		},
		Proposal: matchingmodel.ProposedMatch{
			RecordId: recordId, InstitutionId: institutionId,
			Confidence: 0.9, Source: constants.SourceOracle,
		},
	}
}

func TestConflictingTargets_SameKeyDifferentTargets(t *testing.T) {
	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0734"),
		reviewFor("rec-2", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0744"),
		reviewFor("rec-3", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0800"),
	}
	index := Build(reviews, prefixLength)

	conflicting := index.ConflictingTargets(&reviews[0], prefixLength)
	assert.Equal(t, []string{"MED0744", "MED0800"}, conflicting)
}

func TestConflictingTargets_AgreeingRecords_NoConflict(t *testing.T) {
	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0734"),
		reviewFor("rec-2", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0734"),
	}
	index := Build(reviews, prefixLength)

	assert.Nil(t, index.ConflictingTargets(&reviews[0], prefixLength))
}

func TestConflictingTargets_DifferentAddressPrefix_DifferentKey(t *testing.T) {
	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0734"),
		reviewFor("rec-2", "Government Medical College", "Uttar Pradesh", "Ghazipur", "MED0744"),
	}
	index := Build(reviews, prefixLength)

	assert.Nil(t, index.ConflictingTargets(&reviews[0], prefixLength))
}

func TestConflictingTargets_LongAddresses_ComparedByPrefix(t *testing.T) {
	common := "Plot 17 Institutional Area Phase II Extension Block"
	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College", "Uttar Pradesh",
			common+" Sector 4", "MED0734"),
		reviewFor("rec-2", "Government Medical College", "Uttar Pradesh",
			common+" Sector 9", "MED0744"),
	}
	index := Build(reviews, prefixLength)

	// The differing suffix lies beyond the prefix window, so the two
	// records collide on the same key.
	assert.Equal(t, []string{"MED0744"}, index.ConflictingTargets(&reviews[0], prefixLength))
}

func TestBuild_SkipsRecordsWithoutProposal(t *testing.T) {
	unmatched := reviewFor("rec-1", "Government Medical College", "Uttar Pradesh", "Akbarpur", "")
	reviews := []model.ReviewRecord{
		unmatched,
		reviewFor("rec-2", "Government Medical College", "Uttar Pradesh", "Akbarpur", "MED0734"),
	}
	index := Build(reviews, prefixLength)

	assert.Nil(t, index.ConflictingTargets(&reviews[1], prefixLength))
	assert.Nil(t, index.OtherAddressesFor("", ""))
}

func TestOtherAddressesFor_DistinctRecordAddresses(t *testing.T) {
	reviews := []model.ReviewRecord{
		reviewFor("rec-1", "Government Medical College Akbarpur", "Uttar Pradesh",
			"Akbarpur Ambedkar Nagar", "MED0734"),
		reviewFor("rec-2", "Government Medical College", "Uttar Pradesh",
			"Civil Lines Ghazipur", "MED0734"),
	}
	index := Build(reviews, prefixLength)

	others := index.OtherAddressesFor("MED0734", "AKBARPUR AMBEDKAR NAGAR")
	assert.Equal(t, []string{"CIVIL LINES GHAZIPUR"}, others)
}
