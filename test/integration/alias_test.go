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

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aliasmodel "github.com/wso2/institution-link-service/internal/alias/model"
	aliasservice "github.com/wso2/institution-link-service/internal/alias/service"
	aliasstore "github.com/wso2/institution-link-service/internal/alias/store"
	"github.com/wso2/institution-link-service/internal/system/constants"
)

func TestAliasService_LearnAndLookup(t *testing.T) {
	service := aliasservice.GetAliasService()

	stored, err := service.Learn(aliasmodel.InstitutionAlias{
		AliasName:     "GMC Akbarpur",
		State:         "Uttar Pradesh",
		InstitutionId: "MED0734",
		Confidence:    0.96,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.AliasId)
	assert.Equal(t, "GMC AKBARPUR", stored.AliasName)
	assert.Equal(t, constants.SourceOracle, stored.Source)

	// Lookup normalizes the raw record text the same way Learn did.
	found, err := service.Lookup("gmc akbarpur", "uttar pradesh")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "MED0734", found.InstitutionId)
}

func TestAliasService_Relearn_ReplacesTarget(t *testing.T) {
	service := aliasservice.GetAliasService()

	_, err := service.Learn(aliasmodel.InstitutionAlias{
		AliasName:     "GMC Ghazipur",
		State:         "Uttar Pradesh",
		InstitutionId: "MED0734",
		Confidence:    0.80,
	})
	require.NoError(t, err)

	_, err = service.Learn(aliasmodel.InstitutionAlias{
		AliasName:     "GMC Ghazipur",
		State:         "Uttar Pradesh",
		InstitutionId: "MED0744",
		Confidence:    0.97,
	})
	require.NoError(t, err)

	found, err := service.Lookup("GMC Ghazipur", "Uttar Pradesh")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "MED0744", found.InstitutionId)
	assert.InDelta(t, 0.97, found.Confidence, 1e-9)
}

func TestAliasService_SameNameDifferentState_SeparateEntries(t *testing.T) {
	service := aliasservice.GetAliasService()

	_, err := service.Learn(aliasmodel.InstitutionAlias{
		AliasName:     "Government Medical College",
		State:         "Odisha",
		InstitutionId: "MED0100",
		Confidence:    0.9,
	})
	require.NoError(t, err)

	_, err = service.Learn(aliasmodel.InstitutionAlias{
		AliasName:     "Government Medical College",
		State:         "Uttar Pradesh",
		InstitutionId: "MED0734",
		Confidence:    0.9,
	})
	require.NoError(t, err)

	odisha, err := service.Lookup("Government Medical College", "Odisha")
	require.NoError(t, err)
	require.NotNil(t, odisha)
	assert.Equal(t, "MED0100", odisha.InstitutionId)

	up, err := service.Lookup("Government Medical College", "Uttar Pradesh")
	require.NoError(t, err)
	require.NotNil(t, up)
	assert.Equal(t, "MED0734", up.InstitutionId)
}

func TestAliasService_ListByInstitution(t *testing.T) {
	service := aliasservice.GetAliasService()

	_, err := service.Learn(aliasmodel.InstitutionAlias{
		AliasName:     "SCB MCH Cuttack",
		State:         "Odisha",
		InstitutionId: "MED0100",
		Confidence:    0.92,
	})
	require.NoError(t, err)

	aliases, err := service.ListByInstitution("MED0100")
	require.NoError(t, err)
	assert.NotEmpty(t, aliases)
	for _, alias := range aliases {
		assert.Equal(t, "MED0100", alias.InstitutionId)
	}
}

func TestAliasStore_DeleteAlias(t *testing.T) {
	stored, err := aliasstore.UpsertAlias(aliasmodel.InstitutionAlias{
		AliasName:     "TEMP ALIAS",
		State:         "ODISHA",
		InstitutionId: "MED0100",
		Confidence:    0.5,
		Source:        constants.SourceOracle,
	})
	require.NoError(t, err)

	require.NoError(t, aliasstore.DeleteAliasById(stored.AliasId))

	found, err := aliasstore.GetAliasByNameAndState("TEMP ALIAS", "ODISHA")
	require.NoError(t, err)
	assert.Nil(t, found)
}
