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

package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	errors2 "github.com/pkg/errors"

	"github.com/wso2/institution-link-service/internal/alias/model"
	"github.com/wso2/institution-link-service/internal/system/database/provider"
	"github.com/wso2/institution-link-service/internal/system/database/scripts"
	"github.com/wso2/institution-link-service/internal/system/errors"
)

// GetAliasByNameAndState fetches the alias for a normalized name within a
// state. Returns nil without an error when no alias is recorded.
func GetAliasByNameAndState(aliasName, state string) (*model.InstitutionAlias, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(scripts.GetAliasByNameAndState["postgres"], aliasName, state)
	if err != nil {
		return nil, errors.NewServerError(errors.GET_ALIAS,
			errors2.Wrapf(err, "failed to fetch alias %q in state %q", aliasName, state))
	}
	if len(results) == 0 {
		return nil, nil
	}

	alias := buildAliasFromRow(results[0])
	return &alias, nil
}

// GetAliasesByInstitutionId lists all aliases recorded for a registry id.
func GetAliasesByInstitutionId(institutionId string) ([]model.InstitutionAlias, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(scripts.GetAliasesByInstitutionId["postgres"], institutionId)
	if err != nil {
		return nil, errors.NewServerError(errors.GET_ALIAS,
			errors2.Wrapf(err, "failed to fetch aliases for institution %s", institutionId))
	}

	aliases := make([]model.InstitutionAlias, 0, len(results))
	for _, row := range results {
		aliases = append(aliases, buildAliasFromRow(row))
	}
	return aliases, nil
}

// UpsertAlias records a confirmed alias. A repeated (alias, state) pair
// replaces the previous target.
func UpsertAlias(alias model.InstitutionAlias) (*model.InstitutionAlias, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	if alias.AliasId == "" {
		alias.AliasId = uuid.New().String()
	}
	now := time.Now().UTC()
	alias.CreatedAt = now
	alias.UpdatedAt = now

	_, err = dbClient.ExecuteQuery(scripts.InsertAlias["postgres"],
		alias.AliasId, alias.AliasName, alias.State, alias.InstitutionId,
		alias.Confidence, alias.Source, alias.CreatedAt, alias.UpdatedAt)
	if err != nil {
		return nil, errors.NewServerError(errors.ADD_ALIAS,
			errors2.Wrapf(err, "failed to upsert alias %q in state %q", alias.AliasName, alias.State))
	}
	return &alias, nil
}

// DeleteAliasById removes a recorded alias.
func DeleteAliasById(aliasId string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	_, err = dbClient.ExecuteQuery(scripts.DeleteAliasById["postgres"], aliasId)
	if err != nil {
		return errors.NewServerError(errors.ADD_ALIAS,
			errors2.Wrapf(err, "failed to delete alias %s", aliasId))
	}
	return nil
}

func buildAliasFromRow(row map[string]interface{}) model.InstitutionAlias {

	return model.InstitutionAlias{
		AliasId:       asString(row["alias_id"]),
		AliasName:     asString(row["alias_name"]),
		State:         asString(row["state"]),
		InstitutionId: asString(row["institution_id"]),
		Confidence:    asFloat(row["confidence"]),
		Source:        asString(row["source"]),
		CreatedAt:     asTime(row["created_at"]),
		UpdatedAt:     asTime(row["updated_at"]),
	}
}

func asString(value interface{}) string {

	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asFloat(value interface{}) float64 {

	switch v := value.(type) {
	case float64:
		return v
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	default:
		return 0
	}
}

func parseFloat(s string) float64 {

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func asTime(value interface{}) time.Time {

	if t, ok := value.(time.Time); ok {
		return t
	}
	return time.Time{}
}
