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
	"time"

	errors2 "github.com/pkg/errors"

	"github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/database/provider"
	"github.com/wso2/institution-link-service/internal/system/database/scripts"
	"github.com/wso2/institution-link-service/internal/system/errors"
)

// GetStreams returns the distinct streams present in the registry table.
func GetStreams() ([]string, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(scripts.GetRegistryStreams["postgres"])
	if err != nil {
		return nil, errors.NewServerError(errors.LOAD_REGISTRY,
			errors2.Wrap(err, "failed to fetch registry streams"))
	}

	streams := make([]string, 0, len(results))
	for _, row := range results {
		streams = append(streams, asString(row["stream"]))
	}
	return streams, nil
}

// GetInstitutionsByStream fetches every institution of one stream partition.
func GetInstitutionsByStream(stream string) ([]model.Institution, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(scripts.GetInstitutionsByStream["postgres"], stream)
	if err != nil {
		return nil, errors.NewServerError(errors.LOAD_REGISTRY,
			errors2.Wrapf(err, "failed to fetch institutions for stream %s", stream))
	}

	institutions := make([]model.Institution, 0, len(results))
	for _, row := range results {
		institutions = append(institutions, buildInstitutionFromRow(row))
	}
	return institutions, nil
}

// GetInstitutionById fetches a single registry record. Returns nil without
// an error when the id is unknown; absence is data, not a failure.
func GetInstitutionById(institutionId string) (*model.Institution, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(scripts.GetInstitutionById["postgres"], institutionId)
	if err != nil {
		return nil, errors.NewServerError(errors.GET_INSTITUTION,
			errors2.Wrapf(err, "failed to fetch institution %s", institutionId))
	}
	if len(results) == 0 {
		return nil, nil
	}

	institution := buildInstitutionFromRow(results[0])
	return &institution, nil
}

// InsertInstitution adds a registry record. Existing ids are left untouched.
func InsertInstitution(institution model.Institution) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return errors.NewServerError(errors.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	now := time.Now().UTC()
	_, err = dbClient.ExecuteQuery(scripts.InsertInstitution["postgres"],
		institution.InstitutionId, institution.InstitutionName, institution.State,
		institution.Address, institution.Stream, now, now)
	if err != nil {
		return errors.NewServerError(errors.GET_INSTITUTION,
			errors2.Wrapf(err, "failed to insert institution %s", institution.InstitutionId))
	}
	return nil
}

func buildInstitutionFromRow(row map[string]interface{}) model.Institution {

	return model.Institution{
		InstitutionId:   asString(row["institution_id"]),
		InstitutionName: asString(row["institution_name"]),
		State:           asString(row["state"]),
		Address:         asString(row["address"]),
		Stream:          asString(row["stream"]),
		CreatedAt:       asTime(row["created_at"]),
		UpdatedAt:       asTime(row["updated_at"]),
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

func asTime(value interface{}) time.Time {

	if t, ok := value.(time.Time); ok {
		return t
	}
	return time.Time{}
}
