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

package scripts

var GetRegistryStreams = map[string]string{
	"postgres": `SELECT DISTINCT stream FROM institutions`,
}

var GetInstitutionsByStream = map[string]string{
	"postgres": `SELECT institution_id, institution_name, state, address, stream, created_at, updated_at
FROM institutions WHERE stream = $1`,
}

var GetInstitutionById = map[string]string{
	"postgres": `SELECT institution_id, institution_name, state, address, stream, created_at, updated_at
FROM institutions WHERE institution_id = $1`,
}

var InsertInstitution = map[string]string{
	"postgres": `INSERT INTO institutions (institution_id, institution_name, state, address, stream, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (institution_id) DO NOTHING;`,
}

var GetAliasByNameAndState = map[string]string{
	"postgres": `SELECT alias_id, alias_name, state, institution_id, confidence, source, created_at, updated_at
FROM institution_aliases WHERE alias_name = $1 AND state = $2`,
}

var GetAliasesByInstitutionId = map[string]string{
	"postgres": `SELECT alias_id, alias_name, state, institution_id, confidence, source, created_at, updated_at
FROM institution_aliases WHERE institution_id = $1`,
}

var InsertAlias = map[string]string{
	"postgres": `INSERT INTO institution_aliases (alias_id, alias_name, state, institution_id, confidence, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (alias_name, state)
		DO UPDATE SET institution_id = EXCLUDED.institution_id,
			confidence = EXCLUDED.confidence,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at;`,
}

var DeleteAliasById = map[string]string{
	"postgres": `DELETE FROM institution_aliases WHERE alias_id = $1`,
}
