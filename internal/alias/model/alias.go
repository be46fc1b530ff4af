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

package model

import "time"

// InstitutionAlias is a previously confirmed mapping from a noisy record
// name within a state to a canonical registry id. Aliases short-circuit
// retrieval and bypass validation.
type InstitutionAlias struct {
	AliasId       string    `json:"alias_id"`
	AliasName     string    `json:"alias_name"`
	State         string    `json:"state"`
	InstitutionId string    `json:"institution_id"`
	Confidence    float64   `json:"confidence"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}
