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

// Institution is a canonical registry record. The Normalized* fields are
// computed once at load time and used for all comparisons.
type Institution struct {
	InstitutionId   string    `json:"institution_id"`
	InstitutionName string    `json:"institution_name"`
	State           string    `json:"state"`
	Address         string    `json:"address"`
	Stream          string    `json:"stream"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`

	NormalizedName    string `json:"-"`
	NormalizedState   string `json:"-"`
	NormalizedAddress string `json:"-"`
}
