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

package errors

const errorPrefix = "ILS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	LOAD_REGISTRY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while loading the institution registry.",
	}

	GET_INSTITUTION = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching institution record(s).",
	}

	GET_ALIAS = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while fetching alias record(s).",
	}

	ADD_ALIAS = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while adding alias record.",
	}

	RETRIEVE_CANDIDATES = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while retrieving match candidates.",
	}

	VALIDATE_BATCH = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while validating proposed matches.",
	}

	AUDIT_WRITE = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while writing audit trail entry.",
	}

	FULLTEXT_INDEX = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while building the full-text index.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while un-marshalling JSON.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Parsing token failed.",
	}

	ORACLE_PROPOSAL = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while obtaining a match proposal from the decision oracle.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Advisory lock acquisition failed",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error generating advisory lock key",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Invalid response from advisory lock query.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	UNKNOWN_STREAM = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Unknown stream.",
		Description: "No registry partition is configured for the requested stream.",
	}

	INSTITUTION_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Institution not found.",
		Description: "No registry record found for the given institution id.",
	}

	ALIAS_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Alias validation failed.",
	}

	EMPTY_BATCH = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Empty batch.",
		Description: "The validation request contained no proposed matches.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "ForBidden",
		Description: "You do not have permission to access this resource.",
	}
)
