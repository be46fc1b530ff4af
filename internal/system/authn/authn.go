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

package authn

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wso2/institution-link-service/internal/system/config"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/errors"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/utils"
)

// Middleware verifies the bearer token on every API request. An empty
// signing key in config disables authentication; intended for local runs
// and tests only.
func Middleware(next http.Handler) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signingKey := config.GetILSRuntime().Config.Auth.JWTSigningKey
		if signingKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := verifyBearer(r, signingKey)
		if err != nil {
			log.GetLogger().Audit(log.AuditEvent{
				InitiatorType: log.InitiatorTypeUser,
				ActionID:      log.ActionAuthenticationFailure,
				Data:          map[string]interface{}{"path": r.URL.Path},
			})
			utils.WriteErrorResponse(w, errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized))
			return
		}

		ctx := context.WithValue(r.Context(), constants.InitiatorContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func verifyBearer(r *http.Request, signingKey string) (string, error) {

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized)
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewServerError(errors.PARSING_ERROR, nil)
		}
		return []byte(signingKey), nil
	})
	if err != nil || !token.Valid {
		return "", errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", errors.NewClientError(errors.UN_AUTHORIZED, http.StatusUnauthorized)
	}
	return subject, nil
}
