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

package utils

import "strings"

// NormalizeText upper-cases, strips punctuation and collapses whitespace.
// Ampersands survive because they distinguish institution names.
func NormalizeText(text string) string {

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToUpper(text) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '&':
			builder.WriteRune(r)
		default:
			builder.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}

// Tokenize splits normalized text into its word tokens.
func Tokenize(text string) []string {

	return strings.Fields(NormalizeText(text))
}

// TokenSet returns the set of word tokens in the normalized text.
func TokenSet(text string) map[string]bool {

	set := make(map[string]bool)
	for _, token := range Tokenize(text) {
		set[token] = true
	}
	return set
}

// Truncate returns at most n leading bytes of s. Inputs are normalized
// ASCII by the time this is called, so byte slicing is safe.
func Truncate(s string, n int) string {

	if len(s) <= n {
		return s
	}
	return s[:n]
}
