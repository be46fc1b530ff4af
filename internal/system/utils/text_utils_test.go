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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase is uppercased", "government medical college", "GOVERNMENT MEDICAL COLLEGE"},
		{"punctuation becomes whitespace", "Govt. Medical College, Cuttack", "GOVT MEDICAL COLLEGE CUTTACK"},
		{"dotted initials split into tokens", "S.C.B. Medical College", "S C B MEDICAL COLLEGE"},
		{"ampersand survives", "J & K Medical College", "J & K MEDICAL COLLEGE"},
		{"digits survive", "Sector 12 Noida", "SECTOR 12 NOIDA"},
		{"whitespace collapses", "  Government   Medical \t College ", "GOVERNMENT MEDICAL COLLEGE"},
		{"empty input", "", ""},
		{"only punctuation", "...---...", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeText(tc.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"GOVERNMENT", "MEDICAL", "COLLEGE"},
		Tokenize("GOVERNMENT MEDICAL COLLEGE"))
	assert.Empty(t, Tokenize(""))
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("MEDICAL COLLEGE MEDICAL")
	assert.Len(t, set, 2)
	assert.True(t, set["MEDICAL"])
	assert.True(t, set["COLLEGE"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "AKBAR", Truncate("AKBARPUR", 5))
	assert.Equal(t, "AKBARPUR", Truncate("AKBARPUR", 50))
	assert.Equal(t, "", Truncate("", 5))
}
