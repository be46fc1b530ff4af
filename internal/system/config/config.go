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

package config

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	JWTSigningKey      string   `yaml:"jwt_signing_key"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuditStoreConfig configures the MongoDB-backed audit trail sink.
// An empty URI disables the sink; verdicts are then only logged.
type AuditStoreConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// MatchingConfig holds the tunables of the candidate retriever.
type MatchingConfig struct {
	MinScore       float64 `yaml:"min_score"`
	TopN           int     `yaml:"top_n"`
	FuzzyFloor     float64 `yaml:"fuzzy_floor"`
	EnableFullText bool    `yaml:"enable_fulltext"`
	EnableVector   bool    `yaml:"enable_vector"`
	VectorCutoff   float64 `yaml:"vector_cutoff"`
}

// GuardianConfig holds the batch validation settings. RulesFile is
// optional; when empty the built-in rule defaults apply.
type GuardianConfig struct {
	Workers   int    `yaml:"workers"`
	RulesFile string `yaml:"rules_file"`
}

// OracleConfig configures the external decision oracle endpoint.
type OracleConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	AuditStore AuditStoreConfig `yaml:"audit_store"`
	Matching   MatchingConfig   `yaml:"matching"`
	Guardian   GuardianConfig   `yaml:"guardian"`
	Oracle     OracleConfig     `yaml:"oracle"`
}
