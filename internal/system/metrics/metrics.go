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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CandidateRetrievals counts retrieval calls by the tier that produced
	// the final candidate set.
	CandidateRetrievals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ils_candidate_retrievals_total",
		Help: "Candidate retrieval calls partitioned by winning tier.",
	}, []string{"tier"})

	// RetrievalDuration observes end-to-end retrieval latency.
	RetrievalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ils_retrieval_duration_seconds",
		Help:    "Candidate retrieval latency.",
		Buckets: prometheus.DefBuckets,
	})

	// VerdictActions counts validated records by final action.
	VerdictActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ils_verdict_actions_total",
		Help: "Validated records partitioned by verdict action.",
	}, []string{"action"})

	// RuleTriggers counts guardian rule failures by rule id.
	RuleTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ils_rule_triggers_total",
		Help: "Guardian rule failures partitioned by rule id.",
	}, []string{"rule"})

	// AliasHits counts alias table short-circuits during retrieval.
	AliasHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ils_alias_hits_total",
		Help: "Retrievals resolved by the alias table.",
	})

	// AuditWriteFailures counts dropped audit trail writes.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ils_audit_write_failures_total",
		Help: "Audit trail writes that failed and were logged instead.",
	})
)
