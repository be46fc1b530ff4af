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

package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wso2/institution-link-service/internal/system/config"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/metrics"
)

// Entry is one append-only audit trail record for a validated match.
type Entry struct {
	BatchId       string    `bson:"batch_id" json:"batch_id"`
	RecordId      string    `bson:"record_id" json:"record_id"`
	InstitutionId string    `bson:"institution_id,omitempty" json:"institution_id,omitempty"`
	Action        string    `bson:"action" json:"action"`
	RuleTrace     []string  `bson:"rule_trace,omitempty" json:"rule_trace,omitempty"`
	Source        string    `bson:"source,omitempty" json:"source,omitempty"`
	RowsAffected  int       `bson:"record_count_affected" json:"record_count_affected"`
	RecordedAt    time.Time `bson:"recorded_at" json:"recorded_at"`
}

// SinkInterface is the audit trail write contract. Writes must never
// block or fail validation; a sink that cannot persist logs instead.
type SinkInterface interface {
	Write(ctx context.Context, entry Entry)
	Close(ctx context.Context) error
}

// MongoSink persists audit entries to a MongoDB collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewSink builds the configured audit sink. An empty URI selects the
// log-only sink.
func NewSink(ctx context.Context, cfg config.AuditStoreConfig) (SinkInterface, error) {

	if cfg.URI == "" {
		return &LogSink{}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	collectionName := cfg.Collection
	if collectionName == "" {
		collectionName = "match_audit"
	}
	return &MongoSink{
		client:     client,
		collection: client.Database(cfg.Database).Collection(collectionName),
	}, nil
}

// Write appends one entry. Failures are logged and counted, never
// propagated.
func (s *MongoSink) Write(ctx context.Context, entry Entry) {

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.collection.InsertOne(writeCtx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		log.GetLogger().Warn("Audit trail write failed, entry logged instead",
			log.String("record_id", entry.RecordId), log.Error(err))
		logEntry(entry)
	}
}

// Close disconnects the underlying client.
func (s *MongoSink) Close(ctx context.Context) error {

	return s.client.Disconnect(ctx)
}

// LogSink writes audit entries to the structured audit log only.
type LogSink struct{}

func (s *LogSink) Write(_ context.Context, entry Entry) {

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	logEntry(entry)
}

func (s *LogSink) Close(_ context.Context) error {

	return nil
}

func logEntry(entry Entry) {

	log.GetLogger().Audit(log.AuditEvent{
		RecordedAt:    entry.RecordedAt.Format(time.RFC3339),
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      entry.InstitutionId,
		TargetType:    log.TargetTypeRecord,
		ActionID:      actionId(entry.Action),
		TraceID:       entry.BatchId,
		Data: map[string]interface{}{
			"record_id":             entry.RecordId,
			"rule_trace":            entry.RuleTrace,
			"source":                entry.Source,
			"record_count_affected": entry.RowsAffected,
		},
	})
}

func actionId(action string) string {

	switch action {
	case "pass":
		return log.ActionPassMatch
	case "quarantine":
		return log.ActionQuarantineMatch
	case "block":
		return log.ActionBlockMatch
	default:
		return log.ActionValidateMatch
	}
}
