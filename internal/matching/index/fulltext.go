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

package index

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/wso2/institution-link-service/internal/matching/retriever"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/errors"
)

// FullTextIndex is an in-memory bleve index per stream partition. It is a
// recall source: bleve ranks term matches, the hits are then re-scored
// with the token-set ratio so every tier speaks the same score scale.
type FullTextIndex struct {
	mutex   sync.RWMutex
	indexes map[string]bleve.Index
	names   map[string]map[string]string
}

// NewFullTextIndex creates an empty full-text index.
func NewFullTextIndex() *FullTextIndex {

	return &FullTextIndex{
		indexes: make(map[string]bleve.Index),
		names:   make(map[string]map[string]string),
	}
}

// BuildPartition indexes one stream partition. Rebuilding a stream
// replaces its previous index.
func (f *FullTextIndex) BuildPartition(stream string, institutions []*registrymodel.Institution) error {

	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return errors.NewServerError(errors.FULLTEXT_INDEX, err)
	}

	names := make(map[string]string, len(institutions))
	batch := idx.NewBatch()
	for _, institution := range institutions {
		names[institution.InstitutionId] = institution.NormalizedName
		err := batch.Index(institution.InstitutionId, map[string]interface{}{
			"name":    institution.NormalizedName,
			"address": institution.NormalizedAddress,
		})
		if err != nil {
			return errors.NewServerError(errors.FULLTEXT_INDEX,
				fmt.Errorf("indexing %s: %w", institution.InstitutionId, err))
		}
	}
	if err := idx.Batch(batch); err != nil {
		return errors.NewServerError(errors.FULLTEXT_INDEX, err)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if previous, ok := f.indexes[stream]; ok {
		_ = previous.Close()
	}
	f.indexes[stream] = idx
	f.names[stream] = names
	return nil
}

// Search runs a term-match query over a stream partition and re-scores the
// hits with the token-set ratio against the query name.
func (f *FullTextIndex) Search(stream, normalizedName string, limit int) ([]retriever.IndexHit, error) {

	f.mutex.RLock()
	idx, ok := f.indexes[stream]
	names := f.names[stream]
	f.mutex.RUnlock()
	if !ok || normalizedName == "" {
		return nil, nil
	}

	query := bleve.NewMatchQuery(normalizedName)
	query.SetField("name")
	request := bleve.NewSearchRequest(query)
	request.Size = limit

	result, err := idx.Search(request)
	if err != nil {
		return nil, errors.NewServerError(errors.FULLTEXT_INDEX, err)
	}

	hits := make([]retriever.IndexHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		name, ok := names[hit.ID]
		if !ok {
			continue
		}
		hits = append(hits, retriever.IndexHit{
			InstitutionId: hit.ID,
			Score:         float64(fuzzy.TokenSetRatio(normalizedName, name)),
		})
	}
	return hits, nil
}
