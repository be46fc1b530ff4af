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
	"math"
	"sort"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/wso2/institution-link-service/internal/matching/retriever"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
)

// VectorIndex holds per-stream TF-IDF name vectors. Cosine similarity
// against the query name gates the candidate pool; hits above the cutoff
// are re-scored with the token-set ratio.
type VectorIndex struct {
	mutex   sync.RWMutex
	cutoff  float64
	streams map[string]*streamVectors
}

type streamVectors struct {
	vocabulary map[string]int
	idf        []float64
	ids        []string
	names      []string
	matrix     *mat.Dense
	norms      []float64
}

// NewVectorIndex creates an empty vector index with the given cosine
// cutoff; values at or below zero fall back to 0.1.
func NewVectorIndex(cutoff float64) *VectorIndex {

	if cutoff <= 0 {
		cutoff = 0.1
	}
	return &VectorIndex{
		cutoff:  cutoff,
		streams: make(map[string]*streamVectors),
	}
}

// BuildPartition vectorizes one stream partition. Rebuilding a stream
// replaces its previous vectors.
func (v *VectorIndex) BuildPartition(stream string, institutions []*registrymodel.Institution) error {

	vectors := &streamVectors{
		vocabulary: make(map[string]int),
	}

	tokenized := make([][]string, len(institutions))
	documentFrequency := make(map[string]int)
	for i, institution := range institutions {
		tokens := strings.Fields(institution.NormalizedName)
		tokenized[i] = tokens
		vectors.ids = append(vectors.ids, institution.InstitutionId)
		vectors.names = append(vectors.names, institution.NormalizedName)
		for _, token := range uniqueTokens(tokens) {
			documentFrequency[token]++
			if _, ok := vectors.vocabulary[token]; !ok {
				vectors.vocabulary[token] = len(vectors.vocabulary)
			}
		}
	}

	documents := len(institutions)
	vocabularySize := len(vectors.vocabulary)
	if documents == 0 || vocabularySize == 0 {
		v.mutex.Lock()
		v.streams[stream] = vectors
		v.mutex.Unlock()
		return nil
	}

	vectors.idf = make([]float64, vocabularySize)
	for token, column := range vectors.vocabulary {
		vectors.idf[column] = math.Log(float64(documents)/float64(1+documentFrequency[token])) + 1
	}

	vectors.matrix = mat.NewDense(documents, vocabularySize, nil)
	vectors.norms = make([]float64, documents)
	for i, tokens := range tokenized {
		row := vectors.matrix.RawRowView(i)
		fillVector(row, tokens, vectors.vocabulary, vectors.idf)
		vectors.norms[i] = floats.Norm(row, 2)
	}

	v.mutex.Lock()
	v.streams[stream] = vectors
	v.mutex.Unlock()
	return nil
}

// Search computes cosine similarity between the query name and every
// partition vector, keeps hits above the cutoff and re-scores them with
// the token-set ratio.
func (v *VectorIndex) Search(stream, normalizedName string, limit int) ([]retriever.IndexHit, error) {

	v.mutex.RLock()
	vectors, ok := v.streams[stream]
	v.mutex.RUnlock()
	if !ok || vectors.matrix == nil || normalizedName == "" {
		return nil, nil
	}

	vocabularySize := len(vectors.vocabulary)
	queryVector := make([]float64, vocabularySize)
	fillVector(queryVector, strings.Fields(normalizedName), vectors.vocabulary, vectors.idf)
	queryNorm := floats.Norm(queryVector, 2)
	if queryNorm == 0 {
		return nil, nil
	}

	documents, _ := vectors.matrix.Dims()
	similarities := mat.NewVecDense(documents, nil)
	similarities.MulVec(vectors.matrix, mat.NewVecDense(vocabularySize, queryVector))

	type scored struct {
		index  int
		cosine float64
	}
	var kept []scored
	for i := 0; i < documents; i++ {
		if vectors.norms[i] == 0 {
			continue
		}
		cosine := similarities.AtVec(i) / (vectors.norms[i] * queryNorm)
		if cosine > v.cutoff {
			kept = append(kept, scored{index: i, cosine: cosine})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].cosine != kept[j].cosine {
			return kept[i].cosine > kept[j].cosine
		}
		return vectors.ids[kept[i].index] < vectors.ids[kept[j].index]
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	hits := make([]retriever.IndexHit, 0, len(kept))
	for _, entry := range kept {
		hits = append(hits, retriever.IndexHit{
			InstitutionId: vectors.ids[entry.index],
			Score:         float64(fuzzy.TokenSetRatio(normalizedName, vectors.names[entry.index])),
		})
	}
	return hits, nil
}

func fillVector(vector []float64, tokens []string, vocabulary map[string]int, idf []float64) {

	if len(tokens) == 0 {
		return
	}
	counts := make(map[int]int)
	for _, token := range tokens {
		if column, ok := vocabulary[token]; ok {
			counts[column]++
		}
	}
	total := float64(len(tokens))
	for column, count := range counts {
		vector[column] = (float64(count) / total) * idf[column]
	}
}

func uniqueTokens(tokens []string) []string {

	seen := make(map[string]bool, len(tokens))
	var unique []string
	for _, token := range tokens {
		if !seen[token] {
			seen[token] = true
			unique = append(unique, token)
		}
	}
	return unique
}
