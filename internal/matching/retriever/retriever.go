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

package retriever

import (
	"sort"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	aliasservice "github.com/wso2/institution-link-service/internal/alias/service"
	"github.com/wso2/institution-link-service/internal/matching/model"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
	"github.com/wso2/institution-link-service/internal/system/log"
	"github.com/wso2/institution-link-service/internal/system/metrics"
)

// Options are the retrieval tunables.
type Options struct {
	MinScore   float64
	TopN       int
	FuzzyFloor float64
}

// DefaultOptions returns the retrieval defaults.
func DefaultOptions() Options {

	return Options{
		MinScore:   70,
		TopN:       10,
		FuzzyFloor: 85,
	}
}

// IndexHit is a scored institution id from a secondary index.
type IndexHit struct {
	InstitutionId string
	Score         float64
}

// NameIndex is a secondary candidate source over a stream partition.
// Hits are additive: they extend the primary tiers, never replace them.
type NameIndex interface {
	Search(stream, normalizedName string, limit int) ([]IndexHit, error)
}

// Retriever produces ranked registry candidates for query records.
type Retriever struct {
	registry *registrymodel.Registry
	aliases  aliasservice.AliasServiceInterface
	fullText NameIndex
	vector   NameIndex
	options  Options
}

// NewRetriever wires a retriever over a registry snapshot. The secondary
// indexes are optional; pass nil to disable a tier.
func NewRetriever(registry *registrymodel.Registry, aliases aliasservice.AliasServiceInterface,
	fullText, vector NameIndex, options Options) *Retriever {

	if options.TopN <= 0 {
		options.TopN = DefaultOptions().TopN
	}
	if options.MinScore <= 0 {
		options.MinScore = DefaultOptions().MinScore
	}
	if options.FuzzyFloor <= 0 {
		options.FuzzyFloor = DefaultOptions().FuzzyFloor
	}
	return &Retriever{
		registry: registry,
		aliases:  aliases,
		fullText: fullText,
		vector:   vector,
		options:  options,
	}
}

// Retrieve resolves the record once and returns its ranked candidate set.
// An empty candidate list is a valid outcome, not an error.
func (r *Retriever) Retrieve(record *model.QueryRecord) (*model.RetrievalResult, error) {

	logger := log.GetLogger()
	started := time.Now()
	defer func() {
		metrics.RetrievalDuration.Observe(time.Since(started).Seconds())
	}()

	record.Resolve()
	result := &model.RetrievalResult{RecordId: record.RecordId}

	// A confirmed alias short-circuits everything below.
	if r.aliases != nil {
		alias, err := r.aliases.Lookup(record.Name, record.State)
		if err != nil {
			logger.Warn("Alias lookup failed, continuing with tiered retrieval",
				log.String("record_id", record.RecordId), log.Error(err))
		} else if alias != nil {
			if institution, ok := r.registry.ById(alias.InstitutionId); ok {
				result.AliasHit = true
				result.Stream = institution.Stream
				result.Candidates = []model.Candidate{{
					Institution: institution,
					Score:       100,
					Tier:        model.TierAlias,
				}}
				metrics.AliasHits.Inc()
				metrics.CandidateRetrievals.WithLabelValues(model.TierAlias).Inc()
				return result, nil
			}
			logger.Warn("Alias points at unknown registry id, ignoring",
				log.String("record_id", record.RecordId),
				log.String("institution_id", alias.InstitutionId))
		}
	}

	// Route to partitions in stream order, stopping at the first
	// partition that yields candidates.
	streams, ok := constants.StreamRouting[record.CourseStream]
	if !ok {
		streams = constants.StreamRouting[constants.StreamMedical]
	}
	for _, stream := range streams {
		if !r.registry.HasPartition(stream) {
			continue
		}
		candidates := r.searchPartition(record, stream)
		if len(candidates) > 0 {
			result.Stream = stream
			result.Candidates = candidates
			break
		}
	}

	metrics.CandidateRetrievals.WithLabelValues(result.WinningTier()).Inc()
	return result, nil
}

// searchPartition runs the tiered name search within one stream partition.
func (r *Retriever) searchPartition(record *model.QueryRecord, stream string) []model.Candidate {

	pool := r.statePool(record, stream)
	if len(pool) == 0 {
		return nil
	}

	candidates := r.nameTiers(record, pool)
	candidates = r.mergeIndexHits(record, stream, candidates)
	candidates = filterByScore(candidates, r.options.MinScore)
	candidates = disambiguateByAddress(record, candidates)
	candidates = applyGenericNameGuard(record, candidates)

	sortCandidates(candidates)
	if len(candidates) > r.options.TopN {
		candidates = candidates[:r.options.TopN]
	}
	return candidates
}

// statePool applies the hard state filter. A record without a state
// searches the whole partition.
func (r *Retriever) statePool(record *model.QueryRecord, stream string) []*registrymodel.Institution {

	if record.NormalizedState == "" {
		return r.registry.Partition(stream)
	}
	return r.registry.ByState(stream, record.NormalizedState)
}

// nameTiers runs every primary name tier over the pool. All three tiers
// produce hits; an institution hit by more than one tier keeps its
// highest score. An exact hit must never suppress a looser hit on a
// sibling campus, the address disambiguation step decides between them.
func (r *Retriever) nameTiers(record *model.QueryRecord,
	pool []*registrymodel.Institution) []model.Candidate {

	position := make(map[string]int)
	var candidates []model.Candidate
	collect := func(hits []model.Candidate) {
		for _, hit := range hits {
			institutionId := hit.Institution.InstitutionId
			if i, seen := position[institutionId]; seen {
				if hit.Score > candidates[i].Score {
					candidates[i] = hit
				}
				continue
			}
			position[institutionId] = len(candidates)
			candidates = append(candidates, hit)
		}
	}

	collect(r.exactTier(record, pool))
	collect(r.fuzzyTier(record, pool))
	collect(r.substringTier(record, pool))
	return candidates
}

func (r *Retriever) exactTier(record *model.QueryRecord,
	pool []*registrymodel.Institution) []model.Candidate {

	var candidates []model.Candidate
	for _, institution := range pool {
		if institution.NormalizedName == record.NormalizedName {
			candidates = append(candidates, model.Candidate{
				Institution: institution,
				Score:       100,
				Tier:        model.TierExact,
			})
		}
	}
	return candidates
}

func (r *Retriever) fuzzyTier(record *model.QueryRecord,
	pool []*registrymodel.Institution) []model.Candidate {

	var candidates []model.Candidate
	for _, institution := range pool {
		score := float64(fuzzy.TokenSetRatio(record.NormalizedName, institution.NormalizedName))
		if score >= r.options.FuzzyFloor {
			candidates = append(candidates, model.Candidate{
				Institution: institution,
				Score:       score,
				Tier:        model.TierFuzzy,
			})
		}
	}
	return candidates
}

func (r *Retriever) substringTier(record *model.QueryRecord,
	pool []*registrymodel.Institution) []model.Candidate {

	var candidates []model.Candidate
	for _, institution := range pool {
		if !strings.Contains(institution.NormalizedName, record.NormalizedName) &&
			!strings.Contains(record.NormalizedName, institution.NormalizedName) {
			continue
		}
		// Containment hits score on token-set similarity even below
		// the fuzzy floor; the quality gate decides whether they live.
		score := float64(fuzzy.TokenSetRatio(record.NormalizedName, institution.NormalizedName))
		candidates = append(candidates, model.Candidate{
			Institution: institution,
			Score:       score,
			Tier:        model.TierSubstring,
		})
	}
	return candidates
}

// mergeIndexHits extends the candidate set with secondary index hits.
// Institutions already present keep their primary tier and score.
func (r *Retriever) mergeIndexHits(record *model.QueryRecord, stream string,
	candidates []model.Candidate) []model.Candidate {

	logger := log.GetLogger()
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		seen[candidate.Institution.InstitutionId] = true
	}

	merge := func(index NameIndex, tier string) {
		if index == nil {
			return
		}
		hits, err := index.Search(stream, record.NormalizedName, r.options.TopN)
		if err != nil {
			logger.Warn("Secondary index search failed",
				log.String("record_id", record.RecordId), log.String("tier", tier), log.Error(err))
			return
		}
		for _, hit := range hits {
			if seen[hit.InstitutionId] {
				continue
			}
			institution, ok := r.registry.ById(hit.InstitutionId)
			if !ok || institution.Stream != stream {
				continue
			}
			if record.NormalizedState != "" && institution.NormalizedState != record.NormalizedState {
				continue
			}
			seen[hit.InstitutionId] = true
			candidates = append(candidates, model.Candidate{
				Institution: institution,
				Score:       hit.Score,
				Tier:        tier,
			})
		}
	}

	merge(r.fullText, model.TierFullText)
	merge(r.vector, model.TierVector)
	return candidates
}

func filterByScore(candidates []model.Candidate, minScore float64) []model.Candidate {

	var kept []model.Candidate
	for _, candidate := range candidates {
		if candidate.Score >= minScore {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// sortCandidates orders by score descending, then institution id so that
// equal inputs always rank identically.
func sortCandidates(candidates []model.Candidate) {

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Institution.InstitutionId < candidates[j].Institution.InstitutionId
	})
}
