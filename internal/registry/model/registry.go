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

package model

// Registry is an immutable in-memory snapshot of the canonical registry,
// partitioned by stream and indexed by state and institution id. Built once
// at load time; safe for concurrent readers.
type Registry struct {
	partitions map[string][]*Institution
	byState    map[string]map[string][]*Institution
	byId       map[string]*Institution
}

// NewRegistry builds a registry snapshot from per-stream partitions. The
// institutions are expected to carry their Normalized* fields already.
func NewRegistry(partitions map[string][]*Institution) *Registry {

	registry := &Registry{
		partitions: partitions,
		byState:    make(map[string]map[string][]*Institution),
		byId:       make(map[string]*Institution),
	}

	for stream, institutions := range partitions {
		stateIndex := make(map[string][]*Institution)
		for _, institution := range institutions {
			stateIndex[institution.NormalizedState] = append(stateIndex[institution.NormalizedState], institution)
			registry.byId[institution.InstitutionId] = institution
		}
		registry.byState[stream] = stateIndex
	}
	return registry
}

// HasPartition reports whether a partition exists for the given stream.
// Callers check capability instead of treating a missing table as an error.
func (r *Registry) HasPartition(stream string) bool {

	partition, ok := r.partitions[stream]
	return ok && len(partition) > 0
}

// Partition returns all institutions in the given stream partition.
func (r *Registry) Partition(stream string) []*Institution {

	return r.partitions[stream]
}

// ByState returns the institutions of a stream partition within the given
// normalized state. Returns nil when either axis is unknown.
func (r *Registry) ByState(stream, state string) []*Institution {

	stateIndex, ok := r.byState[stream]
	if !ok {
		return nil
	}
	return stateIndex[state]
}

// ById resolves an institution by registry id across all partitions.
func (r *Registry) ById(institutionId string) (*Institution, bool) {

	institution, ok := r.byId[institutionId]
	return institution, ok
}

// Streams lists the streams that have a loaded partition.
func (r *Registry) Streams() []string {

	streams := make([]string, 0, len(r.partitions))
	for stream := range r.partitions {
		streams = append(streams, stream)
	}
	return streams
}

// Size returns the total number of institutions across partitions.
func (r *Registry) Size() int {

	total := 0
	for _, partition := range r.partitions {
		total += len(partition)
	}
	return total
}
