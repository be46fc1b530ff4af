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

package validator

import (
	"fmt"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/wso2/institution-link-service/internal/guardian/consistency"
	"github.com/wso2/institution-link-service/internal/guardian/model"
	"github.com/wso2/institution-link-service/internal/matching/retriever"
	registrymodel "github.com/wso2/institution-link-service/internal/registry/model"
	"github.com/wso2/institution-link-service/internal/system/constants"
)

var registryCodePattern = regexp.MustCompile(`\b(MED\d{4}|DEN\d{4}|DNB\d{4})\b`)

// nameStopwords are ignored when measuring name word overlap.
var nameStopwords = map[string]bool{
	"THE": true, "OF": true, "AND": true, "IN": true, "AT": true,
	"TO": true, "FOR": true, "A": true, "AN": true,
}

// streamCompatibility maps a record's course stream to the registry
// streams a valid target may belong to. DNB programs run inside medical
// colleges, so medical and dnb accept each other.
var streamCompatibility = map[string]map[string]bool{
	constants.StreamMedical: {constants.StreamMedical: true, constants.StreamDNB: true},
	constants.StreamDental:  {constants.StreamDental: true},
	constants.StreamDNB:     {constants.StreamDNB: true, constants.StreamMedical: true},
}

// Validator evaluates the guardian rules against one proposed match at a
// time. It is stateless apart from its read-only inputs and safe for
// concurrent use.
type Validator struct {
	settings model.RuleSettings
	registry *registrymodel.Registry
	index    *consistency.Index
}

// New builds a validator over a batch consistency index.
func New(settings model.RuleSettings, registry *registrymodel.Registry,
	index *consistency.Index) *Validator {

	return &Validator{
		settings: settings,
		registry: registry,
		index:    index,
	}
}

// Validate evaluates every enabled rule and builds the verdict once.
// A proposal backed by a confirmed alias bypasses the rule set entirely.
// Individual rules fail open: missing data passes the rule, it never
// escalates it.
func (v *Validator) Validate(review model.ReviewRecord) model.Verdict {

	review.Record.Resolve()
	builder := model.NewVerdictBuilder(review.Record.RecordId, review.Proposal.InstitutionId)

	if review.Proposal.Source == constants.SourceAlias {
		return builder.AliasBypass().Build()
	}

	v.checkStateMatch(&review, builder)
	v.checkStreamMatch(&review, builder)
	v.checkConfidenceFloor(&review, builder)
	v.checkConsistency(&review, builder)
	v.checkSingleTarget(&review, builder)
	v.checkEmbeddedCode(&review, builder)
	v.checkWordOverlap(&review, builder)
	v.checkFuzzySimilarity(&review, builder)
	v.checkProvenance(&review, builder)
	v.checkConfidenceBand(&review, builder)
	v.checkMissingAddress(&review, builder)
	v.checkLocationMatch(&review, builder)
	v.checkSharedTargetSpread(&review, builder)
	v.checkWeakSimilarity(&review, builder)
	v.checkCrossState(&review, builder)

	return builder.Build()
}

// R01: the record's state must agree with the target's state, after both
// pass through the state alias table. Containment is accepted because
// registry states sometimes carry qualifiers.
func (v *Validator) checkStateMatch(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleStateMatch) {
		return
	}
	if review.Record.NormalizedState == "" || review.Institution == nil ||
		review.Institution.NormalizedState == "" {
		builder.Pass(model.RuleStateMatch)
		return
	}

	recordState := constants.NormalizeState(review.Record.NormalizedState)
	targetState := constants.NormalizeState(review.Institution.NormalizedState)
	if recordState == targetState ||
		strings.Contains(recordState, targetState) || strings.Contains(targetState, recordState) {
		builder.Pass(model.RuleStateMatch)
		return
	}
	builder.Fail(model.RuleStateMatch,
		fmt.Sprintf("record state %q does not match target state %q", recordState, targetState), false)
}

// R02: the target's stream must be compatible with the record's course
// stream. Unknown streams pass; the routing table owns that decision.
func (v *Validator) checkStreamMatch(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleStreamMatch) {
		return
	}
	compatible, known := streamCompatibility[review.Record.CourseStream]
	if !known || review.Institution == nil {
		builder.Pass(model.RuleStreamMatch)
		return
	}
	if compatible[review.Institution.Stream] {
		builder.Pass(model.RuleStreamMatch)
		return
	}
	builder.Fail(model.RuleStreamMatch,
		fmt.Sprintf("stream %q is incompatible with target stream %q",
			review.Record.CourseStream, review.Institution.Stream), false)
}

// R03: proposals below the confidence floor are not trusted unattended.
func (v *Validator) checkConfidenceFloor(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleConfidenceFloor) {
		return
	}
	if review.Proposal.Confidence < v.settings.ConfidenceFloor {
		builder.Fail(model.RuleConfidenceFloor,
			fmt.Sprintf("confidence %.2f below floor %.2f",
				review.Proposal.Confidence, v.settings.ConfidenceFloor), false)
		return
	}
	builder.Pass(model.RuleConfidenceFloor)
}

// R04: records with the same consistency key must agree on their target.
// A conflict where every target is a distinct campus with its own address
// is reclassified from block to quarantine for human review.
func (v *Validator) checkConsistency(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleConsistency) || v.index == nil {
		return
	}
	conflicting := v.index.ConflictingTargets(review, v.settings.AddressPrefixLength)
	if len(conflicting) == 0 {
		builder.Pass(model.RuleConsistency)
		return
	}

	builder.Alternatives(conflicting)
	builder.Fail(model.RuleConsistency,
		fmt.Sprintf("identical records also proposed for %s", strings.Join(conflicting, ", ")),
		v.looksMultiCampus(review.Proposal.InstitutionId, conflicting))
}

// looksMultiCampus reports whether all conflicting targets resolve to
// registry records with distinct non-empty addresses.
func (v *Validator) looksMultiCampus(proposedId string, conflicting []string) bool {

	if v.registry == nil {
		return false
	}
	seen := make(map[string]bool)
	for _, institutionId := range append([]string{proposedId}, conflicting...) {
		institution, ok := v.registry.ById(institutionId)
		if !ok || institution.NormalizedAddress == "" || seen[institution.NormalizedAddress] {
			return false
		}
		seen[institution.NormalizedAddress] = true
	}
	return true
}

// R05: a proposal must reference exactly one registry id.
func (v *Validator) checkSingleTarget(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleSingleTarget) {
		return
	}
	if strings.ContainsAny(review.Proposal.InstitutionId, ",;") {
		builder.Fail(model.RuleSingleTarget,
			fmt.Sprintf("proposal references multiple ids: %q", review.Proposal.InstitutionId), false)
		return
	}
	builder.Pass(model.RuleSingleTarget)
}

// R06: an id embedded in the record's own text outranks the proposal.
func (v *Validator) checkEmbeddedCode(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleEmbeddedCode) {
		return
	}
	embedded := extractRegistryCodes(review.Record.Name + " " + review.Record.Address)
	if len(embedded) == 0 {
		builder.Pass(model.RuleEmbeddedCode)
		return
	}
	for _, code := range embedded {
		if code == review.Proposal.InstitutionId {
			builder.Pass(model.RuleEmbeddedCode)
			return
		}
	}
	builder.Fail(model.RuleEmbeddedCode,
		fmt.Sprintf("record embeds registry code %s but %s was proposed",
			strings.Join(embedded, ","), review.Proposal.InstitutionId), false)
}

// R07: the record and target names should share words beyond stopwords.
func (v *Validator) checkWordOverlap(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleWordOverlap) || review.Institution == nil {
		return
	}
	overlap := jaccardOverlap(review.Record.NormalizedName, review.Institution.NormalizedName)
	if overlap < v.settings.WordOverlapFloor {
		builder.Warn(model.RuleWordOverlap,
			fmt.Sprintf("name word overlap %.2f below %.2f", overlap, v.settings.WordOverlapFloor))
		return
	}
	builder.Pass(model.RuleWordOverlap)
}

// R08: plain edit-distance similarity between the names.
func (v *Validator) checkFuzzySimilarity(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleFuzzySimilarity) || review.Institution == nil {
		return
	}
	ratio := float64(fuzzy.Ratio(review.Record.NormalizedName, review.Institution.NormalizedName)) / 100
	if ratio < v.settings.FuzzyFloor {
		builder.Warn(model.RuleFuzzySimilarity,
			fmt.Sprintf("name similarity %.2f below %.2f", ratio, v.settings.FuzzyFloor))
		return
	}
	builder.Pass(model.RuleFuzzySimilarity)
}

// R09 is reserved and intentionally not evaluated.

// R10: unvalidated provenance is surfaced for review.
func (v *Validator) checkProvenance(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleProvenance) {
		return
	}
	if review.Proposal.Source == constants.SourceUnvalidated {
		builder.Fail(model.RuleProvenance, "proposal carries unvalidated provenance", false)
		return
	}
	builder.Pass(model.RuleProvenance)
}

// R11: mid-band confidence is flagged even when it clears the floor.
func (v *Validator) checkConfidenceBand(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleConfidenceBand) {
		return
	}
	confidence := review.Proposal.Confidence
	if confidence >= v.settings.ConfidenceFloor && confidence < v.settings.ConfidenceBandUpper {
		builder.Warn(model.RuleConfidenceBand,
			fmt.Sprintf("confidence %.2f sits in the review band [%.2f, %.2f)",
				confidence, v.settings.ConfidenceFloor, v.settings.ConfidenceBandUpper))
		return
	}
	builder.Pass(model.RuleConfidenceBand)
}

// R12: a record without an address needs near-certain confidence.
func (v *Validator) checkMissingAddress(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleMissingAddress) {
		return
	}
	if review.Record.NormalizedAddress == "" &&
		review.Proposal.Confidence < v.settings.HighConfidence {
		builder.Fail(model.RuleMissingAddress,
			fmt.Sprintf("no address and confidence %.2f below %.2f",
				review.Proposal.Confidence, v.settings.HighConfidence), false)
		return
	}
	builder.Pass(model.RuleMissingAddress)
}

// R13: the record and target should describe the same place. Fails only
// when both the keyword overlap is low and the district-grade tokens are
// fully disjoint.
func (v *Validator) checkLocationMatch(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleLocationMatch) || review.Institution == nil {
		return
	}
	recordAddress := review.Record.NormalizedAddress
	targetAddress := review.Institution.NormalizedAddress
	if recordAddress == "" || targetAddress == "" {
		builder.Pass(model.RuleLocationMatch)
		return
	}

	overlap := locationKeyOverlap(recordAddress, targetAddress)
	if overlap >= v.settings.LocationOverlapFloor {
		builder.Pass(model.RuleLocationMatch)
		return
	}
	if districtTokensIntersect(recordAddress, targetAddress) {
		builder.Pass(model.RuleLocationMatch)
		return
	}
	builder.Fail(model.RuleLocationMatch,
		fmt.Sprintf("location key overlap %.2f below %.2f and no shared district token",
			overlap, v.settings.LocationOverlapFloor), false)
}

// R14: one target claimed from unrelated addresses across the batch.
func (v *Validator) checkSharedTargetSpread(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleSharedTargetSpread) || v.index == nil {
		return
	}
	ownAddress := review.Record.NormalizedAddress
	if ownAddress == "" {
		builder.Pass(model.RuleSharedTargetSpread)
		return
	}
	others := v.index.OtherAddressesFor(review.Proposal.InstitutionId, ownAddress)
	if len(others) == 0 {
		builder.Pass(model.RuleSharedTargetSpread)
		return
	}
	for _, other := range others {
		if addressKeywordsIntersect(ownAddress, other) {
			builder.Pass(model.RuleSharedTargetSpread)
			return
		}
	}
	builder.Fail(model.RuleSharedTargetSpread,
		fmt.Sprintf("target %s also claimed from %d unrelated address(es)",
			review.Proposal.InstitutionId, len(others)), false)
}

// R15: both similarity measures collapsing at once means the names do not
// describe the same institution.
func (v *Validator) checkWeakSimilarity(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleWeakSimilarity) || review.Institution == nil {
		return
	}
	tokenSet := float64(fuzzy.TokenSetRatio(review.Record.NormalizedName,
		review.Institution.NormalizedName)) / 100
	partial := float64(fuzzy.PartialRatio(review.Record.NormalizedName,
		review.Institution.NormalizedName)) / 100
	if tokenSet < v.settings.TokenSetFloor && partial < v.settings.PartialRatioFloor {
		builder.Fail(model.RuleWeakSimilarity,
			fmt.Sprintf("token-set %.2f and partial %.2f both below floors", tokenSet, partial), false)
		return
	}
	builder.Pass(model.RuleWeakSimilarity)
}

// R16: cross-state check through the second alias table, strict equality.
func (v *Validator) checkCrossState(review *model.ReviewRecord, builder *model.VerdictBuilder) {

	if !v.settings.IsEnabled(model.RuleCrossState) || review.Institution == nil {
		return
	}
	if review.Record.NormalizedState == "" || review.Institution.NormalizedState == "" {
		builder.Pass(model.RuleCrossState)
		return
	}
	recordState := constants.NormalizeCrossState(review.Record.NormalizedState)
	targetState := constants.NormalizeCrossState(review.Institution.NormalizedState)
	if recordState == targetState {
		builder.Pass(model.RuleCrossState)
		return
	}
	builder.Fail(model.RuleCrossState,
		fmt.Sprintf("cross-state aliasing resolves %q and %q to different states",
			recordState, targetState), false)
}

// extractRegistryCodes pulls stream-prefixed registry codes out of raw
// record text. Numeric council codes in parentheses carry no registry id
// mapping and are ignored.
func extractRegistryCodes(text string) []string {

	upper := strings.ToUpper(text)

	var codes []string
	seen := make(map[string]bool)
	for _, match := range registryCodePattern.FindAllStringSubmatch(upper, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			codes = append(codes, match[1])
		}
	}
	return codes
}

func jaccardOverlap(nameA, nameB string) float64 {

	setA := contentTokens(nameA)
	setB := contentTokens(nameB)
	if len(setA) == 0 || len(setB) == 0 {
		return 1
	}

	intersection := 0
	union := len(setB)
	for token := range setA {
		if setB[token] {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

func contentTokens(name string) map[string]bool {

	tokens := make(map[string]bool)
	for _, token := range strings.Fields(name) {
		if !nameStopwords[token] {
			tokens[token] = true
		}
	}
	return tokens
}

// locationKeyOverlap is the share of the smaller address's keywords that
// also appear in the other address.
func locationKeyOverlap(addressA, addressB string) float64 {

	keywordsA := retriever.AddressKeywords(addressA, 4)
	keywordsB := retriever.AddressKeywords(addressB, 4)
	if len(keywordsA) == 0 || len(keywordsB) == 0 {
		return 1
	}

	setB := make(map[string]bool, len(keywordsB))
	for _, keyword := range keywordsB {
		setB[keyword] = true
	}
	shared := 0
	for _, keyword := range keywordsA {
		if setB[keyword] {
			shared++
		}
	}
	smaller := len(keywordsA)
	if len(keywordsB) < smaller {
		smaller = len(keywordsB)
	}
	return float64(shared) / float64(smaller)
}

// districtTokensIntersect looks for a shared district-grade token: an
// alphabetic token of district-name length, or a shared pincode. Two
// addresses agreeing on a pincode describe the same place no matter how
// differently they spell the rest.
func districtTokensIntersect(addressA, addressB string) bool {

	setB := make(map[string]bool)
	for _, token := range strings.Fields(addressB) {
		if isDistrictGrade(token) {
			setB[token] = true
		}
	}
	for _, token := range strings.Fields(addressA) {
		if isDistrictGrade(token) && setB[token] {
			return true
		}
	}
	return false
}

func isDistrictGrade(token string) bool {

	if len(token) >= 4 && isAlpha(token) {
		return true
	}
	return len(token) >= 6 && isDigits(token)
}

func addressKeywordsIntersect(addressA, addressB string) bool {

	setB := make(map[string]bool)
	for _, keyword := range retriever.AddressKeywords(addressB, 4) {
		setB[keyword] = true
	}
	for _, keyword := range retriever.AddressKeywords(addressA, 4) {
		if setB[keyword] {
			return true
		}
	}
	return false
}

func isAlpha(token string) bool {

	for _, r := range token {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(token string) bool {

	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(token) > 0
}
