package constants

const ApiBasePath = "/api/v1"
const MatchApiPath = "matches"
const ValidationApiPath = "validations"
const AliasApiPath = "aliases"
const InstitutionApiPath = "institutions"

type contextKey string

const InitiatorContextKey contextKey = "initiator"

// Streams are the registry partitions records can be routed to.
const (
	StreamMedical = "medical"
	StreamDental  = "dental"
	StreamDNB     = "dnb"
)

// StreamRouting maps a record's course stream to the ordered list of
// registry partitions to search. Only dnb cascades: DNB programs run
// inside medical colleges, so an empty dnb search falls back to the
// medical partition. Medical and dental records stay in their own
// partition; cross-stream tolerance is a validation concern.
var StreamRouting = map[string][]string{
	StreamMedical: {StreamMedical},
	StreamDental:  {StreamDental},
	StreamDNB:     {StreamDNB, StreamMedical},
}

// Registry id prefixes per stream, e.g. MED0734, DEN0112, DNB0523.
var StreamIdPrefixes = map[string]string{
	StreamMedical: "MED",
	StreamDental:  "DEN",
	StreamDNB:     "DNB",
}

// Match provenance sources carried on proposals and verdicts.
const (
	SourceAlias       = "alias"
	SourceOracle      = "oracle"
	SourceUnvalidated = "unvalidated"
)

// StateAliases maps legacy or variant state spellings to the canonical
// registry spelling. Applied before any state comparison.
var StateAliases = map[string]string{
	"ORISSA":              "ODISHA",
	"PONDICHERRY":         "PUDUCHERRY",
	"DELHI":               "NEW DELHI",
	"NCT OF DELHI":        "NEW DELHI",
	"CHATTISGARH":         "CHHATTISGARH",
	"ANDAMAN AND NICOBAR": "ANDAMAN AND NICOBAR ISLANDS",
}

// CrossStateAliases is a second, independently maintained alias map used
// by the cross-state consistency check. The two tables intentionally
// disagree on Delhi's canonical form; both sides are normalized through
// the same table before comparison, so the disagreement is harmless.
var CrossStateAliases = map[string]string{
	"NEW DELHI":         "DELHI (NCT)",
	"DELHI":             "DELHI (NCT)",
	"NCT OF DELHI":      "DELHI (NCT)",
	"ORISSA":            "ODISHA",
	"PONDICHERRY":       "PUDUCHERRY",
	"UTTARANCHAL":       "UTTARAKHAND",
	"JAMMU AND KASHMIR": "JAMMU & KASHMIR",
	"CHATTISGARH":       "CHHATTISGARH",
}

// AddressStopwords are ignored when comparing address token overlap.
var AddressStopwords = map[string]bool{
	"THE":      true,
	"OF":       true,
	"AND":      true,
	"IN":       true,
	"AT":       true,
	"TO":       true,
	"FOR":      true,
	"A":        true,
	"AN":       true,
	"ROAD":     true,
	"RD":       true,
	"STREET":   true,
	"DIST":     true,
	"DISTRICT": true,
	"PO":       true,
	"PS":       true,
	"VILL":     true,
	"VILLAGE":  true,
	"NEAR":     true,
	"OPP":      true,
	"PIN":      true,
}

// GenericCollegeWords carry no discriminating signal in an institution
// name. A name made only of these needs corroborating address evidence.
var GenericCollegeWords = map[string]bool{
	"GOVERNMENT": true,
	"GOVT":       true,
	"MEDICAL":    true,
	"DENTAL":     true,
	"COLLEGE":    true,
	"HOSPITAL":   true,
	"INSTITUTE":  true,
	"OF":         true,
	"AND":        true,
	"SCIENCES":   true,
	"SCIENCE":    true,
	"RESEARCH":   true,
	"CENTRE":     true,
	"CENTER":     true,
	"GENERAL":    true,
	"DISTRICT":   true,
	"CIVIL":      true,
	"NEW":        true,
	"THE":        true,
}

// NormalizeState resolves a state name through the primary alias table.
func NormalizeState(state string) string {
	if canonical, ok := StateAliases[state]; ok {
		return canonical
	}
	return state
}

// NormalizeCrossState resolves a state name through the cross-state
// alias table used by the consistency checks.
func NormalizeCrossState(state string) string {
	if canonical, ok := CrossStateAliases[state]; ok {
		return canonical
	}
	return state
}
