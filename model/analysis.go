package model

// ContractAnalysis is the structured result returned by the analyzer. It
// mirrors the JSON schema the model is instructed to produce.
type ContractAnalysis struct {
	ContractType       string           `json:"contractType"`
	RiskScore          string           `json:"riskScore"` // low|medium|high
	Jurisdiction       string           `json:"jurisdiction"`
	ArbitrationPresent bool             `json:"arbitrationPresent"`
	RedFlags           []string         `json:"redFlags,omitempty"`
	Clauses            []ClauseAnalysis `json:"clauses"`
	HindiSummary       string           `json:"hindiSummary,omitempty"`
	ExecutiveSummary   string           `json:"executiveSummary,omitempty"`
	ClientContext      string           `json:"clientContext,omitempty"`
}

// ClauseAnalysis is one clause entry in the analyzer output.
type ClauseAnalysis struct {
	ClauseNumber int    `json:"clauseNumber"`
	Title        string `json:"title"`
	ClauseText   string `json:"clauseText"`
	SummaryEn    string `json:"summaryEn"`
	SummaryHi    string `json:"summaryHi"`
	RiskScore    string `json:"riskScore"` // safe|caution|risky
	Suggestion   string `json:"suggestion"`
	FlagType     string `json:"flagType,omitempty"`
}

// Outcome wraps a value that may have been substituted with deterministic
// fallback content after an upstream failure. Degraded results are still
// valid values; Reason records what went wrong upstream so callers and
// tests can tell genuine model output from canned content.
type Outcome[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

// Ok returns a genuine (non-degraded) outcome.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// DegradedOutcome returns a fallback-substituted outcome with the upstream
// failure reason attached.
func DegradedOutcome[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Value: v, Degraded: true, Reason: reason}
}
