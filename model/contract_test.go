package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestContractStatusConstants(t *testing.T) {
	statuses := []string{StatusPending, StatusAnalyzing, StatusCompleted, StatusFailed}
	expected := []string{"pending", "analyzing", "completed", "failed"}

	for i, status := range statuses {
		if status != expected[i] {
			t.Errorf("Expected '%s', got '%s'", expected[i], status)
		}
	}
}

func TestRiskConstants(t *testing.T) {
	if RiskLow != "low" || RiskMedium != "medium" || RiskHigh != "high" {
		t.Error("Contract risk constants changed")
	}
	if ClauseSafe != "safe" || ClauseCaution != "caution" || ClauseRisky != "risky" {
		t.Error("Clause risk constants changed")
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := &User{
		ID:           "user-1",
		Email:        "adv.mehta@example.com",
		PasswordHash: "$2a$10$secret",
		Name:         "Advocate Mehta",
		CreatedAt:    time.Now(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("Password hash leaked into JSON")
	}
	if !strings.Contains(string(data), "adv.mehta@example.com") {
		t.Error("Email missing from JSON")
	}
}

func TestAnalysisJSONTags(t *testing.T) {
	data := []byte(`{
		"contractType": "Rental Agreement",
		"riskScore": "medium",
		"jurisdiction": "India",
		"arbitrationPresent": true,
		"clauses": [
			{"clauseNumber": 1, "title": "Rent", "riskScore": "safe", "summaryHi": "किराया समय पर देय है।"}
		]
	}`)

	var analysis ContractAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if analysis.ContractType != "Rental Agreement" || analysis.RiskScore != RiskMedium {
		t.Errorf("Unexpected analysis: %+v", analysis)
	}
	if !analysis.ArbitrationPresent {
		t.Error("arbitrationPresent not decoded")
	}
	if len(analysis.Clauses) != 1 || analysis.Clauses[0].SummaryHi == "" {
		t.Errorf("Clause not decoded: %+v", analysis.Clauses)
	}
}

func TestOutcome(t *testing.T) {
	ok := Ok("extracted text")
	if ok.Degraded || ok.Value != "extracted text" || ok.Reason != "" {
		t.Errorf("Unexpected ok outcome: %+v", ok)
	}

	deg := DegradedOutcome("fallback text", "vision endpoint unreachable")
	if !deg.Degraded || deg.Reason == "" {
		t.Errorf("Unexpected degraded outcome: %+v", deg)
	}
}
