package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/naiseuue444/lawpal-ai-contracts-india/config"
	"github.com/naiseuue444/lawpal-ai-contracts-india/model"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
	}{
		{"short sentence", "Review the payment terms carefully", 80},
		{"exact budget", "aaaa bbbb", 9},
		{"long paragraph", strings.Repeat("word ", 100), 40},
		{"tiny budget", "alpha beta gamma", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := WrapText(tt.input, tt.maxLength)

			for _, line := range lines {
				if len(line) > tt.maxLength && strings.Contains(line, " ") {
					t.Errorf("Line %q exceeds budget %d and contains a space", line, tt.maxLength)
				}
			}

			// No words dropped or reordered.
			joined := strings.Join(lines, " ")
			if joined != strings.Join(strings.Fields(tt.input), " ") {
				t.Errorf("Wrapped output lost content: %q", joined)
			}
		})
	}
}

func TestWrapTextOversizeWord(t *testing.T) {
	word := strings.Repeat("x", 50)
	lines := WrapText("start "+word+" end", 10)

	found := false
	for _, line := range lines {
		if line == word {
			found = true
		}
	}
	if !found {
		t.Errorf("Oversize word must appear unsplit on its own line, got %v", lines)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if lines := WrapText("", 80); len(lines) != 0 {
		t.Errorf("Expected no lines for empty input, got %v", lines)
	}
}

func testContract() (*model.Contract, []model.Clause) {
	contract := &model.Contract{
		ID:             "contract-1",
		Filename:       "nda.pdf",
		AnalysisStatus: model.StatusCompleted,
		ContractType:   "Service Agreement",
		RiskScore:      model.RiskHigh,
		Jurisdiction:   "India",
	}
	clauses := []model.Clause{
		{ContractID: "contract-1", ClauseNumber: 2, Title: "Termination", RiskScore: model.ClauseCaution,
			SummaryEn: "Termination requires ninety days notice", Suggestion: "Negotiate a shorter notice period"},
		{ContractID: "contract-1", ClauseNumber: 1, Title: "Payment", RiskScore: model.ClauseSafe,
			SummaryEn: "Payment due in thirty days", SummaryHi: "तीस दिनों में भुगतान देय"},
		{ContractID: "contract-1", ClauseNumber: 3, Title: "Indemnity", RiskScore: model.ClauseRisky,
			SummaryEn: "Unlimited indemnity obligation", Suggestion: "Cap the indemnity amount"},
	}
	return contract, clauses
}

func TestRenderProducesPDF(t *testing.T) {
	svc := NewReportService(&config.ReportConfig{})
	contract, clauses := testContract()

	pdfBytes, err := svc.Render(contract, clauses)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("Expected PDF magic bytes")
	}
	if len(pdfBytes) < 1000 {
		t.Errorf("Suspiciously small PDF: %d bytes", len(pdfBytes))
	}
}

func TestRenderEmptyClauses(t *testing.T) {
	svc := NewReportService(&config.ReportConfig{})
	contract, _ := testContract()

	pdfBytes, err := svc.Render(contract, nil)
	if err != nil {
		t.Fatalf("Render with no clauses: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("Expected PDF magic bytes")
	}
}

func TestRenderManyClausesPaginates(t *testing.T) {
	svc := NewReportService(&config.ReportConfig{})
	contract, _ := testContract()

	var clauses []model.Clause
	for i := 0; i < 25; i++ {
		clauses = append(clauses, model.Clause{
			ContractID:   contract.ID,
			ClauseNumber: i + 1,
			Title:        "Clause",
			RiskScore:    model.ClauseSafe,
			SummaryEn:    strings.Repeat("summary text ", 20),
			Suggestion:   strings.Repeat("suggestion text ", 10),
		})
	}

	pdfBytes, err := svc.Render(contract, clauses)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// 25 clause blocks cannot fit one A4 page; the document must have
	// grown well past a single-page render.
	single, err := svc.Render(contract, clauses[:1])
	if err != nil {
		t.Fatalf("Render single: %v", err)
	}
	if len(pdfBytes) <= len(single) {
		t.Error("Expected multi-clause render to be larger than single-clause render")
	}
}

func TestKeyRecommendations(t *testing.T) {
	_, clauses := testContract()

	recs := keyRecommendations(clauses)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	if !strings.HasPrefix(recs[0], "URGENT:") || !strings.Contains(recs[0], "Indemnity") {
		t.Errorf("Unexpected first recommendation: %s", recs[0])
	}
	if !strings.HasPrefix(recs[1], "REVIEW:") || !strings.Contains(recs[1], "Termination") {
		t.Errorf("Unexpected second recommendation: %s", recs[1])
	}
}

func TestKeyRecommendationsDefaults(t *testing.T) {
	clauses := []model.Clause{
		{ClauseNumber: 1, Title: "Payment", RiskScore: model.ClauseSafe},
	}

	recs := keyRecommendations(clauses)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 default recommendations, got %d", len(recs))
	}
	for _, rec := range recs {
		if strings.HasPrefix(rec, "URGENT:") || strings.HasPrefix(rec, "REVIEW:") {
			t.Errorf("Expected generic defaults, got %s", rec)
		}
	}
}

func TestRiskColorMapping(t *testing.T) {
	r, _, _ := riskColor(model.RiskHigh)
	if r != 204 {
		t.Error("Expected red-dominant color for high risk")
	}
	_, g, _ := riskColor(model.RiskLow)
	if g != 204 {
		t.Error("Expected green-dominant color for low risk")
	}
	r, g, b := riskColor("unknown")
	if r != 0 || g != 0 || b != 0 {
		t.Error("Expected black for unknown risk")
	}
}

func TestClauseToContractRisk(t *testing.T) {
	if clauseToContractRisk(model.ClauseRisky) != model.RiskHigh {
		t.Error("risky should map to high")
	}
	if clauseToContractRisk(model.ClauseCaution) != model.RiskMedium {
		t.Error("caution should map to medium")
	}
	if clauseToContractRisk(model.ClauseSafe) != model.RiskLow {
		t.Error("safe should map to low")
	}
}
