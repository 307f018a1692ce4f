package service

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/naiseuue444/lawpal-ai-contracts-india/config"
	"github.com/naiseuue444/lawpal-ai-contracts-india/model"
)

// A4 layout constants, in points.
const (
	pageWidth    = 595.28
	pageHeight   = 841.89
	marginX      = 50.0
	topY         = 50.0
	breakMargin  = 100.0 // start a new page when this little space remains
	clauseMargin = 150.0 // clause blocks need more headroom
)

// ReportService renders contract analyses into PDF reports.
type ReportService struct {
	config    *config.ReportConfig
	hindiFont bool
}

func NewReportService(cfg *config.ReportConfig) *ReportService {
	hindi := false
	if cfg.HindiFontPath != "" {
		if _, err := os.Stat(cfg.HindiFontPath); err == nil {
			hindi = true
		}
	}
	return &ReportService{config: cfg, hindiFont: hindi}
}

// reportPage tracks the cursor while laying out top-to-bottom.
type reportPage struct {
	pdf *fpdf.Fpdf
	y   float64
}

func (p *reportPage) ensure(space float64) {
	if p.y > pageHeight-space {
		p.pdf.AddPage()
		p.y = topY
	}
}

func (p *reportPage) text(x float64, size float64, style string, r, g, b int, s string) {
	p.pdf.SetFont("Helvetica", style, size)
	p.pdf.SetTextColor(r, g, b)
	p.pdf.Text(x, p.y, s)
}

// Render lays out a multi-page PDF for the contract and its clauses.
// Clauses are rendered in ascending clause_number order.
func (s *ReportService) Render(contract *model.Contract, clauses []model.Clause) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	if s.hindiFont {
		pdf.AddUTF8Font("devanagari", "", s.config.HindiFontPath)
	}
	pdf.AddPage()

	p := &reportPage{pdf: pdf, y: topY}

	// Title header
	p.text(marginX, 20, "B", 0, 0, 0, "CONTRACT RISK ANALYSIS REPORT")
	p.y += 30
	p.text(marginX, 10, "", 128, 128, 128,
		fmt.Sprintf("Generated on: %s", time.Now().Format("02/01/2006")))

	// Executive summary box
	p.y += 40
	p.text(marginX, 16, "B", 0, 0, 0, "EXECUTIVE SUMMARY")
	p.y += 10
	pdf.SetFillColor(242, 242, 242)
	pdf.Rect(marginX, p.y, pageWidth-2*marginX, 75, "F")

	p.y += 25
	contractType := contract.ContractType
	if contractType == "" {
		contractType = "Not specified"
	}
	p.text(marginX+10, 12, "B", 0, 0, 0, fmt.Sprintf("Contract Type: %s", contractType))

	p.y += 20
	riskLevel := strings.ToUpper(contract.RiskScore)
	if riskLevel == "" {
		riskLevel = "UNKNOWN"
	}
	r, g, b := riskColor(contract.RiskScore)
	p.text(marginX+10, 12, "B", r, g, b, fmt.Sprintf("Overall Risk Level: %s", riskLevel))

	p.y += 20
	riskyCount := 0
	for _, c := range clauses {
		if c.RiskScore == model.ClauseRisky {
			riskyCount++
		}
	}
	p.text(marginX+10, 11, "", 0, 0, 0,
		fmt.Sprintf("Total Clauses Reviewed: %d | High Risk Issues Found: %d", len(clauses), riskyCount))

	// Key recommendations
	p.y += 40
	p.text(marginX, 16, "B", 204, 51, 51, "KEY RECOMMENDATIONS")

	for _, rec := range keyRecommendations(clauses) {
		p.y += 25
		p.ensure(breakMargin)
		for _, line := range WrapText("- "+rec, 80) {
			p.text(marginX+10, 11, "", 0, 0, 0, line)
			p.y += 15
		}
		p.y -= 15
	}

	// Detailed clause analysis
	p.y += 40
	p.ensure(breakMargin)
	p.text(marginX, 16, "B", 0, 0, 0, "DETAILED CLAUSE ANALYSIS")

	sorted := make([]model.Clause, len(clauses))
	copy(sorted, clauses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClauseNumber < sorted[j].ClauseNumber
	})

	if len(sorted) == 0 {
		p.y += 30
		p.text(marginX, 12, "", 128, 128, 128, "No detailed clause analysis available")
	}

	for _, clause := range sorted {
		p.ensure(clauseMargin)

		p.y += 30
		p.text(marginX, 14, "B", 0, 0, 0,
			fmt.Sprintf("%s Clause %d: %s", riskIcon(clause.RiskScore), clause.ClauseNumber, clause.Title))

		p.y += 20
		cr, cg, cb := riskColor(clauseToContractRisk(clause.RiskScore))
		p.text(marginX, 12, "", cr, cg, cb,
			fmt.Sprintf("Risk Level: %s", strings.ToUpper(clause.RiskScore)))

		if clause.SummaryEn != "" {
			p.y += 20
			for _, line := range WrapText("Summary: "+clause.SummaryEn, 80) {
				p.text(marginX, 11, "", 0, 0, 0, line)
				p.y += 15
			}
			p.y -= 15
		}

		if clause.Suggestion != "" {
			p.y += 20
			for _, line := range WrapText("Recommendation: "+clause.Suggestion, 80) {
				p.text(marginX, 11, "", 51, 153, 51, line)
				p.y += 15
			}
			p.y -= 15
		}

		if s.hindiFont && clause.SummaryHi != "" {
			p.y += 20
			pdf.SetFont("devanagari", "", 11)
			pdf.SetTextColor(0, 0, 0)
			for _, line := range WrapText(clause.SummaryHi, 60) {
				pdf.Text(marginX, p.y, line)
				p.y += 15
			}
			p.y -= 15
		}

		p.y += 10
	}

	// Plain language summary
	p.y += 40
	p.ensure(breakMargin)
	p.text(marginX, 16, "B", 0, 0, 0, "PLAIN LANGUAGE SUMMARY")

	p.y += 25
	plain := fmt.Sprintf("This contract analysis found %d high-risk issues that need immediate attention. "+
		"The main concerns are around payment terms, termination rights, and dispute resolution. "+
		"We recommend reviewing these clauses with your legal advisor before signing. "+
		"This analysis is designed to help you understand potential risks in plain language.", riskyCount)
	for _, line := range WrapText(plain, 70) {
		p.ensure(breakMargin)
		p.text(marginX, 12, "", 0, 0, 0, line)
		p.y += 18
	}

	// Disclaimer footer
	p.y += 20
	p.ensure(breakMargin)
	p.text(marginX, 12, "B", 128, 128, 128, "LEGAL DISCLAIMER")
	p.y += 20
	disclaimer := "This report is for informational purposes only and does not constitute legal advice. " +
		"Please consult with a qualified attorney for specific legal guidance."
	for _, line := range WrapText(disclaimer, 70) {
		p.text(marginX, 10, "", 128, 128, 128, line)
		p.y += 15
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// keyRecommendations derives the key-issues list from the first risky and
// first caution clause, falling back to generic advice when neither exists.
func keyRecommendations(clauses []model.Clause) []string {
	var recs []string
	var riskyID string
	for _, c := range clauses {
		if c.RiskScore == model.ClauseRisky {
			suggestion := c.Suggestion
			if suggestion == "" {
				suggestion = "Requires legal attention"
			}
			recs = append(recs, fmt.Sprintf("URGENT: %s needs immediate revision - %s", c.Title, suggestion))
			riskyID = c.ID
			break
		}
	}
	for _, c := range clauses {
		if c.RiskScore == model.ClauseCaution && c.ID != riskyID {
			suggestion := c.Suggestion
			if suggestion == "" {
				suggestion = "Needs improvement"
			}
			recs = append(recs, fmt.Sprintf("REVIEW: %s - %s", c.Title, suggestion))
			break
		}
	}
	if len(recs) == 0 {
		recs = append(recs,
			"Consider legal consultation for contract optimization",
			"Review payment and termination terms carefully")
	}
	return recs
}

func riskIcon(clauseRisk string) string {
	switch clauseRisk {
	case model.ClauseRisky:
		return "[HIGH RISK]"
	case model.ClauseCaution:
		return "[CAUTION]"
	default:
		return "[SAFE]"
	}
}

// clauseToContractRisk maps the per-clause scale onto the aggregate scale
// used for color coding.
func clauseToContractRisk(clauseRisk string) string {
	switch clauseRisk {
	case model.ClauseRisky:
		return model.RiskHigh
	case model.ClauseCaution:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func riskColor(risk string) (r, g, b int) {
	switch risk {
	case model.RiskHigh:
		return 204, 51, 51
	case model.RiskMedium:
		return 230, 153, 0
	case model.RiskLow:
		return 51, 204, 51
	default:
		return 0, 0, 0
	}
}

// WrapText greedily fills lines up to maxLength characters, splitting only
// at whitespace. A single word longer than the budget is emitted on its
// own line, unsplit.
func WrapText(text string, maxLength int) []string {
	words := strings.Fields(text)
	var lines []string
	var current string

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) <= maxLength {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
