package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/naiseuue444/lawpal-ai-contracts-india/config"
	"github.com/naiseuue444/lawpal-ai-contracts-india/model"
	"github.com/naiseuue444/lawpal-ai-contracts-india/pkg/logger"
)

// promptTextCap limits how much contract text goes into the prompt.
const promptTextCap = 4000

const analyzeSystemPrompt = `You are a legal expert specializing in Indian contract law. Provide detailed, accurate analysis in the requested JSON format only. Return only valid JSON without any additional text or formatting.`

// AnalyzeService turns extracted contract text into a structured risk
// analysis via a chat-completion endpoint. Like extraction, it never
// returns an error: model or parse failures degrade to a fixed fallback
// analysis.
type AnalyzeService struct {
	config     *config.LLMConfig
	httpClient *http.Client
}

func NewAnalyzeService(cfg *config.LLMConfig) *AnalyzeService {
	return &AnalyzeService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Analyze produces a ContractAnalysis for the given text. clientName and
// clientNotes are optional caller-supplied context. When priorRisk is
// non-empty the aggregate risk score is pinned to it, both in the prompt
// and on the fallback path, so identical documents always classify the
// same way.
func (s *AnalyzeService) Analyze(ctx context.Context, text, clientName, clientNotes, priorRisk string) model.Outcome[model.ContractAnalysis] {
	// The hash is logged for traceability; the prior-risk lookup itself is
	// keyed on the truncated text, not on this value.
	logger.Debug(ctx, "analyzing contract text",
		"content_hash", ContentHash(text),
		"prior_risk", priorRisk,
	)

	prompt := s.buildPrompt(text, clientName, clientNotes, priorRisk)

	analysis, err := s.callChatEndpoint(ctx, prompt)
	if err != nil {
		logger.Warn(ctx, "contract analysis degraded to fallback", "reason", err.Error())
		fb := fallbackAnalysis(priorRisk)
		renumberClauses(&fb)
		return model.DegradedOutcome(fb, err.Error())
	}

	if priorRisk != "" {
		analysis.RiskScore = priorRisk
	}
	renumberClauses(analysis)
	return model.Ok(*analysis)
}

func (s *AnalyzeService) buildPrompt(text, clientName, clientNotes, priorRisk string) string {
	if len(text) > promptTextCap {
		text = text[:promptTextCap]
	}

	var b strings.Builder
	b.WriteString("Analyze this legal contract and provide a detailed analysis in JSON format:\n\n")
	b.WriteString("Contract Text: ")
	b.WriteString(text)
	b.WriteString("\n\n")

	if clientName != "" {
		fmt.Fprintf(&b, "Client Name: %s\n", clientName)
	}
	if clientNotes != "" {
		fmt.Fprintf(&b, "Client Notes: %s\n", clientNotes)
	}

	b.WriteString(`
Provide analysis in this exact JSON structure:
{
  "contractType": "string (e.g., Employment Agreement, Service Agreement, etc.)",
  "riskScore": "low|medium|high",
  "jurisdiction": "string",
  "arbitrationPresent": boolean,
  "redFlags": ["string"],
  "clauses": [
    {
      "clauseNumber": number,
      "title": "string",
      "clauseText": "string (first 200 chars of clause)",
      "summaryEn": "string (English summary)",
      "summaryHi": "string (Hindi summary)",
      "riskScore": "safe|caution|risky",
      "suggestion": "string (legal suggestion)",
      "flagType": "string (optional: termination, payment, liability, etc.)"
    }
  ],
  "hindiSummary": "string (overall summary in Hindi)",
  "executiveSummary": "string (overall summary in English)",
  "clientContext": "string (how the client context affects the analysis)"
}

Rules:
- Number clauses sequentially starting at 1 with no gaps.
- Only describe clauses actually present in the contract text; do not invent clauses.
- Default jurisdiction to India when the contract does not specify one.
- Focus on Indian law context. Provide 3-5 key clauses analysis.
`)

	if priorRisk != "" {
		fmt.Fprintf(&b, "- This document has been analyzed before. The riskScore MUST be %q to stay consistent with the earlier analysis.\n", priorRisk)
	}

	return b.String()
}

func (s *AnalyzeService) callChatEndpoint(ctx context.Context, prompt string) (*model.ContractAnalysis, error) {
	if s.config.APIKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	reqBody := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: analyzeSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("chat API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat API returned no choices")
	}

	analysisText := stripCodeFences(result.Choices[0].Message.Content)

	var analysis model.ContractAnalysis
	if err := json.Unmarshal([]byte(analysisText), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	return &analysis, nil
}

// stripCodeFences removes a markdown ```json ... ``` wrapper if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// renumberClauses forces clauseNumber = index+1 so the contiguity
// invariant holds regardless of model output.
func renumberClauses(a *model.ContractAnalysis) {
	for i := range a.Clauses {
		a.Clauses[i].ClauseNumber = i + 1
	}
}

// ContentHash is a djb2-style rolling hash of the (truncated) contract
// text. It is not a lookup key; it only identifies content in logs.
func ContentHash(text string) uint32 {
	if len(text) > contentTextCap {
		text = text[:contentTextCap]
	}
	var h uint32 = 5381
	for i := 0; i < len(text); i++ {
		h = h*33 + uint32(text[i])
	}
	return h
}

// fallbackAnalysis is the deterministic substitute returned when the chat
// call or JSON parse fails. When priorRisk is supplied the aggregate score
// is forced to it.
func fallbackAnalysis(priorRisk string) model.ContractAnalysis {
	risk := model.RiskHigh
	if priorRisk != "" {
		risk = priorRisk
	}

	return model.ContractAnalysis{
		ContractType:       "Legal Service Agreement",
		RiskScore:          risk,
		Jurisdiction:       "India",
		ArbitrationPresent: true,
		RedFlags: []string{
			"Automated analysis unavailable; generic assessment shown",
		},
		Clauses: []model.ClauseAnalysis{
			{
				ClauseNumber: 1,
				Title:        "Payment Terms",
				ClauseText:   "Payment shall be made within 30 days of invoice date...",
				SummaryEn:    "Standard payment terms with 30-day period",
				SummaryHi:    "30 दिन की अवधि के साथ मानक भुगतान शर्तें",
				RiskScore:    model.ClauseSafe,
				Suggestion:   "Payment terms are reasonable and standard",
				FlagType:     "payment",
			},
			{
				ClauseNumber: 2,
				Title:        "Termination Clause",
				ClauseText:   "Either party may terminate this agreement with 30 days written notice...",
				SummaryEn:    "Mutual termination rights with notice period",
				SummaryHi:    "नोटिस अवधि के साथ पारस्परिक समाप्ति अधिकार",
				RiskScore:    model.ClauseSafe,
				Suggestion:   "Fair termination clause for both parties",
				FlagType:     "termination",
			},
			{
				ClauseNumber: 3,
				Title:        "Liability Limitation",
				ClauseText:   "Provider's liability shall not exceed the total amount paid...",
				SummaryEn:    "Limited liability clause to cap damages",
				SummaryHi:    "नुकसान को सीमित करने के लिए सीमित दायित्व खंड",
				RiskScore:    model.ClauseCaution,
				Suggestion:   "Review if liability cap is appropriate for your needs",
				FlagType:     "liability",
			},
			{
				ClauseNumber: 4,
				Title:        "Dispute Resolution",
				ClauseText:   "Any disputes shall be resolved through binding arbitration...",
				SummaryEn:    "Mandatory binding arbitration for all disputes",
				SummaryHi:    "सभी विवादों के लिए अनिवार्य बाध्यकारी मध्यस्थता",
				RiskScore:    model.ClauseRisky,
				Suggestion:   "Binding arbitration waives court remedies; seek legal advice before agreeing",
				FlagType:     "arbitration",
			},
			{
				ClauseNumber: 5,
				Title:        "Confidentiality",
				ClauseText:   "Both parties agree to maintain confidentiality of all shared information...",
				SummaryEn:    "Mutual confidentiality obligation without a time limit",
				SummaryHi:    "समय सीमा के बिना पारस्परिक गोपनीयता दायित्व",
				RiskScore:    model.ClauseSafe,
				Suggestion:   "Consider adding a fixed confidentiality period",
				FlagType:     "confidentiality",
			},
		},
		HindiSummary:     "यह एक मानक कानूनी सेवा अनुबंध है। भुगतान और समाप्ति की शर्तें उचित हैं, लेकिन दायित्व सीमा खंड की समीक्षा करें।",
		ExecutiveSummary: "A standard legal service agreement. Payment and termination terms are reasonable; review the liability cap before signing.",
	}
}
