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

// minExtractedLength is the shortest response still treated as a
// successful extraction. Anything shorter falls back.
const minExtractedLength = 120

const extractSystemPrompt = `You are an OCR engine for legal documents. Extract all text from the provided document image exactly as written. Preserve the document structure: headings, numbered clauses, and paragraphs. Mark text you cannot read confidently with [illegible]. Describe any signatures, stamps, or seals in square brackets. Output only the extracted text.`

// fallbackContractText is the deterministic substitute returned when
// extraction fails or yields too little content.
const fallbackContractText = `
    LEGAL CONTRACT AGREEMENT

    This Agreement is entered into between the parties for the provision of legal services.

    1. PAYMENT TERMS
    Payment shall be made within 30 days of invoice date. Late payments may incur interest charges.

    2. TERMINATION CLAUSE
    Either party may terminate this agreement with 30 days written notice.

    3. LIABILITY LIMITATION
    Provider's liability shall not exceed the total amount paid under this agreement.

    4. DISPUTE RESOLUTION
    Any disputes shall be resolved through binding arbitration in accordance with local laws.

    5. CONFIDENTIALITY
    Both parties agree to maintain confidentiality of all shared information.

    6. GOVERNING LAW
    This agreement shall be governed by the laws of India.
    `

// ExtractService sends encoded documents to a vision-capable completion
// endpoint and returns extracted plain text. Failures never propagate:
// the result degrades to fallbackContractText with the reason recorded.
type ExtractService struct {
	config     *config.LLMConfig
	httpClient *http.Client
}

func NewExtractService(cfg *config.LLMConfig) *ExtractService {
	return &ExtractService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type visionContentPart struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	ImageURL *visionImagePart `json:"image_url,omitempty"`
}

type visionImagePart struct {
	URL string `json:"url"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract returns the plain text of an encoded document. The input may
// carry a data-URI prefix; only the base64 payload is forwarded.
func (s *ExtractService) Extract(ctx context.Context, encodedDocument string) model.Outcome[string] {
	payload := stripDataURI(encodedDocument)

	text, err := s.callVisionEndpoint(ctx, payload)
	if err != nil {
		logger.Warn(ctx, "text extraction degraded to fallback", "reason", err.Error())
		return model.DegradedOutcome(fallbackContractText, err.Error())
	}
	if len(text) < minExtractedLength {
		reason := fmt.Sprintf("extracted text too short: %d chars", len(text))
		logger.Warn(ctx, "text extraction degraded to fallback", "reason", reason)
		return model.DegradedOutcome(fallbackContractText, reason)
	}

	return model.Ok(text)
}

func (s *ExtractService) callVisionEndpoint(ctx context.Context, base64Payload string) (string, error) {
	if s.config.APIKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	reqBody := chatCompletionRequest{
		Model: s.config.VisionModel,
		Messages: []chatMessage{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: []visionContentPart{
				{Type: "text", Text: "Extract the full text of this legal document."},
				{Type: "image_url", ImageURL: &visionImagePart{
					URL: "data:application/pdf;base64," + base64Payload,
				}},
			}},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.VisionAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("vision API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("vision API returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// stripDataURI removes a "data:*;base64," prefix if present.
func stripDataURI(encoded string) string {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		return encoded[idx+1:]
	}
	return encoded
}

// FallbackContractText exposes the deterministic fallback for tests and
// for distinguishing canned content downstream.
func FallbackContractText() string {
	return fallbackContractText
}
