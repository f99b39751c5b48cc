package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AnthropicTranslator implements Translator via Anthropic's Messages API.
type AnthropicTranslator struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewAnthropicTranslator creates a new Anthropic translation provider.
func NewAnthropicTranslator(apiKey, model string) *AnthropicTranslator {
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	return &AnthropicTranslator{
		APIKey:     apiKey,
		BaseURL:    "https://api.anthropic.com/v1",
		Model:      model,
		HTTPClient: &http.Client{},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *AnthropicTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	apiReq := anthropicRequest{
		Model: p.Model,
		System: fmt.Sprintf(
			"You are a translation engine. Translate the user's message from %s to %s. Reply with the translation only, no commentary.",
			sourceLang, targetLang,
		),
		Messages: []anthropicMessage{
			{Role: "user", Content: text},
		},
		// Anthropic requires max_tokens
		MaxTokens: 4096,
	}

	bodyBytes, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Anthropic API error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var textContent string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			textContent += block.Text
		}
	}
	if textContent == "" {
		return "", fmt.Errorf("no text content returned from API")
	}
	return strings.TrimSpace(textContent), nil
}
