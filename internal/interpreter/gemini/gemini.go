// Package gemini calls the Gemini generateContent API to interpret dreams.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dreamdive/dreamdive/internal/model"
)

const promptTemplate = `You are an expert dream interpreter. Analyze the following dream and provide a thorough, structured interpretation.

Dream: %s

Your interpretation should cover:
1. The overall meaning of the dream
2. The significant symbols and what they represent
3. Psychological and emotional undertones
4. Practical advice for the dreamer

Write in clear, accessible language using markdown headings.`

// Provider calls the Gemini REST API. No retries are attempted; a failed
// call is surfaced to the user, who may resubmit.
type Provider struct {
	client *resty.Client
	model  string
}

// New creates a Provider. baseURL is overridable for tests.
func New(baseURL, apiKey, modelName string, timeout time.Duration) *Provider {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", apiKey).
		SetTimeout(timeout)

	return &Provider{client: c, model: modelName}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Interpret sends the dream text to Gemini and returns the generated
// interpretation. An empty or absent candidate maps to
// model.ErrInterpreterUnavailable.
func (p *Provider) Interpret(ctx context.Context, dreamText string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, dreamText)}}}},
	}

	var out generateResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", p.model))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("gemini status %d: %s: %w", resp.StatusCode(), out.Error.Message, model.ErrInterpreterUnavailable)
		}
		return "", fmt.Errorf("gemini status %d: %w", resp.StatusCode(), model.ErrInterpreterUnavailable)
	}

	text := out.text()
	if text == "" {
		return "", model.ErrInterpreterUnavailable
	}
	return text, nil
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	s := ""
	for _, p := range r.Candidates[0].Content.Parts {
		s += p.Text
	}
	return s
}

// HealthPing checks that the configured model is reachable.
func (p *Provider) HealthPing(ctx context.Context) error {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/v1beta/models/%s", p.model))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("gemini status %d", resp.StatusCode())
	}
	return nil
}
