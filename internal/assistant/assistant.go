// Package assistant fronts the AI text backend for the briefing, chat
// and translation panels. Prompts and responses are opaque strings; each
// call fails independently and never takes the schedule view down with it.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Usage carries the token counters a backend reports per call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Backend generates a completion for a prompt. Implementations must be
// safe for concurrent use.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, Usage, error)
}

// HTTPBackend posts prompts to a completion endpoint as JSON.
type HTTPBackend struct {
	client *http.Client
	url    string
	model  string
}

// NewHTTPBackend builds a backend against the given endpoint URL. The
// model name is passed through verbatim.
func NewHTTPBackend(url, model string) *HTTPBackend {
	return &HTTPBackend{
		client: &http.Client{Timeout: 60 * time.Second},
		url:    url,
		model:  model,
	}
}

type completionRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
	Error string `json:"error,omitempty"`
}

func (b *HTTPBackend) Complete(ctx context.Context, prompt string) (string, Usage, error) {
	if b.url == "" {
		return "", Usage{}, errors.New("assistant: no backend configured")
	}

	payload, err := json.Marshal(completionRequest{Model: b.model, Prompt: prompt})
	if err != nil {
		return "", Usage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", Usage{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", Usage{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, fmt.Errorf("assistant: backend returned %s", resp.Status)
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", Usage{}, fmt.Errorf("assistant: bad backend response: %w", err)
	}
	if out.Error != "" {
		return "", Usage{}, errors.New("assistant: " + out.Error)
	}
	return out.Text, out.Usage, nil
}
