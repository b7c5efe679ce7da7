/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package suggest talks to a Gemini-style generateContent endpoint to draft
// LogicBoolean expressions and unit concepts. The core model never depends
// on it; callers fire a request, show the text or FailureMessage, and move
// on. No retries.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FailureMessage is what the shell displays when a request fails.
const FailureMessage = "Error connecting to Gemini API."

const logicPreamble = `You are a Rusted Warfare modding expert. Help write a LogicBoolean expression for a unit.
Available prefixes: self, parent, attacking, eventSource, customTarget1, customTarget2.
Available functions: hp(), energy(), ammo(), isInWater(), isFlying(), tags(), hasResources().
Prompt: %s
Return ONLY the Rusted Warfare code snippet. No explanation.`

const ideaPreamble = `Suggest a unique unit concept for the game Rusted Warfare based on the theme: %s.
Include name, role, and a brief list of key stats and abilities.
Keep it structured.`

// Provider is what the shell programs against; Client is the real one and
// tests substitute their own.
type Provider interface {
	LogicSuggestion(ctx context.Context, prompt string) (string, error)
	UnitIdea(ctx context.Context, theme string) (string, error)
}

// Client calls the generateContent REST API.
type Client struct {
	BaseURL string
	Model   string
	apiKey  string
	client  *http.Client
}

// NewClient creates a suggestion client. baseURL may carry a trailing
// slash; it is normalized.
func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// LogicSuggestion drafts a LogicBoolean expression for fields like
// autoTrigger or isVisible.
func (c *Client) LogicSuggestion(ctx context.Context, prompt string) (string, error) {
	out, err := c.generate(ctx, fmt.Sprintf(logicPreamble, prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// UnitIdea drafts a themed unit concept.
func (c *Client) UnitIdea(ctx context.Context, theme string) (string, error) {
	return c.generate(ctx, fmt.Sprintf(ideaPreamble, theme))
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

// ProviderError describes a failed call against the suggestion endpoint.
// StatusCode is zero when the request never reached the server or the
// response body could not be used.
type ProviderError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("suggest %s: status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("suggest %s: %v", e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model))
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ProviderError{Model: c.Model, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Model: c.Model, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}
	var gr generateResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&gr); err != nil {
		return "", &ProviderError{Model: c.Model, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Model: c.Model, StatusCode: resp.StatusCode, Err: fmt.Errorf("empty response")}
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
