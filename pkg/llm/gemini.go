// Package llm is a small client for the Gemini generateContent REST API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

var ErrMissingAPIKey = errors.New("gemini api key is not configured")

type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewGemini returns a client for model. A zero timeout means no per-call
// deadline beyond the caller's context.
func NewGemini(apiKey, model, baseURL string, timeout time.Duration) *Gemini {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Gemini{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (g *Gemini) Model() string { return g.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.ensureAPIKey(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"contents": []content{{Parts: []part{{Text: prompt}}}},
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode generate payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, buf)
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", decodeAPIError(resp)
	}

	var response struct {
		Candidates []struct {
			Content      content `json:"content"`
			FinishReason string  `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	if len(response.Candidates) == 0 {
		if reason := response.PromptFeedback.BlockReason; reason != "" {
			return "", fmt.Errorf("prompt blocked: %s", reason)
		}
		return "", errors.New("no candidates returned")
	}

	var sb strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty response (finish reason %s)", response.Candidates[0].FinishReason)
	}
	return text, nil
}

// ModelInfo describes one entry of the models listing.
type ModelInfo struct {
	Name              string   `json:"name" yaml:"name"`
	DisplayName       string   `json:"displayName" yaml:"display_name"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	GenerationMethods []string `json:"supportedGenerationMethods" yaml:"generation_methods"`
}

// SupportsGenerate reports whether generateContent can be called on m.
func (m ModelInfo) SupportsGenerate() bool {
	for _, method := range m.GenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// ListModels follows every page of the models listing.
func (g *Gemini) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if err := g.ensureAPIKey(); err != nil {
		return nil, err
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	var out []ModelInfo
	pageToken := ""
	for {
		endpoint := g.baseURL + "/v1beta/models"
		if pageToken != "" {
			endpoint += "?pageToken=" + url.QueryEscape(pageToken)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create list request: %w", err)
		}

		page, err := g.listPage(req)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Models...)
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

type modelsPage struct {
	Models        []ModelInfo `json:"models"`
	NextPageToken string      `json:"nextPageToken"`
}

func (g *Gemini) listPage(req *http.Request) (*modelsPage, error) {
	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}
	var page modelsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}
	return &page, nil
}

func (g *Gemini) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return context.WithCancel(ctx)
}

func (g *Gemini) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	return resp, nil
}

func (g *Gemini) ensureAPIKey() error {
	if strings.TrimSpace(g.apiKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini api error: status %d %s: %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
	}
	return fmt.Errorf("gemini api error: status %d body %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
