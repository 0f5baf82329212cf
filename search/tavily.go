// Package search implements the retrieval client against the Tavily web
// search API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auto_ppt_generator/pipeline"
)

const defaultBaseURL = "https://api.tavily.com"

// TavilyClient issues search queries against the Tavily HTTP API. Safe for
// concurrent use; all mutable state lives in the request.
type TavilyClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewTavilyClient(apiKey, baseURL string, client *http.Client) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, errors.New("tavily api key is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &TavilyClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs one query and maps the ranked results to findings. Any
// transport or API failure is reported as a RetrievalError; the research
// stage decides how much that matters.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]pipeline.Finding, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	payload, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, &pipeline.RetrievalError{Query: query, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, &pipeline.RetrievalError{Query: query, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &pipeline.RetrievalError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &pipeline.RetrievalError{Query: query, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &pipeline.RetrievalError{
			Query: query,
			Err:   fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &pipeline.RetrievalError{Query: query, Err: err}
	}

	findings := make([]pipeline.Finding, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		text := strings.TrimSpace(r.Content)
		if r.Title != "" {
			text = r.Title + ": " + text
		}
		if text == "" {
			continue
		}
		findings = append(findings, pipeline.Finding{
			Text:      text,
			SourceURL: r.URL,
			Relevance: r.Score,
		})
	}
	return findings, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
