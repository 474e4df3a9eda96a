package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SearchClient queries a web search API and renders the hits into a plain
// text block for the generation backend. A client with an empty API key is
// valid and always returns nothing.
type SearchClient struct {
	url        string
	apiKey     string
	maxResults int
	client     *http.Client
}

func NewSearchClient(url, apiKey string, maxResults int, client *http.Client) *SearchClient {
	if client == nil {
		client = http.DefaultClient
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	return &SearchClient{
		url:        url,
		apiKey:     apiKey,
		maxResults: maxResults,
		client:     client,
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns a text rendering of the top hits for query, or an empty
// string when search is not configured or nothing was found.
func (s *SearchClient) Search(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", nil
	}

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: s.maxResults})
	if err != nil {
		return "", fmt.Errorf("search: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("search: status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("search: decode response: %w", err)
	}

	var b strings.Builder
	for _, r := range parsed.Results {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Title, r.Content, r.URL)
	}
	return strings.TrimSpace(b.String()), nil
}
