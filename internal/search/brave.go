package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amishk599/jobdigest/internal/model"
)

// DefaultBraveURL is the Brave Web Search endpoint.
const DefaultBraveURL = "https://api.search.brave.com/res/v1/web/search"

// Ensure BraveSearcher implements model.Searcher.
var _ model.Searcher = (*BraveSearcher)(nil)

// ErrNoResults is returned when the provider answered with an empty result set.
var ErrNoResults = errors.New("no search results")

// braveResponse is the subset of the Brave response we read.
type braveResponse struct {
	Web struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// BraveSearcher queries the Brave Web Search API for a single result.
type BraveSearcher struct {
	baseURL    string
	apiKey     string
	country    string
	searchLang string
	client     *http.Client
}

// NewBraveSearcher creates a searcher restricted to country and searchLang.
func NewBraveSearcher(baseURL, apiKey, country, searchLang string, client *http.Client) *BraveSearcher {
	if baseURL == "" {
		baseURL = DefaultBraveURL
	}
	return &BraveSearcher{
		baseURL:    baseURL,
		apiKey:     apiKey,
		country:    country,
		searchLang: searchLang,
		client:     client,
	}
}

// Search returns the URL of the first result for query.
func (b *BraveSearcher) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", "1")
	if b.searchLang != "" {
		params.Set("search_lang", b.searchLang)
	}
	if b.country != "" {
		params.Set("country", b.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("brave search: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("brave search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("brave search: %w", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		})
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return "", fmt.Errorf("brave search: decode response: %w", err)
	}

	if len(br.Web.Results) == 0 {
		return "", fmt.Errorf("brave search: %w", ErrNoResults)
	}
	return br.Web.Results[0].URL, nil
}
