package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobdigest/internal/model"
)

// DefaultDuckDuckGoURL is the JavaScript-free DuckDuckGo results page.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// Ensure DuckDuckGoSearcher implements model.Searcher.
var _ model.Searcher = (*DuckDuckGoSearcher)(nil)

// DuckDuckGoSearcher scrapes the first organic result from DuckDuckGo's HTML page.
type DuckDuckGoSearcher struct {
	baseURL string
	region  string // kl parameter, e.g. "hk-tzh"
	client  *http.Client
}

// NewDuckDuckGoSearcher creates a searcher for the given DuckDuckGo region code.
func NewDuckDuckGoSearcher(baseURL, region string, client *http.Client) *DuckDuckGoSearcher {
	if baseURL == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	return &DuckDuckGoSearcher{baseURL: baseURL, region: region, client: client}
}

// Search returns the target of the first result link.
func (d *DuckDuckGoSearcher) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	if d.region != "" {
		params.Set("kl", d.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("duckduckgo search: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("duckduckgo search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo search: %w", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		})
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("duckduckgo search: parse html: %w", err)
	}

	href, ok := doc.Find("a.result__a").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", fmt.Errorf("duckduckgo search: %w", ErrNoResults)
	}
	return unwrapRedirect(strings.TrimSpace(href)), nil
}

// unwrapRedirect extracts the destination from DuckDuckGo's /l/?uddg= links.
func unwrapRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
