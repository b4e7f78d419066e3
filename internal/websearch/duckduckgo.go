// Package websearch is the live fallback used when the vector index has no
// sufficient answer.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultEndpoint = "https://html.duckduckgo.com/html/"
	maxResults      = 3
)

// NoResultMessage is returned to the user when the fallback finds nothing.
const NoResultMessage = "Aucun résultat trouvé."

type Result struct {
	Title   string
	URL     string
	Excerpt string
}

// Client queries the DuckDuckGo HTML endpoint; no API key required.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Region   string
}

func NewClient() *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Region:   "fr-fr",
	}
}

// Search returns up to three web snippets for the query.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("kl", c.Region)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; culturebot/1.0)")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("web search failed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("web search parse failed: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, _ := link.Attr("href")

		r := Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolveRedirect(href),
			Excerpt: strings.TrimSpace(sel.Find(".result__snippet").Text()),
		}
		if r.Title == "" {
			return true
		}
		results = append(results, r)
		return len(results) < maxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=... redirect links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// Render formats snippets the way the chat surfaces them.
func Render(results []Result) string {
	if len(results) == 0 {
		return NoResultMessage
	}

	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "- %s (%s)\n%s\n\n", r.Title, r.URL, r.Excerpt)
	}
	return sb.String()
}
