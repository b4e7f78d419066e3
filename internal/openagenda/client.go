package openagenda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://public.opendatasoft.com/api/explore/v2.1/catalog/datasets/evenements-publics-openagenda/records"

// Client pages through the event API one keyword at a time. Requests are
// sequential with a fixed delay between pages; the delay is a politeness
// contract towards the open-data service, not a tunable.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	Region    string
	StartYear int
	PageSize  int
	Delay     time.Duration
	Keywords  []string
}

func NewClient(region string, startYear int, keywords []string) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Region:    region,
		StartYear: startYear,
		PageSize:  100,
		Delay:     500 * time.Millisecond,
		Keywords:  NormalizeKeywords(keywords),
	}
}

// KeywordError records a keyword whose fetch failed entirely. A failed
// keyword contributes zero records but never aborts the batch.
type KeywordError struct {
	Keyword string
	Err     error
}

func (e KeywordError) Error() string {
	return fmt.Sprintf("keyword %q: %v", e.Keyword, e.Err)
}

type recordsResponse struct {
	TotalCount int      `json:"total_count"`
	Results    []Record `json:"results"`
}

func (c *Client) fetchPage(ctx context.Context, keyword string, limit, offset int) (*recordsResponse, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	q.Add("refine", fmt.Sprintf("keywords_fr:%q", keyword))
	q.Add("refine", fmt.Sprintf("firstdate_begin:\"%d\"", c.StartYear))
	q.Add("refine", fmt.Sprintf("location_region:%q", c.Region))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api error: status %d (offset %d)", resp.StatusCode, offset)
	}

	var page recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("malformed response (offset %d): %w", offset, err)
	}
	return &page, nil
}

// FetchKeyword retrieves every record matching one keyword. A first request
// with limit=1 learns the total match count, then full pages are requested
// with increasing offsets until the count is covered.
func (c *Client) FetchKeyword(ctx context.Context, keyword string) ([]Record, error) {
	probe, err := c.fetchPage(ctx, keyword, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("count probe: %w", err)
	}

	var records []Record
	for offset := 0; offset < probe.TotalCount; offset += c.PageSize {
		page, err := c.fetchPage(ctx, keyword, c.PageSize, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Results...)

		if offset+c.PageSize < probe.TotalCount {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Delay):
			}
		}
	}
	return records, nil
}

// FetchAll maps FetchKeyword over the configured vocabulary. Each keyword is
// an isolated unit of work: its failure is collected and the batch carries
// on with the remaining keywords.
func (c *Client) FetchAll(ctx context.Context) ([]Record, []KeywordError) {
	var records []Record
	var failures []KeywordError

	for _, kw := range c.Keywords {
		batch, err := c.FetchKeyword(ctx, kw)
		if err != nil {
			failures = append(failures, KeywordError{Keyword: kw, Err: err})
			continue
		}
		records = append(records, batch...)
	}
	return records, failures
}
