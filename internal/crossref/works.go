package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	acceptJSON   = "application/json"
	acceptBibTeX = "application/x-bibtex"
)

// SearchWorks runs a bibliographic search and returns at most q.Limit()
// matches in the order Crossref ranked them.
func (c *Client) SearchWorks(ctx context.Context, q SearchQuery) ([]Match, error) {
	body, err := c.doGet(ctx, acceptJSON, q.Values(), "works")
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var resp worksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w: %v", ErrMalformedResponse, err)
	}
	if resp.Message == nil {
		return nil, &MalformedError{Index: -1, Field: "message"}
	}
	if resp.Message.Items == nil {
		return nil, &MalformedError{Index: -1, Field: "message.items"}
	}

	items := resp.Message.Items
	if limit := q.Limit(); len(items) > limit {
		items = items[:limit]
	}

	matches := make([]Match, 0, len(items))
	for i, it := range items {
		m, err := it.toMatch(i)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	c.Logger.Debug().
		Int("total_results", resp.Message.TotalResults).
		Int("kept", len(matches)).
		Msg("search complete")

	return matches, nil
}

// FetchBibTeX returns the raw BibTeX record Crossref renders for doi.
func (c *Client) FetchBibTeX(ctx context.Context, doi string) (string, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return "", fmt.Errorf("DOI cannot be empty")
	}

	elem := []string{"works"}
	for _, seg := range strings.Split(doi, "/") {
		elem = append(elem, url.PathEscape(seg))
	}
	elem = append(elem, "transform", acceptBibTeX)

	body, err := c.doGet(ctx, acceptBibTeX, nil, elem...)
	if err != nil {
		return "", fmt.Errorf("bibtex request failed: %w", err)
	}
	return string(body), nil
}
