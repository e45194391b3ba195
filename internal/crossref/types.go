package crossref

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultMaxMatches is the number of matches kept when a query does not
// set one.
const DefaultMaxMatches = 20

// SearchQuery describes one works search. The zero Keywords value means
// the search is by author only.
type SearchQuery struct {
	Author     string `json:"author"`
	Keywords   string `json:"keywords,omitempty"`
	MaxMatches int    `json:"max_matches"`
}

// NewSearchQuery builds a query, applying DefaultMaxMatches when
// maxMatches is not positive.
func NewSearchQuery(author, keywords string, maxMatches int) SearchQuery {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return SearchQuery{Author: author, Keywords: keywords, MaxMatches: maxMatches}
}

// Limit returns the effective number of matches to keep.
func (q SearchQuery) Limit() int {
	if q.MaxMatches > 0 {
		return q.MaxMatches
	}
	return DefaultMaxMatches
}

// Values returns the query parameters for the works endpoint.
// query.author is always sent, even when empty.
func (q SearchQuery) Values() url.Values {
	params := url.Values{}
	params.Set("query.author", q.Author)
	if q.Keywords != "" {
		params.Set("query.title", q.Keywords)
	}
	params.Set("rows", strconv.Itoa(q.Limit()))
	return params
}

// Match is one candidate work returned by a search.
type Match struct {
	DOI     string   `json:"doi"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Created string   `json:"created,omitempty"`
	Updated string   `json:"updated,omitempty"`
}

// worksResponse is the raw JSON envelope of GET /works.
type worksResponse struct {
	Message *worksMessage `json:"message"`
}

type worksMessage struct {
	TotalResults int        `json:"total-results"`
	Items        []workItem `json:"items"`
}

type workItem struct {
	DOI     string       `json:"DOI"`
	Title   []string     `json:"title"`
	Author  []workAuthor `json:"author"`
	Created *workDate    `json:"created"`
	Updated *workDate    `json:"updated"`
}

type workAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	// Name is set instead of Given/Family for organisational authors.
	Name string `json:"name"`
}

type workDate struct {
	DateTime string `json:"date-time"`
}

// fullName returns "Given Family", or Name for organisations.
func (a workAuthor) fullName() string {
	name := strings.TrimSpace(a.Given + " " + a.Family)
	if name == "" {
		return strings.TrimSpace(a.Name)
	}
	return name
}

func (d *workDate) String() string {
	if d == nil {
		return ""
	}
	return d.DateTime
}

// toMatch validates an item and converts it. index is the item's position
// in the response, used for error reporting.
func (it workItem) toMatch(index int) (Match, error) {
	if strings.TrimSpace(it.DOI) == "" {
		return Match{}, &MalformedError{Index: index, Field: "DOI"}
	}
	if len(it.Title) == 0 {
		return Match{}, &MalformedError{Index: index, Field: "title"}
	}

	authors := make([]string, 0, len(it.Author))
	for _, a := range it.Author {
		if name := a.fullName(); name != "" {
			authors = append(authors, name)
		}
	}

	return Match{
		DOI:     it.DOI,
		Title:   it.Title[0],
		Authors: authors,
		Created: it.Created.String(),
		Updated: it.Updated.String(),
	}, nil
}
