package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Sort orders accepted by SearchParams.SortBy.
const (
	SortRelevance   = "relevance"
	SortRecent      = "recent"
	SortCookingTime = "cooking_time"
)

// SearchParams configures a recipe search.
type SearchParams struct {
	Query string

	// Filters
	AuthorID       string
	MaxCookingTime int // minutes, 0 = no limit

	Limit  int
	Offset int
	SortBy string

	Highlight bool
}

// DefaultSearchParams returns the defaults used by the API.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:  20,
		SortBy: SortRelevance,
	}
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a single matching recipe.
type SearchHit struct {
	ID          string            `json:"id"`
	Score       float64           `json:"score"`
	Name        string            `json:"name"`
	AuthorID    string            `json:"author_id,omitempty"`
	CookingTime int               `json:"cooking_time,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// Search runs params against the index.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params.SortBy)
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
	}
	req.Fields = []string{"name", "author_id", "cooking_time"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["name"].(string); ok {
			h.Name = v
		}
		if v, ok := hit.Fields["author_id"].(string); ok {
			h.AuthorID = v
		}
		if v, ok := hit.Fields["cooking_time"].(float64); ok {
			h.CookingTime = int(v)
		}
		for field, fragments := range hit.Fragments {
			if len(fragments) == 0 {
				continue
			}
			if h.Highlights == nil {
				h.Highlights = make(map[string]string)
			}
			h.Highlights[field] = fragments[0]
		}
		result.Hits = append(result.Hits, h)
	}
	return result, nil
}

func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		textMatch := bleve.NewMatchQuery(q)
		textMatch.SetField("text")

		// Typo tolerance on single-word names.
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)

		text := []query.Query{nameMatch, textMatch, fuzzy}
		if len([]rune(q)) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(text...))
	}

	if params.AuthorID != "" {
		author := bleve.NewTermQuery(params.AuthorID)
		author.SetField("author_id")
		queries = append(queries, author)
	}

	if params.MaxCookingTime > 0 {
		upper := float64(params.MaxCookingTime)
		inclusive := true
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(nil, &upper, nil, &inclusive)
		rangeQuery.SetField("cooking_time")
		queries = append(queries, rangeQuery)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

func addSorting(req *bleve.SearchRequest, sortBy string) {
	switch sortBy {
	case SortRecent:
		req.SortBy([]string{"-created_at", "-_score"})
	case SortCookingTime:
		req.SortBy([]string{"cooking_time", "-_score"})
	default:
		req.SortBy([]string{"-_score", "-created_at"})
	}
}
