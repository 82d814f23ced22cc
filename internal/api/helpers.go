package api

import (
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/service"
	"github.com/foodgram/foodgram-server/internal/store"
)

// PageQuery holds page-number pagination parameters. It remembers the
// request URL so responses can link to neighbouring pages.
type PageQuery struct {
	Page  int `query:"page" minimum:"1" maximum:"1000000" doc:"Page number (default 1)"`
	Limit int `query:"limit" minimum:"1" doc:"Items per page"`

	url url.URL
}

// Resolve implements huma.Resolver.
func (p *PageQuery) Resolve(ctx huma.Context) []error {
	p.url = ctx.URL()
	return nil
}

// Page is a page of results with links to its neighbours. Next and
// Previous are absolute paths, omitted at either end.
type Page[T any] struct {
	Count    int     `json:"count" doc:"Total number of items"`
	Next     *string `json:"next,omitempty" doc:"Link to the next page"`
	Previous *string `json:"previous,omitempty" doc:"Link to the previous page"`
	Results  []T     `json:"results" doc:"Items on this page"`
}

// pageParams normalizes the query against the server's page size bounds.
func (s *Server) pageParams(q PageQuery) store.PageParams {
	p := store.PageParams{Page: q.Page, Limit: q.Limit}
	p.Normalize(s.pageSize, s.maxPageSize)
	return p
}

// newPage builds a response page for result fetched with params p.
func newPage[T any](q PageQuery, p store.PageParams, result store.PaginatedResult[T]) Page[T] {
	page := Page[T]{
		Count:   result.Total,
		Results: result.Items,
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	if result.HasNext(p) {
		page.Next = pageLink(q.url, p.Page+1)
	}
	if result.HasPrevious(p) {
		page.Previous = pageLink(q.url, p.Page-1)
	}
	return page
}

// pageLink returns u's path and query with the page parameter replaced.
// The first page drops the parameter.
func pageLink(u url.URL, page int) *string {
	query := u.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	link := u.Path
	if encoded := query.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return &link
}

// RecipesLimitQuery caps the recipes embedded per author. Absent means all.
type RecipesLimitQuery struct {
	RecipesLimit string `query:"recipes_limit" doc:"Maximum recipes listed per author (non-negative integer)"`

	limit int
}

// Resolve implements huma.Resolver.
func (q *RecipesLimitQuery) Resolve(_ huma.Context) []error {
	q.limit = service.UnlimitedRecipes
	if q.RecipesLimit == "" {
		return nil
	}
	n, err := strconv.Atoi(q.RecipesLimit)
	if err != nil || n < 0 {
		return []error{&huma.ErrorDetail{
			Location: "query.recipes_limit",
			Message:  "must be a non-negative integer",
			Value:    q.RecipesLimit,
		}}
	}
	q.limit = n
	return nil
}
