package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/search",
		Summary:     "Search recipes",
		Description: "Full-text search over recipe names and descriptions",
		Tags:        []string{"Search"},
	}, s.handleSearchRecipes)
}

// SearchRecipesInput contains parameters for searching recipes.
type SearchRecipesInput struct {
	Query          string `query:"q" maxLength:"200" doc:"Search text; empty matches everything"`
	Author         string `query:"author" doc:"Only recipes by this author"`
	MaxCookingTime int    `query:"max_cooking_time" minimum:"0" doc:"Only recipes cooked within this many minutes"`
	Sort           string `query:"sort" enum:"relevance,recent,cooking_time" default:"relevance" doc:"Result order"`
	Highlight      bool   `query:"highlight" doc:"Return highlighted name fragments"`
	Limit          int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Max results"`
	Offset         int    `query:"offset" minimum:"0" doc:"Results to skip"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchRecipes(ctx context.Context, input *SearchRecipesInput) (*SearchOutput, error) {
	result, err := s.services.Search.Search(ctx, search.SearchParams{
		Query:          input.Query,
		AuthorID:       input.Author,
		MaxCookingTime: input.MaxCookingTime,
		Limit:          input.Limit,
		Offset:         input.Offset,
		SortBy:         input.Sort,
		Highlight:      input.Highlight,
	})
	if err != nil {
		return nil, err
	}
	if result.Hits == nil {
		result.Hits = []search.SearchHit{}
	}
	return &SearchOutput{Body: result}, nil
}
