package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/dto"
)

func (s *Server) registerSubscriptionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSubscriptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/subscriptions",
		Summary:     "List subscriptions",
		Description: "Returns the authors the current user follows, each with their recipes",
		Tags:        []string{"Subscriptions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSubscriptions)

	huma.Register(s.api, huma.Operation{
		OperationID:   "subscribe",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/{id}/subscribe",
		Summary:       "Subscribe",
		Description:   "Follows an author",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSubscribe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unsubscribe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/users/{id}/subscribe",
		Summary:       "Unsubscribe",
		Description:   "Stops following an author",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleUnsubscribe)
}

// ListSubscriptionsInput contains parameters for listing subscriptions.
type ListSubscriptionsInput struct {
	PageQuery
	RecipesLimitQuery
}

// SubscriptionPageOutput wraps a page of followed authors for Huma.
type SubscriptionPageOutput struct {
	Body Page[*dto.Subscription]
}

// SubscribeInput contains parameters for following an author.
type SubscribeInput struct {
	RecipesLimitQuery
	ID string `path:"id" doc:"Author user ID"`
}

// SubscriptionOutput wraps a followed author for Huma.
type SubscriptionOutput struct {
	Body *dto.Subscription
}

// UnsubscribeInput contains parameters for unfollowing an author.
type UnsubscribeInput struct {
	ID string `path:"id" doc:"Author user ID"`
}

func (s *Server) handleListSubscriptions(ctx context.Context, input *ListSubscriptionsInput) (*SubscriptionPageOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	page := s.pageParams(input.PageQuery)
	result, err := s.services.Subscription.ListSubscriptions(ctx, actor, page, input.limit)
	if err != nil {
		return nil, err
	}
	return &SubscriptionPageOutput{Body: newPage(input.PageQuery, page, result)}, nil
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*SubscriptionOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	sub, err := s.services.Subscription.Subscribe(ctx, actor, input.ID, input.limit)
	if err != nil {
		return nil, err
	}
	return &SubscriptionOutput{Body: sub}, nil
}

func (s *Server) handleUnsubscribe(ctx context.Context, input *UnsubscribeInput) (*struct{}, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Subscription.Unsubscribe(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
