package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/dto"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/store"
)

// UnlimitedRecipes includes every recipe in a subscription preview.
const UnlimitedRecipes = -1

// SubscriptionService manages who follows whom.
type SubscriptionService struct {
	store      store.Store
	enricher   *dto.Enricher
	authorizer *access.Authorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	store store.Store,
	enricher *dto.Enricher,
	authorizer *access.Authorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		store:      store,
		enricher:   enricher,
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
	}
}

// Subscribe makes actor follow authorID and returns the author with a
// preview of up to recipesLimit recipes (UnlimitedRecipes for all).
func (s *SubscriptionService) Subscribe(ctx context.Context, actor access.Subject, authorID string, recipesLimit int) (*dto.Subscription, error) {
	if err := s.authorizer.Authorize(actor, access.ObjectSubscription, access.ActionCreate, ""); err != nil {
		return nil, err
	}
	sub := domain.Subscription{UserID: actor.UserID, FollowingID: authorID}
	if sub.IsSelf() {
		return nil, domainerrors.Validation("cannot subscribe to yourself")
	}

	err := s.store.CreateSubscription(ctx, sub.UserID, sub.FollowingID)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		s.metrics.RecordToggle(metrics.ToggleSubscription, metrics.ResultConflict)
		return nil, domainerrors.Conflict("already subscribed to this user").WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		return nil, domainerrors.NotFound("user not found").WithCause(err)
	case err != nil:
		return nil, storeError(err, "create subscription", "subscription")
	}
	s.metrics.RecordToggle(metrics.ToggleSubscription, metrics.ResultAdded)

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, storeError(err, "get user", "user")
	}
	subs, err := s.enricher.EnrichSubscriptions(ctx, actor.UserID, []*domain.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subscribed", "user_id", actor.UserID, "following_id", authorID)
	return subs[0], nil
}

// Unsubscribe stops actor following authorID.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, actor access.Subject, authorID string) error {
	if err := s.authorizer.Authorize(actor, access.ObjectSubscription, access.ActionDelete, ""); err != nil {
		return err
	}

	err := s.store.DeleteSubscription(ctx, actor.UserID, authorID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.metrics.RecordToggle(metrics.ToggleSubscription, metrics.ResultMissing)
		return domainerrors.NotFound("not subscribed to this user").WithCause(err)
	case err != nil:
		return fmt.Errorf("delete subscription: %w", err)
	}
	s.metrics.RecordToggle(metrics.ToggleSubscription, metrics.ResultRemoved)

	s.logger.Info("Unsubscribed", "user_id", actor.UserID, "following_id", authorID)
	return nil
}

// ListSubscriptions returns one page of the authors actor follows, ordered
// by username, each with a recipe preview and total recipe count.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, actor access.Subject, page store.PageParams, recipesLimit int) (store.PaginatedResult[*dto.Subscription], error) {
	var empty store.PaginatedResult[*dto.Subscription]
	if err := s.authorizer.Authorize(actor, access.ObjectSubscription, access.ActionRead, ""); err != nil {
		return empty, err
	}

	result, err := s.store.ListSubscriptions(ctx, actor.UserID, page)
	if err != nil {
		return empty, fmt.Errorf("list subscriptions: %w", err)
	}
	subs, err := s.enricher.EnrichSubscriptions(ctx, actor.UserID, result.Items, recipesLimit)
	if err != nil {
		return empty, err
	}
	return store.PaginatedResult[*dto.Subscription]{Items: subs, Total: result.Total}, nil
}
