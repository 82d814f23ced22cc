package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// CreateSubscription makes userID follow followingID.
// Returns store.ErrAlreadyExists for a duplicate, store.ErrNotFound when
// either user is missing, and store.ErrInvalidInput for a self-subscription.
func (s *Store) CreateSubscription(ctx context.Context, userID, followingID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, following_id, created_at) VALUES (?, ?, ?)`,
		userID, followingID, formatTime(now()))
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return store.ErrNotFound.WithCause(err)
	}
	if strings.Contains(err.Error(), "CHECK constraint failed") {
		return store.ErrInvalidInput.WithMessage("cannot subscribe to yourself").WithCause(err)
	}
	return mapConstraintError(err)
}

// DeleteSubscription removes a follow relation.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) DeleteSubscription(ctx context.Context, userID, followingID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND following_id = ?`, userID, followingID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// SubscribedAmong returns which of candidateIDs userID follows.
func (s *Store) SubscribedAmong(ctx context.Context, userID string, candidateIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	candidateIDs = uniqueIDs(candidateIDs)
	if userID == "" || len(candidateIDs) == 0 {
		return out, nil
	}
	q, args, err := s.inQuery(
		`SELECT following_id FROM subscriptions WHERE user_id = ? AND following_id IN (?)`,
		userID, candidateIDs)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := s.dbx.SelectContext(ctx, &ids, q, args...); err != nil {
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// ListSubscriptions returns one page of the users userID follows, ordered by username.
func (s *Store) ListSubscriptions(ctx context.Context, userID string, page store.PageParams) (store.PaginatedResult[*domain.User], error) {
	var empty store.PaginatedResult[*domain.User]

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return empty, fmt.Errorf("count subscriptions: %w", err)
	}

	users, err := s.queryUsers(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id IN (SELECT following_id FROM subscriptions WHERE user_id = ?)
		ORDER BY username
		LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return empty, fmt.Errorf("list subscriptions: %w", err)
	}
	return store.PaginatedResult[*domain.User]{Items: users, Total: total}, nil
}
