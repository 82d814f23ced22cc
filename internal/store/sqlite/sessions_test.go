package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string, expiresIn time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(expiresIn),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        "192.168.1.42",
		UserAgent:        "curl/8.0",
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	sess := makeTestSession("session-1", "user-1", "hash-1", time.Hour)
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "session-1" || got.UserAgent != "curl/8.0" || got.IPAddress != "192.168.1.42" {
		t.Errorf("unexpected session: %+v", got)
	}

	got.RefreshTokenHash = "hash-2"
	got.Touch()
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old refresh hash still resolves: %v", err)
	}

	if err := s.DeleteSession(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := s.DeleteSession(ctx, "session-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateSession_RequiresUser(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateSession(context.Background(), makeTestSession("session-1", "nobody", "h", time.Hour))
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	if err := s.CreateSession(ctx, makeTestSession("session-old", "user-1", "h1", -time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("session-new", "user-1", "h2", time.Hour)); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
	if _, err := s.GetSession(ctx, "session-new"); err != nil {
		t.Errorf("live session removed: %v", err)
	}
}
