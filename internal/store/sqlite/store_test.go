package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foodgram/foodgram-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTestUser(id, username string) *domain.User {
	u := &domain.User{
		Entity:       domain.Entity{ID: id},
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$argon2id$fake",
		Role:         domain.RoleUser,
	}
	u.InitTimestamps()
	return u
}

func mustCreateUser(t *testing.T, s *Store, id, username string) *domain.User {
	t.Helper()
	u := makeTestUser(id, username)
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
	return u
}

func mustCreateTag(t *testing.T, s *Store, id, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{ID: id, Name: slug, Slug: slug, Color: fmt.Sprintf("#%06X", hashColor(id))}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%s): %v", id, err)
	}
	return tag
}

func hashColor(id string) int {
	h := 0
	for _, r := range id {
		h = (h*31 + int(r)) % 0xFFFFFF
	}
	return h
}

func mustCreateIngredient(t *testing.T, s *Store, id, name, unit string) *domain.Ingredient {
	t.Helper()
	i := &domain.Ingredient{ID: id, Name: name, MeasurementUnit: unit}
	if err := s.CreateIngredient(context.Background(), i); err != nil {
		t.Fatalf("CreateIngredient(%s): %v", id, err)
	}
	return i
}

// mustCreateRecipe creates a recipe whose created_at is offset from a fixed
// base so list ordering is deterministic.
func mustCreateRecipe(t *testing.T, s *Store, id, authorID string, offset time.Duration, tagIDs []string, items []domain.RecipeIngredient) *domain.Recipe {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &domain.Recipe{
		Entity:      domain.Entity{ID: id, CreatedAt: base.Add(offset), UpdatedAt: base.Add(offset)},
		AuthorID:    authorID,
		Name:        "Recipe " + id,
		Text:        "Cook it.",
		Image:       id + ".jpg",
		CookingTime: 10,
	}
	if err := s.CreateRecipe(context.Background(), r, tagIDs, items); err != nil {
		t.Fatalf("CreateRecipe(%s): %v", id, err)
	}
	return r
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"users", "sessions", "tags", "ingredients", "recipes",
		"recipe_ingredients", "recipe_tags", "favorites", "shopping_cart", "subscriptions",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(path, logger)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	mustCreateUser(t, s, "user-1", "alice")
	s.Close()

	s, err = Open(path, logger)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s.Close()
	if _, err := s.GetUser(context.Background(), "user-1"); err != nil {
		t.Fatalf("GetUser after reopen: %v", err)
	}
}

// domainItem is shorthand for building recipe ingredient lists in tests.
type domainItem struct {
	id     string
	amount int
}

type domainItems []domainItem

func (d domainItems) items() []domain.RecipeIngredient {
	out := make([]domain.RecipeIngredient, len(d))
	for i, it := range d {
		out[i] = domain.RecipeIngredient{IngredientID: it.id, Amount: it.amount}
	}
	return out
}

func makeMockRecipe() *domain.Recipe {
	r := &domain.Recipe{AuthorID: "user-1", Name: "Soup", Text: "Boil.", Image: "soup.jpg", CookingTime: 30}
	r.ID = "recipe-1"
	r.InitTimestamps()
	return r
}
