package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodgram/foodgram-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "user-1", "alice")

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != u.Username || got.Email != u.Email || got.PasswordHash != u.PasswordHash {
		t.Errorf("got %+v, want %+v", got, u)
	}
	if !got.LastLoginAt.IsZero() {
		t.Errorf("LastLoginAt: got %v, want zero", got.LastLoginAt)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Errorf("GetUserByEmail returned %s", byEmail.ID)
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	sameUsername := makeTestUser("user-2", "alice")
	sameUsername.Email = "other@example.com"
	if err := s.CreateUser(ctx, sameUsername); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate username: got %v, want ErrAlreadyExists", err)
	}

	sameEmail := makeTestUser("user-3", "bob")
	sameEmail.Email = "Alice@Example.com"
	if err := s.CreateUser(ctx, sameEmail); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate email (case-insensitive): got %v, want ErrAlreadyExists", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "user-1", "alice")

	u.PasswordHash = "$argon2id$new"
	u.LastLoginAt = time.Now()
	u.Touch()
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.PasswordHash != "$argon2id$new" {
		t.Errorf("PasswordHash not updated: %q", got.PasswordHash)
	}
	if got.LastLoginAt.IsZero() {
		t.Error("LastLoginAt not stored")
	}

	ghost := makeTestUser("ghost", "ghost")
	if err := s.UpdateUser(ctx, ghost); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing user: got %v, want ErrNotFound", err)
	}
}

func TestListUsers_OrderedByUsernameAndPaged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-c", "carol")
	mustCreateUser(t, s, "user-a", "alice")
	mustCreateUser(t, s, "user-b", "bob")

	page := store.PageParams{Page: 1, Limit: 2}
	res, err := s.ListUsers(ctx, page)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("Total: got %d, want 3", res.Total)
	}
	if len(res.Items) != 2 || res.Items[0].Username != "alice" || res.Items[1].Username != "bob" {
		t.Fatalf("unexpected first page: %+v", res.Items)
	}
	if !res.HasNext(page) {
		t.Error("expected a next page")
	}

	res, err = s.ListUsers(ctx, store.PageParams{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers page 2: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Username != "carol" {
		t.Fatalf("unexpected second page: %+v", res.Items)
	}
}

func TestDeleteUser_CascadesRecipes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	tag := mustCreateTag(t, s, "tag-1", "breakfast")
	ing := mustCreateIngredient(t, s, "ingr-1", "egg", "pcs")
	mustCreateRecipe(t, s, "recipe-1", "user-1", 0, []string{tag.ID}, domainItems{{ing.ID, 2}}.items())

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetRecipe(ctx, "recipe-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("recipe survived author deletion: %v", err)
	}
}
