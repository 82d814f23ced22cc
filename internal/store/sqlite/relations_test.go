package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodgram/foodgram-server/internal/store"
)

func TestFavorites_Toggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)
	mustCreateRecipe(t, s, "recipe-1", "user-1", 0, []string{"tag-1"}, domainItems{{"ingr-1", 1}}.items())

	if err := s.AddFavorite(ctx, "user-2", "recipe-1"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := s.AddFavorite(ctx, "user-2", "recipe-1"); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second add: got %v, want ErrAlreadyExists", err)
	}
	if err := s.AddFavorite(ctx, "user-2", "recipe-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing recipe: got %v, want ErrNotFound", err)
	}

	fav, err := s.FavoritedAmong(ctx, "user-2", []string{"recipe-1", "recipe-other"})
	if err != nil {
		t.Fatalf("FavoritedAmong: %v", err)
	}
	if !fav["recipe-1"] || fav["recipe-other"] {
		t.Errorf("FavoritedAmong: %v", fav)
	}
	counts, err := s.CountFavorites(ctx, []string{"recipe-1"})
	if err != nil {
		t.Fatalf("CountFavorites: %v", err)
	}
	if counts["recipe-1"] != 1 {
		t.Errorf("CountFavorites: %v", counts)
	}

	if err := s.RemoveFavorite(ctx, "user-2", "recipe-1"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := s.RemoveFavorite(ctx, "user-2", "recipe-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second remove: got %v, want ErrNotFound", err)
	}
}

func TestShoppingCart_Toggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)
	mustCreateRecipe(t, s, "recipe-1", "user-1", 0, []string{"tag-1"}, domainItems{{"ingr-1", 1}}.items())

	if err := s.AddToShoppingCart(ctx, "user-1", "recipe-1"); err != nil {
		t.Fatalf("AddToShoppingCart: %v", err)
	}
	if err := s.AddToShoppingCart(ctx, "user-1", "recipe-1"); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second add: got %v, want ErrAlreadyExists", err)
	}
	in, err := s.InShoppingCartAmong(ctx, "user-1", []string{"recipe-1"})
	if err != nil || !in["recipe-1"] {
		t.Errorf("InShoppingCartAmong: %v, %v", in, err)
	}
	other, err := s.InShoppingCartAmong(ctx, "user-2", []string{"recipe-1"})
	if err != nil || other["recipe-1"] {
		t.Errorf("cart leaked across users: %v, %v", other, err)
	}
	if err := s.RemoveFromShoppingCart(ctx, "user-1", "recipe-1"); err != nil {
		t.Fatalf("RemoveFromShoppingCart: %v", err)
	}
	if err := s.RemoveFromShoppingCart(ctx, "user-1", "recipe-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second remove: got %v, want ErrNotFound", err)
	}
}

func TestAggregateShoppingCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)
	mustCreateRecipe(t, s, "recipe-1", "user-1", 0, []string{"tag-1"},
		domainItems{{"ingr-1", 2}, {"ingr-2", 200}}.items())
	mustCreateRecipe(t, s, "recipe-2", "user-1", time.Minute, []string{"tag-1"},
		domainItems{{"ingr-1", 3}, {"ingr-3", 500}}.items())
	mustCreateRecipe(t, s, "recipe-3", "user-1", 2*time.Minute, []string{"tag-1"},
		domainItems{{"ingr-1", 100}}.items())

	empty, err := s.AggregateShoppingCart(ctx, "user-2")
	if err != nil {
		t.Fatalf("AggregateShoppingCart empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty cart: got %v, want empty slice", empty)
	}

	for _, id := range []string{"recipe-1", "recipe-2"} {
		if err := s.AddToShoppingCart(ctx, "user-2", id); err != nil {
			t.Fatalf("AddToShoppingCart(%s): %v", id, err)
		}
	}

	items, err := s.AggregateShoppingCart(ctx, "user-2")
	if err != nil {
		t.Fatalf("AggregateShoppingCart: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(items), items)
	}
	want := []struct {
		name   string
		unit   string
		amount int
	}{
		{"egg", "pcs", 5},
		{"flour", "g", 500},
		{"milk", "ml", 200},
	}
	for i, w := range want {
		if items[i].Name != w.name || items[i].MeasurementUnit != w.unit || items[i].Amount != w.amount {
			t.Errorf("row %d: got %+v, want %+v", i, items[i], w)
		}
	}
}

func TestSubscriptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	mustCreateUser(t, s, "user-2", "bob")
	mustCreateUser(t, s, "user-3", "carol")

	if err := s.CreateSubscription(ctx, "user-1", "user-3"); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if err := s.CreateSubscription(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if err := s.CreateSubscription(ctx, "user-1", "user-2"); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate: got %v, want ErrAlreadyExists", err)
	}
	if err := s.CreateSubscription(ctx, "user-1", "user-1"); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("self: got %v, want ErrInvalidInput", err)
	}
	if err := s.CreateSubscription(ctx, "user-1", "user-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing target: got %v, want ErrNotFound", err)
	}

	res, err := s.ListSubscriptions(ctx, "user-1", store.PageParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if res.Total != 2 || len(res.Items) != 2 || res.Items[0].Username != "bob" || res.Items[1].Username != "carol" {
		t.Errorf("ListSubscriptions: total=%d items=%+v", res.Total, res.Items)
	}

	subs, err := s.SubscribedAmong(ctx, "user-1", []string{"user-2", "user-3", "user-1"})
	if err != nil {
		t.Fatalf("SubscribedAmong: %v", err)
	}
	if !subs["user-2"] || !subs["user-3"] || subs["user-1"] {
		t.Errorf("SubscribedAmong: %v", subs)
	}

	if err := s.DeleteSubscription(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}
	if err := s.DeleteSubscription(ctx, "user-1", "user-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
