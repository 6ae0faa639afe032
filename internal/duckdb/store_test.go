package duckdb

import (
	"errors"
	"testing"
	"time"

	"github.com/slabwatch/slabwatch/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndLookupUser(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateUser("ash", "hash123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero user id")
	}

	u, err := store.UserByUsername("ash")
	if err != nil {
		t.Fatalf("UserByUsername: %v", err)
	}
	if u.ID != id || u.Username != "ash" || u.PasswordHash != "hash123" {
		t.Errorf("user = %+v", u)
	}

	if _, err := store.UserByUsername("misty"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.CreateUser("ash", "h1"); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	if _, err := store.CreateUser("ash", "h2"); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestUserCount(t *testing.T) {
	store := newTestStore(t)

	n, err := store.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}

	store.CreateUser("a", "h")
	store.CreateUser("b", "h")

	n, err = store.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func testReport() *model.PriceReport {
	return &model.PriceReport{
		Avg: model.Averages{
			{Grade: "raw", Value: 12.5},
			{Grade: "PSA", Value: 230},
		},
		Prices: map[string][]float64{"raw": {10, 15}, "PSA": {230}},
	}
}

func TestUpsertSearch_InsertThenUpdate(t *testing.T) {
	store := newTestStore(t)
	userID, _ := store.CreateUser("ash", "h")
	now := time.Now().UTC().Format(time.RFC3339)

	if err := store.UpsertSearch(userID, "Charizard", "AU", testReport(), "http://img/1.jpg", now); err != nil {
		t.Fatalf("UpsertSearch insert: %v", err)
	}

	saved, err := store.SearchByCard(userID, "Charizard")
	if err != nil {
		t.Fatalf("SearchByCard: %v", err)
	}
	if saved.Region != "AU" || saved.LastImage != "http://img/1.jpg" || saved.Confirmed {
		t.Errorf("saved = %+v", saved)
	}
	if got := saved.LastResult.Avg.Keys(); len(got) != 2 || got[0] != "raw" || got[1] != "PSA" {
		t.Errorf("avg keys = %v, want [raw PSA]", got)
	}

	// Upsert again for the same card replaces in place.
	if err := store.UpsertSearch(userID, "Charizard", "US", testReport(), "http://img/2.jpg", now); err != nil {
		t.Fatalf("UpsertSearch update: %v", err)
	}
	saved, err = store.SearchByCard(userID, "Charizard")
	if err != nil {
		t.Fatalf("SearchByCard after upsert: %v", err)
	}
	if saved.Region != "US" || saved.LastImage != "http://img/2.jpg" {
		t.Errorf("updated = %+v", saved)
	}

	list, err := store.ListSearches(userID)
	if err != nil {
		t.Fatalf("ListSearches: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}
}

func TestConfirmImage(t *testing.T) {
	store := newTestStore(t)
	userID, _ := store.CreateUser("ash", "h")
	now := time.Now().UTC().Format(time.RFC3339)

	if err := store.ConfirmImage(userID, "Pikachu", "http://img/p.jpg", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("confirm unsaved card err = %v, want ErrNotFound", err)
	}

	store.UpsertSearch(userID, "Pikachu", "AU", nil, "", now)
	if err := store.ConfirmImage(userID, "Pikachu", "http://img/p.jpg", now); err != nil {
		t.Fatalf("ConfirmImage: %v", err)
	}

	saved, _ := store.SearchByCard(userID, "Pikachu")
	if !saved.Confirmed || saved.LastImage != "http://img/p.jpg" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestUpdateSearchResult_ResetsConfirmed(t *testing.T) {
	store := newTestStore(t)
	userID, _ := store.CreateUser("ash", "h")
	now := time.Now().UTC().Format(time.RFC3339)

	store.UpsertSearch(userID, "Mew", "AU", nil, "", now)
	store.ConfirmImage(userID, "Mew", "http://img/m.jpg", now)

	if err := store.UpdateSearchResult(userID, "Mew", testReport(), "http://img/m2.jpg", now); err != nil {
		t.Fatalf("UpdateSearchResult: %v", err)
	}
	saved, _ := store.SearchByCard(userID, "Mew")
	if saved.Confirmed {
		t.Error("confirmed should reset on refresh")
	}
	if saved.LastImage != "http://img/m2.jpg" {
		t.Errorf("image = %s", saved.LastImage)
	}

	if err := store.UpdateSearchResult(userID, "Ho-Oh", nil, "", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unsaved err = %v, want ErrNotFound", err)
	}
}

func TestListSearches_OrderAndIsolation(t *testing.T) {
	store := newTestStore(t)
	u1, _ := store.CreateUser("ash", "h")
	u2, _ := store.CreateUser("misty", "h")
	now := time.Now().UTC().Format(time.RFC3339)

	for _, name := range []string{"Charizard", "Blastoise", "Venusaur"} {
		if err := store.UpsertSearch(u1, name, "AU", nil, "", now); err != nil {
			t.Fatalf("UpsertSearch %s: %v", name, err)
		}
	}
	store.UpsertSearch(u2, "Staryu", "US", nil, "", now)

	list, err := store.ListSearches(u1)
	if err != nil {
		t.Fatalf("ListSearches: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list len = %d, want 3", len(list))
	}
	want := []string{"Charizard", "Blastoise", "Venusaur"}
	for i, name := range want {
		if list[i].CardName != name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].CardName, name)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		updated string
		want    bool
	}{
		{"empty", "", true},
		{"garbage", "not-a-time", true},
		{"fresh", now.Add(-time.Hour).Format(time.RFC3339), false},
		{"six days", now.Add(-6 * 24 * time.Hour).Format(time.RFC3339), false},
		{"eight days", now.Add(-8 * 24 * time.Hour).Format(time.RFC3339), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExpired(tt.updated, now); got != tt.want {
				t.Errorf("isExpired(%q) = %v, want %v", tt.updated, got, tt.want)
			}
		})
	}
}

func TestDeleteSearchesBefore(t *testing.T) {
	store := newTestStore(t)
	userID, _ := store.CreateUser("ash", "h")

	old := time.Now().UTC().Add(-40 * 24 * time.Hour).Format(time.RFC3339)
	fresh := time.Now().UTC().Format(time.RFC3339)
	store.UpsertSearch(userID, "Old", "AU", nil, "", old)
	store.UpsertSearch(userID, "Fresh", "AU", nil, "", fresh)

	deleted, err := store.DeleteSearchesBefore(time.Now().UTC().Add(-30 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteSearchesBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	list, _ := store.ListSearches(userID)
	if len(list) != 1 || list[0].CardName != "Fresh" {
		t.Errorf("remaining = %+v", list)
	}
}
