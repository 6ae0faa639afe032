package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchItems_NoToken(t *testing.T) {
	c := NewClient("")
	listings, err := c.SearchItems(context.Background(), "charizard", "EBAY_AU", 10)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if listings != nil {
		t.Errorf("listings = %v, want nil", listings)
	}
}

func TestSearchItems_ParsesListings(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"itemSummaries":[
			{"title":"Charizard PSA 10","price":{"value":"450.00"},"image":{"imageUrl":"http://img/a.jpg"}},
			{"title":"Charizard raw","price":{"value":"55.5"},"thumbnailImages":[{"imageUrl":"http://img/b.jpg"}]},
			{"title":"No price listing","price":{"value":""}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("tok-123")
	c.SetEndpoint(srv.URL)

	listings, err := c.SearchItems(context.Background(), "charizard", "EBAY_AU", 10)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotQuery != "charizard" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(listings) != 2 {
		t.Fatalf("listings len = %d, want 2 (unpriced listing skipped)", len(listings))
	}
	if listings[0].Price != 450 || listings[0].ImageURL != "http://img/a.jpg" {
		t.Errorf("listing[0] = %+v", listings[0])
	}
	if listings[1].ImageURL != "http://img/b.jpg" {
		t.Errorf("listing[1] thumbnail fallback = %+v", listings[1])
	}
}

func TestSearchItems_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("tok")
	c.SetEndpoint(srv.URL)

	if _, err := c.SearchItems(context.Background(), "x", "EBAY_US", 1); err == nil {
		t.Error("expected error for non-200 status")
	}
}
