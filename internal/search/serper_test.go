package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("  "); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("X-API-KEY") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "横浜 製造業" || req.Num != 2 || req.Region != "jp" || req.Language != "ja" {
			t.Errorf("unexpected request %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]string{
				{"title": "株式会社アルファ", "link": "https://alpha.example.jp/"},
				{"title": "no link"},
				{"title": "株式会社ブラボー", "link": "https://bravo.example.jp/"},
				{"title": "株式会社チャーリー", "link": "https://charlie.example.jp/"},
			},
		})
	}))
	defer server.Close()

	client, err := New("secret", WithEndpoint(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits, err := client.Search(context.Background(), "横浜 製造業", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	if hits[0].Title != "株式会社アルファ" || hits[1].URL != "https://bravo.example.jp/" {
		t.Fatalf("unexpected hits %+v", hits)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not enough credits"})
	}))
	defer server.Close()

	client, _ := New("secret", WithEndpoint(server.URL), WithHTTPClient(server.Client()))
	_, err := client.Search(context.Background(), "q", 10)
	if err == nil || !strings.Contains(err.Error(), "Not enough credits") {
		t.Fatalf("expected credits error, got %v", err)
	}
}

func TestSearchLocaleOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Region != "us" || req.Language != "en" {
			t.Errorf("unexpected locale %+v", req)
		}
		w.Write([]byte(`{"organic":[]}`))
	}))
	defer server.Close()

	client, _ := New("secret", WithEndpoint(server.URL), WithHTTPClient(server.Client()), WithLocale("us", "en"))
	hits, err := client.Search(context.Background(), "q", 10)
	if err != nil || len(hits) != 0 {
		t.Fatalf("expected empty result, got %v %v", hits, err)
	}
}
