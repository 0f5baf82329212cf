package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"auto_ppt_generator/pipeline"
)

func TestSearchMapsResults(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"results":[
			{"title":"Solar capacity report","url":"https://example.com/solar","content":"Global capacity grew 24% in 2025.","score":0.93},
			{"title":"","url":"https://example.com/wind","content":"Offshore wind doubled.","score":0.71},
			{"title":"","url":"https://example.com/empty","content":"","score":0.5}
		]}`))
	}))
	defer srv.Close()

	client, err := NewTavilyClient("test-key", srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	findings, err := client.Search(context.Background(), "renewable energy", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.APIKey != "test-key" || got.Query != "renewable energy" || got.MaxResults != 3 {
		t.Errorf("request payload = %+v", got)
	}
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if findings[0].Text != "Solar capacity report: Global capacity grew 24% in 2025." {
		t.Errorf("findings[0].Text = %q", findings[0].Text)
	}
	if findings[0].SourceURL != "https://example.com/solar" || findings[0].Relevance != 0.93 {
		t.Errorf("findings[0] = %+v", findings[0])
	}
	// A missing title keeps the bare content; fully empty results are dropped.
	if findings[1].Text != "Offshore wind doubled." {
		t.Errorf("findings[1].Text = %q", findings[1].Text)
	}
}

func TestSearchDefaultsMaxResults(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client, _ := NewTavilyClient("test-key", srv.URL, srv.Client())
	if _, err := client.Search(context.Background(), "anything", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MaxResults != 5 {
		t.Errorf("max_results = %d, want 5", got.MaxResults)
	}
}

func TestSearchReportsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, _ := NewTavilyClient("bad-key", srv.URL, srv.Client())
	_, err := client.Search(context.Background(), "anything", 3)

	var retErr *pipeline.RetrievalError
	if !errors.As(err, &retErr) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if retErr.Query != "anything" {
		t.Errorf("query = %q, want %q", retErr.Query, "anything")
	}
}

func TestSearchReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client, _ := NewTavilyClient("test-key", srv.URL, nil)
	_, err := client.Search(context.Background(), "anything", 3)

	var retErr *pipeline.RetrievalError
	if !errors.As(err, &retErr) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
}

func TestNewTavilyClientRequiresKey(t *testing.T) {
	if _, err := NewTavilyClient("", "", nil); err == nil {
		t.Fatal("expected an error for a missing api key")
	}
}
