package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auto_ppt_generator/pipeline"
)

type stubRunner struct {
	lastPrompt pipeline.Prompt
	result     pipeline.Result
	err        error
}

func (s *stubRunner) Run(_ context.Context, p pipeline.Prompt) (pipeline.Result, error) {
	s.lastPrompt = p
	return s.result, s.err
}

type stubRenderer struct {
	data []byte
	err  error
}

func (s stubRenderer) Render(context.Context, string, pipeline.SlidePlan, pipeline.ContentDraft) ([]byte, error) {
	return s.data, s.err
}

func approvedResult() pipeline.Result {
	return pipeline.Result{
		Plan: pipeline.SlidePlan{
			{Index: 0, Layout: pipeline.LayoutTitle, Title: "Renewable Energy"},
			{Index: 1, Layout: pipeline.LayoutContent, Title: "Growth"},
		},
		Draft: pipeline.ContentDraft{
			{Index: 0, Title: "Renewable Energy", Bullets: []string{"An overview"}},
			{Index: 1, Title: "Growth", Bullets: []string{"Solar grew 24%"}},
		},
		Status: pipeline.StatusApproved,
	}
}

func newTestServer(t *testing.T, runner Runner, renderer pipeline.Renderer) *httptest.Server {
	t.Helper()
	srv, err := New(runner, renderer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func createDeck(t *testing.T, ts *httptest.Server, body string) deckResp {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/decks", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out deckResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestDeckCreateAndFetch(t *testing.T) {
	runner := &stubRunner{result: approvedResult()}
	ts := newTestServer(t, runner, stubRenderer{data: []byte("pptx-bytes")})

	created := createDeck(t, ts, `{"prompt":"about renewable energy","slide_count":2}`)
	if created.DeckID == "" {
		t.Fatal("response has no deck id")
	}
	if created.Status != pipeline.StatusApproved || created.Slides != 2 {
		t.Errorf("response = %+v", created)
	}
	if runner.lastPrompt.Text != "about renewable energy" || runner.lastPrompt.SlideCountHint != 2 {
		t.Errorf("prompt passed to runner = %+v", runner.lastPrompt)
	}

	resp, err := http.Get(ts.URL + "/api/decks/" + created.DeckID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var fetched deckResp
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if fetched.DeckID != created.DeckID || len(fetched.Plan) != 2 {
		t.Errorf("fetched = %+v", fetched)
	}
}

func TestDeckFileDownload(t *testing.T) {
	ts := newTestServer(t, &stubRunner{result: approvedResult()}, stubRenderer{data: []byte("pptx-bytes")})
	created := createDeck(t, ts, `{"prompt":"about anything"}`)

	resp, err := http.Get(ts.URL + "/api/decks/" + created.DeckID + "/file")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "presentationml") {
		t.Errorf("content type = %q", ct)
	}
}

func TestDeckFileMissingArtifact(t *testing.T) {
	// No renderer wired, so decks carry no artifact.
	ts := newTestServer(t, &stubRunner{result: approvedResult()}, nil)
	created := createDeck(t, ts, `{"prompt":"about anything"}`)

	resp, err := http.Get(ts.URL + "/api/decks/" + created.DeckID + "/file")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeckCreateRejectsEmptyPrompt(t *testing.T) {
	ts := newTestServer(t, &stubRunner{result: approvedResult()}, nil)

	resp, err := http.Post(ts.URL+"/api/decks", "application/json", strings.NewReader(`{"prompt":"  "}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeckCreateReportsPipelineFailure(t *testing.T) {
	runner := &stubRunner{err: &pipeline.PipelineError{Stage: "content", Err: errors.New("retries exhausted")}}
	ts := newTestServer(t, runner, nil)

	resp, err := http.Post(ts.URL+"/api/decks", "application/json", strings.NewReader(`{"prompt":"about anything"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestDeckNotFound(t *testing.T) {
	ts := newTestServer(t, &stubRunner{result: approvedResult()}, nil)

	resp, err := http.Get(ts.URL + "/api/decks/no-such-deck")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
