package pipeline

import (
	"context"
	"strings"
	"sync"
)

// routerLLM dispatches per stage like MockLLM, but individual stages can be
// overridden to script failures and custom verdicts. The counter passed to
// each override is per-stage.
type routerLLM struct {
	mu           sync.Mutex
	contentCalls int
	designCalls  int
	reviewCalls  int

	onContent func(n int, p ChatPrompt) (string, error)
	onDesign  func(n int, p ChatPrompt) (string, error)
	onReview  func(n int, p ChatPrompt) (string, error)
}

func (r *routerLLM) Complete(ctx context.Context, p ChatPrompt) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case strings.Contains(p.System, "content writer"):
		n := r.contentCalls
		r.contentCalls++
		if r.onContent != nil {
			return r.onContent(n, p)
		}
	case strings.Contains(p.System, "presentation designer"):
		n := r.designCalls
		r.designCalls++
		if r.onDesign != nil {
			return r.onDesign(n, p)
		}
	case strings.Contains(p.System, "presentation reviewer"):
		n := r.reviewCalls
		r.reviewCalls++
		if r.onReview != nil {
			return r.onReview(n, p)
		}
	}
	return MockLLM{}.Complete(ctx, p)
}

// stubRetrieval scripts the search provider.
type stubRetrieval struct {
	mu      sync.Mutex
	calls   int
	queries []string
	fn      func(query string, max int) ([]Finding, error)
}

func (s *stubRetrieval) Search(_ context.Context, query string, max int) ([]Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.queries = append(s.queries, query)
	return s.fn(query, max)
}

func testDraft(n int) ContentDraft {
	draft := make(ContentDraft, n)
	for i := range draft {
		draft[i] = SlideContent{
			Index:   i,
			Title:   "Slide " + string(rune('A'+i)),
			Bullets: []string{"first point", "second point", "third point"},
		}
	}
	return draft
}
