package pipeline

import (
	"context"
	"errors"
	"testing"

	"auto_ppt_generator/logger"
)

func TestResearcherDeduplicatesAndRanks(t *testing.T) {
	retrieval := &stubRetrieval{fn: func(query string, _ int) ([]Finding, error) {
		return []Finding{
			{Text: "shared fact", SourceURL: "https://example.com/a", Relevance: 0.9},
			{Text: "fact for " + query, SourceURL: "https://example.com/" + query, Relevance: 0.5},
		}, nil
	}}

	r := NewResearcher(retrieval, Config{MaxResearchQueries: 3}, logger.Nop())
	bundle := r.Run(context.Background(), Prompt{Text: "presentation about wind power"})

	if retrieval.calls != 3 {
		t.Errorf("queries issued = %d, want 3", retrieval.calls)
	}
	// One shared URL across three queries: 3 unique + 1 deduplicated.
	if len(bundle) != 4 {
		t.Fatalf("findings = %d, want 4", len(bundle))
	}
	if bundle[0].SourceURL != "https://example.com/a" {
		t.Errorf("findings not ranked by relevance: first is %q", bundle[0].SourceURL)
	}
}

func TestResearcherCapsFindings(t *testing.T) {
	n := 0
	retrieval := &stubRetrieval{fn: func(query string, _ int) ([]Finding, error) {
		var out []Finding
		for i := 0; i < 6; i++ {
			n++
			out = append(out, Finding{Text: "fact", SourceURL: query + string(rune('a'+i)), Relevance: float64(n)})
		}
		return out, nil
	}}

	r := NewResearcher(retrieval, Config{MaxFindings: 10}, logger.Nop())
	bundle := r.Run(context.Background(), Prompt{Text: "about cloud costs"})
	if len(bundle) != 10 {
		t.Errorf("findings = %d, want the cap of 10", len(bundle))
	}
}

func TestResearcherSwallowsFailures(t *testing.T) {
	t.Run("partial failure keeps surviving findings", func(t *testing.T) {
		retrieval := &stubRetrieval{fn: func(query string, _ int) ([]Finding, error) {
			if retrievalFailsFor(query) {
				return nil, &RetrievalError{Query: query, Err: errors.New("timeout")}
			}
			return []Finding{{Text: "fact", SourceURL: "https://example.com/" + query, Relevance: 1}}, nil
		}}
		r := NewResearcher(retrieval, Config{}, logger.Nop())
		bundle := r.Run(context.Background(), Prompt{Text: "about batteries"})
		if len(bundle) == 0 {
			t.Error("expected findings from the surviving queries")
		}
	})

	t.Run("total failure degrades to empty bundle", func(t *testing.T) {
		retrieval := &stubRetrieval{fn: func(query string, _ int) ([]Finding, error) {
			return nil, &RetrievalError{Query: query, Err: errors.New("auth failed")}
		}}
		r := NewResearcher(retrieval, Config{}, logger.Nop())
		bundle := r.Run(context.Background(), Prompt{Text: "about batteries"})
		if len(bundle) != 0 {
			t.Errorf("findings = %d, want 0", len(bundle))
		}
	})

	t.Run("nil client yields empty bundle", func(t *testing.T) {
		r := NewResearcher(nil, Config{}, logger.Nop())
		if bundle := r.Run(context.Background(), Prompt{Text: "anything"}); len(bundle) != 0 {
			t.Errorf("findings = %d, want 0", len(bundle))
		}
	})
}

func retrievalFailsFor(query string) bool {
	// Fail everything except the bare topic query.
	return len(query) > len("batteries")
}
