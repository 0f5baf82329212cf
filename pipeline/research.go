package pipeline

import (
	"context"
	"sort"
	"time"

	"auto_ppt_generator/logger"
)

// Researcher gathers supporting facts for the prompt topic. It is
// best-effort: every failure degrades to a smaller (possibly empty) bundle,
// never to a pipeline error.
type Researcher struct {
	client      RetrievalClient
	maxQueries  int
	maxFindings int
	perQuery    int
	timeout     time.Duration
	log         *logger.Logger
}

func NewResearcher(client RetrievalClient, cfg Config, log *logger.Logger) *Researcher {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.normalized()
	return &Researcher{
		client:      client,
		maxQueries:  cfg.MaxResearchQueries,
		maxFindings: cfg.MaxFindings,
		perQuery:    cfg.ResultsPerQuery,
		timeout:     cfg.StageTimeout,
		log:         log.With("component", "researcher"),
	}
}

// Run derives search queries from the prompt, executes them, and returns
// the deduplicated top findings by relevance.
func (r *Researcher) Run(ctx context.Context, p Prompt) ResearchBundle {
	if r.client == nil || r.maxQueries == 0 {
		return nil
	}

	topic := AnalyzeRequest(p.Text).Topic
	queries := researchQueries(topic, r.maxQueries)

	seen := make(map[string]bool)
	var findings []Finding
	for _, q := range queries {
		results, err := r.search(ctx, q)
		if err != nil {
			r.log.Warn("research query failed", "query", q, "error", err)
			continue
		}
		for _, f := range results {
			if f.SourceURL != "" && seen[f.SourceURL] {
				continue
			}
			seen[f.SourceURL] = true
			findings = append(findings, f)
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Relevance > findings[j].Relevance
	})
	if len(findings) > r.maxFindings {
		findings = findings[:r.maxFindings]
	}
	r.log.Info("research complete", "queries", len(queries), "findings", len(findings))
	return findings
}

func (r *Researcher) search(ctx context.Context, query string) ([]Finding, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.client.Search(ctx, query, r.perQuery)
}

// researchQueries expands the topic into at most max queries: the topic
// itself plus two sub-topic angles.
func researchQueries(topic string, max int) []string {
	qs := []string{
		topic,
		topic + " key statistics and data",
		topic + " latest developments",
	}
	if max > 0 && max < len(qs) {
		qs = qs[:max]
	}
	return qs
}
