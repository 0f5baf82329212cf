package pipeline

import "time"

// Defaults for pipeline knobs. Negative values in Config disable the knob
// (zero attempts, no timeout); zero means "use the default".
const (
	DefaultMaxRevisions       = 2
	DefaultGenerationRetries  = 2
	DefaultMaxResearchQueries = 3
	DefaultMaxFindings        = 10
	DefaultResultsPerQuery    = 5
	DefaultStageTimeout       = 60 * time.Second
)

// Config holds the orchestration knobs for one pipeline.
type Config struct {
	// MaxRevisions bounds the design⇄review loop. Once reached, the
	// current plan is accepted and flagged as such.
	MaxRevisions int
	// MaxGenerationRetries is the number of extra generation attempts a
	// stage gets after a malformed response.
	MaxGenerationRetries int
	// MaxResearchQueries caps how many search queries are derived from
	// the prompt.
	MaxResearchQueries int
	// MaxFindings caps the research bundle size after deduplication.
	MaxFindings int
	// ResultsPerQuery is passed to the retrieval client per search.
	ResultsPerQuery int
	// SlideCountHint, when positive, overrides whatever slide count the
	// prompt text implies.
	SlideCountHint int
	// StageTimeout bounds each individual external call.
	StageTimeout time.Duration
}

func (c Config) normalized() Config {
	c.MaxRevisions = resolve(c.MaxRevisions, DefaultMaxRevisions)
	c.MaxGenerationRetries = resolve(c.MaxGenerationRetries, DefaultGenerationRetries)
	c.MaxResearchQueries = resolve(c.MaxResearchQueries, DefaultMaxResearchQueries)
	c.MaxFindings = resolve(c.MaxFindings, DefaultMaxFindings)
	c.ResultsPerQuery = resolve(c.ResultsPerQuery, DefaultResultsPerQuery)
	if c.StageTimeout == 0 {
		c.StageTimeout = DefaultStageTimeout
	}
	if c.StageTimeout < 0 {
		c.StageTimeout = 0
	}
	return c
}

func resolve(v, def int) int {
	if v == 0 {
		return def
	}
	if v < 0 {
		return 0
	}
	return v
}
