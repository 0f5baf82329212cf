package pipeline

import "time"

// Prompt is the user request that seeds a pipeline run.
// A zero SlideCountHint means "not specified".
type Prompt struct {
	Text           string `json:"text"`
	SlideCountHint int    `json:"slide_count_hint,omitempty"`
}

// Finding is a single retrieved fact with source attribution.
type Finding struct {
	Text      string  `json:"text"`
	SourceURL string  `json:"source_url"`
	Relevance float64 `json:"relevance"`
}

// ResearchBundle is the ordered research output. An empty bundle is valid;
// research is an enrichment, not a hard dependency.
type ResearchBundle []Finding

// SlideContent is the authored text for one slide.
type SlideContent struct {
	Index   int      `json:"index"`
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes,omitempty"`
}

// ContentDraft holds slide content ordered by index. Indices form a
// contiguous 0-based range matching the requested slide count.
type ContentDraft []SlideContent

// LayoutKind names one of the slide layouts the renderer understands.
// Values mirror the standard PowerPoint layout set.
type LayoutKind string

const (
	LayoutTitle      LayoutKind = "title"
	LayoutContent    LayoutKind = "content"
	LayoutSection    LayoutKind = "section"
	LayoutTwoContent LayoutKind = "two_content"
	LayoutComparison LayoutKind = "comparison"
	LayoutTitleOnly  LayoutKind = "title_only"
	LayoutCaption    LayoutKind = "caption"
)

// KnownLayout reports whether k is a layout the design stage may emit.
func KnownLayout(k LayoutKind) bool {
	switch k {
	case LayoutTitle, LayoutContent, LayoutSection, LayoutTwoContent,
		LayoutComparison, LayoutTitleOnly, LayoutCaption:
		return true
	}
	return false
}

// ElementKind tags the Element variant.
type ElementKind string

const (
	ElementTextBlock        ElementKind = "text_block"
	ElementBulletList       ElementKind = "bullet_list"
	ElementImagePlaceholder ElementKind = "image_placeholder"
	ElementChartPlaceholder ElementKind = "chart_placeholder"
)

// Element places one piece of slide content. Geometry is normalized to the
// slide surface (0.0–1.0); ContentRef points back at a SlideContent index.
type Element struct {
	Kind       ElementKind `json:"kind"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	W          float64     `json:"w"`
	H          float64     `json:"h"`
	ContentRef int         `json:"content_ref"`
}

// SlideSpec is the renderer-ready description of one slide.
type SlideSpec struct {
	Index      int               `json:"index"`
	Layout     LayoutKind        `json:"layout"`
	Title      string            `json:"title"`
	Elements   []Element         `json:"elements"`
	StyleHints map[string]string `json:"style_hints,omitempty"`
}

// SlidePlan is the fully laid-out deck, ordered by slide index.
type SlidePlan []SlideSpec

// Severity grades a review issue.
type Severity string

const (
	SeverityMinor Severity = "minor"
	SeverityMajor Severity = "major"
)

// Issue is one targeted revision instruction from the review stage.
type Issue struct {
	SlideIndex  int      `json:"slide_index"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// ReviewVerdict is the review outcome: approved outright, or a list of
// issues the design stage must address.
type ReviewVerdict struct {
	Approved bool    `json:"approved"`
	Issues   []Issue `json:"issues,omitempty"`
}

// ResultStatus distinguishes a clean approval from a plan accepted only
// because the revision budget ran out.
type ResultStatus string

const (
	StatusApproved                   ResultStatus = "approved"
	StatusAcceptedAfterRevisionLimit ResultStatus = "accepted_after_revision_limit"
)

// State is the orchestrator's position in the pipeline.
type State int

const (
	StateResearching State = iota
	StateDrafting
	StateDesigning
	StateReviewing
	StateRevising
	StateFinalized
	StateFailed
)

func (s State) String() string {
	names := [...]string{
		"researching",
		"drafting",
		"designing",
		"reviewing",
		"revising",
		"finalized",
		"failed",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Session is the mutable orchestration state for one pipeline run. The
// Orchestrator is its single writer; stages only ever see snapshots.
type Session struct {
	ID        string
	Prompt    Prompt
	Research  ResearchBundle
	Draft     ContentDraft
	Plan      SlidePlan
	Revisions int
	Verdicts  []ReviewVerdict
	State     State
	StartedAt time.Time
}

// Result is what a finished pipeline hands back to the caller. Draft is
// included because plan elements reference content by index.
type Result struct {
	Plan         SlidePlan      `json:"plan"`
	Draft        ContentDraft   `json:"draft"`
	Status       ResultStatus   `json:"status"`
	Revisions    int            `json:"revisions"`
	Research     ResearchBundle `json:"research,omitempty"`
	ArtifactPath string         `json:"artifact_path,omitempty"`
}

// Title returns the deck title: the first slide's title, or "" for an
// empty plan.
func (r Result) Title() string {
	if len(r.Plan) > 0 && r.Plan[0].Title != "" {
		return r.Plan[0].Title
	}
	return ""
}
