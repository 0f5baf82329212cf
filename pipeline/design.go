package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auto_ppt_generator/logger"
)

// Designer maps slide content to a concrete slide plan. The model chooses
// layouts and style hints; element geometry is assigned by deterministic
// heuristics so identical choices always yield identical plans.
type Designer struct {
	llm     LLMClient
	retries int
	timeout time.Duration
	log     *logger.Logger
}

func NewDesigner(llm LLMClient, cfg Config, log *logger.Logger) *Designer {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.normalized()
	return &Designer{
		llm:     llm,
		retries: cfg.MaxGenerationRetries,
		timeout: cfg.StageTimeout,
		log:     log.With("component", "design"),
	}
}

type designChoice struct {
	Index      int               `json:"index"`
	Layout     LayoutKind        `json:"layout"`
	StyleHints map[string]string `json:"style_hints,omitempty"`
}

type designResponse struct {
	Slides []designChoice `json:"slides"`
}

// Run produces a slide plan. On a revision pass (verdict with issues) only
// the slides named in the issues are redesigned; all other SlideSpecs are
// copied from prev unchanged to minimize drift.
func (d *Designer) Run(ctx context.Context, draft ContentDraft, prev SlidePlan, verdict *ReviewVerdict) (SlidePlan, error) {
	if verdict == nil || verdict.Approved || len(verdict.Issues) == 0 {
		return d.fullPass(ctx, draft)
	}
	return d.revisionPass(ctx, draft, prev, verdict.Issues)
}

func (d *Designer) fullPass(ctx context.Context, draft ContentDraft) (SlidePlan, error) {
	prompt := BuildDesignPrompt(draft)
	resp, err := generateStructured(ctx, d.llm, prompt, d.retries, d.timeout, func(r *designResponse) error {
		return validateChoices(r.Slides, draft, nil)
	}, d.log)
	if err != nil {
		return nil, err
	}

	plan := make(SlidePlan, len(draft))
	for _, c := range resp.Slides {
		plan[c.Index] = buildSpec(c, draft[c.Index])
	}
	d.log.Info("slide plan ready", "slides", len(plan))
	return plan, nil
}

func (d *Designer) revisionPass(ctx context.Context, draft ContentDraft, prev SlidePlan, issues []Issue) (SlidePlan, error) {
	affected := make(map[int]bool)
	for _, is := range issues {
		affected[is.SlideIndex] = true
	}

	prompt := BuildRedesignPrompt(draft, prev, issues)
	resp, err := generateStructured(ctx, d.llm, prompt, d.retries, d.timeout, func(r *designResponse) error {
		return validateChoices(r.Slides, draft, affected)
	}, d.log)
	if err != nil {
		return nil, err
	}

	plan := make(SlidePlan, len(prev))
	copy(plan, prev)
	for _, c := range resp.Slides {
		plan[c.Index] = buildSpec(c, draft[c.Index])
	}
	d.log.Info("slide plan revised", "affected", len(resp.Slides))
	return plan, nil
}

// validateChoices checks that the model covered the expected slide set
// exactly once with known layouts. A nil affected set means "every slide in
// the draft"; otherwise exactly the affected indices must appear.
func validateChoices(choices []designChoice, draft ContentDraft, affected map[int]bool) error {
	want := len(draft)
	if affected != nil {
		want = len(affected)
	}
	if len(choices) != want {
		return fmt.Errorf("expected layout choices for %d slides, got %d", want, len(choices))
	}
	seen := make(map[int]bool)
	for _, c := range choices {
		if c.Index < 0 || c.Index >= len(draft) {
			return fmt.Errorf("slide index %d does not exist in the draft", c.Index)
		}
		if affected != nil && !affected[c.Index] {
			return fmt.Errorf("slide %d was not flagged for redesign", c.Index)
		}
		if seen[c.Index] {
			return fmt.Errorf("slide %d appears more than once", c.Index)
		}
		seen[c.Index] = true
		if !KnownLayout(c.Layout) {
			return fmt.Errorf("unknown layout %q for slide %d", c.Layout, c.Index)
		}
	}
	return nil
}

func buildSpec(c designChoice, content SlideContent) SlideSpec {
	return SlideSpec{
		Index:      c.Index,
		Layout:     c.Layout,
		Title:      content.Title,
		Elements:   layoutElements(c.Layout, content),
		StyleHints: c.StyleHints,
	}
}

// layoutElements places elements for a layout with fixed, non-overlapping
// normalized geometry. ContentRef always points at the slide's own content.
func layoutElements(layout LayoutKind, c SlideContent) []Element {
	ref := c.Index
	switch layout {
	case LayoutTitle:
		return []Element{
			{Kind: ElementTextBlock, X: 0.15, Y: 0.45, W: 0.70, H: 0.20, ContentRef: ref},
		}
	case LayoutSection:
		return []Element{
			{Kind: ElementTextBlock, X: 0.10, Y: 0.40, W: 0.80, H: 0.25, ContentRef: ref},
		}
	case LayoutTitleOnly:
		return nil
	case LayoutTwoContent, LayoutComparison:
		return []Element{
			{Kind: ElementBulletList, X: 0.05, Y: 0.25, W: 0.43, H: 0.65, ContentRef: ref},
			{Kind: ElementBulletList, X: 0.52, Y: 0.25, W: 0.43, H: 0.65, ContentRef: ref},
		}
	case LayoutCaption:
		visual := ElementImagePlaceholder
		if mentionsNumbers(c) {
			visual = ElementChartPlaceholder
		}
		return []Element{
			{Kind: ElementBulletList, X: 0.05, Y: 0.25, W: 0.45, H: 0.65, ContentRef: ref},
			{Kind: visual, X: 0.55, Y: 0.28, W: 0.40, H: 0.55, ContentRef: ref},
		}
	default: // LayoutContent
		if len(c.Bullets) == 0 {
			return []Element{
				{Kind: ElementTextBlock, X: 0.08, Y: 0.25, W: 0.84, H: 0.65, ContentRef: ref},
			}
		}
		return []Element{
			{Kind: ElementBulletList, X: 0.08, Y: 0.25, W: 0.84, H: 0.65, ContentRef: ref},
		}
	}
}

// mentionsNumbers reports whether the slide's bullets carry numeric data
// worth charting.
func mentionsNumbers(c SlideContent) bool {
	hits := 0
	for _, b := range c.Bullets {
		if strings.ContainsAny(b, "0123456789") && (strings.Contains(b, "%") || strings.Contains(strings.ToLower(b), "billion") || strings.Contains(strings.ToLower(b), "million")) {
			hits++
		}
	}
	return hits >= 2
}
