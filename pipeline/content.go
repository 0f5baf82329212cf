package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auto_ppt_generator/logger"
)

// ContentWriter produces the slide content draft from the prompt and the
// research bundle. Malformed model output is retried with the validation
// error echoed back; exhausting the budget is fatal to the pipeline.
type ContentWriter struct {
	llm     LLMClient
	retries int
	timeout time.Duration
	hint    int
	log     *logger.Logger
}

func NewContentWriter(llm LLMClient, cfg Config, log *logger.Logger) *ContentWriter {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.normalized()
	return &ContentWriter{
		llm:     llm,
		retries: cfg.MaxGenerationRetries,
		timeout: cfg.StageTimeout,
		hint:    cfg.SlideCountHint,
		log:     log.With("component", "content"),
	}
}

type contentResponse struct {
	Slides ContentDraft `json:"slides"`
}

func (w *ContentWriter) Run(ctx context.Context, p Prompt, research ResearchBundle) (ContentDraft, error) {
	if p.SlideCountHint == 0 && w.hint > 0 {
		p.SlideCountHint = w.hint
	}
	count := slideCount(p)
	analysis := AnalyzeRequest(p.Text)

	prompt := BuildContentPrompt(p, analysis, count, research)
	resp, err := generateStructured(ctx, w.llm, prompt, w.retries, w.timeout, func(r *contentResponse) error {
		return ValidateDraft(r.Slides, count)
	}, w.log)
	if err != nil {
		return nil, err
	}
	w.log.Info("content draft ready", "slides", len(resp.Slides))
	return resp.Slides, nil
}

// ValidateDraft checks index contiguity, the requested length, and title
// presence.
func ValidateDraft(d ContentDraft, want int) error {
	if len(d) != want {
		return fmt.Errorf("expected exactly %d slides, got %d", want, len(d))
	}
	for i, s := range d {
		if s.Index != i {
			return fmt.Errorf("slide indices must be contiguous from 0; position %d has index %d", i, s.Index)
		}
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("slide %d has an empty title", i)
		}
	}
	return nil
}
