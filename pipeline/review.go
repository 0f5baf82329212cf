package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auto_ppt_generator/logger"
)

// Reviewer critiques a slide plan against fixed quality criteria. It is
// advisory only: it never mutates the plan.
type Reviewer struct {
	llm     LLMClient
	retries int
	timeout time.Duration
	log     *logger.Logger
}

func NewReviewer(llm LLMClient, cfg Config, log *logger.Logger) *Reviewer {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.normalized()
	return &Reviewer{
		llm:     llm,
		retries: cfg.MaxGenerationRetries,
		timeout: cfg.StageTimeout,
		log:     log.With("component", "review"),
	}
}

func (r *Reviewer) Run(ctx context.Context, plan SlidePlan, draft ContentDraft) (ReviewVerdict, error) {
	prompt := BuildReviewPrompt(plan, draft)
	verdict, err := generateStructured(ctx, r.llm, prompt, r.retries, r.timeout, func(v *ReviewVerdict) error {
		return validateVerdict(*v, len(plan))
	}, r.log)
	if err != nil {
		return ReviewVerdict{}, err
	}
	r.log.Info("review verdict", "approved", verdict.Approved, "issues", len(verdict.Issues))
	return verdict, nil
}

// validateVerdict enforces the two-variant shape: approved with no issues,
// or needs-revision with at least one well-formed issue.
func validateVerdict(v ReviewVerdict, slides int) error {
	if v.Approved {
		if len(v.Issues) > 0 {
			return errors.New("an approved verdict must not carry issues")
		}
		return nil
	}
	if len(v.Issues) == 0 {
		return errors.New("a needs-revision verdict must list at least one issue")
	}
	for i, is := range v.Issues {
		if is.SlideIndex < 0 || is.SlideIndex >= slides {
			return fmt.Errorf("issue %d references slide %d, which does not exist", i, is.SlideIndex)
		}
		if is.Severity != SeverityMinor && is.Severity != SeverityMajor {
			return fmt.Errorf("issue %d has unknown severity %q", i, is.Severity)
		}
		if strings.TrimSpace(is.Description) == "" {
			return fmt.Errorf("issue %d has an empty description", i)
		}
	}
	return nil
}
