package pipeline

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"auto_ppt_generator/logger"
)

// Stage names used in PipelineError diagnostics.
const (
	StageResearch = "research"
	StageContent  = "content"
	StageDesign   = "design"
	StageReview   = "review"
	StageRender   = "render"
)

// Orchestrator drives the pipeline: research → content → design ⇄ review,
// with a bounded revision loop. It is the single writer of the Session;
// stages only consume immutable snapshots.
type Orchestrator struct {
	researcher *Researcher
	writer     *ContentWriter
	designer   *Designer
	reviewer   *Reviewer

	renderer   Renderer
	outputPath string

	cfg Config
	log *logger.Logger
}

func NewOrchestrator(llm LLMClient, retrieval RetrievalClient, cfg Config, log *logger.Logger) (*Orchestrator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.normalized()
	return &Orchestrator{
		researcher: NewResearcher(retrieval, cfg, log),
		writer:     NewContentWriter(llm, cfg, log),
		designer:   NewDesigner(llm, cfg, log),
		reviewer:   NewReviewer(llm, cfg, log),
		cfg:        cfg,
		log:        log.With("component", "orchestrator"),
	}, nil
}

// SetRenderer makes Run render the final plan and record the artifact path
// in the result. Without a renderer, Run stops at the finalized plan.
func (o *Orchestrator) SetRenderer(r Renderer, outputPath string) {
	o.renderer = r
	o.outputPath = outputPath
}

// Run executes one full pipeline for the prompt. It returns the finalized
// result, or a PipelineError naming the stage that failed.
func (o *Orchestrator) Run(ctx context.Context, p Prompt) (Result, error) {
	if p.SlideCountHint == 0 {
		p.SlideCountHint = o.cfg.SlideCountHint
	}

	sess := &Session{
		ID:        uuid.NewString(),
		Prompt:    p,
		State:     StateResearching,
		StartedAt: time.Now(),
	}
	log := o.log.With("session", sess.ID)
	log.Info("pipeline started", "prompt", p.Text, "slide_count_hint", p.SlideCountHint)

	// Research never fails the pipeline; an empty bundle is a valid outcome.
	sess.Research = o.researcher.Run(ctx, p)

	sess.State = StateDrafting
	draft, err := o.writer.Run(ctx, p, sess.Research)
	if err != nil {
		return o.fail(sess, StageContent, err)
	}
	sess.Draft = draft

	sess.State = StateDesigning
	plan, err := o.designer.Run(ctx, draft, nil, nil)
	if err != nil {
		return o.fail(sess, StageDesign, err)
	}
	sess.Plan = plan

	status := StatusApproved
	for {
		sess.State = StateReviewing
		verdict, err := o.reviewer.Run(ctx, sess.Plan, sess.Draft)
		if err != nil {
			return o.fail(sess, StageReview, err)
		}
		sess.Verdicts = append(sess.Verdicts, verdict)

		if verdict.Approved {
			break
		}
		if sess.Revisions >= o.cfg.MaxRevisions {
			// Forced acceptance: the revision budget is spent, so the
			// current plan ships, flagged so callers can tell.
			status = StatusAcceptedAfterRevisionLimit
			log.Warn("revision budget exhausted; accepting current plan",
				"revisions", sess.Revisions, "open_issues", len(verdict.Issues))
			break
		}

		sess.State = StateRevising
		sess.Revisions++
		log.Info("revision cycle", "n", sess.Revisions, "issues", len(verdict.Issues))

		sess.State = StateDesigning
		revised, err := o.designer.Run(ctx, sess.Draft, sess.Plan, &verdict)
		if err != nil {
			return o.fail(sess, StageDesign, err)
		}
		sess.Plan = revised
	}

	sess.State = StateFinalized
	res := Result{
		Plan:      sess.Plan,
		Draft:     sess.Draft,
		Status:    status,
		Revisions: sess.Revisions,
		Research:  sess.Research,
	}

	if o.renderer != nil && o.outputPath != "" {
		data, err := o.renderer.Render(ctx, res.Title(), sess.Plan, sess.Draft)
		if err != nil {
			return o.fail(sess, StageRender, err)
		}
		if err := os.WriteFile(o.outputPath, data, 0o644); err != nil {
			return o.fail(sess, StageRender, err)
		}
		res.ArtifactPath = o.outputPath
		log.Info("artifact written", "path", o.outputPath, "bytes", len(data))
	}

	log.Info("pipeline finished", "status", res.Status, "revisions", res.Revisions,
		"elapsed", time.Since(sess.StartedAt))
	return res, nil
}

func (o *Orchestrator) fail(sess *Session, stage string, err error) (Result, error) {
	sess.State = StateFailed
	o.log.Error("pipeline failed", "session", sess.ID, "stage", stage, "error", err)
	return Result{}, &PipelineError{Stage: stage, Err: err}
}
