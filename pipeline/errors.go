package pipeline

import "fmt"

// RetrievalError reports a failed search query. It is recoverable: the
// research stage logs it and moves on.
type RetrievalError struct {
	Query string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for query %q: %v", e.Query, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError reports a transport or provider failure on a generation
// call. Recoverable up to the stage retry bound.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SchemaValidationError reports structured model output that did not match
// the expected schema. Recoverable up to the stage retry bound; the
// validation message is echoed back to the model on retry.
type SchemaValidationError struct {
	Detail string
}

func (e *SchemaValidationError) Error() string {
	return "schema validation failed: " + e.Detail
}

// RenderError reports a slide plan the renderer cannot express. Always
// fatal and surfaced unmodified; the pipeline never repairs a rejected plan.
type RenderError struct {
	SlideIndex int
	Detail     string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed at slide %d: %s", e.SlideIndex, e.Detail)
}

// PipelineError wraps a fatal stage failure with the stage name for
// diagnostics.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed in %s stage: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
