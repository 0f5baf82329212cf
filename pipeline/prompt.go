package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildContentPrompt asks the model for the full slide content draft as a
// single JSON object.
func BuildContentPrompt(p Prompt, analysis RequestAnalysis, count int, research ResearchBundle) ChatPrompt {
	var sb strings.Builder
	sb.WriteString("You are a professional presentation content writer. Respond with a single JSON object only, no explanation.\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- Produce exactly %d slides, indexed 0 to %d.\n", count, count-1))
	sb.WriteString("- Every slide needs a non-empty title.\n")
	sb.WriteString("- 3 to 7 short bullet points per content slide; the opening slide may have fewer.\n")
	sb.WriteString("- Optional speaker notes per slide.\n")
	sb.WriteString(fmt.Sprintf("- Audience: %s. Style: %s.\n", analysis.Audience, analysis.Style))
	sb.WriteString("JSON shape: {\"slides\":[{\"index\":0,\"title\":\"...\",\"bullets\":[\"...\"],\"notes\":\"...\"}]}\n")

	var ub strings.Builder
	ub.WriteString(fmt.Sprintf("Topic: %s\n", analysis.Topic))
	if len(research) > 0 {
		ub.WriteString("\nResearch findings to draw on (cite facts, not URLs, in the slides):\n")
		for i, f := range research {
			ub.WriteString(fmt.Sprintf("%d. %s (source: %s)\n", i+1, f.Text, f.SourceURL))
		}
	}
	ub.WriteString("\nOriginal request: " + p.Text + "\nReturn the JSON object now.")

	return ChatPrompt{System: sb.String(), User: ub.String()}
}

// BuildDesignPrompt asks the model to choose a layout and style hints for
// every slide in the draft.
func BuildDesignPrompt(draft ContentDraft) ChatPrompt {
	return designPrompt(draft, nil, nil)
}

// BuildRedesignPrompt asks the model to redesign only the slides named in
// the review issues. The previous layout choices are included so the model
// adjusts rather than starts over.
func BuildRedesignPrompt(draft ContentDraft, plan SlidePlan, issues []Issue) ChatPrompt {
	return designPrompt(draft, plan, issues)
}

func designPrompt(draft ContentDraft, plan SlidePlan, issues []Issue) ChatPrompt {
	var sb strings.Builder
	sb.WriteString("You are a professional presentation designer. Respond with a single JSON object only, no explanation.\n")
	sb.WriteString("Choose a layout for each slide from: title, content, section, two_content, comparison, title_only, caption.\n")
	sb.WriteString("Guidance:\n")
	sb.WriteString("- title: opening slide (index 0).\n")
	sb.WriteString("- content: standard bullet slide.\n")
	sb.WriteString("- section: overview, summary or conclusion headers.\n")
	sb.WriteString("- two_content / comparison: content that splits naturally in two.\n")
	sb.WriteString("- title_only: short, high-impact statements.\n")
	sb.WriteString("- caption: content describing a chart, diagram or image.\n")
	sb.WriteString("style_hints is an optional string map (e.g. {\"emphasis\":\"high\"}).\n")
	sb.WriteString("JSON shape: {\"slides\":[{\"index\":0,\"layout\":\"title\",\"style_hints\":{}}]}\n")

	var ub strings.Builder
	if len(issues) > 0 {
		affected := map[int]bool{}
		ub.WriteString("A reviewer flagged problems with the current design. Redesign ONLY the slides listed below; do not mention any other slide in your reply.\n")
		for _, is := range issues {
			ub.WriteString(fmt.Sprintf("- slide %d (%s): %s\n", is.SlideIndex, is.Severity, is.Description))
			affected[is.SlideIndex] = true
		}
		ub.WriteString("\nCurrent layout of the affected slides:\n")
		for _, s := range plan {
			if affected[s.Index] {
				ub.WriteString(fmt.Sprintf("- slide %d: layout=%s\n", s.Index, s.Layout))
			}
		}
		ub.WriteString("\n")
	}
	ub.WriteString("Slide content:\n")
	ub.WriteString(mustJSON(struct {
		Slides ContentDraft `json:"slides"`
	}{draft}))
	ub.WriteString("\nReturn the JSON object now.")

	return ChatPrompt{System: sb.String(), User: ub.String()}
}

// BuildReviewPrompt asks the model to critique the plan against fixed
// quality criteria and return a verdict.
func BuildReviewPrompt(plan SlidePlan, draft ContentDraft) ChatPrompt {
	var sb strings.Builder
	sb.WriteString("You are a presentation reviewer. Respond with a single JSON object only, no explanation.\n")
	sb.WriteString("Evaluate every slide against these criteria:\n")
	sb.WriteString("- Content density: 3-7 bullets on content slides, none overlong.\n")
	sb.WriteString("- Title presence: every slide has a meaningful title.\n")
	sb.WriteString("- Layout fit: the chosen layout matches the content shape.\n")
	sb.WriteString("Approve unless a slide clearly violates a criterion.\n")
	sb.WriteString("severity is \"minor\" or \"major\".\n")
	sb.WriteString("JSON shape: {\"approved\":true,\"issues\":[{\"slide_index\":0,\"severity\":\"minor\",\"description\":\"...\"}]}\n")

	var ub strings.Builder
	ub.WriteString("Slide plan:\n")
	ub.WriteString(mustJSON(struct {
		Slides SlidePlan `json:"slides"`
	}{plan}))
	ub.WriteString("\nSlide content:\n")
	ub.WriteString(mustJSON(struct {
		Slides ContentDraft `json:"slides"`
	}{draft}))
	ub.WriteString("\nReturn the JSON verdict now.")

	return ChatPrompt{System: sb.String(), User: ub.String()}
}

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
