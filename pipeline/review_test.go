package pipeline

import (
	"context"
	"reflect"
	"testing"

	"auto_ppt_generator/logger"
)

func reviewFixtures(t *testing.T) (SlidePlan, ContentDraft) {
	t.Helper()
	draft := testDraft(3)
	d := NewDesigner(MockLLM{}, Config{}, logger.Nop())
	plan, err := d.Run(context.Background(), draft, nil, nil)
	if err != nil {
		t.Fatalf("design failed: %v", err)
	}
	return plan, draft
}

func TestReviewerApproves(t *testing.T) {
	plan, draft := reviewFixtures(t)
	r := NewReviewer(MockLLM{}, Config{}, logger.Nop())
	verdict, err := r.Run(context.Background(), plan, draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Approved {
		t.Error("expected approval from the mock reviewer")
	}
}

func TestReviewerIsIdempotent(t *testing.T) {
	plan, draft := reviewFixtures(t)
	llm := &routerLLM{onReview: func(int, ChatPrompt) (string, error) {
		return `{"approved":false,"issues":[{"slide_index":1,"severity":"minor","description":"title is vague"}]}`, nil
	}}
	r := NewReviewer(llm, Config{}, logger.Nop())

	first, err := r.Run(context.Background(), plan, draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Run(context.Background(), plan, draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("verdicts differ across identical inputs: %+v vs %+v", first, second)
	}
}

func TestReviewerRetriesMalformedVerdict(t *testing.T) {
	llm := &routerLLM{onReview: func(n int, _ ChatPrompt) (string, error) {
		if n == 0 {
			// Approved verdicts must not carry issues.
			return `{"approved":true,"issues":[{"slide_index":0,"severity":"minor","description":"x"}]}`, nil
		}
		return `{"approved":true}`, nil
	}}
	plan, draft := reviewFixtures(t)
	r := NewReviewer(llm, Config{MaxGenerationRetries: 2}, logger.Nop())
	verdict, err := r.Run(context.Background(), plan, draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Approved || len(verdict.Issues) != 0 {
		t.Errorf("verdict = %+v, want clean approval", verdict)
	}
	if llm.reviewCalls != 2 {
		t.Errorf("review calls = %d, want 2", llm.reviewCalls)
	}
}

func TestValidateVerdict(t *testing.T) {
	tests := []struct {
		name    string
		verdict ReviewVerdict
		wantErr bool
	}{
		{name: "approved", verdict: ReviewVerdict{Approved: true}},
		{
			name: "needs revision with issue",
			verdict: ReviewVerdict{Issues: []Issue{
				{SlideIndex: 1, Severity: SeverityMajor, Description: "too dense"},
			}},
		},
		{name: "needs revision without issues", verdict: ReviewVerdict{}, wantErr: true},
		{
			name: "issue out of range",
			verdict: ReviewVerdict{Issues: []Issue{
				{SlideIndex: 9, Severity: SeverityMinor, Description: "x"},
			}},
			wantErr: true,
		},
		{
			name: "unknown severity",
			verdict: ReviewVerdict{Issues: []Issue{
				{SlideIndex: 0, Severity: "catastrophic", Description: "x"},
			}},
			wantErr: true,
		},
		{
			name: "empty description",
			verdict: ReviewVerdict{Issues: []Issue{
				{SlideIndex: 0, Severity: SeverityMinor, Description: " "},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVerdict(tt.verdict, 3)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
