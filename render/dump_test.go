package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"auto_ppt_generator/pipeline"
)

func TestDumpPlan(t *testing.T) {
	plan, _ := testDeck()
	path := filepath.Join(t.TempDir(), "plan.json")

	if err := DumpPlan(plan, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	doc := gjson.ParseBytes(b)
	if got := doc.Get("slides.#").Int(); got != 2 {
		t.Errorf("dumped %d slides, want 2", got)
	}
	if got := doc.Get("slides.1.layout").String(); got != "content" {
		t.Errorf("slides.1.layout = %q", got)
	}
	if doc.Get("generator").String() != "auto_ppt_generator" {
		t.Error("generator stamp is missing")
	}
	if !doc.Get("generated_at").Exists() {
		t.Error("generated_at stamp is missing")
	}
}

func TestDumpResearch(t *testing.T) {
	bundle := pipeline.ResearchBundle{
		{Text: "Solar capacity grew 24% in 2025.", SourceURL: "https://example.com/solar", Relevance: 0.93},
	}
	path := filepath.Join(t.TempDir(), "research.json")

	if err := DumpResearch(bundle, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	doc := gjson.ParseBytes(b)
	if got := doc.Get("findings.0.source_url").String(); got != "https://example.com/solar" {
		t.Errorf("findings.0.source_url = %q", got)
	}
	if !doc.Get("generated_at").Exists() {
		t.Error("generated_at stamp is missing")
	}
}
