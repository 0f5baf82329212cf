package render

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tidwall/sjson"

	"auto_ppt_generator/pipeline"
)

// DumpPlan writes the slide plan to disk as pretty JSON for inspection,
// stamped with generation metadata.
func DumpPlan(plan pipeline.SlidePlan, path string) error {
	b, err := json.MarshalIndent(struct {
		Slides pipeline.SlidePlan `json:"slides"`
	}{plan}, "", "  ")
	if err != nil {
		return err
	}
	if b, err = sjson.SetBytes(b, "generator", "auto_ppt_generator"); err != nil {
		return err
	}
	if b, err = sjson.SetBytes(b, "generated_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// DumpResearch writes the research bundle to disk as pretty JSON.
func DumpResearch(bundle pipeline.ResearchBundle, path string) error {
	b, err := json.MarshalIndent(struct {
		Findings pipeline.ResearchBundle `json:"findings"`
	}{bundle}, "", "  ")
	if err != nil {
		return err
	}
	if b, err = sjson.SetBytes(b, "generated_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
