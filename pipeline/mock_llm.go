package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MockLLM is a deterministic stand-in for the text-generation provider so
// the pipeline can run offline. It recognizes the stage from the system
// prompt and answers with schema-correct JSON.
type MockLLM struct{}

var (
	mockCountPattern = regexp.MustCompile(`exactly (\d+) slides`)
	mockTopicPattern = regexp.MustCompile(`(?m)^Topic: (.+)$`)
	mockIssuePattern = regexp.MustCompile(`(?m)^- slide (\d+) \(`)
)

func (m MockLLM) Complete(_ context.Context, prompt ChatPrompt) (string, error) {
	switch {
	case strings.Contains(prompt.System, "content writer"):
		return m.contentJSON(prompt)
	case strings.Contains(prompt.System, "presentation designer"):
		return m.designJSON(prompt)
	case strings.Contains(prompt.System, "presentation reviewer"):
		return `{"approved": true}`, nil
	}
	return "", errors.New("mock llm: unrecognized prompt")
}

func (m MockLLM) contentJSON(prompt ChatPrompt) (string, error) {
	count := DefaultSlideCount
	if match := mockCountPattern.FindStringSubmatch(prompt.System); len(match) >= 2 {
		if n, err := strconv.Atoi(match[1]); err == nil {
			count = n
		}
	}
	topic := "the requested topic"
	if match := mockTopicPattern.FindStringSubmatch(prompt.User); len(match) >= 2 {
		topic = strings.TrimSpace(match[1])
	}

	draft := make(ContentDraft, count)
	for i := range draft {
		switch i {
		case 0:
			draft[i] = SlideContent{
				Index:   0,
				Title:   capitalize(topic),
				Bullets: []string{"An overview of " + topic},
				Notes:   "Welcome the audience and introduce the topic.",
			}
		case count - 1:
			draft[i] = SlideContent{
				Index:   i,
				Title:   "Summary",
				Bullets: []string{"Key takeaways on " + topic, "Questions and discussion"},
			}
		default:
			draft[i] = SlideContent{
				Index: i,
				Title: fmt.Sprintf("Aspect %d of %s", i, topic),
				Bullets: []string{
					fmt.Sprintf("First point on aspect %d", i),
					fmt.Sprintf("Second point on aspect %d", i),
					fmt.Sprintf("Third point on aspect %d", i),
				},
			}
		}
	}
	return marshalMock(contentResponse{Slides: draft})
}

func (m MockLLM) designJSON(prompt ChatPrompt) (string, error) {
	// Revision pass: answer only for the flagged slides.
	if strings.Contains(prompt.User, "Redesign ONLY") {
		matches := mockIssuePattern.FindAllStringSubmatch(prompt.User, -1)
		seen := make(map[int]bool)
		var choices []designChoice
		for _, match := range matches {
			n, err := strconv.Atoi(match[1])
			if err != nil || seen[n] {
				continue
			}
			seen[n] = true
			choices = append(choices, designChoice{Index: n, Layout: LayoutContent})
		}
		return marshalMock(designResponse{Slides: choices})
	}

	payload, err := extractJSON(prompt.User)
	if err != nil {
		return "", err
	}
	var req contentResponse
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", err
	}

	choices := make([]designChoice, len(req.Slides))
	for i, s := range req.Slides {
		layout := LayoutContent
		lower := strings.ToLower(s.Title)
		switch {
		case s.Index == 0:
			layout = LayoutTitle
		case strings.Contains(lower, "overview") || strings.Contains(lower, "summary") || strings.Contains(lower, "conclusion"):
			layout = LayoutSection
		}
		choices[i] = designChoice{Index: s.Index, Layout: layout}
	}
	return marshalMock(designResponse{Slides: choices})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func marshalMock(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
