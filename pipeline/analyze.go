package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultSlideCount is used when neither the prompt text nor the caller
// specifies how many slides to produce.
const DefaultSlideCount = 5

// RequestAnalysis is what could be extracted from the free-text request.
type RequestAnalysis struct {
	Topic      string
	SlideCount int
	Audience   string
	Style      string
}

var (
	topicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)presentation\s+(?:about|on|regarding)\s+(.+)`),
		regexp.MustCompile(`(?i)\babout\s+(.+)`),
		regexp.MustCompile(`(?i)\bon\s+(.+)`),
		regexp.MustCompile(`(?i)\bregarding\s+(.+)`),
	}
	slideCountPattern = regexp.MustCompile(`(?i)(\d+)[\s-]*(?:slide|page|section)`)
)

type keywordClass struct {
	name     string
	keywords []string
}

// Ordered so matches are deterministic when multiple classes apply.
var audienceClasses = []keywordClass{
	{"executive", []string{"executive", "management", "board", "ceo", "c-level"}},
	{"technical", []string{"technical", "developer", "engineer", "programmer"}},
	{"academic", []string{"academic", "research", "study", "university", "college"}},
}

var styleClasses = []keywordClass{
	{"creative", []string{"creative", "artistic", "visual"}},
	{"educational", []string{"educational", "teaching", "learning", "tutorial"}},
	{"casual", []string{"casual", "informal", "friendly", "relaxed"}},
}

// AnalyzeRequest extracts presentation requirements from the raw prompt
// text. It is heuristic: anything it cannot find gets a sensible default.
func AnalyzeRequest(text string) RequestAnalysis {
	a := RequestAnalysis{
		Topic:      strings.TrimSpace(text),
		SlideCount: DefaultSlideCount,
		Audience:   "general",
		Style:      "professional",
	}

	for _, re := range topicPatterns {
		if m := re.FindStringSubmatch(text); len(m) >= 2 {
			a.Topic = strings.TrimSpace(strings.TrimRight(m[1], ".!?"))
			break
		}
	}

	if m := slideCountPattern.FindStringSubmatch(text); len(m) >= 2 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			a.SlideCount = n
		}
	}

	lower := strings.ToLower(text)
	for _, c := range audienceClasses {
		if containsAny(lower, c.keywords) {
			a.Audience = c.name
			break
		}
	}
	for _, c := range styleClasses {
		if containsAny(lower, c.keywords) {
			a.Style = c.name
			break
		}
	}

	return a
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// slideCount resolves the slide count for a prompt: an explicit hint wins,
// then whatever the text says, then the default.
func slideCount(p Prompt) int {
	if p.SlideCountHint > 0 {
		return p.SlideCountHint
	}
	return AnalyzeRequest(p.Text).SlideCount
}
