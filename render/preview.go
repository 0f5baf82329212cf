package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"auto_ppt_generator/pipeline"
)

// Preview renders the deck as a standalone HTML page, one boxed section per
// slide. Bullets and speaker notes may contain markdown; goldmark converts
// them.
func Preview(title string, plan pipeline.SlidePlan, draft pipeline.ContentDraft) ([]byte, error) {
	if err := checkPlan(plan, draft); err != nil {
		return nil, err
	}
	byIndex := make(map[int]pipeline.SlideContent, len(draft))
	for _, c := range draft {
		byIndex[c.Index] = c
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}" +
		".slide{border:1px solid #ccc;border-radius:6px;padding:1em 1.5em;margin:1.5em 0}" +
		".meta{color:#888;font-size:0.8em}.notes{background:#f7f7f7;padding:0.5em;font-size:0.9em}</style>\n")
	sb.WriteString("</head><body>\n")
	sb.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")

	for _, spec := range plan {
		content := byIndex[spec.Index]
		sb.WriteString("<div class=\"slide\">\n")
		sb.WriteString(fmt.Sprintf("<div class=\"meta\">slide %d · layout %s</div>\n", spec.Index, spec.Layout))
		sb.WriteString("<h2>" + html.EscapeString(spec.Title) + "</h2>\n")
		if len(content.Bullets) > 0 {
			sb.WriteString("<ul>\n")
			for _, b := range content.Bullets {
				inner, err := mdToHTML(b)
				if err != nil {
					return nil, err
				}
				sb.WriteString("<li>" + inner + "</li>\n")
			}
			sb.WriteString("</ul>\n")
		}
		if content.Notes != "" {
			inner, err := mdToHTML(content.Notes)
			if err != nil {
				return nil, err
			}
			sb.WriteString("<div class=\"notes\">" + inner + "</div>\n")
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body></html>\n")
	return []byte(sb.String()), nil
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
