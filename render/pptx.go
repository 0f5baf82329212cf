// Package render turns a finalized slide plan into presentation artifacts:
// a PPTX binary, JSON dumps for inspection, and an HTML preview.
package render

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"auto_ppt_generator/pipeline"
)

// Slide surface in EMUs, 16:9.
const (
	slideWidthEMU  = 12192000
	slideHeightEMU = 6858000
)

// PPTX writes a minimal Office Open XML presentation package. Pure Go, no
// external PowerPoint dependency.
type PPTX struct{}

func NewPPTX() *PPTX {
	return &PPTX{}
}

// Render serializes the plan into a .pptx byte stream. A SlideSpec that
// references missing content, an unknown layout, or an unknown element kind
// yields a RenderError; the plan is never silently downgraded.
func (p *PPTX) Render(_ context.Context, title string, plan pipeline.SlidePlan, draft pipeline.ContentDraft) ([]byte, error) {
	if err := checkPlan(plan, draft); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML(len(plan))},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(len(plan))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(plan))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for i, spec := range plan {
		body, err := slideXML(spec, draft)
		if err != nil {
			return nil, err
		}
		parts = append(parts,
			struct {
				name string
				body string
			}{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), body},
			struct {
				name string
				body string
			}{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRelsXML},
		)
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	_ = title // the deck title lives on slide 0; kept for future docProps
	return buf.Bytes(), nil
}

// checkPlan enforces the renderer's contract up front so a bad plan fails
// before any bytes are written.
func checkPlan(plan pipeline.SlidePlan, draft pipeline.ContentDraft) error {
	content := make(map[int]bool, len(draft))
	for _, c := range draft {
		content[c.Index] = true
	}
	for _, spec := range plan {
		if !pipeline.KnownLayout(spec.Layout) {
			return &pipeline.RenderError{SlideIndex: spec.Index, Detail: fmt.Sprintf("unsupported layout %q", spec.Layout)}
		}
		if !content[spec.Index] {
			return &pipeline.RenderError{SlideIndex: spec.Index, Detail: "no content for slide index"}
		}
		for _, el := range spec.Elements {
			switch el.Kind {
			case pipeline.ElementTextBlock, pipeline.ElementBulletList,
				pipeline.ElementImagePlaceholder, pipeline.ElementChartPlaceholder:
			default:
				return &pipeline.RenderError{SlideIndex: spec.Index, Detail: fmt.Sprintf("unsupported element kind %q", el.Kind)}
			}
			if !content[el.ContentRef] {
				return &pipeline.RenderError{SlideIndex: spec.Index, Detail: fmt.Sprintf("element references missing content %d", el.ContentRef)}
			}
		}
	}
	return nil
}

func slideXML(spec pipeline.SlideSpec, draft pipeline.ContentDraft) (string, error) {
	byIndex := make(map[int]pipeline.SlideContent, len(draft))
	for _, c := range draft {
		byIndex[c.Index] = c
	}

	var shapes strings.Builder
	shapeID := 2

	// Title bar. Title-style layouts center it.
	titleY, titleH := 0.04, 0.14
	titleSize := 3200
	switch spec.Layout {
	case pipeline.LayoutTitle, pipeline.LayoutSection, pipeline.LayoutTitleOnly:
		titleY, titleH = 0.30, 0.18
		titleSize = 4400
	}
	shapes.WriteString(textShape(shapeID, "Title", geom{0.05, titleY, 0.90, titleH},
		[]para{{text: spec.Title, size: titleSize, bold: true}}))
	shapeID++

	for _, el := range spec.Elements {
		content := byIndex[el.ContentRef]
		g := geom{el.X, el.Y, el.W, el.H}
		switch el.Kind {
		case pipeline.ElementTextBlock:
			text := content.Notes
			if text == "" && len(content.Bullets) > 0 {
				text = strings.Join(content.Bullets, " ")
			}
			shapes.WriteString(textShape(shapeID, "Text", g, []para{{text: text, size: 2000}}))
		case pipeline.ElementBulletList:
			paras := make([]para, 0, len(content.Bullets))
			for _, b := range content.Bullets {
				paras = append(paras, para{text: b, size: 1800, bullet: true})
			}
			shapes.WriteString(textShape(shapeID, "Bullets", g, paras))
		case pipeline.ElementImagePlaceholder:
			shapes.WriteString(placeholderShape(shapeID, "Image placeholder", g))
		case pipeline.ElementChartPlaceholder:
			shapes.WriteString(placeholderShape(shapeID, "Chart placeholder", g))
		}
		shapeID++
	}

	return fmt.Sprintf(slideTemplate, shapes.String()), nil
}

type geom struct {
	x, y, w, h float64
}

func (g geom) emu() (x, y, w, h int) {
	return int(g.x * slideWidthEMU), int(g.y * slideHeightEMU),
		int(g.w * slideWidthEMU), int(g.h * slideHeightEMU)
}

type para struct {
	text   string
	size   int // hundredths of a point
	bold   bool
	bullet bool
}

func textShape(id int, name string, g geom, paras []para) string {
	x, y, w, h := g.emu()
	var body strings.Builder
	for _, p := range paras {
		bold := 0
		if p.bold {
			bold = 1
		}
		pPr := "<a:pPr><a:buNone/></a:pPr>"
		if p.bullet {
			pPr = `<a:pPr marL="285750" indent="-285750"><a:buChar char="•"/></a:pPr>`
		}
		body.WriteString(fmt.Sprintf(
			`<a:p>%s<a:r><a:rPr lang="en-US" sz="%d" b="%d"/><a:t>%s</a:t></a:r></a:p>`,
			pPr, p.size, bold, xmlEscape(p.text)))
	}
	if len(paras) == 0 {
		body.WriteString("<a:p/>")
	}
	return fmt.Sprintf(
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
			`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, name, x, y, w, h, body.String())
}

func placeholderShape(id int, label string, g geom) string {
	x, y, w, h := g.emu()
	return fmt.Sprintf(
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`+
			`<a:solidFill><a:srgbClr val="E7E6E6"/></a:solidFill>`+
			`<a:ln><a:solidFill><a:srgbClr val="BFBFBF"/></a:solidFill></a:ln></p:spPr>`+
			`<p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/>`+
			`<a:p><a:pPr algn="ctr"><a:buNone/></a:pPr><a:r><a:rPr lang="en-US" sz="1400"/><a:t>%s</a:t></a:r></a:p>`+
			`</p:txBody></p:sp>`,
		id, label, x, y, w, h, xmlEscape(label))
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
