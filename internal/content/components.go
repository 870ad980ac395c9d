// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"voiceaikb/internal/models"
)

// CalloutKinds lists the accepted values of <Callout type="...">.
var CalloutKinds = map[string]string{
	"info":    "Note",
	"tip":     "Tip",
	"warning": "Warning",
	"danger":  "Danger",
}

// componentSelector matches every component element. Element names are
// lowercase because the HTML parser folds tag case.
var componentSelector = func() string {
	names := make([]string, 0, len(models.Components()))
	for _, k := range models.Components() {
		names = append(names, k.Element())
	}
	return strings.Join(names, ", ")
}()

// expandComponents replaces component elements in rendered HTML with their
// themed markup. Elements are handled in reverse document order so nested
// components are expanded before the component that contains them.
func expandComponents(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	all := doc.Find(componentSelector)
	for i := all.Length() - 1; i >= 0; i-- {
		sel := all.Eq(i)
		out, err := expand(sel)
		if err != nil {
			return "", err
		}
		sel.ReplaceWithHtml(out)
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	return strings.TrimSpace(body), nil
}

// expand builds the replacement markup for one component element.
func expand(sel *goquery.Selection) (string, error) {
	inner, err := sel.Html()
	if err != nil {
		return "", err
	}
	attr := func(name string) string {
		return html.EscapeString(sel.AttrOr(name, ""))
	}

	switch goquery.NodeName(sel) {
	case models.ComponentCallout.Element():
		kind := sel.AttrOr("type", "info")
		label, ok := CalloutKinds[kind]
		if !ok {
			return "", fmt.Errorf("%w: callout type %q", models.ErrUnknownComponent, kind)
		}
		if t := attr("title"); t != "" {
			label = t
		}
		return fmt.Sprintf(`<aside class="callout callout-%s" role="note"><p class="callout-title">%s</p>%s</aside>`,
			kind, label, inner), nil

	case models.ComponentTab.Element():
		return fmt.Sprintf(`<section class="tab-panel" role="tabpanel" data-label="%s">%s</section>`,
			attr("label"), inner), nil

	case models.ComponentTabs.Element():
		var buttons, panels strings.Builder
		i := 0
		sel.ChildrenFiltered("section.tab-panel").Each(func(_ int, panel *goquery.Selection) {
			label := html.EscapeString(panel.AttrOr("data-label", fmt.Sprintf("Tab %d", i+1)))
			selected := "false"
			hidden := " hidden"
			if i == 0 {
				selected, hidden = "true", ""
			}
			fmt.Fprintf(&buttons, `<button type="button" role="tab" aria-selected="%s" data-tab="%d">%s</button>`, selected, i, label)
			body, _ := panel.Html()
			fmt.Fprintf(&panels, `<section class="tab-panel" role="tabpanel" data-tab="%d"%s>%s</section>`, i, hidden, body)
			i++
		})
		return fmt.Sprintf(`<div class="tabs"><div class="tab-list" role="tablist">%s</div>%s</div>`,
			buttons.String(), panels.String()), nil

	case models.ComponentDiagram.Element():
		caption := ""
		if t := attr("title"); t != "" {
			caption = "<figcaption>" + t + "</figcaption>"
		}
		return fmt.Sprintf(`<figure class="diagram">%s%s</figure>`, inner, caption), nil

	case models.ComponentMetric.Element():
		trend := ""
		if t := attr("trend"); t != "" {
			trend = fmt.Sprintf(` data-trend="%s"`, t)
		}
		return fmt.Sprintf(`<div class="metric"%s><dt>%s</dt><dd>%s<span class="metric-unit">%s</span></dd></div>`,
			trend, attr("label"), attr("value"), attr("unit")), nil

	case models.ComponentMetricsCard.Element():
		title := ""
		if t := attr("title"); t != "" {
			title = `<h4 class="metrics-title">` + t + `</h4>`
		}
		return fmt.Sprintf(`<div class="metrics-card">%s<dl class="metrics">%s</dl></div>`,
			title, strings.TrimSpace(inner)), nil

	case models.ComponentCodeBlock.Element():
		title := ""
		if t := attr("title"); t != "" {
			title = `<div class="code-block-title">` + t + `</div>`
		}
		return fmt.Sprintf(`<div class="code-block">%s<button type="button" class="copy-code" aria-label="Copy code">Copy</button>%s</div>`,
			title, inner), nil
	}

	return "", fmt.Errorf("%w: <%s>", models.ErrUnknownComponent, goquery.NodeName(sel))
}
