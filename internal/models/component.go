// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
)

// ErrUnknownComponent is returned when an article uses a component tag
// the renderer does not provide.
var ErrUnknownComponent = errors.New("unknown component")

// ComponentKind is a custom article component, written as a capitalised
// tag in article sources (for example <Callout type="warning">).
type ComponentKind string

const (
	ComponentCallout     ComponentKind = "Callout"
	ComponentTabs        ComponentKind = "Tabs"
	ComponentTab         ComponentKind = "Tab"
	ComponentDiagram     ComponentKind = "Diagram"
	ComponentMetricsCard ComponentKind = "MetricsCard"
	ComponentMetric      ComponentKind = "Metric"
	ComponentCodeBlock   ComponentKind = "CodeBlock"
)

// Components lists every supported component kind.
func Components() []ComponentKind {
	return []ComponentKind{
		ComponentCallout, ComponentTabs, ComponentTab, ComponentDiagram,
		ComponentMetricsCard, ComponentMetric, ComponentCodeBlock,
	}
}

// ParseComponent validates a component tag name. Matching is exact:
// "callout" is plain HTML, "Callout" is the component.
func ParseComponent(name string) (ComponentKind, error) {
	for _, k := range Components() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: <%s>", ErrUnknownComponent, name)
}

// Element returns the lowercase element name the HTML parser produces for
// the component tag.
func (k ComponentKind) Element() string {
	switch k {
	case ComponentCallout:
		return "callout"
	case ComponentTabs:
		return "tabs"
	case ComponentTab:
		return "tab"
	case ComponentDiagram:
		return "diagram"
	case ComponentMetricsCard:
		return "metricscard"
	case ComponentMetric:
		return "metric"
	case ComponentCodeBlock:
		return "codeblock"
	}
	panic(fmt.Sprintf("models: unhandled component kind %q", string(k)))
}
