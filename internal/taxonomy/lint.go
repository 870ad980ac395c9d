// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"
	"strings"

	"voiceaikb/internal/models"
	"voiceaikb/internal/slug"
)

// Severity grades a lint finding.
type Severity string

const (
	// SeverityError marks data that breaks lookups, e.g. unreachable topics.
	SeverityError Severity = "error"
	// SeverityWarning marks data the index tolerates.
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a category list.
type Issue struct {
	ID       string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	id := i.ID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, id, i.Message)
}

// Lint reports problems in a category list that New accepts but that
// degrade the site: missing or duplicate ids, dangling parents, sibling slug
// collisions (only the first sibling is reachable), non-canonical slugs
// and empty titles. Cycles are reported by New itself.
func Lint(categories []models.Category) []Issue {
	var issues []Issue
	add := func(id string, sev Severity, format string, args ...any) {
		issues = append(issues, Issue{ID: id, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	ids := make(map[string]int, len(categories))
	for _, c := range categories {
		ids[c.ID]++
	}

	seenDup := make(map[string]bool)
	siblings := make(map[string]string) // parent key + "/" + slug -> first id
	for _, c := range categories {
		if ids[c.ID] > 1 && !seenDup[c.ID] {
			seenDup[c.ID] = true
			add(c.ID, SeverityWarning, "id used by %d categories, the last one wins", ids[c.ID])
		}
		if strings.TrimSpace(c.ID) == "" {
			add(c.ID, SeverityError, "missing id")
		}
		if strings.TrimSpace(c.Title) == "" {
			add(c.ID, SeverityWarning, "empty title")
		}
		if c.Slug == "" || strings.Contains(c.Slug, "/") {
			add(c.ID, SeverityError, "slug %q cannot form a URL segment", c.Slug)
		} else if !slug.Valid(c.Slug) {
			add(c.ID, SeverityWarning, "slug %q is not canonical, suggest %q", c.Slug, slug.Generate(c.Slug))
		}

		parent := ""
		if c.ParentID != nil {
			if _, ok := ids[*c.ParentID]; ok {
				parent = *c.ParentID
			} else {
				add(c.ID, SeverityWarning, "parent %q does not exist, shown as a root topic", *c.ParentID)
			}
		}

		key := parent + "/" + c.Slug
		if first, ok := siblings[key]; ok && first != c.ID {
			add(c.ID, SeverityError, "slug %q collides with sibling %q and is unreachable", c.Slug, first)
		} else if !ok {
			siblings[key] = c.ID
		}
	}

	return issues
}
