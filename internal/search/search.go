// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search implements substring search over taxonomy metadata.
// Matching is case-insensitive and tries title, description and tags in
// that order; the first field that matches decides the result's MatchType.
package search

import (
	"sort"
	"strings"

	"voiceaikb/internal/models"
)

const (
	// PageLimit caps results on the full search page.
	PageLimit = 20
	// QuickLimit caps results in the header quick-search dropdown.
	QuickLimit = 8
)

// Search returns the items matching query. Title matches rank before all
// other matches; within each tier results are ordered by category Order,
// keeping input order on ties. limit <= 0 disables truncation.
func Search(query string, items []models.SearchItem, limit int) []models.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)

	var results []models.SearchResult
	for _, item := range items {
		if mt, ok := match(q, &item.Category); ok {
			results = append(results, models.SearchResult{SearchItem: item, MatchType: mt})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		ti := results[i].MatchType == models.MatchTitle
		tj := results[j].MatchType == models.MatchTitle
		if ti != tj {
			return ti
		}
		return results[i].Category.Order < results[j].Category.Order
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// match reports the first field of c containing the lowercased query q.
func match(q string, c *models.Category) (models.MatchType, bool) {
	if strings.Contains(strings.ToLower(c.Title), q) {
		return models.MatchTitle, true
	}
	if strings.Contains(strings.ToLower(c.Description), q) {
		return models.MatchDescription, true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return models.MatchTag, true
		}
	}
	return "", false
}

// RootResolver maps a category id to its root ancestor.
type RootResolver interface {
	RootOf(id string) *models.Category
}

// Group buckets results under their root topic. Groups appear in the
// order their first result appears; results keep their ranked order.
func Group(results []models.SearchResult, roots RootResolver) []models.SearchGroup {
	var groups []models.SearchGroup
	pos := make(map[string]int)
	for _, r := range results {
		rootID, rootTitle := r.Category.ID, r.Category.Title
		if root := roots.RootOf(r.Category.ID); root != nil {
			rootID, rootTitle = root.ID, root.Title
		}
		i, ok := pos[rootID]
		if !ok {
			i = len(groups)
			pos[rootID] = i
			groups = append(groups, models.SearchGroup{RootID: rootID, RootTitle: rootTitle})
		}
		groups[i].Results = append(groups[i].Results, r)
	}
	return groups
}
