// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// MatchType records which field of a search item matched the query.
type MatchType string

const (
	MatchTitle       MatchType = "title"
	MatchDescription MatchType = "description"
	MatchTag         MatchType = "tag"
)

// SearchItem is a category flattened for search, carrying the values the
// result list needs without another index lookup.
type SearchItem struct {
	Category    Category `json:"category"`
	Href        string   `json:"href"`
	ParentTitle string   `json:"parentTitle,omitempty"`
}

// SearchResult is a matched SearchItem together with its match type.
type SearchResult struct {
	SearchItem
	MatchType MatchType `json:"matchType"`
}

// SearchGroup collects results that share the same root topic.
type SearchGroup struct {
	RootID    string         `json:"rootId"`
	RootTitle string         `json:"rootTitle"`
	Results   []SearchResult `json:"results"`
}
