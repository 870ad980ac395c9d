// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// NavNode is one entry of the sidebar navigation tree.
type NavNode struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Href     string    `json:"href"`
	Icon     Icon      `json:"icon,omitempty"`
	Children []NavNode `json:"children"`
}

// Breadcrumb is a single (label, href) pair of an ancestor chain.
type Breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// TopicLink points at a neighbouring topic for previous/next pagination.
type TopicLink struct {
	Title string   `json:"title"`
	Href  string   `json:"href"`
	Slugs []string `json:"slugs"`
}
