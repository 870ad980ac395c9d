// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data types shared across the knowledge
// repository: taxonomy categories, navigation and search projections, and
// parsed article documents.
package models

// Category is a single node of the topic taxonomy. The taxonomy is loaded
// as a flat list; the hierarchy is expressed through ParentID references.
type Category struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug" yaml:"slug"`
	Description string   `json:"description" yaml:"description"`
	ParentID    *string  `json:"parentId" yaml:"parentId"`
	Order       int      `json:"order" yaml:"order"`
	Tags        []string `json:"tags" yaml:"tags"`
	Icon        Icon     `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// IsRoot reports whether the category declares no parent. Orphans whose
// parent is missing are not detected here; the taxonomy index handles them.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Parent returns the parent id, or "" for a root category.
func (c *Category) Parent() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}
