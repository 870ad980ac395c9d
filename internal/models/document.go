// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "html/template"

// Frontmatter is the YAML metadata block at the top of an article file.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Related     []string `yaml:"related"`
	LastUpdated string   `yaml:"lastUpdated"`
	Difficulty  string   `yaml:"difficulty"`
	ReadingTime string   `yaml:"readingTime"`
}

// Heading is one entry of an article's table of contents.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Document is a fully rendered article.
type Document struct {
	Meta     Frontmatter
	HTML     template.HTML
	Headings []Heading
}
