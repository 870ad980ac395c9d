// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"html/template"

	"voiceaikb/internal/markdown"
	"voiceaikb/internal/models"
)

// Library reads and renders articles. Rendered documents are kept in
// memory until the underlying file changes.
type Library struct {
	source Source
	cache  *docCache
}

// NewLibrary returns a library backed by source.
func NewLibrary(source Source) *Library {
	return &Library{source: source, cache: newDocCache()}
}

// Load reads, parses and renders the article for slugPath. It returns
// ErrNotFound when the source has no file for the path.
func (l *Library) Load(ctx context.Context, slugPath []string) (*models.Document, error) {
	raw, err := l.source.Read(ctx, slugPath)
	if err != nil {
		return nil, err
	}

	key := keyFor(slugPath, raw)
	if doc := l.cache.get(key); doc != nil {
		return doc, nil
	}

	doc, err := Render(raw)
	if err != nil {
		return nil, err
	}
	l.cache.put(key, doc)
	return doc, nil
}

// Render turns a raw article file into a Document.
func Render(raw []byte) (*models.Document, error) {
	meta, body, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	res, err := markdown.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render article: %w", err)
	}

	out, err := expandComponents(res.HTML)
	if err != nil {
		return nil, fmt.Errorf("expand components: %w", err)
	}

	return &models.Document{
		Meta:     meta,
		HTML:     template.HTML(out),
		Headings: res.Headings,
	}, nil
}
