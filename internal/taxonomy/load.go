// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"voiceaikb/internal/models"
)

// Loader reads the full category list from a data source, in source order.
type Loader interface {
	Load(ctx context.Context) ([]models.Category, error)
}

// document is the on-disk layout of a taxonomy file.
type document struct {
	Categories []models.Category `json:"categories" yaml:"categories"`
}

// FileLoader reads the taxonomy from a YAML or JSON file.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a loader for the taxonomy file at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads and decodes the file. The format is chosen by extension:
// .json is decoded as JSON, anything else as YAML.
func (l *FileLoader) Load(ctx context.Context) ([]models.Category, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", l.Path, err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(l.Path), ".json") {
		format = FormatJSON
	}

	cats, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("decode taxonomy %s: %w", l.Path, err)
	}

	slog.Info("taxonomy file loaded", "path", l.Path, "categories", len(cats))
	return cats, nil
}

// Format selects the taxonomy file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// Decode reads a taxonomy document from r.
func Decode(r io.Reader, format Format) ([]models.Category, error) {
	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported taxonomy format %d", format)
	}
	return doc.Categories, nil
}

// Build loads categories through l and indexes them.
func Build(ctx context.Context, l Loader) (*Index, error) {
	cats, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := New(cats)
	if err != nil {
		return nil, fmt.Errorf("index taxonomy: %w", err)
	}
	return idx, nil
}
